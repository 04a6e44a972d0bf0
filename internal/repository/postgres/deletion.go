package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
)

type deletionRepository struct {
	db *sql.DB
}

func NewDeletionRepository(db *sql.DB) repository.DeletionRepository {
	return &deletionRepository{db: db}
}

// ReassignAndDelete runs the local phase of member deletion in one
// transaction. The audit insert is part of the same atomic unit: if it
// fails, the reassignment and deletion roll back with it.
func (r *deletionRepository) ReassignAndDelete(ctx context.Context, targetID, reassignToID, orgID string, entry *domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin deletion transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET assignee_id = $1 WHERE assignee_id = $2 AND org_id = $3 AND status NOT IN ($4, $5)`,
		reassignToID, targetID, orgID, domain.TaskStatusDone, domain.TaskStatusCanceled)
	if err != nil {
		return fmt.Errorf("failed to reassign open tasks: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM client_assignments WHERE member_id = $1`, targetID)
	if err != nil {
		return fmt.Errorf("failed to remove client assignments: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = $1 AND org_id = $2`, targetID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	entry.CreatedOn = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_log (org_id, actor_id, action, target_type, target_id, detail, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.OrgID, entry.ActorID, entry.Action, entry.TargetType, entry.TargetID, entry.Detail, entry.CreatedOn)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion transaction: %w", err)
	}

	logger.Info("Member deleted and work reassigned", "target", targetID, "reassigned_to", reassignToID, "org", orgID)
	return nil
}
