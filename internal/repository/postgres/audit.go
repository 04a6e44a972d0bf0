package postgres

import (
	"context"
	"database/sql"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (org_id, actor_id, action, target_type, target_id, detail, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	entry.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query,
		entry.OrgID, entry.ActorID, entry.Action, entry.TargetType, entry.TargetID, entry.Detail, entry.CreatedOn).
		Scan(&entry.ID)
}
