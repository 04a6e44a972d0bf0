package postgres

import (
	"context"
	"database/sql"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListOpenByAssignee(ctx context.Context, memberID string) ([]domain.Task, error) {
	query := `SELECT id, org_id, title, status, assignee_id, created_on FROM tasks
	          WHERE assignee_id = $1 AND status NOT IN ($2, $3)`
	rows, err := r.db.QueryContext(ctx, query, memberID, domain.TaskStatusDone, domain.TaskStatusCanceled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Title, &t.Status, &t.AssigneeID, &t.CreatedOn); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
