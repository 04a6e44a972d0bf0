package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk-backend/internal/domain"
)

func newDeletionRepo(t *testing.T) (*deletionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &deletionRepository{db: db}, mock
}

func auditEntry() *domain.AuditEntry {
	return &domain.AuditEntry{
		OrgID:      "org-1",
		ActorID:    "admin-1",
		Action:     domain.AuditActionDelete,
		TargetType: "member",
		TargetID:   "member-2",
		Detail:     `{"email":"leaver@agency.test","reassigned_tasks":2,"removed_assignments":1}`,
	}
}

func TestReassignAndDelete_CommitsAllOrNothing(t *testing.T) {
	repo, mock := newDeletionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET assignee_id = $1`)).
		WithArgs("admin-1", "member-2", "org-1", domain.TaskStatusDone, domain.TaskStatusCanceled).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM client_assignments WHERE member_id = $1`)).
		WithArgs("member-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members WHERE id = $1 AND org_id = $2`)).
		WithArgs("member-2", "org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_log`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReassignAndDelete(context.Background(), "member-2", "admin-1", "org-1", auditEntry())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignAndDelete_MissingTargetRollsBack(t *testing.T) {
	repo, mock := newDeletionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET assignee_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM client_assignments`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReassignAndDelete(context.Background(), "member-gone", "admin-1", "org-1", auditEntry())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignAndDelete_AuditFailureRollsBackEverything(t *testing.T) {
	repo, mock := newDeletionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET assignee_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM client_assignments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_log`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// The deletion is not allowed to land without its audit record.
	err := repo.ReassignAndDelete(context.Background(), "member-2", "admin-1", "org-1", auditEntry())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
