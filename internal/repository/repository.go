package repository

import (
	"context"
	"time"

	"agencydesk-backend/internal/domain"
)

type MemberRepository interface {
	// CreatePending inserts an invited member with status PENDING. A
	// duplicate email surfaces as domain.ErrConflict.
	CreatePending(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	// Activate flips a PENDING member to ACTIVE, setting the display name,
	// credential hash and the role granted at invitation time. Zero rows
	// affected means the record was no longer PENDING and surfaces as
	// domain.ErrConflict, which serializes concurrent activation attempts.
	Activate(ctx context.Context, id, name, passwordHash string, role domain.MemberRole) error
	CountActiveAdmins(ctx context.Context, orgID string) (int, error)
	ListByOrg(ctx context.Context, orgID string) ([]domain.Member, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error)
}

type PortalUserRepository interface {
	CreatePending(ctx context.Context, u *domain.PortalUser) error
	GetByID(ctx context.Context, id string) (*domain.PortalUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.PortalUser, error)
	// Activate flips an inactive portal user to active+verified, persisting
	// the role and capability flags carried by the invitation token. Zero
	// rows affected surfaces as domain.ErrConflict.
	Activate(ctx context.Context, id, name, passwordHash string, role domain.PortalRole, caps domain.Capabilities) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error)
}

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListActiveAssignmentsByMember(ctx context.Context, memberID string) ([]domain.ClientAssignment, error)
}

type TaskRepository interface {
	ListOpenByAssignee(ctx context.Context, memberID string) ([]domain.Task, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// DeletionRepository performs the local phase of member deletion as a single
// transaction: reassign the target's open tasks to the caller, delete the
// target's client assignments, delete the member row, and append the audit
// entry. Either all of it commits or none of it does.
type DeletionRepository interface {
	ReassignAndDelete(ctx context.Context, targetID, reassignToID, orgID string, entry *domain.AuditEntry) error
}
