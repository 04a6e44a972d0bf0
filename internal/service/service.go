package service

import (
	"context"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/security"
)

// Identity is a fully resolved caller: the record re-fetched from the store
// plus its tenant scope. Exactly one of Member / PortalUser is set,
// matching Domain.
type Identity struct {
	Domain     security.IdentityDomain
	Member     *domain.Member
	PortalUser *domain.PortalUser
	OrgID      string
	ClientID   string // set for portal identities
}

// SubjectID returns the id of the underlying record.
func (i *Identity) SubjectID() string {
	if i.Member != nil {
		return i.Member.ID
	}
	if i.PortalUser != nil {
		return i.PortalUser.ID
	}
	return ""
}

// Session is a freshly minted session token plus the identity it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// DeletionImpact is the pre-mutation analysis returned to the caller of a
// successful deletion.
type DeletionImpact struct {
	TargetEmail        string `json:"target_email"`
	ReassignedTasks    int    `json:"reassigned_tasks"`
	RemovedAssignments int    `json:"removed_assignments"`
}

type InviteService interface {
	// InviteMember creates a PENDING internal identity and returns it with
	// the account-setup URL. Email delivery is fire-and-forget.
	InviteMember(ctx context.Context, caller *Identity, email, name string, role domain.MemberRole) (*domain.Member, string, error)
	// InvitePortalUser does the same for an external identity, one tenant
	// level deeper (scoped to a client).
	InvitePortalUser(ctx context.Context, caller *Identity, clientID, email, name string, role domain.PortalRole, caps domain.Capabilities) (*domain.PortalUser, string, error)
	// ResendMemberInvite re-mints the setup URL for a still-pending member.
	ResendMemberInvite(ctx context.Context, caller *Identity, memberID string) (string, error)
}

type AuthService interface {
	// Activate consumes an invitation token: sets credentials, flips the
	// record to active and mints a session for immediate use.
	Activate(ctx context.Context, token, displayName, password string) (*Session, error)
	LoginMember(ctx context.Context, email, password string) (*Session, error)
	LoginPortalUser(ctx context.Context, email, password string) (*Session, error)
	// Authenticate validates a session token and re-fetches the subject so
	// a deactivated or deleted identity is rejected before the token's own
	// expiry.
	Authenticate(ctx context.Context, token string) (*Identity, error)
	ChangePassword(ctx context.Context, caller *Identity, currentPassword, newPassword string) error
}

type DeletionService interface {
	// DeleteMember runs the safe-deletion sequence: guards, impact
	// analysis, provider-side delete, then one local transaction.
	DeleteMember(ctx context.Context, caller *Identity, targetID string) (*DeletionImpact, error)
}

type MemberService interface {
	ListMembers(ctx context.Context, caller *Identity) ([]domain.Member, error)
}

type EmailService interface {
	// SendInvitation delivers the account-setup link. Callers treat
	// failures as non-fatal: the invitation stays valid either way.
	SendInvitation(ctx context.Context, email, name, setupURL, orgName string) error
	SendAccountNotice(ctx context.Context, email, name, subject, message string) error
}

// HealthChecker gates destructive multi-step operations on store
// reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
