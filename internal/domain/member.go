package domain

import "time"

type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "ADMIN"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleMember  MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "PENDING"
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// Member is an internal identity: a staff account inside one organization.
// PasswordHash is nil until the member activates their invitation.
type Member struct {
	ID           string       `json:"id"`
	OrgID        string       `json:"org_id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         MemberRole   `json:"role"`
	Status       MemberStatus `json:"status"`
	PasswordHash *string      `json:"-"`
	TempPassword bool         `json:"temp_password"`
	InvitedOn    time.Time    `json:"invited_on"`
	LastLoginOn  *time.Time   `json:"last_login_on,omitempty"`
}

func (m *Member) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}

func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// ValidMemberRole reports whether r is a role an invitation may grant.
func ValidMemberRole(r MemberRole) bool {
	switch r {
	case MemberRoleAdmin, MemberRoleManager, MemberRoleMember:
		return true
	}
	return false
}
