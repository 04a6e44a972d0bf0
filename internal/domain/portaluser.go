package domain

import "time"

type PortalRole string

const (
	PortalRolePrimary      PortalRole = "PRIMARY"
	PortalRoleCollaborator PortalRole = "COLLABORATOR"
)

// Capabilities are the per-operation grants for a portal user. Each flag is
// checked independently at the operation that needs it; there is no
// hierarchy between them.
type Capabilities struct {
	CanApprove  bool `json:"can_approve"`
	CanDownload bool `json:"can_download"`
	CanComment  bool `json:"can_comment"`
}

// PortalUser is an external identity: a client-side account scoped to one
// client of an organization.
type PortalUser struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"client_id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         PortalRole   `json:"role"`
	IsActive     bool         `json:"is_active"`
	IsVerified   bool         `json:"is_verified"`
	PasswordHash *string      `json:"-"`
	Capabilities Capabilities `json:"capabilities"`
	InvitedOn    time.Time    `json:"invited_on"`
	LastLoginOn  *time.Time   `json:"last_login_on,omitempty"`
}

// ValidPortalRole reports whether r is a role an invitation may grant.
func ValidPortalRole(r PortalRole) bool {
	return r == PortalRolePrimary || r == PortalRoleCollaborator
}
