package service

import (
	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/security"
)

// Capability names the per-operation grants of a portal user.
type Capability string

const (
	CapabilityApprove  Capability = "approve"
	CapabilityDownload Capability = "download"
	CapabilityComment  Capability = "comment"
)

// RequireAdmin passes only for an active internal ADMIN. Everything fails
// closed: a missing identity is an authentication failure, an insufficient
// one a permission failure.
func RequireAdmin(caller *Identity) error {
	if err := RequireActiveMember(caller); err != nil {
		return err
	}
	if !caller.Member.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	return nil
}

// RequireActiveMember passes for any active internal identity.
func RequireActiveMember(caller *Identity) error {
	if caller == nil {
		return domain.ErrAuthenticationRequired
	}
	if caller.Domain != security.DomainInternal || caller.Member == nil {
		return domain.ErrPermissionDenied
	}
	if !caller.Member.IsActive() {
		return domain.ErrAuthenticationRequired
	}
	return nil
}

// RequireCapability passes for an active portal identity holding the named
// capability flag. An absent flag is a hard denial, never a downgrade of
// the requested operation.
func RequireCapability(caller *Identity, cap Capability) error {
	if caller == nil {
		return domain.ErrAuthenticationRequired
	}
	if caller.Domain != security.DomainPortal || caller.PortalUser == nil {
		return domain.ErrPermissionDenied
	}
	if !caller.PortalUser.IsActive {
		return domain.ErrAuthenticationRequired
	}
	caps := caller.PortalUser.Capabilities
	var granted bool
	switch cap {
	case CapabilityApprove:
		granted = caps.CanApprove
	case CapabilityDownload:
		granted = caps.CanDownload
	case CapabilityComment:
		granted = caps.CanComment
	}
	if !granted {
		return domain.ErrPermissionDenied
	}
	return nil
}
