package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/identity"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
	"agencydesk-backend/internal/security"
)

// ErrInvalidCredentials deliberately does not distinguish a missing account
// from a wrong password.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrAuthenticationRequired)

type authService struct {
	memberRepo repository.MemberRepository
	portalRepo repository.PortalUserRepository
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	tokens     security.TokenManager
	provider   identity.Provider
	sessionTTL time.Duration
}

func NewAuthService(
	memberRepo repository.MemberRepository,
	portalRepo repository.PortalUserRepository,
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	tokens security.TokenManager,
	provider identity.Provider,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		memberRepo: memberRepo,
		portalRepo: portalRepo,
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		tokens:     tokens,
		provider:   provider,
		sessionTTL: sessionTTL,
	}
}

// Activate consumes an invitation token. Each step is a hard precondition;
// failure at any of them leaves the record in its prior state. The store's
// pending-only update is the single replay guard: the token itself carries
// no single-use marker.
func (s *authService) Activate(ctx context.Context, token, displayName, password string) (*Session, error) {
	claims, err := s.tokens.VerifyInvitation(token)
	if err != nil {
		return nil, mapTokenErr(err)
	}

	if displayName == "" {
		return nil, domain.Validationf("display name is required")
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	switch claims.Domain {
	case security.DomainInternal:
		return s.activateMember(ctx, claims, displayName, hash)
	case security.DomainPortal:
		return s.activatePortalUser(ctx, claims, displayName, hash)
	default:
		return nil, domain.ErrInvalidToken
	}
}

func (s *authService) activateMember(ctx context.Context, claims *security.InviteClaims, displayName, hash string) (*Session, error) {
	member, err := s.memberRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if member.IsActive() {
		return nil, domain.Conflictf("account for %s is already active", claims.Email)
	}

	// Role comes from the token, not from client input, so activation
	// cannot escalate privilege relative to what the inviter granted.
	if err := s.memberRepo.Activate(ctx, member.ID, displayName, hash, domain.MemberRole(claims.Role)); err != nil {
		return nil, err
	}

	member, err = s.memberRepo.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	s.auditActivation(ctx, member.OrgID, member.ID, "member")
	return s.mintMemberSession(member)
}

func (s *authService) activatePortalUser(ctx context.Context, claims *security.InviteClaims, displayName, hash string) (*Session, error) {
	user, err := s.portalRepo.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		return nil, domain.Conflictf("account for %s is already active", claims.Email)
	}

	if err := s.portalRepo.Activate(ctx, user.ID, displayName, hash, domain.PortalRole(claims.Role), claims.Capabilities); err != nil {
		return nil, err
	}

	user, err = s.portalRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.auditActivation(ctx, claims.OrgID, user.ID, "portal_user")
	return s.mintPortalSession(ctx, user)
}

func (s *authService) LoginMember(ctx context.Context, email, password string) (*Session, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !member.IsActive() || member.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := security.VerifyPassword(*member.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.memberRepo.UpdateLastLogin(ctx, member.ID); err != nil {
		logger.Warn("Failed to record member login time", "member", member.ID, "error", err)
	}
	return s.mintMemberSession(member)
}

func (s *authService) LoginPortalUser(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.portalRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := security.VerifyPassword(*user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.portalRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Failed to record portal login time", "user", user.ID, "error", err)
	}
	return s.mintPortalSession(ctx, user)
}

// Authenticate re-fetches the subject on every call. The store check
// substitutes for a revocation list, at the cost of one lookup per request.
func (s *authService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	claims, err := s.tokens.VerifySession(token)
	if err != nil {
		return nil, mapTokenErr(err)
	}

	switch claims.Domain {
	case security.DomainInternal:
		member, err := s.memberRepo.GetByID(ctx, claims.SubjectID)
		if err != nil || !member.IsActive() {
			return nil, domain.ErrAuthenticationRequired
		}
		return &Identity{
			Domain: security.DomainInternal,
			Member: member,
			OrgID:  member.OrgID,
		}, nil
	case security.DomainPortal:
		user, err := s.portalRepo.GetByID(ctx, claims.SubjectID)
		if err != nil || !user.IsActive {
			return nil, domain.ErrAuthenticationRequired
		}
		client, err := s.clientRepo.GetByID(ctx, user.ClientID)
		if err != nil || !client.IsActive {
			return nil, domain.ErrAuthenticationRequired
		}
		return &Identity{
			Domain:     security.DomainPortal,
			PortalUser: user,
			OrgID:      client.OrgID,
			ClientID:   client.ID,
		}, nil
	default:
		return nil, domain.ErrInvalidToken
	}
}

// ChangePassword updates the caller's credential, provider side first so a
// provider failure leaves the two systems consistent.
func (s *authService) ChangePassword(ctx context.Context, caller *Identity, currentPassword, newPassword string) error {
	if caller == nil {
		return domain.ErrAuthenticationRequired
	}
	if err := security.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	var currentHash *string
	switch {
	case caller.Member != nil:
		currentHash = caller.Member.PasswordHash
	case caller.PortalUser != nil:
		currentHash = caller.PortalUser.PasswordHash
	default:
		return domain.ErrAuthenticationRequired
	}
	if currentHash == nil || security.VerifyPassword(*currentHash, currentPassword) != nil {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	subjectID := caller.SubjectID()
	if identity.HasExternalIdentity(subjectID) {
		if err := s.provider.SetCredential(ctx, subjectID, newPassword); err != nil {
			return err
		}
	}

	if caller.Member != nil {
		return s.memberRepo.UpdatePassword(ctx, subjectID, hash)
	}
	return s.portalRepo.UpdatePassword(ctx, subjectID, hash)
}

func (s *authService) mintMemberSession(member *domain.Member) (*Session, error) {
	expiresAt := time.Now().Add(s.sessionTTL)
	token, err := s.tokens.IssueSession(security.SessionClaims{
		SubjectID: member.ID,
		Domain:    security.DomainInternal,
		OrgID:     member.OrgID,
		Role:      string(member.Role),
	}, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity: Identity{
			Domain: security.DomainInternal,
			Member: member,
			OrgID:  member.OrgID,
		},
	}, nil
}

func (s *authService) mintPortalSession(ctx context.Context, user *domain.PortalUser) (*Session, error) {
	client, err := s.clientRepo.GetByID(ctx, user.ClientID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	token, err := s.tokens.IssueSession(security.SessionClaims{
		SubjectID: user.ID,
		Domain:    security.DomainPortal,
		OrgID:     client.OrgID,
		ClientID:  client.ID,
		Role:      string(user.Role),
	}, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity: Identity{
			Domain:     security.DomainPortal,
			PortalUser: user,
			OrgID:      client.OrgID,
			ClientID:   client.ID,
		},
	}, nil
}

func (s *authService) auditActivation(ctx context.Context, orgID, targetID, targetType string) {
	entry := &domain.AuditEntry{
		OrgID:      orgID,
		ActorID:    targetID,
		Action:     domain.AuditActionActivate,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     "{}",
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Audit append failed", "action", entry.Action, "target", targetID, "error", err)
	}
}

func mapTokenErr(err error) error {
	switch {
	case errors.Is(err, security.ErrExpiredToken):
		return domain.ErrTokenExpired
	case errors.Is(err, security.ErrWrongTokenPurpose), errors.Is(err, security.ErrInvalidToken):
		return domain.ErrInvalidToken
	default:
		return err
	}
}
