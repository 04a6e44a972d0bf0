package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
	"agencydesk-backend/internal/security"
)

type inviteService struct {
	memberRepo repository.MemberRepository
	portalRepo repository.PortalUserRepository
	clientRepo repository.ClientRepository
	orgRepo    repository.OrganizationRepository
	auditRepo  repository.AuditRepository
	tokens     security.TokenManager
	emailSvc   EmailService
	baseURL    string
	inviteTTL  time.Duration
}

func NewInviteService(
	memberRepo repository.MemberRepository,
	portalRepo repository.PortalUserRepository,
	clientRepo repository.ClientRepository,
	orgRepo repository.OrganizationRepository,
	auditRepo repository.AuditRepository,
	tokens security.TokenManager,
	emailSvc EmailService,
	baseURL string,
	inviteTTL time.Duration,
) InviteService {
	return &inviteService{
		memberRepo: memberRepo,
		portalRepo: portalRepo,
		clientRepo: clientRepo,
		orgRepo:    orgRepo,
		auditRepo:  auditRepo,
		tokens:     tokens,
		emailSvc:   emailSvc,
		baseURL:    baseURL,
		inviteTTL:  inviteTTL,
	}
}

func (s *inviteService) InviteMember(ctx context.Context, caller *Identity, email, name string, role domain.MemberRole) (*domain.Member, string, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, "", err
	}
	if email == "" {
		return nil, "", domain.Validationf("email is required")
	}
	if !domain.ValidMemberRole(role) {
		return nil, "", domain.Validationf("unknown member role %q", role)
	}

	existing, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, "", domain.Conflictf("member with email %s already exists", email)
		}
		return nil, "", domain.Conflictf("member with email %s already invited; resend the invitation instead", email)
	}

	member := &domain.Member{
		ID:    uuid.NewString(),
		OrgID: caller.OrgID,
		Email: email,
		Name:  name,
		Role:  role,
	}
	if err := s.memberRepo.CreatePending(ctx, member); err != nil {
		return nil, "", err
	}

	setupURL, err := s.mintSetupURL(security.InviteClaims{
		Email:     email,
		Domain:    security.DomainInternal,
		Role:      string(role),
		InviterID: caller.Member.ID,
		OrgID:     caller.OrgID,
	})
	if err != nil {
		return nil, "", err
	}

	s.deliver(ctx, email, name, setupURL, caller.OrgID)
	s.audit(ctx, caller, domain.AuditActionInvite, "member", member.ID,
		fmt.Sprintf(`{"email":%q,"role":%q}`, email, role))

	return member, setupURL, nil
}

func (s *inviteService) InvitePortalUser(ctx context.Context, caller *Identity, clientID, email, name string, role domain.PortalRole, caps domain.Capabilities) (*domain.PortalUser, string, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, "", err
	}
	if email == "" {
		return nil, "", domain.Validationf("email is required")
	}
	if !domain.ValidPortalRole(role) {
		return nil, "", domain.Validationf("unknown portal role %q", role)
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, "", err
	}
	if client.OrgID != caller.OrgID {
		return nil, "", domain.ErrNotFound
	}

	existing, err := s.portalRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, "", domain.Conflictf("portal user with email %s already exists", email)
		}
		return nil, "", domain.Conflictf("portal user with email %s already invited", email)
	}

	user := &domain.PortalUser{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Email:        email,
		Name:         name,
		Role:         role,
		Capabilities: caps,
	}
	if err := s.portalRepo.CreatePending(ctx, user); err != nil {
		return nil, "", err
	}

	setupURL, err := s.mintSetupURL(security.InviteClaims{
		Email:        email,
		Domain:       security.DomainPortal,
		Role:         string(role),
		Capabilities: caps,
		InviterID:    caller.Member.ID,
		OrgID:        caller.OrgID,
		ClientID:     clientID,
	})
	if err != nil {
		return nil, "", err
	}

	s.deliver(ctx, email, name, setupURL, caller.OrgID)
	s.audit(ctx, caller, domain.AuditActionInvite, "portal_user", user.ID,
		fmt.Sprintf(`{"email":%q,"role":%q,"client_id":%q}`, email, role, clientID))

	return user, setupURL, nil
}

func (s *inviteService) ResendMemberInvite(ctx context.Context, caller *Identity, memberID string) (string, error) {
	if err := RequireAdmin(caller); err != nil {
		return "", err
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if member.OrgID != caller.OrgID {
		return "", domain.ErrNotFound
	}
	if member.Status != domain.MemberStatusPending {
		return "", domain.Conflictf("member %s is not pending activation", memberID)
	}

	setupURL, err := s.mintSetupURL(security.InviteClaims{
		Email:     member.Email,
		Domain:    security.DomainInternal,
		Role:      string(member.Role),
		InviterID: caller.Member.ID,
		OrgID:     caller.OrgID,
	})
	if err != nil {
		return "", err
	}

	s.deliver(ctx, member.Email, member.Name, setupURL, caller.OrgID)
	return setupURL, nil
}

func (s *inviteService) mintSetupURL(claims security.InviteClaims) (string, error) {
	token, err := s.tokens.IssueInvitation(claims, s.inviteTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue invitation token: %w", err)
	}
	return fmt.Sprintf("%s/activate?token=%s", s.baseURL, url.QueryEscape(token)), nil
}

// deliver hands the setup URL to the email collaborator. Delivery failure is
// logged but never fails the issuance: the invitation is valid even if the
// email never arrives, and an operator can resend the same URL.
func (s *inviteService) deliver(ctx context.Context, email, name, setupURL, orgID string) {
	orgName := "your organization"
	if org, err := s.orgRepo.GetByID(ctx, orgID); err == nil {
		orgName = org.Name
	}
	if err := s.emailSvc.SendInvitation(ctx, email, name, setupURL, orgName); err != nil {
		logger.Error("Invitation email delivery failed", "email", email, "error", err)
	}
}

// audit appends an invitation audit entry, best-effort.
func (s *inviteService) audit(ctx context.Context, caller *Identity, action domain.AuditAction, targetType, targetID, detail string) {
	entry := &domain.AuditEntry{
		OrgID:      caller.OrgID,
		ActorID:    caller.Member.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Audit append failed", "action", action, "target", targetID, "error", err)
	}
}
