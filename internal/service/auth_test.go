package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/security"
	"agencydesk-backend/internal/service"
)

type authFixture struct {
	memberRepo *MockMemberRepo
	portalRepo *MockPortalUserRepo
	clientRepo *MockClientRepo
	auditRepo  *MockAuditRepo
	provider   *MockProvider
	tokens     security.TokenManager
	svc        service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		memberRepo: new(MockMemberRepo),
		portalRepo: new(MockPortalUserRepo),
		clientRepo: new(MockClientRepo),
		auditRepo:  new(MockAuditRepo),
		provider:   new(MockProvider),
		tokens:     security.NewTokenManager(testSecret),
	}
	f.svc = service.NewAuthService(f.memberRepo, f.portalRepo, f.clientRepo, f.auditRepo,
		f.tokens, f.provider, 7*24*time.Hour)
	return f
}

func (f *authFixture) portalInviteToken(t *testing.T, caps domain.Capabilities) string {
	t.Helper()
	token, err := f.tokens.IssueInvitation(security.InviteClaims{
		Email:        "jane@acme.com",
		Domain:       security.DomainPortal,
		Role:         "PRIMARY",
		Capabilities: caps,
		InviterID:    "admin-1",
		OrgID:        "org-1",
		ClientID:     "client-1",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *authFixture) memberInviteToken(t *testing.T, role string) string {
	t.Helper()
	token, err := f.tokens.IssueInvitation(security.InviteClaims{
		Email:     "new@agency.test",
		Domain:    security.DomainInternal,
		Role:      role,
		InviterID: "admin-1",
		OrgID:     "org-1",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestActivate_PortalUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	caps := domain.Capabilities{CanApprove: true, CanDownload: true, CanComment: false}

	pending := &domain.PortalUser{ID: "portal-1", ClientID: "client-1", Email: "jane@acme.com", IsActive: false}
	activated := &domain.PortalUser{
		ID:           "portal-1",
		ClientID:     "client-1",
		Email:        "jane@acme.com",
		Name:         "Jane",
		Role:         domain.PortalRolePrimary,
		IsActive:     true,
		Capabilities: caps,
	}

	f.portalRepo.On("GetByEmail", ctx, "jane@acme.com").Return(pending, nil)
	f.portalRepo.On("Activate", ctx, "portal-1", "Jane", mock.AnythingOfType("string"),
		domain.PortalRolePrimary, caps).Return(nil)
	f.portalRepo.On("GetByID", ctx, "portal-1").Return(activated, nil)
	f.clientRepo.On("GetByID", ctx, "client-1").Return(&domain.Client{ID: "client-1", OrgID: "org-1", IsActive: true}, nil)
	f.auditRepo.On("Append", ctx, mock.AnythingOfType("*domain.AuditEntry")).Return(nil)

	session, err := f.svc.Activate(ctx, f.portalInviteToken(t, caps), "Jane", "password1")
	require.NoError(t, err)

	// The resulting identity carries exactly the invited capability set.
	require.NotNil(t, session.Identity.PortalUser)
	assert.Equal(t, caps, session.Identity.PortalUser.Capabilities)
	assert.Equal(t, "org-1", session.Identity.OrgID)
	assert.Equal(t, "client-1", session.Identity.ClientID)

	claims, err := f.tokens.VerifySession(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "portal-1", claims.SubjectID)
	assert.Equal(t, security.DomainPortal, claims.Domain)
}

func TestActivate_Member(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	pending := &domain.Member{ID: "member-3", OrgID: "org-1", Email: "new@agency.test", Status: domain.MemberStatusPending}
	activated := &domain.Member{
		ID:     "member-3",
		OrgID:  "org-1",
		Email:  "new@agency.test",
		Name:   "New Person",
		Role:   domain.MemberRoleManager,
		Status: domain.MemberStatusActive,
	}

	f.memberRepo.On("GetByEmail", ctx, "new@agency.test").Return(pending, nil)
	f.memberRepo.On("Activate", ctx, "member-3", "New Person", mock.AnythingOfType("string"),
		domain.MemberRoleManager).Return(nil)
	f.memberRepo.On("GetByID", ctx, "member-3").Return(activated, nil)
	f.auditRepo.On("Append", ctx, mock.AnythingOfType("*domain.AuditEntry")).Return(nil)

	session, err := f.svc.Activate(ctx, f.memberInviteToken(t, "MANAGER"), "New Person", "password1")
	require.NoError(t, err)
	require.NotNil(t, session.Identity.Member)
	assert.Equal(t, domain.MemberRoleManager, session.Identity.Member.Role)
}

func TestActivate_AlreadyActive(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.memberRepo.On("GetByEmail", ctx, "new@agency.test").Return(&domain.Member{
		ID:     "member-3",
		Email:  "new@agency.test",
		Status: domain.MemberStatusActive,
	}, nil)

	// Replaying a valid token against an already activated account must not
	// overwrite the existing credential.
	_, err := f.svc.Activate(ctx, f.memberInviteToken(t, "MEMBER"), "New Person", "password1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.memberRepo.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestActivate_ExpiredToken(t *testing.T) {
	f := newAuthFixture()

	token, err := f.tokens.IssueInvitation(security.InviteClaims{
		Email:  "new@agency.test",
		Domain: security.DomainInternal,
		Role:   "MEMBER",
		OrgID:  "org-1",
	}, -time.Minute)
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), token, "New Person", "password1")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestActivate_SessionTokenRejected(t *testing.T) {
	f := newAuthFixture()

	token, err := f.tokens.IssueSession(security.SessionClaims{
		SubjectID: "member-1",
		Domain:    security.DomainInternal,
		OrgID:     "org-1",
	}, time.Hour)
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), token, "New Person", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestActivate_WeakPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Activate(context.Background(), f.memberInviteToken(t, "MEMBER"), "New Person", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.memberRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticate_DeactivatedMember(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, err := f.tokens.IssueSession(security.SessionClaims{
		SubjectID: "member-1",
		Domain:    security.DomainInternal,
		OrgID:     "org-1",
	}, time.Hour)
	require.NoError(t, err)

	f.memberRepo.On("GetByID", ctx, "member-1").Return(&domain.Member{
		ID:     "member-1",
		OrgID:  "org-1",
		Status: domain.MemberStatusInactive,
	}, nil)

	// An unexpired session does not survive deactivation of its subject.
	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestAuthenticate_DeletedSubject(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, err := f.tokens.IssueSession(security.SessionClaims{
		SubjectID: "member-gone",
		Domain:    security.DomainInternal,
		OrgID:     "org-1",
	}, time.Hour)
	require.NoError(t, err)

	f.memberRepo.On("GetByID", ctx, "member-gone").Return(nil, domain.ErrNotFound)

	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestAuthenticate_PortalUserWithInactiveClient(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, err := f.tokens.IssueSession(security.SessionClaims{
		SubjectID: "portal-1",
		Domain:    security.DomainPortal,
		OrgID:     "org-1",
		ClientID:  "client-1",
	}, time.Hour)
	require.NoError(t, err)

	f.portalRepo.On("GetByID", ctx, "portal-1").Return(&domain.PortalUser{
		ID:       "portal-1",
		ClientID: "client-1",
		IsActive: true,
	}, nil)
	f.clientRepo.On("GetByID", ctx, "client-1").Return(&domain.Client{
		ID:       "client-1",
		OrgID:    "org-1",
		IsActive: false,
	}, nil)

	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestLoginMember(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	hash, err := security.HashPassword("password1")
	require.NoError(t, err)
	member := &domain.Member{
		ID:           "member-1",
		OrgID:        "org-1",
		Email:        "admin@agency.test",
		Role:         domain.MemberRoleAdmin,
		Status:       domain.MemberStatusActive,
		PasswordHash: &hash,
	}

	f.memberRepo.On("GetByEmail", ctx, "admin@agency.test").Return(member, nil)
	f.memberRepo.On("UpdateLastLogin", ctx, "member-1").Return(nil)

	t.Run("Correct password", func(t *testing.T) {
		session, err := f.svc.LoginMember(ctx, "admin@agency.test", "password1")
		require.NoError(t, err)
		assert.Equal(t, "member-1", session.Identity.Member.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := f.svc.LoginMember(ctx, "admin@agency.test", "wrongpass1")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		f.memberRepo.On("GetByEmail", ctx, "nobody@agency.test").Return(nil, domain.ErrNotFound)
		_, err := f.svc.LoginMember(ctx, "nobody@agency.test", "password1")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestLoginMember_PendingAccount(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.memberRepo.On("GetByEmail", ctx, "pending@agency.test").Return(&domain.Member{
		ID:     "member-5",
		Email:  "pending@agency.test",
		Status: domain.MemberStatusPending,
	}, nil)

	_, err := f.svc.LoginMember(ctx, "pending@agency.test", "password1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("oldpass12")
	require.NoError(t, err)

	t.Run("Legacy member skips the provider", func(t *testing.T) {
		f := newAuthFixture()
		caller := adminCaller()
		caller.Member.ID = "10482"
		caller.Member.PasswordHash = &hash

		f.memberRepo.On("UpdatePassword", ctx, "10482", mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.svc.ChangePassword(ctx, caller, "oldpass12", "newpass34"))
		f.provider.AssertNotCalled(t, "SetCredential", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Provider-backed member updates the provider first", func(t *testing.T) {
		f := newAuthFixture()
		caller := adminCaller()
		caller.Member.ID = "7e2f8a9c-1d34-4b56-9f78-0a1b2c3d4e5f"
		caller.Member.PasswordHash = &hash

		f.provider.On("SetCredential", ctx, caller.Member.ID, "newpass34").Return(nil)
		f.memberRepo.On("UpdatePassword", ctx, caller.Member.ID, mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.svc.ChangePassword(ctx, caller, "oldpass12", "newpass34"))
		f.provider.AssertExpectations(t)
	})

	t.Run("Provider failure leaves the local hash alone", func(t *testing.T) {
		f := newAuthFixture()
		caller := adminCaller()
		caller.Member.ID = "7e2f8a9c-1d34-4b56-9f78-0a1b2c3d4e5f"
		caller.Member.PasswordHash = &hash

		f.provider.On("SetCredential", ctx, caller.Member.ID, "newpass34").Return(assert.AnError)

		assert.Error(t, f.svc.ChangePassword(ctx, caller, "oldpass12", "newpass34"))
		f.memberRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		caller := adminCaller()
		caller.Member.PasswordHash = &hash

		err := f.svc.ChangePassword(ctx, caller, "notmyoldpass1", "newpass34")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
