package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"agencydesk-backend/internal/domain"
)

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) CreatePending(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Activate(ctx context.Context, id, name, passwordHash string, role domain.MemberRole) error {
	args := m.Called(ctx, id, name, passwordHash, role)
	return args.Error(0)
}
func (m *MockMemberRepo) CountActiveAdmins(ctx context.Context, orgID string) (int, error) {
	args := m.Called(ctx, orgID)
	return args.Int(0), args.Error(1)
}
func (m *MockMemberRepo) ListByOrg(ctx context.Context, orgID string) ([]domain.Member, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockMemberRepo) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMemberRepo) DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error) {
	args := m.Called(ctx, invitedBefore)
	return args.Get(0).(int64), args.Error(1)
}

// MockPortalUserRepo
type MockPortalUserRepo struct {
	mock.Mock
}

func (m *MockPortalUserRepo) CreatePending(ctx context.Context, u *domain.PortalUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockPortalUserRepo) GetByID(ctx context.Context, id string) (*domain.PortalUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortalUser), args.Error(1)
}
func (m *MockPortalUserRepo) GetByEmail(ctx context.Context, email string) (*domain.PortalUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortalUser), args.Error(1)
}
func (m *MockPortalUserRepo) Activate(ctx context.Context, id, name, passwordHash string, role domain.PortalRole, caps domain.Capabilities) error {
	args := m.Called(ctx, id, name, passwordHash, role, caps)
	return args.Error(0)
}
func (m *MockPortalUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockPortalUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPortalUserRepo) DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error) {
	args := m.Called(ctx, invitedBefore)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) ListActiveAssignmentsByMember(ctx context.Context, memberID string) ([]domain.ClientAssignment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientAssignment), args.Error(1)
}

// MockTaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) ListOpenByAssignee(ctx context.Context, memberID string) ([]domain.Task, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockDeletionRepo
type MockDeletionRepo struct {
	mock.Mock
}

func (m *MockDeletionRepo) ReassignAndDelete(ctx context.Context, targetID, reassignToID, orgID string, entry *domain.AuditEntry) error {
	args := m.Called(ctx, targetID, reassignToID, orgID, entry)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(ctx context.Context, email, name, setupURL, orgName string) error {
	args := m.Called(ctx, email, name, setupURL, orgName)
	return args.Error(0)
}
func (m *MockEmailService) SendAccountNotice(ctx context.Context, email, name, subject, message string) error {
	args := m.Called(ctx, email, name, subject, message)
	return args.Error(0)
}

// MockProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) DeleteIdentity(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockProvider) SetCredential(ctx context.Context, id, newCredential string) error {
	args := m.Called(ctx, id, newCredential)
	return args.Error(0)
}

// MockHealthChecker
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
