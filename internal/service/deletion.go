package service

import (
	"context"
	"fmt"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/identity"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
)

type deletionService struct {
	memberRepo   repository.MemberRepository
	taskRepo     repository.TaskRepository
	clientRepo   repository.ClientRepository
	deletionRepo repository.DeletionRepository
	provider     identity.Provider
	health       HealthChecker
}

func NewDeletionService(
	memberRepo repository.MemberRepository,
	taskRepo repository.TaskRepository,
	clientRepo repository.ClientRepository,
	deletionRepo repository.DeletionRepository,
	provider identity.Provider,
	health HealthChecker,
) DeletionService {
	return &deletionService{
		memberRepo:   memberRepo,
		taskRepo:     taskRepo,
		clientRepo:   clientRepo,
		deletionRepo: deletionRepo,
		provider:     provider,
		health:       health,
	}
}

// DeleteMember deletes an internal identity across both systems of record.
// All guards run before any mutation. The provider-side delete is a hard
// precondition for the local transaction: if it fails, the local record is
// left untouched.
func (s *deletionService) DeleteMember(ctx context.Context, caller *Identity, targetID string) (*DeletionImpact, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}

	target, err := s.memberRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.OrgID != caller.OrgID {
		return nil, domain.ErrNotFound
	}
	if target.ID == caller.Member.ID {
		return nil, domain.Invariantf("you cannot delete your own account")
	}
	if target.IsAdmin() && target.IsActive() {
		admins, err := s.memberRepo.CountActiveAdmins(ctx, caller.OrgID)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, domain.Invariantf("cannot delete the last admin of the organization; promote another admin first")
		}
	}

	// Impact analysis happens before any mutation, both for the audit trail
	// and for the response payload.
	openTasks, err := s.taskRepo.ListOpenByAssignee(ctx, targetID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.clientRepo.ListActiveAssignmentsByMember(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.health.HealthCheck(ctx); err != nil {
		return nil, err
	}

	if identity.HasExternalIdentity(target.ID) {
		if err := s.provider.DeleteIdentity(ctx, target.ID); err != nil {
			return nil, fmt.Errorf("%w; the account was not modified, remove the provider identity manually and retry", err)
		}
	} else {
		logger.Info("Legacy identity without provider record, skipping provider delete", "target", target.ID)
	}

	entry := &domain.AuditEntry{
		OrgID:      caller.OrgID,
		ActorID:    caller.Member.ID,
		Action:     domain.AuditActionDelete,
		TargetType: "member",
		TargetID:   target.ID,
		Detail: fmt.Sprintf(`{"email":%q,"reassigned_tasks":%d,"removed_assignments":%d}`,
			target.Email, len(openTasks), len(assignments)),
	}
	if err := s.deletionRepo.ReassignAndDelete(ctx, target.ID, caller.Member.ID, caller.OrgID, entry); err != nil {
		return nil, err
	}

	return &DeletionImpact{
		TargetEmail:        target.Email,
		ReassignedTasks:    len(openTasks),
		RemovedAssignments: len(assignments),
	}, nil
}
