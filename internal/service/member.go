package service

import (
	"context"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

// ListMembers returns the caller's organization roster. Any active member
// may read; mutations go through the admin-gated services.
func (s *memberService) ListMembers(ctx context.Context, caller *Identity) ([]domain.Member, error) {
	if err := RequireActiveMember(caller); err != nil {
		return nil, err
	}
	return s.memberRepo.ListByOrg(ctx, caller.OrgID)
}
