package jobs

import (
	"context"
	"time"

	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
)

// Runner executes the maintenance jobs outside the request path.
type Runner struct {
	memberRepo repository.MemberRepository
	portalRepo repository.PortalUserRepository
	cfg        *config.Config
}

func NewRunner(memberRepo repository.MemberRepository, portalRepo repository.PortalUserRepository, cfg *config.Config) *Runner {
	return &Runner{
		memberRepo: memberRepo,
		portalRepo: portalRepo,
		cfg:        cfg,
	}
}

func (r *Runner) Config() *config.Config {
	return r.cfg
}

// PurgeExpiredInvites deletes PENDING identities whose invitation window
// lapsed. Their tokens are already rejected as expired; this clears the
// rows so the email can be re-invited from scratch.
func (r *Runner) PurgeExpiredInvites() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -r.cfg.JWT.InviteExpiryDays)

	members, err := r.memberRepo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to purge expired pending members", "error", err)
	}
	portalUsers, err := r.portalRepo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to purge expired pending portal users", "error", err)
	}

	logger.Info("Purged expired pending invitations",
		"members", members, "portal_users", portalUsers, "invited_before", cutoff)
}
