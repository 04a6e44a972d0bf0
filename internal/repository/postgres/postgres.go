package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.PortalUserRepository
	repository.OrganizationRepository
	repository.ClientRepository
	repository.TaskRepository
	repository.AuditRepository
	repository.DeletionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		MemberRepository:       NewMemberRepository(db),
		PortalUserRepository:   NewPortalUserRepository(db),
		OrganizationRepository: NewOrganizationRepository(db),
		ClientRepository:       NewClientRepository(db),
		TaskRepository:         NewTaskRepository(db),
		AuditRepository:        NewAuditRepository(db),
		DeletionRepository:     NewDeletionRepository(db),
	}
}

// HealthCheck pings the database, allowing one bounded recovery attempt
// before reporting a dependency failure. Destructive multi-step operations
// call this before their first mutation.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed, retrying once", "error", err)
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return domain.Dependencyf("database unreachable: %v", ctx.Err())
		}
		if err := s.db.PingContext(ctx); err != nil {
			return domain.Dependencyf("database unreachable: %v", err)
		}
	}
	return nil
}
