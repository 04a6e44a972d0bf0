package postgres

import (
	"context"
	"database/sql"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/repository"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	org := &domain.Organization{}
	query := `SELECT id, name, created_on FROM organizations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedOn)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return org, nil
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c := &domain.Client{}
	query := `SELECT id, org_id, name, is_active, created_on FROM clients WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OrgID, &c.Name, &c.IsActive, &c.CreatedOn)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return c, nil
}

func (r *clientRepository) ListActiveAssignmentsByMember(ctx context.Context, memberID string) ([]domain.ClientAssignment, error) {
	query := `SELECT member_id, client_id, is_active FROM client_assignments WHERE member_id = $1 AND is_active = true`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.ClientAssignment
	for rows.Next() {
		var a domain.ClientAssignment
		if err := rows.Scan(&a.MemberID, &a.ClientID, &a.IsActive); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
