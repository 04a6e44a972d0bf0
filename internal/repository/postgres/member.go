package postgres

import (
	"context"
	"database/sql"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
	"agencydesk-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, org_id, email, name, role, status, password_hash, temp_password, invited_on, last_login_on`

func (r *memberRepository) CreatePending(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (id, org_id, email, name, role, status, temp_password, invited_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	m.Status = domain.MemberStatusPending
	m.InvitedOn = time.Now().UTC()
	logger.DatabaseCall("INSERT", "members", "email", m.Email)
	_, err := r.db.ExecContext(ctx, query, m.ID, m.OrgID, m.Email, m.Name, m.Role, m.Status, m.TempPassword, m.InvitedOn)
	if isUniqueViolation(err) {
		return domain.Conflictf("member with email %s already exists", m.Email)
	}
	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE LOWER(email) = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *memberRepository) Activate(ctx context.Context, id, name, passwordHash string, role domain.MemberRole) error {
	query := `UPDATE members SET name = $1, password_hash = $2, role = $3, status = $4, temp_password = false
	          WHERE id = $5 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, name, passwordHash, role, domain.MemberStatusActive, id, domain.MemberStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Another writer won the activation race, or the record was
		// deactivated in the meantime.
		return domain.Conflictf("member %s is not pending activation", id)
	}
	return nil
}

func (r *memberRepository) CountActiveAdmins(ctx context.Context, orgID string) (int, error) {
	query := `SELECT COUNT(*) FROM members WHERE org_id = $1 AND role = $2 AND status = $3`
	var count int
	err := r.db.QueryRowContext(ctx, query, orgID, domain.MemberRoleAdmin, domain.MemberStatusActive).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *memberRepository) ListByOrg(ctx context.Context, orgID string) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE org_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE members SET password_hash = $1, temp_password = false WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}

func (r *memberRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE members SET last_login_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

func (r *memberRepository) DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error) {
	query := `DELETE FROM members WHERE status = $1 AND invited_on < $2`
	res, err := r.db.ExecContext(ctx, query, domain.MemberStatusPending, invitedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *memberRepository) scanOne(row rowScanner) (*domain.Member, error) {
	m, err := scanMember(row)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return m, nil
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var passwordHash sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&m.ID, &m.OrgID, &m.Email, &m.Name, &m.Role, &m.Status, &passwordHash, &m.TempPassword, &m.InvitedOn, &lastLogin)
	if err != nil {
		return nil, err
	}
	if passwordHash.Valid {
		m.PasswordHash = &passwordHash.String
	}
	if lastLogin.Valid {
		m.LastLoginOn = &lastLogin.Time
	}
	return m, nil
}
