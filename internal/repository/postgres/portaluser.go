package postgres

import (
	"context"
	"database/sql"
	"time"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/repository"
)

type portalUserRepository struct {
	db *sql.DB
}

func NewPortalUserRepository(db *sql.DB) repository.PortalUserRepository {
	return &portalUserRepository{db: db}
}

const portalUserColumns = `id, client_id, email, name, role, is_active, is_verified, password_hash,
	          can_approve, can_download, can_comment, invited_on, last_login_on`

func (r *portalUserRepository) CreatePending(ctx context.Context, u *domain.PortalUser) error {
	query := `INSERT INTO portal_users (id, client_id, email, name, role, is_active, is_verified, can_approve, can_download, can_comment, invited_on)
	          VALUES ($1, $2, $3, $4, $5, false, false, $6, $7, $8, $9)`
	u.IsActive = false
	u.IsVerified = false
	u.InvitedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, u.ID, u.ClientID, u.Email, u.Name, u.Role,
		u.Capabilities.CanApprove, u.Capabilities.CanDownload, u.Capabilities.CanComment, u.InvitedOn)
	if isUniqueViolation(err) {
		return domain.Conflictf("portal user with email %s already exists", u.Email)
	}
	return err
}

func (r *portalUserRepository) GetByID(ctx context.Context, id string) (*domain.PortalUser, error) {
	query := `SELECT ` + portalUserColumns + ` FROM portal_users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *portalUserRepository) GetByEmail(ctx context.Context, email string) (*domain.PortalUser, error) {
	query := `SELECT ` + portalUserColumns + ` FROM portal_users WHERE LOWER(email) = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *portalUserRepository) Activate(ctx context.Context, id, name, passwordHash string, role domain.PortalRole, caps domain.Capabilities) error {
	query := `UPDATE portal_users SET name = $1, password_hash = $2, role = $3, is_active = true, is_verified = true,
	          can_approve = $4, can_download = $5, can_comment = $6
	          WHERE id = $7 AND is_active = false`
	res, err := r.db.ExecContext(ctx, query, name, passwordHash, role, caps.CanApprove, caps.CanDownload, caps.CanComment, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.Conflictf("portal user %s is not pending activation", id)
	}
	return nil
}

func (r *portalUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE portal_users SET password_hash = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	return err
}

func (r *portalUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE portal_users SET last_login_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

func (r *portalUserRepository) DeleteExpiredPending(ctx context.Context, invitedBefore time.Time) (int64, error) {
	query := `DELETE FROM portal_users WHERE is_active = false AND is_verified = false AND invited_on < $1`
	res, err := r.db.ExecContext(ctx, query, invitedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *portalUserRepository) scanOne(row rowScanner) (*domain.PortalUser, error) {
	u := &domain.PortalUser{}
	var passwordHash sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.ClientID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.IsVerified, &passwordHash,
		&u.Capabilities.CanApprove, &u.Capabilities.CanDownload, &u.Capabilities.CanComment, &u.InvitedOn, &lastLogin)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	if lastLogin.Valid {
		u.LastLoginOn = &lastLogin.Time
	}
	return u, nil
}
