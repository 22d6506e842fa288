package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.UserRecord) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO users (uid, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO NOTHING`,
		u.UID, u.Email, u.PasswordHash, u.IsAdmin, createdAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *usersRepo) GetSecurityState(ctx context.Context, uid string) (domain.UserSecurityState, error) {
	var (
		st     domain.UserSecurityState
		secret *string
		status string
	)
	err := r.db.QueryRow(ctx, `
		SELECT uid, email, totp_secret, two_factor_status, enabled_at
		FROM users WHERE uid = $1`, uid).
		Scan(&st.UID, &st.Email, &secret, &status, &st.EnabledAt)
	if err != nil {
		return domain.UserSecurityState{}, mapNotFound(err)
	}

	st.TOTPSecret = derefString(secret)
	st.Status = domain.TwoFactorStatus(status)
	st.EnabledAt = utcPtr(st.EnabledAt)
	return st, nil
}

func (r *usersRepo) BeginEnrollment(ctx context.Context, uid, secret string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET totp_secret = $1, two_factor_status = 'pending', enabled_at = NULL
		WHERE uid = $2 AND two_factor_status <> 'enabled'`,
		secret, uid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *usersRepo) ActivateTwoFactor(ctx context.Context, uid, secret string, enabledAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET two_factor_status = 'enabled', enabled_at = $1
		WHERE uid = $2 AND two_factor_status = 'pending' AND totp_secret = $3`,
		enabledAt.UTC(), uid, secret)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *usersRepo) ClearTwoFactor(ctx context.Context, uid string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET totp_secret = NULL, two_factor_status = 'disabled', enabled_at = NULL
		WHERE uid = $1 AND two_factor_status = 'enabled'`,
		uid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *usersRepo) LockTwoFactor(ctx context.Context, uid string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET two_factor_status = two_factor_status
		WHERE uid = $1 AND two_factor_status = 'enabled'`,
		uid)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *usersRepo) GetPasswordHash(ctx context.Context, uid string) (string, error) {
	var hash string
	if err := r.db.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE uid = $1`, uid).Scan(&hash); err != nil {
		return "", mapNotFound(err)
	}
	return hash, nil
}

func (r *usersRepo) IsAdmin(ctx context.Context, uid string) (bool, error) {
	var admin bool
	if err := r.db.QueryRow(ctx,
		`SELECT is_admin FROM users WHERE uid = $1`, uid).Scan(&admin); err != nil {
		return false, mapNotFound(err)
	}
	return admin, nil
}
