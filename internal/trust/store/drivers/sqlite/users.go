package sqlite

import (
	"context"
	"database/sql"
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

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (uid) DO NOTHING`,
		u.UID, u.Email, u.PasswordHash, u.IsAdmin, toNanos(createdAt))
	if err != nil {
		return err
	}
	ok, err := rowsAffectedOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *usersRepo) GetSecurityState(ctx context.Context, uid string) (domain.UserSecurityState, error) {
	var (
		st        domain.UserSecurityState
		secret    sql.NullString
		status    string
		enabledAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT uid, email, totp_secret, two_factor_status, enabled_at
		FROM users WHERE uid = ?`, uid).
		Scan(&st.UID, &st.Email, &secret, &status, &enabledAt)
	if err != nil {
		return domain.UserSecurityState{}, mapNotFound(err)
	}

	st.TOTPSecret = mapNullString(secret)
	st.Status = domain.TwoFactorStatus(status)
	st.EnabledAt = mapNullNanosPtr(enabledAt)
	return st, nil
}

func (r *usersRepo) BeginEnrollment(ctx context.Context, uid, secret string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET totp_secret = ?, two_factor_status = 'pending', enabled_at = NULL
		WHERE uid = ? AND two_factor_status <> 'enabled'`,
		secret, uid)
	if err != nil {
		return false, err
	}
	return rowsAffectedOne(res)
}

func (r *usersRepo) ActivateTwoFactor(ctx context.Context, uid, secret string, enabledAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET two_factor_status = 'enabled', enabled_at = ?
		WHERE uid = ? AND two_factor_status = 'pending' AND totp_secret = ?`,
		toNanos(enabledAt), uid, secret)
	if err != nil {
		return false, err
	}
	return rowsAffectedOne(res)
}

func (r *usersRepo) ClearTwoFactor(ctx context.Context, uid string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET totp_secret = NULL, two_factor_status = 'disabled', enabled_at = NULL
		WHERE uid = ? AND two_factor_status = 'enabled'`,
		uid)
	if err != nil {
		return false, err
	}
	return rowsAffectedOne(res)
}

func (r *usersRepo) LockTwoFactor(ctx context.Context, uid string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET two_factor_status = two_factor_status
		WHERE uid = ? AND two_factor_status = 'enabled'`,
		uid)
	if err != nil {
		return false, err
	}
	return rowsAffectedOne(res)
}

func (r *usersRepo) GetPasswordHash(ctx context.Context, uid string) (string, error) {
	var hash string
	if err := r.db.QueryRowContext(ctx,
		`SELECT password_hash FROM users WHERE uid = ?`, uid).Scan(&hash); err != nil {
		return "", mapNotFound(err)
	}
	return hash, nil
}

func (r *usersRepo) IsAdmin(ctx context.Context, uid string) (bool, error) {
	var admin bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT is_admin FROM users WHERE uid = ?`, uid).Scan(&admin); err != nil {
		return false, mapNotFound(err)
	}
	return admin, nil
}
