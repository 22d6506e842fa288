package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type backupCodesRepo struct {
	db dbtx
}

func (r *backupCodesRepo) CreateBackupCode(ctx context.Context, userID string, codeHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO backup_codes (user_id, code_hash) VALUES ($1, $2)`,
		userID, codeHash)
	return err
}

func (r *backupCodesRepo) HasBackupCode(ctx context.Context, userID string, codeHash string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM backup_codes WHERE user_id = $1 AND code_hash = $2`,
		userID, codeHash).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *backupCodesRepo) ConsumeBackupCode(ctx context.Context, userID string, codeHash string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM backup_codes WHERE user_id = $1 AND code_hash = $2`,
		userID, codeHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID)
	return err
}

func (r *backupCodesRepo) CountUserBackupCodes(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM backup_codes WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}
