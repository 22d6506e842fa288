package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories so a Tx-scoped Store can be
// handed to code that expects the plain one.
type Store interface {
	Users() Users
	BackupCodes() BackupCodes
	Events() Events
	Reports() Reports

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the 2FA projection of the external user-profile store. Every
// state-changing method is a single conditional UPDATE and reports whether a
// row matched, so callers can tell a lost race from success.
type Users interface {
	// CreateUser inserts a user with 2FA disabled.
	CreateUser(ctx context.Context, u domain.UserRecord) error

	// GetSecurityState returns the 2FA fields for a user.
	GetSecurityState(ctx context.Context, uid string) (domain.UserSecurityState, error)

	// BeginEnrollment stores a fresh secret and moves the user to pending,
	// unless 2FA is already enabled.
	BeginEnrollment(ctx context.Context, uid, secret string) (bool, error)

	// ActivateTwoFactor moves a pending user to enabled, provided the stored
	// secret is still the one that was verified.
	ActivateTwoFactor(ctx context.Context, uid, secret string, enabledAt time.Time) (bool, error)

	// ClearTwoFactor disables 2FA for an enabled user, clearing secret and
	// enabled_at.
	ClearTwoFactor(ctx context.Context, uid string) (bool, error)

	// LockTwoFactor takes the user's row lock for the rest of the transaction
	// and reports whether 2FA is enabled. A concurrent ClearTwoFactor either
	// waits for the caller to commit or makes this return false.
	LockTwoFactor(ctx context.Context, uid string) (bool, error)

	GetPasswordHash(ctx context.Context, uid string) (string, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type BackupCodes interface {
	// CreateBackupCode stores a backup code fingerprint for a user.
	CreateBackupCode(ctx context.Context, userID string, codeHash string) error

	// HasBackupCode checks if an unused backup code exists for a user.
	HasBackupCode(ctx context.Context, userID string, codeHash string) (bool, error)

	// ConsumeBackupCode deletes the code and reports whether this call was
	// the one that removed it.
	ConsumeBackupCode(ctx context.Context, userID string, codeHash string) (bool, error)

	// DeleteAllBackupCodes removes all backup codes for a user.
	DeleteAllBackupCodes(ctx context.Context, userID string) error

	// CountUserBackupCodes returns the number of backup codes for a user.
	CountUserBackupCodes(ctx context.Context, userID string) (int, error)
}

// EventQuery selects audit events. Zero values mean "no filter"; results are
// always newest first.
type EventQuery struct {
	UserID string
	Types  []domain.EventType
	Since  time.Time
	Until  time.Time
	Limit  int
}

// Events is append-only: there is no update or delete.
type Events interface {
	InsertEvent(ctx context.Context, e domain.SecurityEvent) error
	ListEvents(ctx context.Context, q EventQuery) ([]domain.SecurityEvent, error)
}

type Reports interface {
	CreateReport(ctx context.Context, r domain.Report) error
	GetReport(ctx context.Context, id string) (domain.Report, error)

	// UpdateReportDecision applies d only if the report is still in
	// expected status.
	UpdateReportDecision(ctx context.Context, id string, expected domain.ReportStatus, d domain.ReportDecision) (bool, error)

	// ListReports returns reports newest first. An empty status lists all.
	ListReports(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.Report, error)
}
