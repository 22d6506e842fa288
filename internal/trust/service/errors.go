package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/trust/internal/trust/store"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyEnabled     = errors.New("two-factor authentication already enabled")
	ErrNotEnabled         = errors.New("two-factor authentication not enabled")
	ErrNoPendingSecret    = errors.New("no pending two-factor enrollment")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfReport         = errors.New("cannot report yourself")
	ErrInvalidReport      = errors.New("invalid report")
	ErrInvalidStatus      = errors.New("invalid report status")
	ErrInvalidTransition  = errors.New("report status transition not allowed")
	ErrUnauthorized       = errors.New("admin privileges required")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storeErr maps a store failure onto the service taxonomy. Missing rows
// become ErrNotFound; anything else is ErrStorageUnavailable with the cause
// kept for logging.
func storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
