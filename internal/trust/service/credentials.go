package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
)

// CredentialVerifier checks a user's primary password. It returns
// ErrInvalidCredentials on mismatch.
type CredentialVerifier interface {
	VerifyPassword(ctx context.Context, uid, password string) error
}

// PasswordVerifier checks argon2id hashes held in the user projection.
type PasswordVerifier struct {
	Store  store.Store
	Pepper string
}

func (v *PasswordVerifier) VerifyPassword(ctx context.Context, uid, password string) error {
	hash, err := v.Store.Users().GetPasswordHash(ctx, uid)
	if err != nil {
		return storeErr("load password hash", err)
	}
	if hash == "" || password == "" {
		return ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, v.Pepper, hash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("verify password: %w", err)
	}
	return nil
}
