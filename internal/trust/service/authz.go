package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
)

// AdminAuthorizer gates admin-only operations on the is_admin flag of the
// user projection. Every denial is audited as unauthorized_access.
type AdminAuthorizer struct {
	Store store.Store
	Audit *AuditLog
}

// RequireAdmin returns nil for admins and ErrUnauthorized for everyone else,
// including callers with no user record.
func (a *AdminAuthorizer) RequireAdmin(ctx context.Context, uid, resource string) error {
	admin, err := a.Store.Users().IsAdmin(ctx, uid)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeErr("check admin", err)
	}
	if admin {
		return nil
	}

	if _, err := a.Audit.Record(ctx, uid, domain.EventUnauthorizedAccess, domain.M("resource", resource)); err != nil {
		return err
	}
	return ErrUnauthorized
}
