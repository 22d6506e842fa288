package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/slogx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
)

// OriginMiddleware records the caller's IP and User-Agent so audit events
// written while serving the request carry them.
func OriginMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithOrigin(r.Context(), service.Origin{
			IP:        httpx.ClientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin flag. It must run after
// httpx.AuthnMiddleware.
func RequireAdmin(authz *service.AdminAuthorizer, resource string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := httpx.UserIDFromContext(ctx)
			if !ok {
				trustsdk.ErrInvalidToken.WriteError(w)
				return
			}

			if err := authz.RequireAdmin(ctx, userID, resource); err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					slogx.FromContext(ctx).Warn("admin access denied", "resource", resource)
					trustsdk.ErrForbidden.WriteError(w)
					return
				}
				writeServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
