package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/pkg/slogx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
)

var (
	errAlreadyEnabled = trustsdk.NewAPIError(http.StatusBadRequest, "2fa_already_enabled",
		"two-factor authentication is already enabled")
	errNotEnabled = trustsdk.NewAPIError(http.StatusBadRequest, "2fa_not_enabled",
		"two-factor authentication is not enabled")
	errNoPendingSecret = trustsdk.NewAPIError(http.StatusBadRequest, "2fa_setup_required",
		"start two-factor setup first")
	errBadCode = trustsdk.NewAPIError(http.StatusBadRequest, trustsdk.ErrorCodeInvalidCode,
		"invalid verification code")
	errInvalidCredentials = trustsdk.NewAPIError(http.StatusBadRequest, "invalid_credentials",
		"password is incorrect")
)

// writeServiceError maps service sentinels onto API errors. Anything
// unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrNotFound):
		trustsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrAlreadyEnabled):
		errAlreadyEnabled.WriteError(w)
	case errors.Is(err, service.ErrNotEnabled):
		errNotEnabled.WriteError(w)
	case errors.Is(err, service.ErrNoPendingSecret):
		errNoPendingSecret.WriteError(w)
	case errors.Is(err, service.ErrInvalidCode):
		errBadCode.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrSelfReport),
		errors.Is(err, service.ErrInvalidReport),
		errors.Is(err, service.ErrInvalidStatus):
		trustsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidTransition):
		trustsdk.ErrConflict.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		trustsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Error("storage unavailable", "err", err)
		trustsdk.ErrUnavailable.WriteError(w)
	default:
		log.Error("unhandled service error", "err", err)
		trustsdk.ErrServerError.WriteError(w)
	}
}
