package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/slogx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
)

// TwoFactorHandler handles all 2FA endpoints.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleSetup handles POST /v1/security/2fa/setup
//
//	@Summary		Start TOTP enrollment
//	@Description	Issues a fresh TOTP secret for the authenticated user and returns it with an otpauth URI and QR code.
//	@Description	Calling it again before verifying replaces the pending secret.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	trustsdk.TwoFactorSetupResponse	"TOTP secret and QR code"
//	@Failure		400	{object}	trustsdk.ErrorResponse			"2FA already enabled"
//	@Failure		401	{object}	trustsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		404	{object}	trustsdk.ErrorResponse			"Unknown user"
//	@Failure		503	{object}	trustsdk.ErrorResponse			"Storage unavailable"
//	@Router			/v1/security/2fa/setup [post].
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	enr, err := h.TwoFactorService.StartEnrollment(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.TwoFactorSetupResponse{
		Secret:          enr.Secret,
		ProvisioningURI: enr.ProvisioningURI,
		QRCode:          enr.QRCode,
		ManualEntry:     enr.ManualEntry,
	})
}

// HandleVerify handles POST /v1/security/2fa/verify
//
//	@Summary		Verify TOTP code and enable 2FA
//	@Description	Verifies the first code from the authenticator and enables 2FA. Returns backup codes, shown once.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.CodeRequest			true	"TOTP code"
//	@Success		200		{object}	trustsdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		400		{object}	trustsdk.ErrorResponse			"Invalid code, no pending setup or already enabled"
//	@Failure		401		{object}	trustsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		503		{object}	trustsdk.ErrorResponse			"Storage unavailable"
//	@Router			/v1/security/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req trustsdk.CodeRequest
	if !decodeCodeRequest(w, r, &req) {
		return
	}

	codes, err := h.TwoFactorService.ConfirmEnrollment(ctx, userID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.BackupCodesResponse{
		Message:     "two-factor authentication enabled",
		BackupCodes: codes,
	})
}

// HandleDisable handles POST /v1/security/2fa/disable
//
//	@Summary		Disable 2FA
//	@Description	Turns 2FA off after checking a TOTP or unused backup code and the account password.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.DisableRequest		true	"Code and password"
//	@Success		200		{object}	trustsdk.MessageResponse	"2FA disabled"
//	@Failure		400		{object}	trustsdk.ErrorResponse		"Invalid code, wrong password or 2FA not enabled"
//	@Failure		401		{object}	trustsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		503		{object}	trustsdk.ErrorResponse		"Storage unavailable"
//	@Router			/v1/security/2fa/disable [post].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req trustsdk.DisableRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Code == "" {
		trustsdk.ErrInvalidRequest.WithDescription("code is required").WriteError(w)
		return
	}

	if err := h.TwoFactorService.Disable(ctx, userID, req.Code, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.MessageResponse{Message: "two-factor authentication disabled"})
}

// HandleStatus handles GET /v1/security/2fa/status
//
//	@Summary		2FA status
//	@Description	Reports whether 2FA is enabled and how many backup codes remain. Never returns the codes.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	trustsdk.TwoFactorStatusResponse
//	@Failure		401	{object}	trustsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	trustsdk.ErrorResponse	"Unknown user"
//	@Router			/v1/security/2fa/status [get].
func (h *TwoFactorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	st, err := h.TwoFactorService.Status(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.TwoFactorStatusResponse{
		Enabled:              st.Enabled,
		Pending:              st.Pending,
		EnabledAt:            st.EnabledAt,
		BackupCodesRemaining: st.BackupCodesRemaining,
	})
}

// HandleLoginVerify handles POST /v1/security/2fa/login-verify
//
//	@Summary		Verify second factor at login
//	@Description	Checks a TOTP or backup code after the password step. Users without 2FA pass with required=false.
//	@Description	A matching backup code is consumed.
//	@Tags			2FA
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.LoginVerifyRequest		true	"User id and code"
//	@Success		200		{object}	trustsdk.LoginVerifyResponse
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Missing uid or code"
//	@Failure		401		{object}	trustsdk.ErrorResponse	"Invalid code"
//	@Failure		404		{object}	trustsdk.ErrorResponse	"Unknown user"
//	@Router			/v1/security/2fa/login-verify [post].
func (h *TwoFactorHandler) HandleLoginVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req trustsdk.LoginVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.UID == "" || req.Code == "" {
		trustsdk.ErrInvalidRequest.WithDescription("uid and code are required").WriteError(w)
		return
	}

	res, err := h.TwoFactorService.VerifyForLogin(ctx, req.UID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			slogx.FromContext(ctx).Warn("second factor rejected", "user_id", req.UID)
			trustsdk.ErrInvalidCode.WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.LoginVerifyResponse{
		Verified:   res.Verified,
		Required:   res.Required,
		BackupUsed: res.BackupUsed,
	})
}

// HandleRegenerateBackupCodes handles POST /v1/security/2fa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces all backup codes after a valid TOTP code. Old codes stop working immediately.
//	@Tags			2FA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.CodeRequest			true	"TOTP code"
//	@Success		200		{object}	trustsdk.BackupCodesResponse	"New backup codes (shown once)"
//	@Failure		400		{object}	trustsdk.ErrorResponse			"Invalid code or 2FA not enabled"
//	@Failure		401		{object}	trustsdk.ErrorResponse			"Invalid or missing access token"
//	@Router			/v1/security/2fa/backup-codes [post].
func (h *TwoFactorHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req trustsdk.CodeRequest
	if !decodeCodeRequest(w, r, &req) {
		return
	}

	codes, err := h.TwoFactorService.RegenerateBackupCodes(ctx, userID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, trustsdk.BackupCodesResponse{
		Message:     "backup codes regenerated",
		BackupCodes: codes,
	})
}

func decodeCodeRequest(w http.ResponseWriter, r *http.Request, req *trustsdk.CodeRequest) bool {
	if err := httpx.DecodeJSON(w, r, req); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to parse request", "err", err)
		trustsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return false
	}
	if req.Code == "" {
		trustsdk.ErrInvalidRequest.WithDescription("code is required").WriteError(w)
		return false
	}
	return true
}
