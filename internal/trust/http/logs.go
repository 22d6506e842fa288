package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
)

// LogsHandler serves the security audit log.
type LogsHandler struct {
	AuditLog          *service.AuditLog
	SuspiciousService *service.SuspiciousActivityService
}

// HandleUserLogs handles GET /v1/security/logs
//
//	@Summary		My security events
//	@Description	The caller's own events, newest first.
//	@Tags			Logs
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum events (capped at 500)"	default(50)
//	@Success		200		{array}		trustsdk.SecurityEvent
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Bad limit"
//	@Failure		401		{object}	trustsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/security/logs [get].
func (h *LogsHandler) HandleUserLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	events, err := h.AuditLog.QueryByUser(ctx, userID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

// HandleAdminLogs handles GET /v1/security/logs/admin
//
//	@Summary		All security events
//	@Description	Events across all users, newest first, optionally filtered by type. Admin only.
//	@Tags			Logs
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit		query		int		false	"Maximum events (capped at 500)"	default(100)
//	@Param			event_type	query		string	false	"Only this event type"
//	@Success		200			{array}		trustsdk.SecurityEvent
//	@Failure		400			{object}	trustsdk.ErrorResponse	"Bad limit"
//	@Failure		403			{object}	trustsdk.ErrorResponse	"Admin privileges required"
//	@Router			/v1/security/logs/admin [get].
func (h *LogsHandler) HandleAdminLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	eventType := domain.EventType(r.URL.Query().Get("event_type"))
	events, err := h.AuditLog.QueryAll(r.Context(), eventType, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, events)
}

// HandleSuspicious handles GET /v1/security/logs/suspicious
//
//	@Summary		Suspicious activity
//	@Description	Suspicious events of the last 24 hours grouped by user, with the 50 most recent. Admin only.
//	@Tags			Logs
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	trustsdk.SuspiciousSummary
//	@Failure		403	{object}	trustsdk.ErrorResponse	"Admin privileges required"
//	@Router			/v1/security/logs/suspicious [get].
func (h *LogsHandler) HandleSuspicious(w http.ResponseWriter, r *http.Request) {
	summary, err := h.SuspiciousService.ScanWindow(r.Context(), service.DefaultScanWindow)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, summary)
}

// parseLimit reads the optional limit query parameter. Zero means the
// service default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		trustsdk.ErrInvalidRequest.WithDescription("limit must be a non-negative integer").WriteError(w)
		return 0, false
	}
	return n, true
}
