package http

import (
	"net/http"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
)

// ReportsHandler handles abuse reports and moderation.
type ReportsHandler struct {
	ReportService *service.ReportService
}

// HandleReportUser handles POST /v1/security/report/user
//
//	@Summary		Report a user
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.UserReportRequest		true	"Reported user and reason"
//	@Success		201		{object}	trustsdk.ReportCreatedResponse
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Missing fields or self report"
//	@Failure		401		{object}	trustsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/security/report/user [post].
func (h *ReportsHandler) HandleReportUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req trustsdk.UserReportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	rep, err := h.ReportService.File(ctx, userID, domain.UserTarget{UserID: req.UserID}, req.Reason, req.Details)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, trustsdk.ReportCreatedResponse{Message: "report submitted", ReportID: rep.ID})
}

// HandleReportContent handles POST /v1/security/report/content
//
//	@Summary		Report content
//	@Description	contentType is one of post, message, comment or service.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		trustsdk.ContentReportRequest	true	"Reported content and reason"
//	@Success		201		{object}	trustsdk.ReportCreatedResponse
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Missing fields or unsupported content type"
//	@Failure		401		{object}	trustsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/security/report/content [post].
func (h *ReportsHandler) HandleReportContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		trustsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req trustsdk.ContentReportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	target := domain.ContentTarget{Type: domain.ContentType(req.ContentType), ID: req.ContentID}
	rep, err := h.ReportService.File(ctx, userID, target, req.Reason, req.Details)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, trustsdk.ReportCreatedResponse{Message: "report submitted", ReportID: rep.ID})
}

// HandleList handles GET /v1/security/reports
//
//	@Summary		List reports
//	@Description	Newest first, at most 100. Admin only.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"pending, reviewing, resolved, dismissed or all"	default(all)
//	@Success		200		{array}		trustsdk.Report
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Unknown status"
//	@Failure		403		{object}	trustsdk.ErrorResponse	"Admin privileges required"
//	@Router			/v1/security/reports [get].
func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.ReportService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reports)
}

// HandleUpdate handles PUT /v1/security/reports/{id}
//
//	@Summary		Update a report
//	@Description	Records a moderator decision. Status only moves forward; resolved and dismissed are final. Admin only.
//	@Tags			Reports
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Report ID"
//	@Param			request	body		trustsdk.UpdateReportRequest	true	"Decision"
//	@Success		200		{object}	trustsdk.Report
//	@Failure		400		{object}	trustsdk.ErrorResponse	"Unknown status"
//	@Failure		403		{object}	trustsdk.ErrorResponse	"Admin privileges required"
//	@Failure		404		{object}	trustsdk.ErrorResponse	"Unknown report"
//	@Failure		409		{object}	trustsdk.ErrorResponse	"Transition not allowed"
//	@Router			/v1/security/reports/{id} [put].
func (h *ReportsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resolverID, _ := httpx.UserIDFromContext(ctx)

	var req trustsdk.UpdateReportRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		trustsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	rep, err := h.ReportService.Resolve(ctx, r.PathValue("id"), req.Status, req.Action, req.Notes, resolverID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rep)
}
