package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/service"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/jwtx"
	"github.com/aussiebroadwan/trust/pkg/slogx"

	_ "github.com/aussiebroadwan/trust/api/trust" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// VerifierReady reports whether token verification keys are loaded.
	// Nil means always ready (shared-secret mode).
	VerifierReady func() bool

	TwoFactorService  *service.TwoFactorService
	ReportService     *service.ReportService
	AuditLog          *service.AuditLog
	SuspiciousService *service.SuspiciousActivityService
	Authorizer        *service.AdminAuthorizer
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Request logging runs first so the origin and auth layers log with req_id
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		OriginMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTwoFactor()
	r.registerReports()
	r.registerLogs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Trust and Audit Service API
//	@version		0.1.0
//	@description	Two-factor authentication, abuse reports and the security audit log.
//	@description
//	@description				Every state change is recorded as a security event. Admin endpoints require the is_admin flag on the caller's user record.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/trust
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authed(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h, httpx.AuthnMiddleware(r.verifier))
}

func (r *Router) admin(h http.HandlerFunc, resource string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		RequireAdmin(r.Authorizer, resource),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactorService: r.TwoFactorService}

	r.Mux.Handle("POST /v1/security/2fa/setup", r.authed(h.HandleSetup))
	r.Mux.Handle("POST /v1/security/2fa/verify", r.authed(h.HandleVerify))
	r.Mux.Handle("POST /v1/security/2fa/disable", r.authed(h.HandleDisable))
	r.Mux.Handle("GET /v1/security/2fa/status", r.authed(h.HandleStatus))
	r.Mux.Handle("POST /v1/security/2fa/backup-codes", r.authed(h.HandleRegenerateBackupCodes))

	// Second login step: the caller has no access token yet
	r.Mux.Handle("POST /v1/security/2fa/login-verify", http.HandlerFunc(h.HandleLoginVerify))
}

func (r *Router) registerReports() {
	h := &ReportsHandler{ReportService: r.ReportService}

	r.Mux.Handle("POST /v1/security/report/user", r.authed(h.HandleReportUser))
	r.Mux.Handle("POST /v1/security/report/content", r.authed(h.HandleReportContent))
	r.Mux.Handle("GET /v1/security/reports", r.admin(h.HandleList, "reports"))
	r.Mux.Handle("PUT /v1/security/reports/{id}", r.admin(h.HandleUpdate, "reports"))
}

func (r *Router) registerLogs() {
	h := &LogsHandler{
		AuditLog:          r.AuditLog,
		SuspiciousService: r.SuspiciousService,
	}

	r.Mux.Handle("GET /v1/security/logs", r.authed(h.HandleUserLogs))
	r.Mux.Handle("GET /v1/security/logs/admin", r.admin(h.HandleAdminLogs, "logs/admin"))
	r.Mux.Handle("GET /v1/security/logs/suspicious", r.admin(h.HandleSuspicious, "logs/suspicious"))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.VerifierReady))
}
