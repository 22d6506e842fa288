package trustsdk

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the error body every endpoint returns on failure.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// MessageResponse is returned by endpoints with nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports dependency health on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Verifier string `json:"verifier"`
}

// ============================================================================
// Two-factor
// ============================================================================

// TwoFactorSetupResponse carries a freshly issued TOTP secret. It is only
// ever returned once.
type TwoFactorSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
	QRCode          string `json:"qrCode"`
	ManualEntry     string `json:"manualEntry"`
}

// CodeRequest carries a TOTP code.
type CodeRequest struct {
	Code string `json:"code"`
}

// BackupCodesResponse carries plaintext backup codes, shown once.
type BackupCodesResponse struct {
	Message     string   `json:"message"`
	BackupCodes []string `json:"backupCodes"`
}

// DisableRequest turns 2FA off. Code may be a TOTP or a backup code.
type DisableRequest struct {
	Code     string `json:"code"`
	Password string `json:"password,omitempty"`
}

// LoginVerifyRequest is the second step of a login.
type LoginVerifyRequest struct {
	UID  string `json:"uid"`
	Code string `json:"code"`
}

type LoginVerifyResponse struct {
	Verified   bool `json:"verified"`
	Required   bool `json:"required"`
	BackupUsed bool `json:"backupUsed,omitempty"`
}

type TwoFactorStatusResponse struct {
	Enabled              bool       `json:"enabled"`
	Pending              bool       `json:"pending,omitempty"`
	EnabledAt            *time.Time `json:"enabledAt"`
	BackupCodesRemaining int        `json:"backupCodesRemaining"`
}

// ============================================================================
// Reports
// ============================================================================

type UserReportRequest struct {
	UserID  string `json:"userId"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

// ContentReportRequest reports a post, message, comment or service.
type ContentReportRequest struct {
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId"`
	Reason      string `json:"reason"`
	Details     string `json:"details,omitempty"`
}

type ReportCreatedResponse struct {
	Message  string `json:"message"`
	ReportID string `json:"reportId"`
}

// UpdateReportRequest is a moderator decision. Status is one of pending,
// reviewing, resolved or dismissed.
type UpdateReportRequest struct {
	Status string `json:"status"`
	Action string `json:"action,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Report is a moderation report. ReportedID is set for user reports,
// ContentType and ContentID for content reports.
type Report struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	ReporterID  string     `json:"reporterId"`
	ReportedID  string     `json:"reportedId,omitempty"`
	ContentType string     `json:"contentType,omitempty"`
	ContentID   string     `json:"contentId,omitempty"`
	Reason      string     `json:"reason"`
	Details     string     `json:"details"`
	Status      string     `json:"status"`
	Action      string     `json:"action,omitempty"`
	AdminNotes  string     `json:"adminNotes,omitempty"`
	ResolvedBy  string     `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ============================================================================
// Audit log
// ============================================================================

// SecurityEvent is one audit record. Metadata is kept raw so the server's
// key order survives.
type SecurityEvent struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	EventType string          `json:"eventType"`
	Metadata  json.RawMessage `json:"metadata" swaggertype:"object"`
	Timestamp time.Time       `json:"timestamp"`
	IP        string          `json:"ip,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
}

type UserActivity struct {
	Count  int      `json:"count"`
	Events []string `json:"events"`
}

// SuspiciousSummary is the admin view of suspicious events over the last
// scan window.
type SuspiciousSummary struct {
	Since           time.Time               `json:"since"`
	Until           time.Time               `json:"until"`
	TotalSuspicious int                     `json:"totalSuspicious"`
	ByUser          map[string]UserActivity `json:"byUser"`
	RecentLogs      []SecurityEvent         `json:"recentLogs"`
}
