package domain

import "time"

// TwoFactorStatus is the per-user second-factor state.
type TwoFactorStatus string

const (
	TwoFactorDisabled TwoFactorStatus = "disabled"
	TwoFactorPending  TwoFactorStatus = "pending"
	TwoFactorEnabled  TwoFactorStatus = "enabled"
)

// UserRecord is the projection of the user-profile store this service reads.
type UserRecord struct {
	UID          string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// UserSecurityState holds the 2FA fields of a user. TOTPSecret is the stored
// (encrypted) form and is empty iff Status is TwoFactorDisabled.
type UserSecurityState struct {
	UID        string
	Email      string
	TOTPSecret string
	Status     TwoFactorStatus
	EnabledAt  *time.Time
}

// Enrollment is returned by StartEnrollment. The secret is shown once.
type Enrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioningUri"`
	QRCode          string `json:"qrCode"` // data:image/png;base64,...
	ManualEntry     string `json:"manualEntry"`
}

// LoginVerification is the outcome of a post-password second-factor check.
type LoginVerification struct {
	Verified   bool `json:"verified"`
	Required   bool `json:"required"`
	BackupUsed bool `json:"backupUsed,omitempty"`
}

// TwoFactorStatusView never carries the backup codes, only how many remain.
type TwoFactorStatusView struct {
	Enabled              bool       `json:"enabled"`
	Pending              bool       `json:"pending,omitempty"`
	EnabledAt            *time.Time `json:"enabledAt"`
	BackupCodesRemaining int        `json:"backupCodesRemaining"`
}
