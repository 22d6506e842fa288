package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod = 30
	totpSkew   = 1 // accept one step either side for clock drift
	qrSize     = 256
)

// TwoFactorService owns the per-user 2FA state machine:
// disabled -> pending -> enabled -> disabled.
//
// TOTP secrets are stored through Codec. Backup codes are stored as SHA-256
// fingerprints and are shown to the user exactly once.
type TwoFactorService struct {
	Store       store.Store
	Audit       *AuditLog
	Codec       *cryptox.SecretCodec
	Credentials CredentialVerifier // optional; nil skips the password check on Disable
	Issuer      string
	Now         func() time.Time
}

// StartEnrollment issues a fresh secret and moves the user to pending.
// Re-running it while pending replaces the previous secret.
func (s *TwoFactorService) StartEnrollment(ctx context.Context, uid string) (domain.Enrollment, error) {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return domain.Enrollment{}, storeErr("load security state", err)
	}
	if st.Status == domain.TwoFactorEnabled {
		return domain.Enrollment{}, ErrAlreadyEnabled
	}

	account := st.Email
	if account == "" {
		account = uid
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: account,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	qr, err := qrDataURI(key)
	if err != nil {
		return domain.Enrollment{}, err
	}

	sealed, err := s.Codec.Encrypt(key.Secret())
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("failed to seal TOTP secret: %w", err)
	}

	ok, err := s.Store.Users().BeginEnrollment(ctx, uid, sealed)
	if err != nil {
		return domain.Enrollment{}, storeErr("begin enrollment", err)
	}
	if !ok {
		// Enabled (or removed) between the read and the write.
		return domain.Enrollment{}, ErrAlreadyEnabled
	}

	if _, err := s.Audit.Record(ctx, uid, domain.Event2FASetupStarted, nil); err != nil {
		return domain.Enrollment{}, err
	}

	return domain.Enrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRCode:          qr,
		ManualEntry:     key.Secret(),
	}, nil
}

// ConfirmEnrollment verifies the first code from the authenticator, enables
// 2FA and returns the backup codes. The codes cannot be retrieved again.
func (s *TwoFactorService) ConfirmEnrollment(ctx context.Context, uid, code string) ([]string, error) {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return nil, storeErr("load security state", err)
	}
	if st.Status == domain.TwoFactorEnabled {
		return nil, ErrAlreadyEnabled
	}
	if st.TOTPSecret == "" {
		return nil, ErrNoPendingSecret
	}

	if !s.validTOTP(code, s.Codec.Decrypt(st.TOTPSecret)) {
		if _, err := s.Audit.Record(ctx, uid, domain.Event2FAVerifyFailed,
			domain.M("code", redactCode(code))); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	}

	codes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		ok, err := tx.Users().ActivateTwoFactor(ctx, uid, st.TOTPSecret, s.now())
		if err != nil {
			return storeErr("activate two-factor", err)
		}
		if !ok {
			// A concurrent setup replaced the secret we just verified.
			return ErrNoPendingSecret
		}
		return replaceBackupCodes(ctx, tx, uid, codes)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Audit.Record(ctx, uid, domain.Event2FAEnabled, nil); err != nil {
		return nil, err
	}
	return codes, nil
}

// Disable turns 2FA off after checking a TOTP or unused backup code and, when
// a CredentialVerifier is configured, the account password.
func (s *TwoFactorService) Disable(ctx context.Context, uid, code, password string) error {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return storeErr("load security state", err)
	}
	if st.Status != domain.TwoFactorEnabled {
		return ErrNotEnabled
	}

	ok, err := s.checkCode(ctx, uid, st, code)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Audit.Record(ctx, uid, domain.Event2FADisableFailed, domain.M("reason", "code")); err != nil {
			return err
		}
		return ErrInvalidCode
	}

	if s.Credentials != nil {
		if err := s.Credentials.VerifyPassword(ctx, uid, password); err != nil {
			if !errors.Is(err, ErrInvalidCredentials) {
				return err
			}
			if _, err := s.Audit.Record(ctx, uid, domain.Event2FADisableFailed, domain.M("reason", "password")); err != nil {
				return err
			}
			return ErrInvalidCredentials
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		ok, err := tx.Users().ClearTwoFactor(ctx, uid)
		if err != nil {
			return storeErr("clear two-factor", err)
		}
		if !ok {
			return ErrNotEnabled
		}
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, uid); err != nil {
			return storeErr("delete backup codes", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, err = s.Audit.Record(ctx, uid, domain.Event2FADisabled, nil)
	return err
}

// VerifyForLogin is the second step of a login. Users without 2FA pass
// straight through. A matching backup code is consumed.
func (s *TwoFactorService) VerifyForLogin(ctx context.Context, uid, code string) (domain.LoginVerification, error) {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return domain.LoginVerification{}, storeErr("load security state", err)
	}
	if st.Status != domain.TwoFactorEnabled {
		return domain.LoginVerification{Verified: true, Required: false}, nil
	}

	if s.validTOTP(code, s.Codec.Decrypt(st.TOTPSecret)) {
		if _, err := s.Audit.Record(ctx, uid, domain.Event2FALoginSuccess, nil); err != nil {
			return domain.LoginVerification{}, err
		}
		return domain.LoginVerification{Verified: true, Required: true}, nil
	}

	consumed, err := s.Store.BackupCodes().ConsumeBackupCode(ctx, uid, backupCodeHash(code))
	if err != nil {
		return domain.LoginVerification{}, storeErr("consume backup code", err)
	}
	if consumed {
		if _, err := s.Audit.Record(ctx, uid, domain.Event2FABackupCodeUsed, nil); err != nil {
			return domain.LoginVerification{}, err
		}
		return domain.LoginVerification{Verified: true, Required: true, BackupUsed: true}, nil
	}

	if _, err := s.Audit.Record(ctx, uid, domain.Event2FALoginFailed, nil); err != nil {
		return domain.LoginVerification{}, err
	}
	return domain.LoginVerification{}, ErrInvalidCode
}

// Status reports whether 2FA is on and how many backup codes remain.
func (s *TwoFactorService) Status(ctx context.Context, uid string) (domain.TwoFactorStatusView, error) {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return domain.TwoFactorStatusView{}, storeErr("load security state", err)
	}

	view := domain.TwoFactorStatusView{
		Enabled: st.Status == domain.TwoFactorEnabled,
		Pending: st.Status == domain.TwoFactorPending,
	}
	if !view.Enabled {
		return view, nil
	}

	remaining, err := s.Store.BackupCodes().CountUserBackupCodes(ctx, uid)
	if err != nil {
		return domain.TwoFactorStatusView{}, storeErr("count backup codes", err)
	}
	view.EnabledAt = st.EnabledAt
	view.BackupCodesRemaining = remaining
	return view, nil
}

// RegenerateBackupCodes replaces all backup codes after a valid TOTP code.
func (s *TwoFactorService) RegenerateBackupCodes(ctx context.Context, uid, code string) ([]string, error) {
	st, err := s.Store.Users().GetSecurityState(ctx, uid)
	if err != nil {
		return nil, storeErr("load security state", err)
	}
	if st.Status != domain.TwoFactorEnabled {
		return nil, ErrNotEnabled
	}

	if !s.validTOTP(code, s.Codec.Decrypt(st.TOTPSecret)) {
		if _, err := s.Audit.Record(ctx, uid, domain.Event2FAVerifyFailed,
			domain.M("code", redactCode(code), "purpose", "regenerate_backup_codes")); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	}

	codes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		enabled, err := tx.Users().LockTwoFactor(ctx, uid)
		if err != nil {
			return storeErr("lock security state", err)
		}
		if !enabled {
			return ErrNotEnabled
		}
		return replaceBackupCodes(ctx, tx, uid, codes)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Audit.Record(ctx, uid, domain.Event2FABackupCodesRegenerated, nil); err != nil {
		return nil, err
	}
	return codes, nil
}

// checkCode accepts a current TOTP code or an unused backup code without
// consuming it.
func (s *TwoFactorService) checkCode(ctx context.Context, uid string, st domain.UserSecurityState, code string) (bool, error) {
	if s.validTOTP(code, s.Codec.Decrypt(st.TOTPSecret)) {
		return true, nil
	}
	has, err := s.Store.BackupCodes().HasBackupCode(ctx, uid, backupCodeHash(code))
	if err != nil {
		return false, storeErr("check backup code", err)
	}
	return has, nil
}

// validTOTP checks code against secret with a one step tolerance. The
// comparison inside the otp library is constant time.
func (s *TwoFactorService) validTOTP(code, secret string) bool {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, s.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (s *TwoFactorService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func replaceBackupCodes(ctx context.Context, tx store.Tx, uid string, codes []string) error {
	if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, uid); err != nil {
		return storeErr("delete backup codes", err)
	}
	for _, code := range codes {
		if err := tx.BackupCodes().CreateBackupCode(ctx, uid, backupCodeHash(code)); err != nil {
			return storeErr("store backup code", err)
		}
	}
	return nil
}

// redactCode keeps a two character prefix so failed attempts can be told
// apart in the log without recording a usable code.
func redactCode(code string) string {
	prefix := []rune(strings.TrimSpace(code))
	if len(prefix) < 2 {
		return "****"
	}
	return string(prefix[:2]) + "****"
}

func qrDataURI(key *otp.Key) (string, error) {
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
