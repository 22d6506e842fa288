package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, at)
	require.NoError(t, err)
	return code
}

// enable takes uid through setup and confirmation and returns the secret and
// backup codes.
func enable(t *testing.T, env *testEnv, uid string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	enr, err := env.twoFactor.StartEnrollment(ctx, uid)
	require.NoError(t, err)

	codes, err := env.twoFactor.ConfirmEnrollment(ctx, uid, codeAt(t, enr.Secret, env.now))
	require.NoError(t, err)
	return enr.Secret, codes
}

func TestTwoFactor_EndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1", Email: "u1@example.com"})

	enr, err := env.twoFactor.StartEnrollment(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, enr.Secret)
	require.Equal(t, enr.Secret, enr.ManualEntry)
	require.True(t, strings.HasPrefix(enr.ProvisioningURI, "otpauth://totp/"))
	require.Contains(t, enr.ProvisioningURI, "secret="+enr.Secret)
	require.True(t, strings.HasPrefix(enr.QRCode, "data:image/png;base64,"))

	st, err := env.twoFactor.Status(ctx, "u1")
	require.NoError(t, err)
	require.False(t, st.Enabled)
	require.True(t, st.Pending)

	code := codeAt(t, enr.Secret, env.now)
	backup, err := env.twoFactor.ConfirmEnrollment(ctx, "u1", code)
	require.NoError(t, err)
	require.Len(t, backup, 10)

	st, err = env.twoFactor.Status(ctx, "u1")
	require.NoError(t, err)
	require.True(t, st.Enabled)
	require.NotNil(t, st.EnabledAt)
	require.True(t, env.now.Equal(*st.EnabledAt))
	require.Equal(t, 10, st.BackupCodesRemaining)

	res, err := env.twoFactor.VerifyForLogin(ctx, "u1", code)
	require.NoError(t, err)
	require.Equal(t, domain.LoginVerification{Verified: true, Required: true}, res)

	res, err = env.twoFactor.VerifyForLogin(ctx, "u1", backup[3])
	require.NoError(t, err)
	require.Equal(t, domain.LoginVerification{Verified: true, Required: true, BackupUsed: true}, res)

	_, err = env.twoFactor.VerifyForLogin(ctx, "u1", backup[3])
	require.ErrorIs(t, err, ErrInvalidCode)

	st, err = env.twoFactor.Status(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 9, st.BackupCodesRemaining)

	require.Equal(t, []domain.EventType{
		domain.Event2FASetupStarted,
		domain.Event2FAEnabled,
		domain.Event2FALoginSuccess,
		domain.Event2FABackupCodeUsed,
		domain.Event2FALoginFailed,
	}, env.eventTypes(t, "u1"))
}

func TestTwoFactor_SecretSealedAtRest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	enr, err := env.twoFactor.StartEnrollment(ctx, "u1")
	require.NoError(t, err)

	st, err := env.store.Users().GetSecurityState(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.TwoFactorPending, st.Status)
	require.NotEqual(t, enr.Secret, st.TOTPSecret)
	require.Equal(t, enr.Secret, env.codec.Decrypt(st.TOTPSecret))
}

func TestTwoFactor_LegacyPlaintextSecret(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "legacy"})

	// Rows written before encryption hold the raw base32 secret.
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "x", AccountName: "legacy"})
	require.NoError(t, err)
	ok, err := env.store.Users().BeginEnrollment(ctx, "legacy", key.Secret())
	require.NoError(t, err)
	require.True(t, ok)

	codes, err := env.twoFactor.ConfirmEnrollment(ctx, "legacy", codeAt(t, key.Secret(), env.now))
	require.NoError(t, err)
	require.Len(t, codes, 10)
}

func TestTwoFactor_StartEnrollment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.twoFactor.StartEnrollment(ctx, "ghost")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("restart replaces pending secret", func(t *testing.T) {
		first, err := env.twoFactor.StartEnrollment(ctx, "u1")
		require.NoError(t, err)
		second, err := env.twoFactor.StartEnrollment(ctx, "u1")
		require.NoError(t, err)
		require.NotEqual(t, first.Secret, second.Secret)

		// The first secret no longer confirms
		_, err = env.twoFactor.ConfirmEnrollment(ctx, "u1", codeAt(t, first.Secret, env.now))
		require.ErrorIs(t, err, ErrInvalidCode)

		_, err = env.twoFactor.ConfirmEnrollment(ctx, "u1", codeAt(t, second.Secret, env.now))
		require.NoError(t, err)
	})

	t.Run("already enabled", func(t *testing.T) {
		_, err := env.twoFactor.StartEnrollment(ctx, "u1")
		require.ErrorIs(t, err, ErrAlreadyEnabled)
	})
}

func TestTwoFactor_ConfirmEnrollment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	t.Run("no pending secret", func(t *testing.T) {
		_, err := env.twoFactor.ConfirmEnrollment(ctx, "u1", "123456")
		require.ErrorIs(t, err, ErrNoPendingSecret)
	})

	enr, err := env.twoFactor.StartEnrollment(ctx, "u1")
	require.NoError(t, err)

	t.Run("code two steps away is rejected and redacted", func(t *testing.T) {
		code := codeAt(t, enr.Secret, env.now.Add(2*30*time.Second))
		_, err := env.twoFactor.ConfirmEnrollment(ctx, "u1", code)
		require.ErrorIs(t, err, ErrInvalidCode)

		events, err := env.audit.QueryByUser(ctx, "u1", 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, domain.Event2FAVerifyFailed, events[0].EventType)
		redacted, _ := events[0].Metadata.Get("code")
		require.Equal(t, code[:2]+"****", redacted)
	})

	t.Run("code one step behind is accepted", func(t *testing.T) {
		code := codeAt(t, enr.Secret, env.now.Add(-30*time.Second))
		codes, err := env.twoFactor.ConfirmEnrollment(ctx, "u1", code)
		require.NoError(t, err)
		require.Len(t, codes, 10)

		seen := map[string]struct{}{}
		for _, c := range codes {
			require.Len(t, c, 8)
			require.Equal(t, strings.ToUpper(c), c)
			for _, r := range c {
				require.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), c)
			}
			seen[c] = struct{}{}
		}
		require.Len(t, seen, 10)
	})

	t.Run("already enabled", func(t *testing.T) {
		_, err := env.twoFactor.ConfirmEnrollment(ctx, "u1", codeAt(t, enr.Secret, env.now))
		require.ErrorIs(t, err, ErrAlreadyEnabled)
	})
}

func TestTwoFactor_VerifyForLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "plain"})
	env.createUser(t, domain.UserRecord{UID: "u1"})

	t.Run("not required without 2FA", func(t *testing.T) {
		res, err := env.twoFactor.VerifyForLogin(ctx, "plain", "")
		require.NoError(t, err)
		require.Equal(t, domain.LoginVerification{Verified: true, Required: false}, res)
		require.Empty(t, env.eventTypes(t, "plain"))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.twoFactor.VerifyForLogin(ctx, "ghost", "123456")
		require.ErrorIs(t, err, ErrNotFound)
	})

	_, backup := enable(t, env, "u1")

	t.Run("backup codes are case insensitive", func(t *testing.T) {
		res, err := env.twoFactor.VerifyForLogin(ctx, "u1", " "+strings.ToLower(backup[0])+" ")
		require.NoError(t, err)
		require.True(t, res.BackupUsed)
	})

	t.Run("wrong code", func(t *testing.T) {
		_, err := env.twoFactor.VerifyForLogin(ctx, "u1", "000000")
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("concurrent use of one backup code", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for range 6 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := env.twoFactor.VerifyForLogin(ctx, "u1", backup[1])
				if err == nil && res.BackupUsed {
					mu.Lock()
					success++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, ErrInvalidCode)
			}()
		}
		wg.Wait()
		require.Equal(t, 1, success)
	})
}

func TestTwoFactor_Disable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	t.Run("not enabled", func(t *testing.T) {
		err := env.twoFactor.Disable(ctx, "u1", "123456", "")
		require.ErrorIs(t, err, ErrNotEnabled)
	})

	secret, backup := enable(t, env, "u1")

	t.Run("invalid code is audited", func(t *testing.T) {
		err := env.twoFactor.Disable(ctx, "u1", "999999", "")
		require.ErrorIs(t, err, ErrInvalidCode)

		events, err := env.audit.QueryByUser(ctx, "u1", 1)
		require.NoError(t, err)
		require.Equal(t, domain.Event2FADisableFailed, events[0].EventType)
	})

	t.Run("backup code disables", func(t *testing.T) {
		require.NoError(t, env.twoFactor.Disable(ctx, "u1", backup[0], ""))

		st, err := env.twoFactor.Status(ctx, "u1")
		require.NoError(t, err)
		require.False(t, st.Enabled)
		require.Nil(t, st.EnabledAt)
		require.Zero(t, st.BackupCodesRemaining)

		n, err := env.store.BackupCodes().CountUserBackupCodes(ctx, "u1")
		require.NoError(t, err)
		require.Zero(t, n)

		raw, err := env.store.Users().GetSecurityState(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, raw.TOTPSecret)
		require.Equal(t, domain.TwoFactorDisabled, raw.Status)
	})

	t.Run("old secret no longer matters", func(t *testing.T) {
		res, err := env.twoFactor.VerifyForLogin(ctx, "u1", codeAt(t, secret, env.now))
		require.NoError(t, err)
		require.False(t, res.Required)
	})

	t.Run("totp disables after re-enrolment", func(t *testing.T) {
		secret, _ := enable(t, env, "u1")
		require.NoError(t, env.twoFactor.Disable(ctx, "u1", codeAt(t, secret, env.now), ""))

		types := env.eventTypes(t, "u1")
		require.Equal(t, domain.Event2FADisabled, types[len(types)-1])
	})
}

func TestTwoFactor_DisableChecksPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const pepper = "pepper"
	hash, err := cryptox.HashPassword("correct horse", pepper)
	require.NoError(t, err)
	env.createUser(t, domain.UserRecord{UID: "u1", PasswordHash: hash})
	env.twoFactor.Credentials = &PasswordVerifier{Store: env.store, Pepper: pepper}

	secret, _ := enable(t, env, "u1")
	code := codeAt(t, secret, env.now)

	err = env.twoFactor.Disable(ctx, "u1", code, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	events, err := env.audit.QueryByUser(ctx, "u1", 1)
	require.NoError(t, err)
	reason, _ := events[0].Metadata.Get("reason")
	require.Equal(t, domain.Event2FADisableFailed, events[0].EventType)
	require.Equal(t, "password", reason)

	st, err := env.twoFactor.Status(ctx, "u1")
	require.NoError(t, err)
	require.True(t, st.Enabled)

	require.NoError(t, env.twoFactor.Disable(ctx, "u1", code, "correct horse"))
}

func TestTwoFactor_RegenerateBackupCodes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	_, err := env.twoFactor.RegenerateBackupCodes(ctx, "u1", "123456")
	require.ErrorIs(t, err, ErrNotEnabled)

	secret, old := enable(t, env, "u1")

	_, err = env.twoFactor.RegenerateBackupCodes(ctx, "u1", "000000")
	require.ErrorIs(t, err, ErrInvalidCode)

	fresh, err := env.twoFactor.RegenerateBackupCodes(ctx, "u1", codeAt(t, secret, env.now))
	require.NoError(t, err)
	require.Len(t, fresh, 10)

	_, err = env.twoFactor.VerifyForLogin(ctx, "u1", old[0])
	require.ErrorIs(t, err, ErrInvalidCode)

	res, err := env.twoFactor.VerifyForLogin(ctx, "u1", fresh[0])
	require.NoError(t, err)
	require.True(t, res.BackupUsed)
}

// disableFirstStore commits a disable for uid just before the wrapped
// store opens the next transaction.
type disableFirstStore struct {
	store.Store
	uid string
}

func (d disableFirstStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if _, err := d.Store.Users().ClearTwoFactor(ctx, d.uid); err != nil {
		return err
	}
	if err := d.Store.BackupCodes().DeleteAllBackupCodes(ctx, d.uid); err != nil {
		return err
	}
	return d.Store.WithTx(ctx, fn)
}

func TestTwoFactor_RegenerateLosesToDisable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})
	secret, _ := enable(t, env, "u1")

	env.twoFactor.Store = disableFirstStore{Store: env.store, uid: "u1"}

	_, err := env.twoFactor.RegenerateBackupCodes(ctx, "u1", codeAt(t, secret, env.now))
	require.ErrorIs(t, err, ErrNotEnabled)

	st, err := env.store.Users().GetSecurityState(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.TwoFactorDisabled, st.Status)

	n, err := env.store.BackupCodes().CountUserBackupCodes(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, n)
	require.NotContains(t, env.eventTypes(t, "u1"), domain.Event2FABackupCodesRegenerated)
}

func TestTwoFactor_AuditFailurePropagates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, domain.UserRecord{UID: "u1"})

	broken := brokenEventsStore{Store: env.store}
	env.twoFactor.Audit = &AuditLog{Store: broken, Now: env.audit.Now}

	_, err := env.twoFactor.StartEnrollment(ctx, "u1")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, err, errEventsDown)
}

func TestTwoFactor_StorageUnavailable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Close())

	_, err := env.twoFactor.Status(context.Background(), "u1")
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := generateBackupCodes(50)
	require.NoError(t, err)
	require.Len(t, codes, 50)

	seen := make(map[string]struct{})
	for _, c := range codes {
		require.Len(t, c, backupCodeLength)
		seen[c] = struct{}{}
	}
	require.Len(t, seen, 50)
}

func TestRedactCode(t *testing.T) {
	require.Equal(t, "12****", redactCode("123456"))
	require.Equal(t, "****", redactCode("1"))
	require.Equal(t, "****", redactCode(""))

	got := redactCode("éü1234")
	require.Equal(t, "éü****", got)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, "****", redactCode("é"))
}
