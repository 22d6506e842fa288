package trust_test

import (
	"testing"

	"github.com/aussiebroadwan/trust/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

// TestRejectsMissingToken verifies authenticated routes refuse anonymous callers.
func TestRejectsMissingToken(t *testing.T) {
	baseURL, cleanup := setupTrustContainer(t)
	defer cleanup()

	_, err := trustsdk.NewClient(baseURL).Logs(t.Context(), 10)
	require.ErrorIs(t, err, trustsdk.ErrInvalidToken)

	_, err = trustsdk.NewClient(baseURL).WithToken("not-a-jwt").TwoFactorStatus(t.Context())
	require.ErrorIs(t, err, trustsdk.ErrInvalidToken)
}

// TestAdminDenialIsAudited verifies a non-admin hitting an admin route gets
// 403 and finds the attempt in their own security log.
func TestAdminDenialIsAudited(t *testing.T) {
	baseURL, cleanup := setupTrustContainer(t)
	defer cleanup()

	mallory := clientFor(t, baseURL, "mallory")

	_, err := mallory.ListReports(t.Context(), "")
	require.ErrorIs(t, err, trustsdk.ErrForbidden)

	_, err = mallory.AdminLogs(t.Context(), 10, "")
	require.ErrorIs(t, err, trustsdk.ErrForbidden)

	logs, err := mallory.Logs(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, e := range logs {
		require.Equal(t, "unauthorized_access", e.EventType)
		require.NotEmpty(t, e.IP)
	}
	require.JSONEq(t, `{"resource":"logs/admin"}`, string(logs[0].Metadata))
	require.JSONEq(t, `{"resource":"reports"}`, string(logs[1].Metadata))
}

// TestLoginVerifyUnknownUser verifies the unauthenticated second login step
// does not invent users.
func TestLoginVerifyUnknownUser(t *testing.T) {
	baseURL, cleanup := setupTrustContainer(t)
	defer cleanup()

	_, err := trustsdk.NewClient(baseURL).LoginVerify(t.Context(), "nobody", "123456")
	require.ErrorIs(t, err, trustsdk.ErrNotFound)
}

// TestTwoFactorRequiresKnownUser verifies setup for a user missing from the
// profile projection fails cleanly.
func TestTwoFactorRequiresKnownUser(t *testing.T) {
	baseURL, cleanup := setupTrustContainer(t)
	defer cleanup()

	_, err := clientFor(t, baseURL, "ghost").SetupTwoFactor(t.Context())
	require.ErrorIs(t, err, trustsdk.ErrNotFound)
}
