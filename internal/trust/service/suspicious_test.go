package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/stretchr/testify/require"
)

func recordAt(t *testing.T, env *testEnv, at time.Time, uid string, et domain.EventType) {
	t.Helper()
	env.now = at
	_, err := env.audit.Record(context.Background(), uid, et, nil)
	require.NoError(t, err)
}

func TestSuspicious_ScanWindow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	base := testNow

	recordAt(t, env, base.Add(-25*time.Hour), "u2", domain.Event2FALoginFailed)
	recordAt(t, env, base.Add(-3*time.Hour), "u2", domain.Event2FALoginFailed)
	recordAt(t, env, base.Add(-2*time.Hour), "u2", domain.EventLoginFailed)
	recordAt(t, env, base.Add(-1*time.Hour), "u2", domain.Event2FAVerifyFailed)
	recordAt(t, env, base.Add(-1*time.Hour), "u3", domain.EventUnauthorizedAccess)
	recordAt(t, env, base.Add(-1*time.Hour), "", domain.EventRateLimitExceeded)
	// Not suspicious
	recordAt(t, env, base.Add(-1*time.Hour), "u2", domain.Event2FALoginSuccess)
	env.now = base

	sum, err := env.detector.ScanWindow(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 5, sum.TotalCount)
	require.Equal(t, 3, sum.PerUser["u2"].Count)
	require.Equal(t, []domain.EventType{
		domain.Event2FAVerifyFailed,
		domain.EventLoginFailed,
		domain.Event2FALoginFailed,
	}, sum.PerUser["u2"].EventTypes)
	require.Equal(t, 1, sum.PerUser["u3"].Count)
	require.Equal(t, 1, sum.PerUser["unknown"].Count)
	require.Len(t, sum.Recent, 5)
	require.True(t, sum.Until.Equal(base))
	require.True(t, sum.Since.Equal(base.Add(-24*time.Hour)))

	t.Run("default window", func(t *testing.T) {
		def, err := env.detector.ScanWindow(context.Background(), 0)
		require.NoError(t, err)
		require.Equal(t, sum.TotalCount, def.TotalCount)
	})

	t.Run("wider window", func(t *testing.T) {
		wide, err := env.detector.ScanWindow(context.Background(), 48*time.Hour)
		require.NoError(t, err)
		require.Equal(t, 4, wide.PerUser["u2"].Count)
	})
}

func TestSuspicious_RecentCapped(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for i := range recentCap + 10 {
		recordAt(t, env, testNow.Add(-time.Duration(i)*time.Minute), "u1", domain.EventLoginFailed)
	}
	env.now = testNow

	sum, err := env.detector.ScanWindow(context.Background(), time.Hour*24)
	require.NoError(t, err)
	require.Equal(t, recentCap+10, sum.TotalCount)
	require.Len(t, sum.Recent, recentCap)
	require.True(t, sum.Recent[0].Timestamp.Equal(testNow))
}

func TestSuspiciousActivityMonitor_Scan(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for range 6 {
		recordAt(t, env, testNow.Add(-time.Minute), "noisy", domain.EventLoginFailed)
	}
	for range 5 {
		recordAt(t, env, testNow.Add(-time.Minute), "edge", domain.Event2FALoginFailed)
	}
	recordAt(t, env, testNow.Add(-time.Minute), "quiet", domain.EventLoginFailed)
	env.now = testNow

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewSuspiciousActivityMonitor(env.detector, logger, time.Hour, 0, 5)

	flagged, err := m.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []FlaggedUser{
		{UserID: "noisy", Count: 6},
		{UserID: "edge", Count: 5},
	}, flagged)
	require.Contains(t, buf.String(), "suspicious activity detected")
	require.Contains(t, buf.String(), "user_id=noisy")
}

func TestSuspiciousActivityMonitor_StartStop(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	m := NewSuspiciousActivityMonitor(env.detector, slog.New(slog.DiscardHandler), time.Hour, time.Hour, 1)
	m.Start()
	m.Stop()
}
