package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/internal/trust/store/drivers/sqlite"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *sqlite.Store
	codec     *cryptox.SecretCodec
	sink      *recordingSink
	audit     *AuditLog
	twoFactor *TwoFactorService
	reports   *ReportService
	detector  *SuspiciousActivityService
	authz     *AdminAuthorizer
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	codec, err := cryptox.NewSecretCodec([]byte("test-encryption-key"))
	require.NoError(t, err)

	env := &testEnv{store: s, codec: codec, sink: &recordingSink{}, now: testNow}
	clock := func() time.Time { return env.now }

	env.audit = &AuditLog{Store: s, Sink: env.sink, Now: clock}
	env.twoFactor = &TwoFactorService{
		Store:  s,
		Audit:  env.audit,
		Codec:  codec,
		Issuer: "Trust Test",
		Now:    clock,
	}
	env.reports = &ReportService{Store: s, Audit: env.audit, Codec: codec, Now: clock}
	env.detector = &SuspiciousActivityService{Store: s, Now: clock}
	env.authz = &AdminAuthorizer{Store: s, Audit: env.audit}
	return env
}

func (e *testEnv) createUser(t *testing.T, u domain.UserRecord) {
	t.Helper()
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
}

// eventTypes returns the user's recorded event types, oldest first.
func (e *testEnv) eventTypes(t *testing.T, uid string) []domain.EventType {
	t.Helper()
	events, err := e.store.Events().ListEvents(context.Background(), store.EventQuery{UserID: uid})
	require.NoError(t, err)

	out := make([]domain.EventType, len(events))
	for i, ev := range events {
		out[len(events)-1-i] = ev.EventType
	}
	return out
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
	err    error
}

func (r *recordingSink) Publish(_ context.Context, e domain.SecurityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingSink) published() []domain.SecurityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SecurityEvent(nil), r.events...)
}

var errEventsDown = errors.New("events table unavailable")

// brokenEventsStore behaves like the wrapped store except that audit writes
// fail.
type brokenEventsStore struct {
	store.Store
}

func (b brokenEventsStore) Events() store.Events { return brokenEvents{} }

type brokenEvents struct{}

func (brokenEvents) InsertEvent(context.Context, domain.SecurityEvent) error { return errEventsDown }

func (brokenEvents) ListEvents(context.Context, store.EventQuery) ([]domain.SecurityEvent, error) {
	return nil, errEventsDown
}
