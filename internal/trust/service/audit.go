package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/idx"
	"github.com/aussiebroadwan/trust/pkg/slogx"
)

const (
	defaultUserEventLimit = 50
	defaultAllEventLimit  = 100
	maxEventLimit         = 500
)

// EventSink receives every event after it has been durably stored.
type EventSink interface {
	Publish(ctx context.Context, e domain.SecurityEvent) error
}

// AuditLog is the append-only security event log.
type AuditLog struct {
	Store store.Store
	Sink  EventSink // optional
	Now   func() time.Time
}

func NewAuditLog(s store.Store, sink EventSink) *AuditLog {
	return &AuditLog{Store: s, Sink: sink}
}

// Record appends an event. The request origin, if any, is taken from ctx.
// The durable insert must succeed; publishing to the sink is best-effort.
func (a *AuditLog) Record(ctx context.Context, userID string, eventType domain.EventType, md domain.Metadata) (domain.SecurityEvent, error) {
	now := a.now()
	origin := OriginFromContext(ctx)

	if md == nil {
		md = domain.Metadata{}
	}

	e := domain.SecurityEvent{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		EventType: eventType,
		Metadata:  md,
		Timestamp: now,
		IP:        origin.IP,
		UserAgent: origin.UserAgent,
	}

	if err := a.Store.Events().InsertEvent(ctx, e); err != nil {
		return domain.SecurityEvent{}, storeErr("record security event", err)
	}

	if a.Sink != nil {
		if err := a.Sink.Publish(ctx, e); err != nil {
			slogx.FromContext(ctx).Warn("security event publish failed",
				"event_id", e.ID, "event_type", string(e.EventType), "err", err)
		}
	}

	return e, nil
}

// QueryByUser returns a user's events, newest first.
func (a *AuditLog) QueryByUser(ctx context.Context, userID string, limit int) ([]domain.SecurityEvent, error) {
	events, err := a.Store.Events().ListEvents(ctx, store.EventQuery{
		UserID: userID,
		Limit:  clampLimit(limit, defaultUserEventLimit),
	})
	if err != nil {
		return nil, storeErr("query security events", err)
	}
	return events, nil
}

// QueryAll returns events across all users, newest first, optionally
// filtered to one type. Callers gate this behind an admin check.
func (a *AuditLog) QueryAll(ctx context.Context, eventType domain.EventType, limit int) ([]domain.SecurityEvent, error) {
	q := store.EventQuery{Limit: clampLimit(limit, defaultAllEventLimit)}
	if eventType != "" {
		q.Types = []domain.EventType{eventType}
	}

	events, err := a.Store.Events().ListEvents(ctx, q)
	if err != nil {
		return nil, storeErr("query security events", err)
	}
	return events, nil
}

func (a *AuditLog) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > maxEventLimit:
		return maxEventLimit
	}
	return limit
}
