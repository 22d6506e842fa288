package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
)

const (
	DefaultScanWindow = 24 * time.Hour

	scanEventCap = 500
	recentCap    = 50
)

// SuspiciousActivityService summarises suspicious audit events per user.
// It only reads.
type SuspiciousActivityService struct {
	Store store.Store
	Now   func() time.Time
}

// ScanWindow aggregates suspicious events in [now-window, now]. A
// non-positive window means DefaultScanWindow. At most 500 events are
// considered, newest first.
func (s *SuspiciousActivityService) ScanWindow(ctx context.Context, window time.Duration) (domain.SuspiciousSummary, error) {
	if window <= 0 {
		window = DefaultScanWindow
	}
	until := s.now()
	since := until.Add(-window)

	events, err := s.Store.Events().ListEvents(ctx, store.EventQuery{
		Types: domain.SuspiciousEventTypes(),
		Since: since,
		Until: until,
		Limit: scanEventCap,
	})
	if err != nil {
		return domain.SuspiciousSummary{}, storeErr("scan security events", err)
	}

	perUser := make(map[string]domain.UserActivity)
	for _, e := range events {
		uid := e.UserID
		if uid == "" {
			uid = "unknown"
		}
		act := perUser[uid]
		act.Count++
		act.EventTypes = append(act.EventTypes, e.EventType)
		perUser[uid] = act
	}

	recent := events
	if len(recent) > recentCap {
		recent = recent[:recentCap]
	}

	return domain.SuspiciousSummary{
		Since:      since,
		Until:      until,
		TotalCount: len(events),
		PerUser:    perUser,
		Recent:     recent,
	}, nil
}

func (s *SuspiciousActivityService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
