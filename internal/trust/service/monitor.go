package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"
)

// FlaggedUser is a user whose suspicious-event count met the threshold.
type FlaggedUser struct {
	UserID string
	Count  int
}

// SuspiciousActivityMonitor periodically scans the audit log and warns about
// users at or above Threshold suspicious events in Window.
type SuspiciousActivityMonitor struct {
	Detector  *SuspiciousActivityService
	Logger    *slog.Logger
	Interval  time.Duration
	Window    time.Duration
	Threshold int

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSuspiciousActivityMonitor creates a monitor. Non-positive values fall
// back to a 15 minute interval, the default scan window and a threshold of 5.
func NewSuspiciousActivityMonitor(detector *SuspiciousActivityService, logger *slog.Logger, interval, window time.Duration, threshold int) *SuspiciousActivityMonitor {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if window <= 0 {
		window = DefaultScanWindow
	}
	if threshold <= 0 {
		threshold = 5
	}

	return &SuspiciousActivityMonitor{
		Detector:  detector,
		Logger:    logger,
		Interval:  interval,
		Window:    window,
		Threshold: threshold,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (m *SuspiciousActivityMonitor) Start() {
	go m.run()
	m.Logger.Info("suspicious activity monitor started",
		"interval", m.Interval, "window", m.Window, "threshold", m.Threshold)
}

// Stop blocks until any in-progress scan has finished.
func (m *SuspiciousActivityMonitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
	m.Logger.Info("suspicious activity monitor stopped")
}

func (m *SuspiciousActivityMonitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	m.scanAndLog()

	for {
		select {
		case <-ticker.C:
			m.scanAndLog()
		case <-m.stopCh:
			return
		}
	}
}

func (m *SuspiciousActivityMonitor) scanAndLog() {
	ctx, cancel := context.WithTimeout(context.Background(), m.Interval)
	defer cancel()

	if _, err := m.Scan(ctx); err != nil {
		m.Logger.Error("suspicious activity scan failed", "err", err)
	}
}

// Scan runs one pass and returns the flagged users ordered by count, highest
// first.
func (m *SuspiciousActivityMonitor) Scan(ctx context.Context) ([]FlaggedUser, error) {
	summary, err := m.Detector.ScanWindow(ctx, m.Window)
	if err != nil {
		return nil, err
	}

	var flagged []FlaggedUser
	for uid, act := range summary.PerUser {
		if act.Count >= m.Threshold {
			flagged = append(flagged, FlaggedUser{UserID: uid, Count: act.Count})
		}
	}
	slices.SortFunc(flagged, func(a, b FlaggedUser) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	for _, f := range flagged {
		m.Logger.Warn("suspicious activity detected",
			"user_id", f.UserID,
			"count", f.Count,
			"event_types", summary.PerUser[f.UserID].EventTypes,
			"window", m.Window,
		)
	}

	m.Logger.Info("suspicious activity scan completed",
		"total", summary.TotalCount, "flagged", len(flagged))
	return flagged, nil
}
