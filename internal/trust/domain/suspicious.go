package domain

import "time"

// UserActivity is one user's share of a suspicious-activity scan.
type UserActivity struct {
	Count      int         `json:"count"`
	EventTypes []EventType `json:"events"`
}

// SuspiciousSummary aggregates suspicious events over a trailing window.
type SuspiciousSummary struct {
	Since      time.Time               `json:"since"`
	Until      time.Time               `json:"until"`
	TotalCount int                     `json:"totalSuspicious"`
	PerUser    map[string]UserActivity `json:"byUser"`
	Recent     []SecurityEvent         `json:"recentLogs"`
}
