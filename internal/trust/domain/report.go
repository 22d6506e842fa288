package domain

import (
	"encoding/json"
	"time"
)

type ReportKind string

const (
	ReportKindUser    ReportKind = "user"
	ReportKindContent ReportKind = "content"
)

// ContentType is the kind of content a report can point at.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentMessage ContentType = "message"
	ContentComment ContentType = "comment"
	ContentService ContentType = "service"
)

// ContentTypes lists the reportable content types.
func ContentTypes() []ContentType {
	return []ContentType{ContentPost, ContentMessage, ContentComment, ContentService}
}

// Valid reports whether c is a reportable content type.
func (c ContentType) Valid() bool {
	switch c {
	case ContentPost, ContentMessage, ContentComment, ContentService:
		return true
	}
	return false
}

// ReportTarget is either a UserTarget or a ContentTarget.
type ReportTarget interface {
	Kind() ReportKind
	isReportTarget()
}

type UserTarget struct {
	UserID string
}

func (UserTarget) Kind() ReportKind { return ReportKindUser }
func (UserTarget) isReportTarget()  {}

type ContentTarget struct {
	Type ContentType
	ID   string
}

func (ContentTarget) Kind() ReportKind { return ReportKindContent }
func (ContentTarget) isReportTarget()  {}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewing ReportStatus = "reviewing"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// ParseReportStatus accepts exactly the four workflow statuses.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch st := ReportStatus(s); st {
	case ReportPending, ReportReviewing, ReportResolved, ReportDismissed:
		return st, true
	}
	return "", false
}

// IsFinal reports whether no further transition is allowed.
func (s ReportStatus) IsFinal() bool {
	return s == ReportResolved || s == ReportDismissed
}

// CanTransitionTo enforces the forward-only workflow:
// pending -> any, reviewing -> reviewing|resolved|dismissed, final -> nothing.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch {
	case s.IsFinal():
		return false
	case s == ReportReviewing:
		return next != ReportPending
	default:
		return s == ReportPending
	}
}

// Report is an abuse complaint against a user or a piece of content.
type Report struct {
	ID         string
	ReporterID string
	Target     ReportTarget
	Reason     string
	Details    string
	Status     ReportStatus
	Action     string
	AdminNotes string
	ResolvedBy string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

// Kind derives the report kind from its target.
func (r Report) Kind() ReportKind {
	if r.Target == nil {
		return ""
	}
	return r.Target.Kind()
}

type reportJSON struct {
	ID          string       `json:"id"`
	Type        ReportKind   `json:"type"`
	ReporterID  string       `json:"reporterId"`
	ReportedID  string       `json:"reportedId,omitempty"`
	ContentType ContentType  `json:"contentType,omitempty"`
	ContentID   string       `json:"contentId,omitempty"`
	Reason      string       `json:"reason"`
	Details     string       `json:"details"`
	Status      ReportStatus `json:"status"`
	Action      string       `json:"action,omitempty"`
	AdminNotes  string       `json:"adminNotes,omitempty"`
	ResolvedBy  string       `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time   `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// MarshalJSON flattens the target into the legacy document shape.
func (r Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		ID:         r.ID,
		Type:       r.Kind(),
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Details:    r.Details,
		Status:     r.Status,
		Action:     r.Action,
		AdminNotes: r.AdminNotes,
		ResolvedBy: r.ResolvedBy,
		ResolvedAt: r.ResolvedAt,
		CreatedAt:  r.CreatedAt,
	}
	switch t := r.Target.(type) {
	case UserTarget:
		out.ReportedID = t.UserID
	case ContentTarget:
		out.ContentType = t.Type
		out.ContentID = t.ID
	}
	return json.Marshal(out)
}

// ReportDecision is a moderator's update to a report.
type ReportDecision struct {
	Status     ReportStatus
	Action     string
	Notes      string
	ResolverID string
	ResolvedAt time.Time
}
