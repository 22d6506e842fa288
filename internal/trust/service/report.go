package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/aussiebroadwan/trust/pkg/idx"
)

const reportListLimit = 100

// ReportService files moderation reports and records moderator decisions.
// Details and admin notes are sealed with Codec at rest.
type ReportService struct {
	Store store.Store
	Audit *AuditLog
	Codec *cryptox.SecretCodec
	Now   func() time.Time
}

// File creates a pending report against a user or a piece of content.
func (s *ReportService) File(ctx context.Context, reporterID string, target domain.ReportTarget, reason, details string) (domain.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Report{}, fmt.Errorf("%w: reason is required", ErrInvalidReport)
	}

	var (
		eventType domain.EventType
		md        domain.Metadata
	)
	switch t := target.(type) {
	case domain.UserTarget:
		if t.UserID == "" {
			return domain.Report{}, fmt.Errorf("%w: reported user is required", ErrInvalidReport)
		}
		if t.UserID == reporterID {
			return domain.Report{}, ErrSelfReport
		}
		eventType = domain.EventUserReported
		md = domain.M("reportedId", t.UserID, "reason", reason)
	case domain.ContentTarget:
		if !t.Type.Valid() {
			return domain.Report{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidReport, t.Type)
		}
		if t.ID == "" {
			return domain.Report{}, fmt.Errorf("%w: content id is required", ErrInvalidReport)
		}
		eventType = domain.EventContentReported
		md = domain.M("contentType", string(t.Type), "contentId", t.ID, "reason", reason)
	default:
		return domain.Report{}, fmt.Errorf("%w: missing target", ErrInvalidReport)
	}

	now := s.now()
	rep := domain.Report{
		ID:         idx.NewAt(now).String(),
		ReporterID: reporterID,
		Target:     target,
		Reason:     reason,
		Details:    details,
		Status:     domain.ReportPending,
		CreatedAt:  now,
	}

	stored := rep
	sealed, err := s.seal(details)
	if err != nil {
		return domain.Report{}, err
	}
	stored.Details = sealed

	if err := s.Store.Reports().CreateReport(ctx, stored); err != nil {
		return domain.Report{}, storeErr("create report", err)
	}

	md = append(md, domain.Attr{Key: "reportId", Value: rep.ID})
	if _, err := s.Audit.Record(ctx, reporterID, eventType, md); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}

// Get returns a single report.
func (s *ReportService) Get(ctx context.Context, id string) (domain.Report, error) {
	rep, err := s.Store.Reports().GetReport(ctx, id)
	if err != nil {
		return domain.Report{}, storeErr("get report", err)
	}
	return s.open(rep), nil
}

// List returns up to 100 reports, newest first. An empty status or "all"
// lists every status.
func (s *ReportService) List(ctx context.Context, status string) ([]domain.Report, error) {
	var filter domain.ReportStatus
	if status != "" && status != "all" {
		st, ok := domain.ParseReportStatus(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter = st
	}

	reports, err := s.Store.Reports().ListReports(ctx, filter, reportListLimit)
	if err != nil {
		return nil, storeErr("list reports", err)
	}
	for i := range reports {
		reports[i] = s.open(reports[i])
	}
	return reports, nil
}

// Resolve records a moderator decision. Status only moves forward; the
// update is conditional on the status read, so two moderators racing on the
// same report cannot both win.
func (s *ReportService) Resolve(ctx context.Context, reportID, newStatus, action, notes, resolverID string) (domain.Report, error) {
	st, ok := domain.ParseReportStatus(newStatus)
	if !ok {
		return domain.Report{}, ErrInvalidStatus
	}

	cur, err := s.Store.Reports().GetReport(ctx, reportID)
	if err != nil {
		return domain.Report{}, storeErr("get report", err)
	}
	if !cur.Status.CanTransitionTo(st) {
		return domain.Report{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, st)
	}

	sealedNotes, err := s.seal(notes)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.now()
	decision := domain.ReportDecision{
		Status:     st,
		Action:     action,
		Notes:      sealedNotes,
		ResolverID: resolverID,
		ResolvedAt: now,
	}

	ok, err = s.Store.Reports().UpdateReportDecision(ctx, reportID, cur.Status, decision)
	if err != nil {
		return domain.Report{}, storeErr("update report", err)
	}
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: report changed concurrently", ErrInvalidTransition)
	}

	if _, err := s.Audit.Record(ctx, resolverID, domain.EventReportUpdated,
		domain.M("reportId", reportID, "status", string(st), "action", action)); err != nil {
		return domain.Report{}, err
	}

	out := s.open(cur)
	out.Status = st
	out.Action = action
	out.AdminNotes = notes
	out.ResolvedBy = resolverID
	out.ResolvedAt = &now
	return out, nil
}

func (s *ReportService) seal(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	sealed, err := s.Codec.Encrypt(v)
	if err != nil {
		return "", fmt.Errorf("failed to seal report field: %w", err)
	}
	return sealed, nil
}

func (s *ReportService) open(r domain.Report) domain.Report {
	if r.Details != "" {
		r.Details = s.Codec.Decrypt(r.Details)
	}
	if r.AdminNotes != "" {
		r.AdminNotes = s.Codec.Decrypt(r.AdminNotes)
	}
	return r
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
