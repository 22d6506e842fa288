package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/jackc/pgx/v5"
)

type reportsRepo struct {
	db dbtx
}

const reportColumns = `id, type, reporter_id, reported_id, content_type, content_id, reason, details,
	status, action, admin_notes, resolved_by, resolved_at, created_at`

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.Report) error {
	var reportedID, contentType, contentID *string
	switch t := rep.Target.(type) {
	case domain.UserTarget:
		reportedID = optionalString(t.UserID)
	case domain.ContentTarget:
		contentType = optionalString(string(t.Type))
		contentID = optionalString(t.ID)
	default:
		return fmt.Errorf("postgres: unsupported report target %T", rep.Target)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO reports (id, type, reporter_id, reported_id, content_type, content_id,
			reason, details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rep.ID, string(rep.Kind()), rep.ReporterID, reportedID, contentType, contentID,
		rep.Reason, rep.Details, string(rep.Status), rep.CreatedAt.UTC())
	return err
}

func (r *reportsRepo) GetReport(ctx context.Context, id string) (domain.Report, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	rep, err := scanReport(row)
	if err != nil {
		return domain.Report{}, mapNotFound(err)
	}
	return rep, nil
}

func (r *reportsRepo) UpdateReportDecision(ctx context.Context, id string, expected domain.ReportStatus, d domain.ReportDecision) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE reports
		SET status = $1, action = $2, admin_notes = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $6 AND status = $7`,
		string(d.Status), d.Action, d.Notes, d.ResolverID, d.ResolvedAt.UTC(),
		id, string(expected))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *reportsRepo) ListReports(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.Report, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.Query(ctx,
			`SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+reportColumns+` FROM reports WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
			string(status), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (domain.Report, error) {
	var (
		rep                              domain.Report
		kind, status                     string
		reportedID, contentType, content *string
		resolvedBy                       *string
		resolvedAt                       *time.Time
	)
	err := row.Scan(&rep.ID, &kind, &rep.ReporterID, &reportedID, &contentType, &content,
		&rep.Reason, &rep.Details, &status, &rep.Action, &rep.AdminNotes,
		&resolvedBy, &resolvedAt, &rep.CreatedAt)
	if err != nil {
		return domain.Report{}, err
	}

	switch domain.ReportKind(kind) {
	case domain.ReportKindUser:
		rep.Target = domain.UserTarget{UserID: derefString(reportedID)}
	case domain.ReportKindContent:
		rep.Target = domain.ContentTarget{
			Type: domain.ContentType(derefString(contentType)),
			ID:   derefString(content),
		}
	default:
		return domain.Report{}, fmt.Errorf("postgres: unknown report type %q", kind)
	}

	rep.Status = domain.ReportStatus(status)
	rep.ResolvedBy = derefString(resolvedBy)
	rep.ResolvedAt = utcPtr(resolvedAt)
	rep.CreatedAt = rep.CreatedAt.UTC()
	return rep, nil
}
