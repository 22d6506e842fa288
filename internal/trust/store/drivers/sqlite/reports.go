package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
)

type reportsRepo struct {
	db dbtx
}

const reportColumns = `id, type, reporter_id, reported_id, content_type, content_id, reason, details,
	status, action, admin_notes, resolved_by, resolved_at, created_at`

func (r *reportsRepo) CreateReport(ctx context.Context, rep domain.Report) error {
	var reportedID, contentType, contentID sql.NullString
	switch t := rep.Target.(type) {
	case domain.UserTarget:
		reportedID = mapStringNull(t.UserID)
	case domain.ContentTarget:
		contentType = mapStringNull(string(t.Type))
		contentID = mapStringNull(t.ID)
	default:
		return fmt.Errorf("sqlite: unsupported report target %T", rep.Target)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, type, reporter_id, reported_id, content_type, content_id,
			reason, details, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, string(rep.Kind()), rep.ReporterID, reportedID, contentType, contentID,
		rep.Reason, rep.Details, string(rep.Status), toNanos(rep.CreatedAt))
	return err
}

func (r *reportsRepo) GetReport(ctx context.Context, id string) (domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if err != nil {
		return domain.Report{}, mapNotFound(err)
	}
	return rep, nil
}

func (r *reportsRepo) UpdateReportDecision(ctx context.Context, id string, expected domain.ReportStatus, d domain.ReportDecision) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = ?, action = ?, admin_notes = ?, resolved_by = ?, resolved_at = ?
		WHERE id = ? AND status = ?`,
		string(d.Status), d.Action, d.Notes, d.ResolverID, toNanos(d.ResolvedAt),
		id, string(expected))
	if err != nil {
		return false, err
	}
	return rowsAffectedOne(res)
}

func (r *reportsRepo) ListReports(ctx context.Context, status domain.ReportStatus, limit int) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(s rowScanner) (domain.Report, error) {
	var (
		rep                              domain.Report
		kind, status                     string
		reportedID, contentType, content sql.NullString
		resolvedBy                       sql.NullString
		resolvedAt                       sql.NullInt64
		createdAt                        int64
	)
	err := s.Scan(&rep.ID, &kind, &rep.ReporterID, &reportedID, &contentType, &content,
		&rep.Reason, &rep.Details, &status, &rep.Action, &rep.AdminNotes,
		&resolvedBy, &resolvedAt, &createdAt)
	if err != nil {
		return domain.Report{}, err
	}

	switch domain.ReportKind(kind) {
	case domain.ReportKindUser:
		rep.Target = domain.UserTarget{UserID: mapNullString(reportedID)}
	case domain.ReportKindContent:
		rep.Target = domain.ContentTarget{
			Type: domain.ContentType(mapNullString(contentType)),
			ID:   mapNullString(content),
		}
	default:
		return domain.Report{}, fmt.Errorf("sqlite: unknown report type %q", kind)
	}

	rep.Status = domain.ReportStatus(status)
	rep.ResolvedBy = mapNullString(resolvedBy)
	rep.ResolvedAt = mapNullNanosPtr(resolvedAt)
	rep.CreatedAt = fromNanos(createdAt)
	return rep, nil
}
