package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/aussiebroadwan/trust/internal/trust/domain"
	"github.com/aussiebroadwan/trust/internal/trust/store"
)

type eventsRepo struct {
	db dbtx
}

func (r *eventsRepo) InsertEvent(ctx context.Context, e domain.SecurityEvent) error {
	md, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO security_events (id, user_id, event_type, metadata, timestamp, ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.EventType), string(md), toNanos(e.Timestamp),
		mapStringNull(e.IP), mapStringNull(e.UserAgent))
	return err
}

func (r *eventsRepo) ListEvents(ctx context.Context, q store.EventQuery) ([]domain.SecurityEvent, error) {
	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if len(q.Types) > 0 {
		where = append(where, "event_type IN ("+strings.TrimSuffix(strings.Repeat("?,", len(q.Types)), ",")+")")
		for _, t := range q.Types {
			args = append(args, string(t))
		}
	}
	if !q.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, toNanos(q.Since))
	}
	if !q.Until.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, toNanos(q.Until))
	}

	query := `SELECT id, user_id, event_type, metadata, timestamp, ip, user_agent FROM security_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SecurityEvent, 0)
	for rows.Next() {
		var (
			e         domain.SecurityEvent
			eventType string
			md        string
			ts        int64
			ip, ua    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &eventType, &md, &ts, &ip, &ua); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(md), &e.Metadata); err != nil {
			return nil, err
		}
		e.EventType = domain.EventType(eventType)
		e.Timestamp = fromNanos(ts)
		e.IP = mapNullString(ip)
		e.UserAgent = mapNullString(ua)
		out = append(out, e)
	}
	return out, rows.Err()
}
