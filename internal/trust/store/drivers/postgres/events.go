package postgres

import (
	"context"
	"encoding/json"
	"fmt"
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

	_, err = r.db.Exec(ctx, `
		INSERT INTO security_events (id, user_id, event_type, metadata, timestamp, ip, user_agent)
		VALUES ($1, $2, $3, $4::json, $5, $6, $7)`,
		e.ID, e.UserID, string(e.EventType), string(md), e.Timestamp.UTC(),
		optionalString(e.IP), optionalString(e.UserAgent))
	return err
}

func (r *eventsRepo) ListEvents(ctx context.Context, q store.EventQuery) ([]domain.SecurityEvent, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.UserID != "" {
		where = append(where, "user_id = "+arg(q.UserID))
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		where = append(where, "event_type = ANY("+arg(types)+")")
	}
	if !q.Since.IsZero() {
		where = append(where, "timestamp >= "+arg(q.Since.UTC()))
	}
	if !q.Until.IsZero() {
		where = append(where, "timestamp <= "+arg(q.Until.UTC()))
	}

	query := `SELECT id, user_id, event_type, metadata::text, timestamp, ip, user_agent FROM security_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
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
			ip, ua    *string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &eventType, &md, &e.Timestamp, &ip, &ua); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(md), &e.Metadata); err != nil {
			return nil, err
		}
		e.EventType = domain.EventType(eventType)
		e.Timestamp = e.Timestamp.UTC()
		e.IP = derefString(ip)
		e.UserAgent = derefString(ua)
		out = append(out, e)
	}
	return out, rows.Err()
}
