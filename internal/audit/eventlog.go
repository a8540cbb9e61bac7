package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Event types appended by the application layer.
const (
	TypeSessionFinalized = "SessionFinalized"
	TypeProfileRejected  = "ProfileRejected"
	TypeCatalogChanged   = "CatalogChanged"
	TypeScoringGap       = "ScoringGap" // NoMatchingProfile surfaced to admins
)

type Event struct {
	Offset    int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

// Log is an append-only record of scoring and catalog activity backed by the
// event_log table. Results are audit records; the log preserves how they
// came to be.
type Log struct {
	db     *sql.DB
	siteID string
}

func NewLog(db *sql.DB, siteID string) *Log {
	if siteID == "" {
		siteID = "local"
	}
	return &Log{db: db, siteID: siteID}
}

// Append writes one event. data is marshalled to JSON; pass nil for events
// with no payload. A nil Log drops events, so wiring the log stays optional
// in tests and offline tools.
func (l *Log) Append(ctx context.Context, typ, key string, data interface{}) error {
	if l == nil || l.db == nil {
		return nil
	}
	payload := "{}"
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		l.siteID, typ, key, payload, time.Now().Unix())
	return err
}

// Recent returns the newest events for the admin activity view.
func (l *Log) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT "offset", site_id, typ, key, data, created_at FROM event_log ORDER BY "offset" DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
