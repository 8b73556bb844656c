// Package eventlog keeps an append-only audit trail of exam lifecycle
// events. Appends are best-effort: a failed audit write is logged by the
// caller, never surfaced to the client.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeExamCreated     = "exam.created"
	TypeExamDeleted     = "exam.deleted"
	TypeExamActive      = "exam.active-toggled"
	TypeResultSubmitted = "result.submitted"
)

type Log struct{ db *sql.DB }

func New(dbh *sql.DB) *Log { return &Log{db: dbh} }

// Append records one event. key is the natural key of the subject (exam or
// result id); data is marshaled to JSON.
func (l *Log) Append(ctx context.Context, typ, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(payload), time.Now().Unix())
	return err
}
