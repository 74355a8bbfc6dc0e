// Package audit provides an append-only action log written alongside the
// primary state changes. Recording is fire-and-forget: a failed insert is
// logged, never propagated to the caller.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder is the sink services write to. userID 0 means "no actor"
// (e.g. a failed login for an unknown email) and is stored as NULL.
type Recorder interface {
	Record(ctx context.Context, userID int64, action, details string)
}

type PGLog struct{ db *pgxpool.Pool }

func NewPGLog(db *pgxpool.Pool) *PGLog { return &PGLog{db: db} }

func (l *PGLog) Record(ctx context.Context, userID int64, action, details string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := l.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action, details, timestamp)
		VALUES (NULLIF($1,0), $2, $3, NOW())
	`, userID, action, details)
	if err != nil {
		log.Printf("[audit] insert failed action=%s: %v", action, err)
	}
}

func (l *PGLog) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.Query(ctx, `
		SELECT id, COALESCE(user_id, 0), action, details, timestamp
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
