package journal

import (
	"context"
	"fmt"
	"time"
)

// Status values stored for each operation
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one recorded operation
type Entry struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Command    string
	Input      string
	Target     string
	Output     string
	Mode       string
	Status     string
	Error      string
	Items      int64
}

// Record appends e to the journal and returns its id
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if j.db == nil {
		return 0, fmt.Errorf("journal connection is closed")
	}

	if e.Status == "" {
		e.Status = StatusOK
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = e.FinishedAt
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO operations (started_at, finished_at, command, input, target, output, mode, status, error, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.StartedAt.UTC(), e.FinishedAt.UTC(), e.Command, e.Input, e.Target, e.Output, e.Mode, e.Status, e.Error, e.Items)
	if err != nil {
		return 0, fmt.Errorf("recording %s operation: %w", e.Command, err)
	}

	return res.LastInsertId()
}

// List returns the most recent entries, newest first. limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, fmt.Errorf("journal connection is closed")
	}

	query := `SELECT id, started_at, finished_at, command, input, target, output, mode, status, error, items
		FROM operations ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.FinishedAt, &e.Command, &e.Input, &e.Target,
			&e.Output, &e.Mode, &e.Status, &e.Error, &e.Items); err != nil {
			return nil, fmt.Errorf("scanning operation row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}

	return entries, nil
}
