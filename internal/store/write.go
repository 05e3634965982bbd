package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Change is one recorded volume request.
type Change struct {
	Seq         int64     `json:"seq"`
	RunID       string    `json:"run_id"`
	AppName     string    `json:"app_name"`
	Volume      float64   `json:"volume"`
	Description string    `json:"description,omitempty"`
	Changed     bool      `json:"changed"`
	DryRun      bool      `json:"dry_run"`
	StateFile   string    `json:"state_file"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// AppKey returns the lookup key stored for an app name.
func AppKey(appName string) string {
	return norm.NFC.String(appName)
}

// RecordChange appends c and returns its assigned seq. c.Seq is ignored.
func (s *Store) RecordChange(ctx context.Context, c Change) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO changes
		(run_id, app_name, app_key, volume, description, changed, dry_run, state_file, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.RunID,
		c.AppName,
		AppKey(c.AppName),
		c.Volume,
		c.Description,
		boolToInt(c.Changed),
		boolToInt(c.DryRun),
		c.StateFile,
		c.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("record change: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record change: %w", err)
	}
	return seq, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
