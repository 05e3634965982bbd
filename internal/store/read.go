package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filter narrows ListChanges. Zero values match everything.
type Filter struct {
	AppName string // matched on AppKey
	RunID   string
	Limit   int // most recent N rows, still returned oldest first
}

// ListChanges returns recorded changes ordered by seq ascending.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListChanges(ctx context.Context, f Filter) ([]Change, error) {
	var (
		where []string
		args  []any
	)
	if f.AppName != "" {
		where = append(where, "app_key = ?")
		args = append(args, AppKey(f.AppName))
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}

	query := `
		SELECT seq, run_id, app_name, volume, description, changed, dry_run, state_file, recorded_at
		FROM changes`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit > 0 {
		// Take the newest rows, then restore ascending order.
		query = "SELECT * FROM (" + query + " ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC"
		args = append(args, f.Limit)
	} else {
		query += " ORDER BY seq ASC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var (
			c               Change
			changed, dryRun int
			recordedAt      string
		)
		if err := rows.Scan(&c.Seq, &c.RunID, &c.AppName, &c.Volume, &c.Description, &changed, &dryRun, &c.StateFile, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		c.Changed = changed == 1
		c.DryRun = dryRun == 1
		c.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at for seq %d: %w", c.Seq, err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}

	return changes, nil
}
