package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// RunUpdate carries the subset of scrape-run fields to change. Nil
// fields are left untouched.
type RunUpdate struct {
	Found       *int64
	Added       *int64
	Updated     *int64
	Errors      *int64
	Status      *models.RunStatus
	Notes       *string
	CompletedAt *time.Time
}

// BeginRun opens a scrape-run log entry for a jurisdiction and returns
// its run ID.
func (s *Store) BeginRun(ctx context.Context, jurisdiction string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_logs (state, started_at, status) VALUES (?, ?, ?)`,
		jurisdiction, time.Now().UTC(), models.RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("store: begin run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: begin run id: %w", err)
	}
	return id, nil
}

// UpdateRun applies the non-nil fields of update to a run log entry.
func (s *Store) UpdateRun(ctx context.Context, runID int64, update RunUpdate) error {
	var (
		clauses []string
		args    []any
	)
	set := func(column string, value any) {
		clauses = append(clauses, column+" = ?")
		args = append(args, value)
	}

	if update.Found != nil {
		set("attorneys_found", *update.Found)
	}
	if update.Added != nil {
		set("attorneys_added", *update.Added)
	}
	if update.Updated != nil {
		set("attorneys_updated", *update.Updated)
	}
	if update.Errors != nil {
		set("errors", *update.Errors)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.Notes != nil {
		set("notes", *update.Notes)
	}
	if update.CompletedAt != nil {
		set("completed_at", *update.CompletedAt)
	}
	if len(clauses) == 0 {
		return nil
	}

	args = append(args, runID)
	query := `UPDATE scrape_logs SET ` + strings.Join(clauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: update run %d: %w", runID, err)
	}
	return nil
}

// Runs returns the most recent scrape runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]models.ScrapeRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.ScrapeRun
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, state, started_at, completed_at, attorneys_found,
			attorneys_added, attorneys_updated, errors, status, notes
		FROM scrape_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return runs, nil
}
