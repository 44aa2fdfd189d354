// Package scrape orchestrates per-jurisdiction scraping runs.
package scrape

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/DanGreiner33/texas-bar-scraper/config"
	"github.com/DanGreiner33/texas-bar-scraper/extract"
	"github.com/DanGreiner33/texas-bar-scraper/models"
	"github.com/DanGreiner33/texas-bar-scraper/normalize"
	"github.com/DanGreiner33/texas-bar-scraper/store"
	"github.com/DanGreiner33/texas-bar-scraper/traverse"
)

// RunTracker records run-level provenance: one entry per jurisdiction
// invocation.
type RunTracker interface {
	BeginRun(ctx context.Context, jurisdiction string) (int64, error)
	UpdateRun(ctx context.Context, runID int64, update store.RunUpdate) error
}

// Scraper runs every search context of one jurisdiction through a
// pagination traversal, across a bounded worker pool. A failure in one
// context never aborts the others.
type Scraper struct {
	jurisdiction Jurisdiction
	traversal    *traverse.Traversal
	tracker      RunTracker
	workers      int
}

// Summary is the outcome of one jurisdiction run.
type Summary struct {
	RunID          int64
	Jurisdiction   string
	Contexts       int
	FailedContexts int
	Found          int64
	Added          int64
	Updated        int64
	Errors         int64
	Status         models.RunStatus
}

// New wires a Scraper for a jurisdiction. The jurisdiction's city list
// feeds both the search seeds and the extraction/normalization
// allowlists.
func New(cfg *config.Config, jurisdiction Jurisdiction, fetcher traverse.Fetcher, gateway traverse.Gateway, tracker RunTracker) *Scraper {
	workers := cfg.Scraper.Workers
	if workers < 1 {
		workers = 1
	}

	traversal := traverse.New(traverse.Options{
		Fetcher:      fetcher,
		Pipeline:     extract.NewPipeline(jurisdiction.Cities),
		Normalizer:   normalize.New(jurisdiction.Cities),
		Gateway:      gateway,
		Jurisdiction: jurisdiction.Code,
		SearchURL:    jurisdiction.SearchURL,
		PageDelay:    cfg.Traversal.PageDelay,
		MaxPages:     cfg.Traversal.MaxPages,
	})

	return &Scraper{
		jurisdiction: jurisdiction,
		traversal:    traversal,
		tracker:      tracker,
		workers:      workers,
	}
}

// Run processes every seed context and reports the result to the run
// tracker. It returns an error only for fatal configuration or tracker
// failures before any work starts; transient fetch and extraction
// conditions are counted, not returned.
func (s *Scraper) Run(ctx context.Context) (*Summary, error) {
	seeds := s.jurisdiction.Seeds()
	if len(seeds) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeConfig,
			"jurisdiction "+s.jurisdiction.Code+" has no search seeds", nil)
	}

	runID, err := s.tracker.BeginRun(ctx, s.jurisdiction.Code)
	if err != nil {
		return nil, err
	}

	slog.Info("jurisdiction run starting",
		"jurisdiction", s.jurisdiction.Code,
		"runID", runID,
		"contexts", len(seeds),
		"workers", s.workers,
	)

	counters := &traverse.Counters{}
	var failed int64
	var failedMu sync.Mutex

	contexts := make(chan models.SearchContext)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range contexts {
				state := s.traversal.Run(ctx, sc, counters)
				if state == traverse.StateFailed {
					failedMu.Lock()
					failed++
					failedMu.Unlock()
				}
				s.reportProgress(runID, counters)
			}
		}()
	}

	attempted := 0
	for _, sc := range seeds {
		if ctx.Err() != nil {
			break
		}
		slog.Info("searching", "jurisdiction", s.jurisdiction.Code, "context", sc.Label)
		contexts <- sc
		attempted++
	}
	close(contexts)
	wg.Wait()

	status := models.RunStatusCompleted
	if ctx.Err() != nil {
		status = models.RunStatusFailed
	}

	found, added, updated, errorCount := counters.Snapshot()
	summary := &Summary{
		RunID:          runID,
		Jurisdiction:   s.jurisdiction.Code,
		Contexts:       attempted,
		FailedContexts: int(failed),
		Found:          found,
		Added:          added,
		Updated:        updated,
		Errors:         errorCount,
		Status:         status,
	}

	s.closeRun(runID, summary)

	slog.Info("jurisdiction run finished",
		"jurisdiction", s.jurisdiction.Code,
		"runID", runID,
		"status", status,
		"found", found,
		"added", added,
		"updated", updated,
		"errors", errorCount,
		"failedContexts", failed,
	)
	return summary, nil
}

// reportProgress pushes current counters to the tracker. Tracker errors
// are logged, never fatal mid-run.
func (s *Scraper) reportProgress(runID int64, counters *traverse.Counters) {
	found, added, updated, errorCount := counters.Snapshot()
	update := store.RunUpdate{
		Found:   &found,
		Added:   &added,
		Updated: &updated,
		Errors:  &errorCount,
	}
	// Progress writes use a fresh context so a cancelled run can still
	// record its partial counts.
	if err := s.tracker.UpdateRun(context.Background(), runID, update); err != nil {
		slog.Warn("run progress update failed", "runID", runID, "error", err)
	}
}

// closeRun writes the terminal state of a run.
func (s *Scraper) closeRun(runID int64, summary *Summary) {
	now := time.Now().UTC()
	notes := "contexts: " + strconv.Itoa(summary.Contexts) +
		", failed: " + strconv.Itoa(summary.FailedContexts)
	update := store.RunUpdate{
		Found:       &summary.Found,
		Added:       &summary.Added,
		Updated:     &summary.Updated,
		Errors:      &summary.Errors,
		Status:      &summary.Status,
		Notes:       &notes,
		CompletedAt: &now,
	}
	if err := s.tracker.UpdateRun(context.Background(), runID, update); err != nil {
		slog.Error("run close update failed", "runID", runID, "error", err)
	}
}
