// Package traverse walks one search context through its paginated
// results until exhaustion.
package traverse

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/DanGreiner33/texas-bar-scraper/extract"
	"github.com/DanGreiner33/texas-bar-scraper/models"
	"github.com/DanGreiner33/texas-bar-scraper/normalize"
)

// Fetcher issues the rate-limited HTTP calls a traversal needs.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) (string, error)
}

// State is a traversal's position in its lifecycle.
type State string

const (
	StateFetching  State = "fetching"
	StateParsing   State = "parsing"
	StateFollowing State = "following"

	// StateDone means pagination was exhausted normally.
	StateDone State = "done"

	// StateFailed means a fetch failure or cancellation ended the
	// traversal early.
	StateFailed State = "failed"
)

// Traversal drives one SearchContext from its search submission through
// every results page. Pagination state (current locator, visited set) is
// owned by a single Run call and never shared; a Traversal value itself
// is safe to reuse across contexts.
type Traversal struct {
	fetcher      Fetcher
	pipeline     *extract.Pipeline
	normalizer   *normalize.Normalizer
	gateway      Gateway
	jurisdiction string
	searchURL    string
	pageDelay    time.Duration
	maxPages     int
}

// Options configures a Traversal.
type Options struct {
	Fetcher      Fetcher
	Pipeline     *extract.Pipeline
	Normalizer   *normalize.Normalizer
	Gateway      Gateway
	Jurisdiction string

	// SearchURL is the jurisdiction's search submission endpoint.
	SearchURL string

	// PageDelay is the wait applied before following each next link.
	PageDelay time.Duration

	// MaxPages bounds pages per context; zero means unbounded.
	MaxPages int
}

// New creates a Traversal.
func New(opts Options) *Traversal {
	return &Traversal{
		fetcher:      opts.Fetcher,
		pipeline:     opts.Pipeline,
		normalizer:   opts.Normalizer,
		gateway:      opts.Gateway,
		jurisdiction: opts.Jurisdiction,
		searchURL:    opts.SearchURL,
		pageDelay:    opts.PageDelay,
		maxPages:     opts.MaxPages,
	}
}

// Run traverses all result pages for one search context, persisting every
// normalized record. It returns the terminal state: StateDone when
// pagination was exhausted (or cycled), StateFailed on a fetch failure or
// cancellation. A failure has already been counted in counters by the
// time Run returns.
func (t *Traversal) Run(ctx context.Context, sc models.SearchContext, counters *Counters) State {
	visited := map[string]struct{}{t.searchURL: {}}
	locator := t.searchURL
	pages := 0

	for {
		// Cancellation is honored between steps, never mid-request.
		if ctx.Err() != nil {
			counters.Errors.Add(1)
			return StateFailed
		}

		var (
			pageHTML string
			err      error
		)
		if pages == 0 {
			pageHTML, err = t.fetcher.PostForm(ctx, locator, sc.Form)
		} else {
			pageHTML, err = t.fetcher.Get(ctx, locator)
		}
		if err != nil {
			slog.Warn("page fetch failed",
				"context", sc.Label,
				"url", locator,
				"error", err,
			)
			counters.Errors.Add(1)
			return StateFailed
		}
		pages++

		page := models.RawPage{URL: locator, HTML: pageHTML, Context: sc}
		t.parsePage(ctx, page, counters)

		if ctx.Err() != nil {
			counters.Errors.Add(1)
			return StateFailed
		}

		next, ok := extract.NextPageURL(pageHTML, locator)
		if !ok {
			return StateDone
		}
		if _, cycle := visited[next]; cycle {
			slog.Debug("next link already visited, stopping",
				"context", sc.Label, "url", next)
			return StateDone
		}
		if t.maxPages > 0 && pages >= t.maxPages {
			slog.Debug("page bound reached", "context", sc.Label, "pages", pages)
			return StateDone
		}

		visited[next] = struct{}{}
		locator = next

		if t.pageDelay > 0 {
			select {
			case <-ctx.Done():
				counters.Errors.Add(1)
				return StateFailed
			case <-time.After(t.pageDelay):
			}
		}
	}
}

// parsePage extracts, normalizes, and persists every candidate on one
// page. Extraction misses are not errors; a page may simply yield zero
// candidates.
func (t *Traversal) parsePage(ctx context.Context, page models.RawPage, counters *Counters) {
	for _, candidate := range t.pipeline.Extract(page.HTML) {
		record := t.normalizer.Normalize(candidate, t.jurisdiction)

		result, err := t.gateway.Upsert(ctx, record)
		if err != nil {
			slog.Warn("upsert failed",
				"context", page.Context.Label,
				"name", record.FullName,
				"error", err,
			)
			counters.Errors.Add(1)
			continue
		}

		counters.Found.Add(1)
		switch result.Outcome {
		case models.OutcomeInserted:
			counters.Added.Add(1)
		case models.OutcomeUpdated:
			counters.Updated.Add(1)
		}

		if len(record.PracticeAreas) > 0 {
			if attachErr := t.gateway.AttachPracticeAreas(ctx, result.ID, record.PracticeAreas); attachErr != nil {
				slog.Warn("practice area attach failed",
					"attorneyID", result.ID,
					"error", attachErr,
				)
				counters.Errors.Add(1)
			}
		}
	}
}
