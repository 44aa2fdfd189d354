package traverse

import (
	"context"
	"sync/atomic"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// Gateway is the persistence contract the traversal writes through. The
// gateway owns merge semantics: the traversal never reads back or caches
// stored records.
type Gateway interface {
	// Upsert stores a record idempotently, keyed on
	// (jurisdiction, bar number) when the bar number is present.
	// Records without a bar number are always inserted fresh.
	Upsert(ctx context.Context, record models.AttorneyRecord) (models.UpsertResult, error)

	// AttachPracticeAreas associates an ordered practice-area list with
	// a stored identity. The first area is primary. Re-attaching the
	// same area is a no-op.
	AttachPracticeAreas(ctx context.Context, attorneyID int64, areas []string) error
}

// Counters is the run-scoped counter set shared by every traversal in a
// run. All fields are updated atomically; it is the only mutable state
// that crosses worker boundaries.
type Counters struct {
	Found   atomic.Int64
	Added   atomic.Int64
	Updated atomic.Int64
	Errors  atomic.Int64
}

// Snapshot returns a consistent-enough copy of the counters for
// reporting.
func (c *Counters) Snapshot() (found, added, updated, errors int64) {
	return c.Found.Load(), c.Added.Load(), c.Updated.Load(), c.Errors.Load()
}
