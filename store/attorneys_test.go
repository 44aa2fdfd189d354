package store

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func strptr(s string) *string { return &s }

func record(bar *string) models.AttorneyRecord {
	return models.AttorneyRecord{
		BarNumber:    bar,
		Jurisdiction: "TX",
		FirstName:    "Jane",
		LastName:     "Smith",
		FullName:     "Jane Smith",
		Status:       strptr("Active"),
		City:         strptr("Austin"),
	}
}

func TestUpsert_IdempotentOnBarNumber(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.Upsert(ctx, record(strptr("24001111")))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeInserted, first.Outcome)

	again := record(strptr("24001111"))
	again.City = strptr("Houston")
	second, err := st.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, second.Outcome)
	assert.Equal(t, first.ID, second.ID)

	// Exactly one stored identity, carrying the merged city.
	records, err := st.Search(ctx, SearchFilter{Jurisdiction: "TX"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].City)
	assert.Equal(t, "Houston", *records[0].City)
}

func TestUpsert_SameBarDifferentJurisdiction(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Upsert(ctx, record(strptr("24001111")))
	require.NoError(t, err)

	other := record(strptr("24001111"))
	other.Jurisdiction = "FL"
	result, err := st.Upsert(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeInserted, result.Outcome)
}

func TestUpsert_ConcurrentSameKey(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	const workers = 8
	outcomes := make(chan models.UpsertOutcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := st.Upsert(ctx, record(strptr("24001111")))
			assert.NoError(t, err)
			outcomes <- result.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	// Contended upserts of one natural key must produce exactly one
	// insert; every loser merges instead of hitting the unique index.
	inserted := 0
	for outcome := range outcomes {
		if outcome == models.OutcomeInserted {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)

	records, err := st.Search(ctx, SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpsert_NoBarNumberAlwaysInserts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.Upsert(ctx, record(nil))
	require.NoError(t, err)
	second, err := st.Upsert(ctx, record(nil))
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeInserted, first.Outcome)
	assert.Equal(t, models.OutcomeInserted, second.Outcome)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAttachPracticeAreas_PrimaryFlagAndIdempotence(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	result, err := st.Upsert(ctx, record(strptr("24001111")))
	require.NoError(t, err)

	areas := []string{"Litigation", "Family Law"}
	require.NoError(t, st.AttachPracticeAreas(ctx, result.ID, areas))
	// Re-attaching is a no-op, not a duplicate row.
	require.NoError(t, st.AttachPracticeAreas(ctx, result.ID, areas))

	type row struct {
		Area    string `db:"practice_area"`
		Primary bool   `db:"is_primary"`
	}
	var rows []row
	err = st.db.Select(&rows,
		`SELECT practice_area, is_primary FROM practice_areas
		WHERE attorney_id = ? ORDER BY id`, result.ID)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Litigation", rows[0].Area)
	assert.True(t, rows[0].Primary)
	assert.Equal(t, "Family Law", rows[1].Area)
	assert.False(t, rows[1].Primary)
}

func TestSearch_Filters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	austin := record(strptr("24001111"))
	_, err := st.Upsert(ctx, austin)
	require.NoError(t, err)

	houston := models.AttorneyRecord{
		BarNumber:    strptr("24002222"),
		Jurisdiction: "TX",
		FirstName:    "Bob",
		LastName:     "Jones",
		FullName:     "Bob Jones",
		City:         strptr("Houston"),
		FirmName:     strptr("Jones & Co"),
	}
	result, err := st.Upsert(ctx, houston)
	require.NoError(t, err)
	require.NoError(t, st.AttachPracticeAreas(ctx, result.ID, []string{"Energy"}))

	byCity, err := st.Search(ctx, SearchFilter{City: "Houston"})
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Bob Jones", byCity[0].FullName)

	byName, err := st.Search(ctx, SearchFilter{Name: "Smith"})
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byArea, err := st.Search(ctx, SearchFilter{PracticeArea: "Energy"})
	require.NoError(t, err)
	require.Len(t, byArea, 1)
	assert.Equal(t, "Bob Jones", byArea[0].FullName)

	limited, err := st.Search(ctx, SearchFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetStats(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	result, err := st.Upsert(ctx, record(strptr("24001111")))
	require.NoError(t, err)
	require.NoError(t, st.AttachPracticeAreas(ctx, result.ID, []string{"Litigation"}))

	stats, err := st.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalAttorneys)
	require.Len(t, stats.ByJurisdiction, 1)
	assert.Equal(t, "TX", stats.ByJurisdiction[0].Name)
	require.Len(t, stats.TopPracticeAreas, 1)
	assert.Equal(t, "Litigation", stats.TopPracticeAreas[0].Name)
}

func TestExportCSV(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Upsert(ctx, record(strptr("24001111")))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := st.ExportCSV(ctx, &buf, SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "full_name,first_name,last_name,bar_number,state"))
	assert.Contains(t, lines[1], "Jane Smith")
	assert.Contains(t, lines[1], "24001111")
}
