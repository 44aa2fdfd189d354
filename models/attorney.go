package models

import "time"

// AttorneyRecord is the normalized unit of value produced by the engine.
// Optional fields are nil pointers, never empty-string placeholders.
// Within a jurisdiction, BarNumber is the natural key when present; a
// record without one is always inserted, never matched for update.
// Records are handed to the persistence gateway by value and never
// mutated afterwards.
type AttorneyRecord struct {
	BarNumber      *string `db:"bar_number" json:"bar_number"`
	Jurisdiction   string  `db:"state" json:"state"`
	FirstName      string  `db:"first_name" json:"first_name"`
	LastName       string  `db:"last_name" json:"last_name"`
	FullName       string  `db:"full_name" json:"full_name"`
	Status         *string `db:"status" json:"status"`
	AdmissionDate  *string `db:"admission_date" json:"admission_date"`
	FirmName       *string `db:"firm_name" json:"firm_name"`
	City           *string `db:"city" json:"city"`
	County         *string `db:"county" json:"county"`
	Address        *string `db:"address" json:"address"`
	Email          *string `db:"email" json:"email"`
	Phone          *string `db:"phone" json:"phone"`
	Website        *string `db:"website" json:"website"`
	LawSchool      *string `db:"law_school" json:"law_school"`
	GraduationYear *string `db:"graduation_year" json:"graduation_year"`

	// PracticeAreas is ordered: the first entry is the primary area.
	PracticeAreas []string `db:"-" json:"practice_areas"`
}

// UpsertOutcome reports what the persistence gateway did with a record.
type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeUpdated  UpsertOutcome = "updated"
)

// UpsertResult is the gateway's reply to an upsert: the stored identity
// and whether the record was inserted fresh or merged into an existing row.
type UpsertResult struct {
	ID      int64
	Outcome UpsertOutcome
}

// RunStatus is the terminal/progress state of a scrape run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun is one execution of a jurisdiction scraper: provenance for
// everything persisted during that execution.
type ScrapeRun struct {
	ID           int64      `db:"id" json:"id"`
	Jurisdiction string     `db:"state" json:"state"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at"`
	Found        int64      `db:"attorneys_found" json:"attorneys_found"`
	Added        int64      `db:"attorneys_added" json:"attorneys_added"`
	Updated      int64      `db:"attorneys_updated" json:"attorneys_updated"`
	Errors       int64      `db:"errors" json:"errors"`
	Status       RunStatus  `db:"status" json:"status"`
	Notes        *string    `db:"notes" json:"notes"`
}
