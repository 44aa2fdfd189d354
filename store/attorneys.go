package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

const attorneyInsertColumns = `bar_number, state, first_name, last_name, full_name,
	status, admission_date, firm_name, city, county,
	address, email, phone, website, law_school, graduation_year`

const attorneyInsertValues = `:bar_number, :state, :first_name, :last_name, :full_name,
	:status, :admission_date, :firm_name, :city, :county,
	:address, :email, :phone, :website, :law_school, :graduation_year`

// Upsert stores an attorney record idempotently. When the record carries
// a bar number, (bar_number, state) is the natural key: an existing row
// is updated in place and no duplicate identity is created. Records
// without a bar number are unmergeable and always inserted fresh.
// The lookup and the write share one transaction so concurrent upserts
// of the same key cannot race the unique index.
func (s *Store) Upsert(ctx context.Context, record models.AttorneyRecord) (models.UpsertResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("store: begin upsert: %w", err)
	}
	defer tx.Rollback()

	result, err := upsertTx(ctx, tx, record)
	if err != nil {
		return models.UpsertResult{}, err
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return models.UpsertResult{}, fmt.Errorf("store: commit upsert: %w", commitErr)
	}
	return result, nil
}

func upsertTx(ctx context.Context, tx *sqlx.Tx, record models.AttorneyRecord) (models.UpsertResult, error) {
	if record.BarNumber != nil {
		var existingID int64
		err := tx.GetContext(ctx, &existingID,
			`SELECT id FROM attorneys WHERE bar_number = ? AND state = ?`,
			*record.BarNumber, record.Jurisdiction)
		switch {
		case err == nil:
			if updateErr := update(ctx, tx, existingID, record); updateErr != nil {
				return models.UpsertResult{}, updateErr
			}
			return models.UpsertResult{ID: existingID, Outcome: models.OutcomeUpdated}, nil
		case !errors.Is(err, sql.ErrNoRows):
			return models.UpsertResult{}, fmt.Errorf("store: look up attorney: %w", err)
		}
	}

	id, err := insert(ctx, tx, record)
	if err != nil {
		return models.UpsertResult{}, err
	}
	return models.UpsertResult{ID: id, Outcome: models.OutcomeInserted}, nil
}

func insert(ctx context.Context, tx *sqlx.Tx, record models.AttorneyRecord) (int64, error) {
	query := `INSERT INTO attorneys (` + attorneyInsertColumns + `)
		VALUES (` + attorneyInsertValues + `)`

	result, err := tx.NamedExecContext(ctx, query, record)
	if err != nil {
		return 0, fmt.Errorf("store: insert attorney: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: insert attorney id: %w", err)
	}
	return id, nil
}

func update(ctx context.Context, tx *sqlx.Tx, id int64, record models.AttorneyRecord) error {
	query := `UPDATE attorneys SET
		first_name = :first_name, last_name = :last_name, full_name = :full_name,
		status = :status, firm_name = :firm_name, city = :city, county = :county,
		address = :address, email = :email, phone = :phone, website = :website,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`

	args := struct {
		models.AttorneyRecord
		ID int64 `db:"id"`
	}{record, id}

	if _, err := tx.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("store: update attorney: %w", err)
	}
	return nil
}

// AttachPracticeAreas associates an ordered practice-area list with a
// stored attorney. The first area is flagged primary. Re-attaching an
// area that is already present is a no-op, not a duplicate row.
func (s *Store) AttachPracticeAreas(ctx context.Context, attorneyID int64, areas []string) error {
	query := `INSERT INTO practice_areas (attorney_id, practice_area, is_primary)
		VALUES (?, ?, ?)
		ON CONFLICT(attorney_id, practice_area) DO NOTHING`

	for i, area := range areas {
		area = strings.TrimSpace(area)
		if area == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, query, attorneyID, area, i == 0); err != nil {
			return fmt.Errorf("store: attach practice area %q: %w", area, err)
		}
	}
	return nil
}

// SearchFilter narrows a Search query. Zero-valued fields are ignored.
type SearchFilter struct {
	Jurisdiction string
	Name         string
	City         string
	Firm         string
	Status       string
	PracticeArea string
	Limit        int
}

// Search returns attorneys matching the filter, ordered by last then
// first name.
func (s *Store) Search(ctx context.Context, filter SearchFilter) ([]models.AttorneyRecord, error) {
	query := `SELECT DISTINCT a.bar_number, a.state, a.first_name, a.last_name, a.full_name,
		a.status, a.admission_date, a.firm_name, a.city, a.county,
		a.address, a.email, a.phone, a.website, a.law_school, a.graduation_year
		FROM attorneys a
		LEFT JOIN practice_areas pa ON a.id = pa.attorney_id
		WHERE 1=1`
	var args []any

	if filter.Jurisdiction != "" {
		query += ` AND a.state = ?`
		args = append(args, filter.Jurisdiction)
	}
	if filter.Name != "" {
		query += ` AND (a.full_name LIKE ? OR a.last_name LIKE ?)`
		pattern := "%" + filter.Name + "%"
		args = append(args, pattern, pattern)
	}
	if filter.City != "" {
		query += ` AND a.city LIKE ?`
		args = append(args, "%"+filter.City+"%")
	}
	if filter.Firm != "" {
		query += ` AND a.firm_name LIKE ?`
		args = append(args, "%"+filter.Firm+"%")
	}
	if filter.Status != "" {
		query += ` AND a.status = ?`
		args = append(args, filter.Status)
	}
	if filter.PracticeArea != "" {
		query += ` AND pa.practice_area LIKE ?`
		args = append(args, "%"+filter.PracticeArea+"%")
	}

	query += ` ORDER BY a.last_name, a.first_name`
	if filter.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	var records []models.AttorneyRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("store: search attorneys: %w", err)
	}
	return records, nil
}

// NameCount is one name/count pair in aggregate statistics.
type NameCount struct {
	Name  string `db:"name" json:"name"`
	Count int64  `db:"count" json:"count"`
}

// Stats summarizes the stored record set.
type Stats struct {
	TotalAttorneys   int64       `json:"total_attorneys"`
	ByJurisdiction   []NameCount `json:"by_jurisdiction"`
	ByStatus         []NameCount `json:"by_status"`
	TopPracticeAreas []NameCount `json:"top_practice_areas"`
	TopFirms         []NameCount `json:"top_firms"`
}

// GetStats computes aggregate statistics over the stored records.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.GetContext(ctx, &stats.TotalAttorneys,
		`SELECT COUNT(*) FROM attorneys`); err != nil {
		return nil, fmt.Errorf("store: count attorneys: %w", err)
	}

	queries := []struct {
		dest  *[]NameCount
		query string
	}{
		{&stats.ByJurisdiction, `SELECT state AS name, COUNT(*) AS count
			FROM attorneys GROUP BY state ORDER BY count DESC`},
		{&stats.ByStatus, `SELECT COALESCE(status, 'Unknown') AS name, COUNT(*) AS count
			FROM attorneys GROUP BY status ORDER BY count DESC`},
		{&stats.TopPracticeAreas, `SELECT practice_area AS name, COUNT(*) AS count
			FROM practice_areas GROUP BY practice_area ORDER BY count DESC LIMIT 20`},
		{&stats.TopFirms, `SELECT firm_name AS name, COUNT(*) AS count
			FROM attorneys WHERE firm_name IS NOT NULL AND firm_name != ''
			GROUP BY firm_name ORDER BY count DESC LIMIT 20`},
	}
	for _, q := range queries {
		if err := s.db.SelectContext(ctx, q.dest, q.query); err != nil {
			return nil, fmt.Errorf("store: stats query: %w", err)
		}
	}

	return stats, nil
}

// csvColumns is the fixed export column order.
var csvColumns = []string{
	"full_name", "first_name", "last_name", "bar_number", "state",
	"status", "admission_date", "firm_name", "city", "address",
	"phone", "email", "website", "law_school",
}

// ExportCSV writes attorneys matching the filter to w as CSV with a
// fixed column order. Absent fields export as empty cells.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer, filter SearchFilter) (int, error) {
	records, err := s.Search(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if writeErr := cw.Write(csvColumns); writeErr != nil {
		return 0, fmt.Errorf("store: write csv header: %w", writeErr)
	}

	for _, r := range records {
		row := []string{
			r.FullName, r.FirstName, r.LastName, deref(r.BarNumber), r.Jurisdiction,
			deref(r.Status), deref(r.AdmissionDate), deref(r.FirmName), deref(r.City), deref(r.Address),
			deref(r.Phone), deref(r.Email), deref(r.Website), deref(r.LawSchool),
		}
		if writeErr := cw.Write(row); writeErr != nil {
			return 0, fmt.Errorf("store: write csv row: %w", writeErr)
		}
	}

	cw.Flush()
	if flushErr := cw.Error(); flushErr != nil {
		return 0, fmt.Errorf("store: flush csv: %w", flushErr)
	}
	return len(records), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
