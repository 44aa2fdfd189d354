package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		wantFirst string
		wantLast  string
	}{
		{"two tokens", "Jane Smith", "Jane", "Smith"},
		{"three tokens", "Jane Ann Smith", "Jane", "Ann Smith"},
		// Multi-word first names mis-split; this is the preserved
		// heuristic, not a bug.
		{"multi-word first name", "Mary Ann Smith", "Mary", "Ann Smith"},
		{"single token", "Cher", "", "Cher"},
		{"empty", "", "", ""},
		{"extra whitespace", "  Jane   Smith  ", "Jane", "Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.fullName)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestNormalize_CityCanonicalization(t *testing.T) {
	n := New([]string{"Houston", "San Antonio"})

	tests := []struct {
		raw  string
		want string
	}{
		{"HOUSTON", "Houston"},
		{"houston", "Houston"},
		{"san antonio", "San Antonio"},
		// Unknown cities pass through untouched.
		{"Waxahachie", "Waxahachie"},
		{"SAN MARCOS", "SAN MARCOS"},
	}

	for _, tt := range tests {
		var c models.CandidateRecord
		c.Set(models.FieldFullName, "Jane Smith")
		c.Set(models.FieldCity, tt.raw)

		rec := n.Normalize(c, "TX")
		require.NotNil(t, rec.City)
		assert.Equal(t, tt.want, *rec.City)
	}
}

func TestNormalize_WhitespaceCollapse(t *testing.T) {
	n := New(nil)

	var c models.CandidateRecord
	c.Set(models.FieldFullName, "  Jane \t  Smith ")
	c.Set(models.FieldFirmName, "Smith  &   Co\n LLP")

	rec := n.Normalize(c, "TX")
	assert.Equal(t, "Jane Smith", rec.FullName)
	require.NotNil(t, rec.FirmName)
	assert.Equal(t, "Smith & Co LLP", *rec.FirmName)
}

func TestNormalize_BlankCityStaysNil(t *testing.T) {
	n := New([]string{"Houston"})

	var c models.CandidateRecord
	c.Set(models.FieldFullName, "Jane Smith")
	c.Set(models.FieldCity, " \t ")

	rec := n.Normalize(c, "TX")
	assert.Nil(t, rec.City)
}

func TestNormalize_AbsentFieldsStayNil(t *testing.T) {
	n := New(nil)

	var c models.CandidateRecord
	c.Set(models.FieldFullName, "Jane Smith")

	rec := n.Normalize(c, "TX")
	assert.Equal(t, "TX", rec.Jurisdiction)
	assert.Nil(t, rec.BarNumber)
	assert.Nil(t, rec.City)
	assert.Nil(t, rec.FirmName)
	assert.Nil(t, rec.Status)
	assert.Nil(t, rec.Email)
	assert.Nil(t, rec.Phone)
	assert.Empty(t, rec.PracticeAreas)
}

func TestNormalize_PracticeAreasCleaned(t *testing.T) {
	n := New(nil)

	c := models.CandidateRecord{PracticeAreas: []string{" Litigation ", "Family  Law", "  "}}
	c.Set(models.FieldFullName, "Jane Smith")

	rec := n.Normalize(c, "TX")
	assert.Equal(t, []string{"Litigation", "Family Law"}, rec.PracticeAreas)
}
