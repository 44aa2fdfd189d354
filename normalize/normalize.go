// Package normalize turns loosely-typed candidate records into canonical
// attorney records.
package normalize

import (
	"strings"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// Normalizer cleans extracted text fields into their canonical form.
// It never invents missing fields: an absent candidate field stays nil
// on the attorney record.
type Normalizer struct {
	// cities maps a lowercased known-city name to its canonical
	// capitalization.
	cities map[string]string
}

// New creates a Normalizer with the jurisdiction's known-city allowlist.
// City tokens matching the allowlist (case-insensitively) are rewritten
// to the allowlist's capitalization; unmatched text passes through as-is.
func New(knownCities []string) *Normalizer {
	cities := make(map[string]string, len(knownCities))
	for _, c := range knownCities {
		cities[strings.ToLower(c)] = c
	}
	return &Normalizer{cities: cities}
}

// Normalize builds an AttorneyRecord from a candidate for the given
// jurisdiction code.
func (n *Normalizer) Normalize(c models.CandidateRecord, jurisdiction string) models.AttorneyRecord {
	fullName, _ := c.Get(models.FieldFullName)
	fullName = clean(fullName)
	first, last := SplitName(fullName)

	rec := models.AttorneyRecord{
		Jurisdiction:  jurisdiction,
		FullName:      fullName,
		FirstName:     first,
		LastName:      last,
		BarNumber:     n.optional(c, models.FieldBarNumber),
		Status:        n.optional(c, models.FieldStatus),
		AdmissionDate: n.optional(c, models.FieldAdmissionDate),
		FirmName:      n.optional(c, models.FieldFirmName),
		Address:       n.optional(c, models.FieldAddress),
		Email:         n.optional(c, models.FieldEmail),
		Phone:         n.optional(c, models.FieldPhone),
		Website:       n.optional(c, models.FieldWebsite),
		LawSchool:     n.optional(c, models.FieldLawSchool),
	}

	if city, ok := c.Get(models.FieldCity); ok {
		if cleaned := clean(city); cleaned != "" {
			canonical := n.canonicalCity(cleaned)
			rec.City = &canonical
		}
	}

	if len(c.PracticeAreas) > 0 {
		rec.PracticeAreas = make([]string, 0, len(c.PracticeAreas))
		for _, area := range c.PracticeAreas {
			if cleaned := clean(area); cleaned != "" {
				rec.PracticeAreas = append(rec.PracticeAreas, cleaned)
			}
		}
	}

	return rec
}

// SplitName splits a full name with a fixed heuristic: the first token is
// the first name, everything after it is the last name. A single-token
// name has an empty first name.
//
// Known limitation: multi-word first names ("Mary Ann Smith") mis-split
// into first "Mary", last "Ann Smith". Downstream consumers depend on
// this behavior, so it is preserved rather than corrected.
func SplitName(fullName string) (first, last string) {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	default:
		return tokens[0], strings.Join(tokens[1:], " ")
	}
}

func (n *Normalizer) canonicalCity(city string) string {
	if canonical, ok := n.cities[strings.ToLower(city)]; ok {
		return canonical
	}
	return city
}

func (n *Normalizer) optional(c models.CandidateRecord, f models.Field) *string {
	raw, ok := c.Get(f)
	if !ok {
		return nil
	}
	cleaned := clean(raw)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// clean trims and collapses internal whitespace runs.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
