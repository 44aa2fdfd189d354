package scrape

import (
	"fmt"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// Jurisdiction is one directory source: a state bar identified by a
// short code, with its search endpoint and static seed dimensions.
type Jurisdiction struct {
	Code string
	Name string

	// SearchURL is the endpoint search forms are POSTed to.
	SearchURL string

	// Cities seeds the city search dimension; it doubles as the
	// known-city allowlist for extraction and normalization.
	Cities []string

	// LetterSearch adds an A-Z last-name-initial seed per letter.
	LetterSearch bool
}

// Seeds enumerates the jurisdiction's search contexts in order: every
// city first, then every name-initial letter.
func (j Jurisdiction) Seeds() []models.SearchContext {
	var seeds []models.SearchContext
	for _, city := range j.Cities {
		seeds = append(seeds, models.CityContext(city, j.Code))
	}
	if j.LetterSearch {
		for letter := 'A'; letter <= 'Z'; letter++ {
			seeds = append(seeds, models.LetterContext(string(letter)))
		}
	}
	return seeds
}

// registry holds the static per-jurisdiction configuration.
var registry = map[string]Jurisdiction{
	"TX": {
		Code:      "TX",
		Name:      "Texas",
		SearchURL: "https://www.texasbar.com/AM/CustomSource/MemberDirectory/Search.cfm",
		Cities: []string{
			"Houston", "Dallas", "Austin", "San Antonio", "Fort Worth",
			"El Paso", "Arlington", "Plano", "Corpus Christi", "Lubbock",
			"Irving", "Garland", "Frisco", "McKinney", "Amarillo",
			"Grand Prairie", "Brownsville", "Killeen", "Pasadena", "McAllen",
		},
		LetterSearch: true,
	},
}

// Lookup resolves a jurisdiction code. An unknown code or a jurisdiction
// with no seeds is a fatal configuration error, surfaced before any
// network activity.
func Lookup(code string) (Jurisdiction, error) {
	j, ok := registry[code]
	if !ok {
		return Jurisdiction{}, models.NewScrapeError(models.ErrCodeConfig,
			fmt.Sprintf("unknown jurisdiction %q", code), nil)
	}
	if len(j.Seeds()) == 0 {
		return Jurisdiction{}, models.NewScrapeError(models.ErrCodeConfig,
			fmt.Sprintf("jurisdiction %q has no search seeds", code), nil)
	}
	return j, nil
}

// Codes lists the registered jurisdiction codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
