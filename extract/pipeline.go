package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// Pipeline applies an ordered cascade of block-location strategies to a
// page and parses every block the winning strategy found. The first
// strategy that yields at least one block is used exclusively; later
// strategies are never consulted for that page.
//
// The pipeline never fails on malformed markup: an unparseable or
// unrecognized page simply yields zero candidates.
type Pipeline struct {
	strategies []Strategy
	cities     *cityMatcher
}

// NewPipeline creates a Pipeline with the default strategy cascade:
// result-block selectors, then result-pattern tables, then generic
// result-pattern containers. knownCities is the jurisdiction's city
// allowlist used to recognize city tokens in block text.
func NewPipeline(knownCities []string) *Pipeline {
	return &Pipeline{
		strategies: []Strategy{
			resultBlockStrategy{},
			tableStrategy{},
			containerStrategy{},
		},
		cities: newCityMatcher(knownCities),
	}
}

// Extract returns the candidate records found in the page HTML. Blocks
// with no resolvable name are dropped and not counted.
func (p *Pipeline) Extract(pageHTML string) []models.CandidateRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		slog.Debug("page did not parse as HTML", "error", err)
		return nil
	}

	for _, strategy := range p.strategies {
		blocks := strategy.Blocks(doc)
		if len(blocks) == 0 {
			continue
		}

		candidates := make([]models.CandidateRecord, 0, len(blocks))
		for _, block := range blocks {
			if rec, ok := parseBlock(block, p.cities); ok {
				candidates = append(candidates, rec)
			}
		}
		slog.Debug("strategy matched",
			"strategy", strategy.Name(),
			"blocks", len(blocks),
			"candidates", len(candidates),
		)
		return candidates
	}

	return nil
}
