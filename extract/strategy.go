// Package extract locates attorney result blocks in arbitrary directory
// HTML and turns them into loosely-typed candidate records.
package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Strategy is the interface all block-location strategies implement.
// A strategy inspects a parsed document and returns the result blocks it
// recognizes; returning none means the next strategy in the cascade is
// tried.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "result-block").
	Name() string

	// Blocks returns the candidate result blocks found in the document.
	Blocks(doc *goquery.Document) []*goquery.Selection
}

// classPattern matches the class-name family directory sites use for
// result listings.
var classPattern = regexp.MustCompile(`(?i)result|member|attorney`)

// resultBlockMatcher selects elements explicitly marked as result blocks.
var resultBlockMatcher = cascadia.MustCompile(".attorney-result, .member-listing, .search-result")

// resultBlockStrategy finds elements whose class names directly mark them
// as result blocks. First in the cascade.
type resultBlockStrategy struct{}

func (resultBlockStrategy) Name() string { return "result-block" }

func (resultBlockStrategy) Blocks(doc *goquery.Document) []*goquery.Selection {
	return collect(doc.FindMatcher(resultBlockMatcher))
}

// tableStrategy finds a table whose class matches the result pattern and
// treats each row after the header as one block.
type tableStrategy struct{}

func (tableStrategy) Name() string { return "table" }

func (tableStrategy) Blocks(doc *goquery.Document) []*goquery.Selection {
	var blocks []*goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		class, _ := table.Attr("class")
		if !classPattern.MatchString(class) {
			return true
		}
		rows := table.Find("tr")
		rows.Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			blocks = append(blocks, row)
		})
		return false // first matching table wins
	})
	return blocks
}

// containerStrategy is the last resort: any div whose class matches the
// result pattern is treated as one block.
type containerStrategy struct{}

func (containerStrategy) Name() string { return "container" }

func (containerStrategy) Blocks(doc *goquery.Document) []*goquery.Selection {
	var blocks []*goquery.Selection
	doc.Find("div").Each(func(_ int, div *goquery.Selection) {
		class, _ := div.Attr("class")
		if classPattern.MatchString(class) {
			blocks = append(blocks, div)
		}
	})
	return blocks
}

func collect(sel *goquery.Selection) []*goquery.Selection {
	var blocks []*goquery.Selection
	sel.Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s)
	})
	return blocks
}
