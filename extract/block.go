package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/DanGreiner33/texas-bar-scraper/models"
)

var (
	// barLabelPattern matches a labeled bar number anywhere in block text,
	// e.g. "Bar No: 24001234" or "Bar #24001234".
	barLabelPattern = regexp.MustCompile(`(?i)Bar\s*(?:No\.?|Number|#)?\s*:?\s*(\d{8})`)

	// barHrefPattern pulls a bar number out of a profile link.
	barHrefPattern = regexp.MustCompile(`BarNumber=(\d+)`)

	// bareBarPattern matches a cell that is exactly a bar number.
	bareBarPattern = regexp.MustCompile(`^\d{8}$`)

	firmLabelPattern = regexp.MustCompile(`(?i)\b(?:Firm|Company|Employer)\b`)

	practiceLabelPattern = regexp.MustCompile(`(?i)Practice\s*Areas?\s*:?\s*(.+)`)
)

// cityMatcher recognizes known-city tokens in extracted text.
type cityMatcher struct {
	pattern *regexp.Regexp
}

func newCityMatcher(cities []string) *cityMatcher {
	if len(cities) == 0 {
		return &cityMatcher{}
	}
	quoted := make([]string, len(cities))
	for i, c := range cities {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return &cityMatcher{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// exact reports whether the text is exactly one known city.
func (m *cityMatcher) exact(text string) bool {
	if m.pattern == nil {
		return false
	}
	loc := m.pattern.FindStringIndex(text)
	return loc != nil && loc[0] == 0 && loc[1] == len(text)
}

// find returns the first known-city token inside the text, or "".
func (m *cityMatcher) find(text string) string {
	if m.pattern == nil {
		return ""
	}
	return m.pattern.FindString(text)
}

// parseBlock parses one result block into a candidate record. Table rows
// and generic containers carry their fields differently, so the parser
// dispatches on the block's element name. The only rejection criterion is
// an unresolvable name; every other field is optional.
func parseBlock(block *goquery.Selection, cities *cityMatcher) (models.CandidateRecord, bool) {
	if goquery.NodeName(block) == "tr" {
		return parseTableRow(block, cities)
	}
	return parseContainer(block, cities)
}

// parseTableRow handles the tabular result format: the first linked cell
// is the name, a bare 8-digit cell is the bar number, and a cell holding
// a known city names the city.
func parseTableRow(row *goquery.Selection, cities *cityMatcher) (models.CandidateRecord, bool) {
	var rec models.CandidateRecord

	cells := row.Find("td")
	if cells.Length() < 2 {
		return rec, false
	}

	cells.Each(func(_ int, cell *goquery.Selection) {
		text := cleanText(cell.Text())
		link := cell.Find("a").First()

		switch {
		case link.Length() > 0 && !rec.Has(models.FieldFullName):
			rec.Set(models.FieldFullName, cleanText(link.Text()))
			if href, ok := link.Attr("href"); ok {
				if m := barHrefPattern.FindStringSubmatch(href); m != nil {
					rec.Set(models.FieldBarNumber, m[1])
				}
			}
		case bareBarPattern.MatchString(text):
			rec.Set(models.FieldBarNumber, text)
		case len(text) > 2 && cities.exact(text):
			rec.Set(models.FieldCity, text)
		}
	})

	if !rec.Has(models.FieldFullName) {
		return rec, false
	}
	rec.Set(models.FieldStatus, "Active")
	rec.PracticeAreas = practiceAreas(row)
	return rec, true
}

// parseContainer handles div-based result formats: the name comes from
// the first heading, link, or emphasized text; the bar number and city
// are located in the block's visible text; the firm name is the text
// following a Firm/Company/Employer label.
func parseContainer(block *goquery.Selection, cities *cityMatcher) (models.CandidateRecord, bool) {
	var rec models.CandidateRecord

	name := cleanText(block.Find("h2, h3, h4, a, strong").First().Text())
	if name == "" {
		return rec, false
	}
	rec.Set(models.FieldFullName, name)

	text := block.Text()
	if m := barLabelPattern.FindStringSubmatch(text); m != nil {
		rec.Set(models.FieldBarNumber, m[1])
	}
	if city := cities.find(text); city != "" {
		rec.Set(models.FieldCity, city)
	}
	if firm := firmAfterLabel(block); firm != "" {
		rec.Set(models.FieldFirmName, firm)
	}

	rec.Set(models.FieldStatus, "Active")
	rec.PracticeAreas = practiceAreas(block)
	return rec, true
}

// practiceAreas collects practice-area tokens from the block in
// declaration order. List items under a practice-classed element win;
// otherwise a "Practice Areas:" label followed by a delimited list is
// split up.
func practiceAreas(block *goquery.Selection) []string {
	var areas []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		area := cleanText(raw)
		if area == "" {
			return
		}
		key := strings.ToLower(area)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		areas = append(areas, area)
	}

	block.Find("[class*=practice] li, li[class*=practice], span[class*=practice]").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	if len(areas) > 0 {
		return areas
	}

	if m := practiceLabelPattern.FindStringSubmatch(block.Text()); m != nil {
		for _, part := range strings.FieldsFunc(m[1], func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '\n'
		}) {
			add(part)
		}
	}
	return areas
}

// firmAfterLabel walks the block's DOM in document order looking for a
// text node containing a firm label, then returns the next non-empty
// text node after it.
func firmAfterLabel(block *goquery.Selection) string {
	for _, root := range block.Nodes {
		if firm := firmTextIn(root); firm != "" {
			return firm
		}
	}
	return ""
}

func firmTextIn(root *html.Node) string {
	var labelNode *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.TextNode && firmLabelPattern.MatchString(n.Data) {
			labelNode = n
			return false
		}
		return true
	})
	if labelNode == nil {
		return ""
	}

	var firm string
	for n := successor(labelNode, root); n != nil; n = successor(n, root) {
		if n.Type == html.TextNode {
			if text := cleanText(n.Data); text != "" {
				firm = text
				break
			}
		}
	}
	return firm
}

// walk runs fn over the subtree in document order; fn returning false
// stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// successor returns the next node after n in document order, staying
// inside the subtree rooted at root.
func successor(n, root *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil && n != root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// cleanText trims and collapses internal whitespace runs.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
