package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nextLinkPattern matches the visible text of "next page" links.
var nextLinkPattern = regexp.MustCompile(`(?i)next|»`)

// NextPageURL finds a pagination link in the page whose visible text
// looks like "Next" and resolves it against the page's own URL. It
// returns the absolute locator and whether one was found.
func NextPageURL(pageHTML, pageURL string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if !nextLinkPattern.MatchString(cleanText(link.Text())) {
			return true
		}
		href, _ := link.Attr("href")
		if href == "" {
			return true
		}
		resolved, resolveErr := base.Parse(href)
		if resolveErr != nil {
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		next = resolved.String()
		return false
	})

	return next, next != ""
}
