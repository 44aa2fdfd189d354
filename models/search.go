package models

import "net/url"

// SearchContext is one seed query dimension (a city, a name-initial letter)
// submitted to a jurisdiction's search endpoint. It is immutable once built
// and consumed by exactly one traversal.
type SearchContext struct {
	// Label identifies the context in logs and progress output,
	// e.g. "City: Austin" or "Letter: B".
	Label string

	// Form is the search form payload POSTed to the jurisdiction's
	// search endpoint to start the traversal.
	Form url.Values
}

// CityContext builds a SearchContext for a city search.
func CityContext(city, state string) SearchContext {
	return SearchContext{
		Label: "City: " + city,
		Form: url.Values{
			"City":         {city},
			"State":        {state},
			"LastName":     {""},
			"FirstName":    {""},
			"BarNumber":    {""},
			"PracticeArea": {""},
		},
	}
}

// LetterContext builds a SearchContext for a last-name-initial search.
func LetterContext(letter string) SearchContext {
	return SearchContext{
		Label: "Letter: " + letter,
		Form: url.Values{
			"LastName":  {letter},
			"FirstName": {""},
			"City":      {""},
			"BarNumber": {""},
		},
	}
}

// RawPage is the unparsed content of one fetched results page. It is owned
// by the traversal loop that fetched it and discarded after extraction.
type RawPage struct {
	// URL is the locator this page was fetched from.
	URL string

	// HTML is the raw response body.
	HTML string

	// Context is the search context that produced this page.
	Context SearchContext
}
