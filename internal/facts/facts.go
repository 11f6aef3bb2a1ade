package facts

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Category is one of the fixed event classifications of the on-this-day feed.
type Category string

const (
	CategorySelected Category = "selected"
	CategoryEvents   Category = "events"
	CategoryHolidays Category = "holidays"
	CategoryBirths   Category = "births"
	CategoryDeaths   Category = "deaths"
)

// Categories is the aggregation priority order.
var Categories = []Category{
	CategorySelected,
	CategoryEvents,
	CategoryHolidays,
	CategoryBirths,
	CategoryDeaths,
}

// Year holds the year text exactly as the feed sent it. The API documents a
// string but serves numbers, so both decode.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// Unusable years never match but the record stays in the feed.
		*y = ""
		return nil
	}
	*y = Year(n.String())
	return nil
}

// Int parses the year as a base-10 integer.
func (y Year) Int() (int, bool) {
	return ParseYear(string(y))
}

// ParseYear parses s as a base-10 integer. Surrounding whitespace is ignored;
// anything else that is not a plain integer reports false.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Page is a reference page attached to an event.
type Page struct {
	Title        string `json:"title,omitempty"`
	Extract      string `json:"extract,omitempty"`
	LinkURL      string `json:"link_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type wirePage struct {
	Titles struct {
		Normalized string `json:"normalized"`
	} `json:"titles"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`

	// Flat form, as Page itself encodes.
	Title        string `json:"title"`
	LinkURL      string `json:"link_url"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// UnmarshalJSON accepts both the nested page object served by the API and
// the flat form Page encodes to.
func (p *Page) UnmarshalJSON(data []byte) error {
	var w wirePage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Page{
		Title:        firstNonEmpty(w.Titles.Normalized, w.Title),
		Extract:      w.Extract,
		LinkURL:      firstNonEmpty(w.ContentURLs.Desktop.Page, w.LinkURL),
		ImageURL:     firstNonEmpty(w.OriginalImage.Source, w.ImageURL),
		ThumbnailURL: firstNonEmpty(w.Thumbnail.Source, w.ThumbnailURL),
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// EventRecord is one historical entry. Category is empty in a RawFeed and
// set by Aggregate.
type EventRecord struct {
	Year     Year     `json:"year,omitempty"`
	Text     string   `json:"text"`
	Category Category `json:"category,omitempty"`
	Pages    []Page   `json:"pages,omitempty"`
}

// Link returns the desktop URL of the first related page, or "".
func (e EventRecord) Link() string {
	if len(e.Pages) == 0 {
		return ""
	}
	return e.Pages[0].LinkURL
}

// Image returns the first page's original image, falling back to its
// thumbnail.
func (e EventRecord) Image() string {
	if len(e.Pages) == 0 {
		return ""
	}
	if e.Pages[0].ImageURL != "" {
		return e.Pages[0].ImageURL
	}
	return e.Pages[0].ThumbnailURL
}

// RawFeed is the per-day feed grouped by category.
type RawFeed map[Category][]EventRecord

// Count returns the number of records across the known categories.
func (f RawFeed) Count() int {
	n := 0
	for _, c := range Categories {
		n += len(f[c])
	}
	return n
}

// Outcome classifies a SelectionResult.
type Outcome string

const (
	OutcomeMatch    Outcome = "match"
	OutcomeFallback Outcome = "fallback"
	OutcomeEmpty    Outcome = "empty"
)

// SelectionResult is what gets displayed for one search.
type SelectionResult struct {
	Facts   []EventRecord `json:"facts"`
	Message string        `json:"message"`
	Outcome Outcome       `json:"outcome"`
}
