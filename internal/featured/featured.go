// Package featured reads Wikipedia's curated "On this day" Atom feed.
package featured

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const DefaultFeedURL = "https://en.wikipedia.org/w/api.php?action=featuredfeed&feed=onthisday&feedformat=atom"

// Entry is one day's curated anniversaries page.
type Entry struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

type Reader struct {
	parser *gofeed.Parser
	url    string
}

func NewReader(url, userAgent string) *Reader {
	if url == "" {
		url = DefaultFeedURL
	}
	p := gofeed.NewParser()
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Reader{parser: p, url: url}
}

// Fetch returns the feed entries, newest first, capped at limit when
// limit > 0.
func (r *Reader) Fetch(ctx context.Context, limit int) ([]Entry, error) {
	feed, err := r.parser.ParseURLWithContext(r.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching featured feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		e := Entry{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Summary: summarize(item.Description, 280),
		}
		if item.PublishedParsed != nil {
			e.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			e.Published = *item.UpdatedParsed
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Published.After(entries[j].Published)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// summarize strips markup from an entry body and truncates it by rune.
func summarize(s string, n int) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
