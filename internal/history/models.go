package history

import "time"

// Entry is one recorded search. Feeds and facts are never stored.
type Entry struct {
	ID         string
	Date       string
	Year       int
	Month      string
	Day        string
	Outcome    string
	Message    string
	FactCount  int
	SearchedAt time.Time
}

// OutcomeError marks a search whose fetch failed.
const OutcomeError = "error"
