package facts

import "fmt"

const (
	MsgEnterDate  = "Please enter a valid date!"
	MsgNoEvents   = "No significant events found."
	MsgFetchError = "Error fetching data. Please try again later."
)

// FallbackMessage is shown when nothing matched the requested year.
func FallbackMessage(year int) string {
	return fmt.Sprintf("(No specific events found for %d. Here's everything from this date!)", year)
}

// Aggregate concatenates the feed's categories in priority order, tagging
// each record with its category. The feed is not modified.
func Aggregate(feed RawFeed) []EventRecord {
	all := make([]EventRecord, 0, feed.Count())
	for _, c := range Categories {
		for _, rec := range feed[c] {
			rec.Category = c
			all = append(all, rec)
		}
	}
	return all
}

// MatchYear returns the records whose year parses to year, in input order.
func MatchYear(records []EventRecord, year int) []EventRecord {
	var out []EventRecord
	for _, rec := range records {
		if y, ok := rec.Year.Int(); ok && y == year {
			out = append(out, rec)
		}
	}
	return out
}

// Select picks the facts to show for targetYear: every exact year match, or
// the whole day when nothing matches.
func Select(feed RawFeed, targetYear int) SelectionResult {
	all := Aggregate(feed)

	if matched := MatchYear(all, targetYear); len(matched) > 0 {
		return SelectionResult{Facts: matched, Outcome: OutcomeMatch}
	}
	if len(all) > 0 {
		return SelectionResult{
			Facts:   all,
			Message: FallbackMessage(targetYear),
			Outcome: OutcomeFallback,
		}
	}
	return SelectionResult{
		Facts:   []EventRecord{},
		Message: MsgNoEvents,
		Outcome: OutcomeEmpty,
	}
}
