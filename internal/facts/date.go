package facts

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ValidationError reports unusable date input.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return "date: " + e.Reason
	}
	return fmt.Sprintf("date %q: %s", e.Input, e.Reason)
}

// Query is a parsed date split the way the API wants it.
type Query struct {
	Year  int
	Month string
	Day   string
}

func (q Query) String() string {
	return fmt.Sprintf("%04d-%s-%s", q.Year, q.Month, q.Day)
}

// ParseDate splits a YYYY-MM-DD input into year, month and day.
func ParseDate(input string) (Query, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Query{}, &ValidationError{Reason: "no date supplied"}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Query{}, &ValidationError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	return Query{
		Year:  t.Year(),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}, nil
}
