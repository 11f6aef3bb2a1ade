// Package search runs one date lookup end to end: validate the input, fetch
// the day's feed, select the facts, and record the search.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/onthisday"
	"github.com/rs/zerolog"
)

// Provider fetches the raw feed for a zero-padded month and day.
type Provider interface {
	FetchFeed(ctx context.Context, month, day string) (facts.RawFeed, error)
}

// Recorder persists completed searches.
type Recorder interface {
	Record(e history.Entry) (history.Entry, error)
}

// Outcome is the result of one search as the display layer sees it.
type Outcome struct {
	Seq    uint64
	Query  facts.Query
	Result facts.SelectionResult
	// Err is the underlying cause, for logging only; Result.Message is what
	// the user sees.
	Err error
	// Stale is set when a newer search started before this one finished.
	Stale bool
}

type Searcher struct {
	provider Provider
	recorder Recorder
	log      zerolog.Logger
	tracker  *Tracker
	now      func() time.Time
}

type Option func(*Searcher)

func WithRecorder(r Recorder) Option {
	return func(s *Searcher) { s.recorder = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Searcher) { s.log = l }
}

func New(p Provider, opts ...Option) *Searcher {
	s := &Searcher{
		provider: p,
		log:      zerolog.Nop(),
		tracker:  &Tracker{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Begin supersedes any in-flight search and returns the new ticket.
func (s *Searcher) Begin(ctx context.Context) Ticket {
	return s.tracker.Begin(ctx)
}

// IsCurrent reports whether seq is the latest search.
func (s *Searcher) IsCurrent(seq uint64) bool {
	return s.tracker.IsCurrent(seq)
}

// Cancel abandons the in-flight search, if any. It will not be recorded.
func (s *Searcher) Cancel() {
	s.tracker.Cancel()
}

// Run begins a new search and executes it synchronously.
func (s *Searcher) Run(ctx context.Context, input string) Outcome {
	return s.Execute(s.Begin(ctx), input)
}

// Execute performs the search for ticket t.
func (s *Searcher) Execute(t Ticket, input string) Outcome {
	out := Outcome{Seq: t.Seq}

	q, err := facts.ParseDate(input)
	if err != nil {
		out.Err = err
		out.Result = facts.SelectionResult{Facts: []facts.EventRecord{}, Message: facts.MsgEnterDate}
		return out
	}
	out.Query = q

	start := s.now()
	feed, err := s.provider.FetchFeed(t.Ctx, q.Month, q.Day)
	if !s.tracker.IsCurrent(t.Seq) {
		out.Stale = true
		s.log.Debug().Uint64("seq", t.Seq).Str("date", q.String()).Msg("discarding superseded search")
		return out
	}

	if err != nil {
		out.Err = fmt.Errorf("searching %s: %w", q, err)
		out.Result = facts.SelectionResult{Facts: []facts.EventRecord{}, Message: facts.MsgFetchError}
		s.logFailure(q, err)
		s.record(q, history.OutcomeError, out.Result)
		return out
	}

	out.Result = facts.Select(feed, q.Year)
	s.log.Info().
		Str("date", q.String()).
		Str("outcome", string(out.Result.Outcome)).
		Int("facts", len(out.Result.Facts)).
		Dur("took", s.now().Sub(start)).
		Msg("search complete")
	s.record(q, string(out.Result.Outcome), out.Result)
	return out
}

func (s *Searcher) logFailure(q facts.Query, err error) {
	ev := s.log.Warn().Err(err).Str("date", q.String())

	var apiErr *onthisday.APIError
	var netErr *onthisday.NetworkError
	switch {
	case errors.As(err, &apiErr):
		ev = ev.Str("url", apiErr.URL).Int("status", apiErr.StatusCode)
	case errors.As(err, &netErr):
		ev = ev.Str("url", netErr.URL)
	}
	ev.Msg("fetching on-this-day feed failed")
}

func (s *Searcher) record(q facts.Query, outcome string, res facts.SelectionResult) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Record(history.Entry{
		Date:       q.String(),
		Year:       q.Year,
		Month:      q.Month,
		Day:        q.Day,
		Outcome:    outcome,
		Message:    res.Message,
		FactCount:  len(res.Facts),
		SearchedAt: s.now(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("date", q.String()).Msg("recording search history failed")
	}
}
