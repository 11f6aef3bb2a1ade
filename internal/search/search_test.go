package search

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/logging"
	"github.com/matheuskafuri/timeportal/internal/onthisday"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	feed  facts.RawFeed
	err   error
}

func (f *fakeProvider) FetchFeed(ctx context.Context, month, day string) (facts.RawFeed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, month+"/"+day)
	return f.feed, f.err
}

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (r *fakeRecorder) Record(e history.Entry) (history.Entry, error) {
	if r.err != nil {
		return history.Entry{}, r.err
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func wallFeed() facts.RawFeed {
	return facts.RawFeed{
		facts.CategoryEvents: {{Year: "1989", Text: "Wall falls"}},
		facts.CategoryBirths: {{Year: "1990", Text: "X born"}},
	}
}

func TestRunMatch(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	rec := &fakeRecorder{}
	s := New(p, WithRecorder(rec))

	out := s.Run(context.Background(), "1989-11-09")
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Stale {
		t.Error("single search must not be stale")
	}
	if len(p.calls) != 1 || p.calls[0] != "11/09" {
		t.Errorf("provider calls = %v", p.calls)
	}
	if out.Result.Outcome != facts.OutcomeMatch || len(out.Result.Facts) != 1 {
		t.Errorf("unexpected result: %+v", out.Result)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Date != "1989-11-09" || e.Year != 1989 || e.Outcome != "match" || e.FactCount != 1 {
		t.Errorf("unexpected history entry: %+v", e)
	}
}

func TestRunFallback(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	out := New(p).Run(context.Background(), "2000-11-09")

	want := "(No specific events found for 2000. Here's everything from this date!)"
	if out.Result.Message != want {
		t.Errorf("Message = %q, want %q", out.Result.Message, want)
	}
	if len(out.Result.Facts) != 2 {
		t.Errorf("expected 2 facts, got %d", len(out.Result.Facts))
	}
}

func TestRunNoDateSkipsProvider(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	rec := &fakeRecorder{}
	out := New(p, WithRecorder(rec)).Run(context.Background(), "")

	if out.Result.Message != "Please enter a valid date!" {
		t.Errorf("Message = %q", out.Result.Message)
	}
	if out.Result.Facts == nil || len(out.Result.Facts) != 0 {
		t.Errorf("expected empty non-nil facts, got %#v", out.Result.Facts)
	}
	var verr *facts.ValidationError
	if !errors.As(out.Err, &verr) {
		t.Errorf("expected ValidationError, got %v", out.Err)
	}
	if len(p.calls) != 0 {
		t.Errorf("provider must not be called, got %v", p.calls)
	}
	if len(rec.entries) != 0 {
		t.Errorf("validation failures are not recorded, got %d", len(rec.entries))
	}
}

func TestRunFetchErrorIsLoggedNotShown(t *testing.T) {
	cause := &onthisday.APIError{URL: "https://api.example/feed", StatusCode: 503, Body: "upstream timeout"}
	p := &fakeProvider{err: cause}
	rec := &fakeRecorder{}
	var logs bytes.Buffer
	s := New(p, WithRecorder(rec), WithLogger(logging.New(&logs, "debug")))

	out := s.Run(context.Background(), "1989-11-09")

	if out.Result.Message != "Error fetching data. Please try again later." {
		t.Errorf("Message = %q", out.Result.Message)
	}
	if strings.Contains(out.Result.Message, "upstream") {
		t.Error("cause leaked into user message")
	}
	if len(out.Result.Facts) != 0 {
		t.Errorf("expected no facts on error, got %d", len(out.Result.Facts))
	}
	if !errors.Is(out.Err, cause) {
		t.Errorf("expected cause in chain, got %v", out.Err)
	}
	if !strings.Contains(logs.String(), `"status":503`) {
		t.Errorf("expected status in log output: %s", logs.String())
	}
	if len(rec.entries) != 1 || rec.entries[0].Outcome != history.OutcomeError {
		t.Errorf("expected one error entry, got %+v", rec.entries)
	}
}

func TestRunNetworkError(t *testing.T) {
	p := &fakeProvider{err: &onthisday.NetworkError{URL: "https://api.example/feed", Err: errors.New("dial tcp: no such host")}}
	var logs bytes.Buffer
	out := New(p, WithLogger(logging.New(&logs, "info"))).Run(context.Background(), "1989-11-09")

	if out.Result.Message != facts.MsgFetchError {
		t.Errorf("Message = %q", out.Result.Message)
	}
	if !strings.Contains(logs.String(), "no such host") {
		t.Errorf("expected cause in logs: %s", logs.String())
	}
}

func TestSupersededSearchIsStale(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	rec := &fakeRecorder{}
	s := New(p, WithRecorder(rec))

	first := s.Begin(context.Background())
	second := s.Begin(context.Background())

	if first.Ctx.Err() == nil {
		t.Error("starting a new search should cancel the previous one")
	}
	if second.Seq <= first.Seq {
		t.Errorf("sequence must increase: %d then %d", first.Seq, second.Seq)
	}

	stale := s.Execute(first, "1989-11-09")
	if !stale.Stale {
		t.Error("expected first search to be stale")
	}
	if s.IsCurrent(first.Seq) {
		t.Error("first ticket should not be current")
	}

	fresh := s.Execute(second, "2000-11-09")
	if fresh.Stale {
		t.Error("latest search must not be stale")
	}
	if len(rec.entries) != 1 || rec.entries[0].Date != "2000-11-09" {
		t.Errorf("only the latest search should be recorded, got %+v", rec.entries)
	}
}

func TestRecorderFailureDoesNotFailSearch(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	rec := &fakeRecorder{err: errors.New("disk full")}
	var logs bytes.Buffer
	out := New(p, WithRecorder(rec), WithLogger(logging.New(&logs, "info"))).Run(context.Background(), "1989-11-09")

	if out.Err != nil {
		t.Errorf("unexpected error: %v", out.Err)
	}
	if len(out.Result.Facts) != 1 {
		t.Errorf("expected result despite history failure, got %+v", out.Result)
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("expected history failure in logs: %s", logs.String())
	}
}

func TestTrackerConcurrentBegin(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	seen := make(chan uint64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- tr.Begin(context.Background()).Seq
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for seq := range seen {
		if unique[seq] {
			t.Fatalf("duplicate sequence %d", seq)
		}
		unique[seq] = true
	}
	if tr.Latest() != 50 {
		t.Errorf("Latest() = %d, want 50", tr.Latest())
	}
	if !tr.IsCurrent(50) || tr.IsCurrent(49) {
		t.Error("only the last sequence should be current")
	}
}

func TestCancelledSearchIsNotRecorded(t *testing.T) {
	p := &fakeProvider{feed: wallFeed()}
	rec := &fakeRecorder{}
	s := New(p, WithRecorder(rec))

	ticket := s.Begin(context.Background())
	s.Cancel()

	if ticket.Ctx.Err() == nil {
		t.Error("cancel should cancel the in-flight context")
	}
	if s.IsCurrent(ticket.Seq) {
		t.Error("cancelled ticket should not be current")
	}

	out := s.Execute(ticket, "1989-11-09")
	if !out.Stale {
		t.Error("expected cancelled search to be stale")
	}
	if len(rec.entries) != 0 {
		t.Errorf("cancelled search should not be recorded, got %+v", rec.entries)
	}

	next := s.Run(context.Background(), "1989-11-09")
	if next.Stale || len(rec.entries) != 1 {
		t.Errorf("search after cancel should run normally: stale=%v entries=%d", next.Stale, len(rec.entries))
	}
}
