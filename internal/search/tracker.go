package search

import (
	"context"
	"sync"
)

// Ticket identifies one search. Its context is cancelled as soon as a newer
// search begins.
type Ticket struct {
	Seq uint64
	Ctx context.Context
}

// Tracker hands out increasing sequence numbers so that only the most
// recently started search may update what is displayed.
type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin starts a new search derived from parent and supersedes the previous
// one.
func (t *Tracker) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	t.cancel = cancel
	return Ticket{Seq: t.seq, Ctx: ctx}
}

// IsCurrent reports whether seq belongs to the latest search.
func (t *Tracker) IsCurrent(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}

// Latest returns the sequence number of the most recent search, 0 if none.
func (t *Tracker) Latest() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Cancel abandons the current search without starting a new one. Its
// context is cancelled and its ticket is no longer current.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}
