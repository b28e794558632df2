// Package fetch holds the fetch-cycle state machine shared by the page
// controllers: Idle -> Loading -> {Success, Failure}, re-entered on every
// mount or filter change.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStale is returned by Run when a newer cycle started (or the tracker was
// closed) before this one finished; its result was discarded.
var ErrStale = errors.New("fetch: result superseded by a newer cycle")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFailure
	PhaseEmpty
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFailure:
		return "failure"
	case PhaseEmpty:
		return "empty"
	case PhaseSuccess:
		return "success"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseLoading, PhaseFailure, PhaseEmpty, PhaseSuccess} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("fetch: unknown phase %q", text)
}

// State is a copy of the tracker's flags. Data keeps the last successful value
// after a failure; HasData is false until the first success.
type State[T any] struct {
	Loading bool
	Error   string
	Data    T
	HasData bool
	Cycle   uint64
}

// Ticket identifies one fetch cycle.
type Ticket struct {
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (t Ticket) Seq() uint64              { return t.seq }
func (t Ticket) Context() context.Context { return t.ctx }

type Tracker[T any] struct {
	mu     sync.Mutex
	seq    uint64
	state  State[T]
	cancel context.CancelFunc
	closed bool
	size   func(T) int
}

// NewTracker builds an idle tracker. size reports how many items a result
// holds so an empty success can be told apart; nil means never empty.
func NewTracker[T any](size func(T) int) *Tracker[T] {
	return &Tracker[T]{size: size}
}

// Begin enters Loading regardless of the current state and cancels the cycle
// it supersedes.
func (t *Tracker[T]) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	t.cancel = cancel
	t.state.Loading = true
	t.state.Error = ""
	t.state.Cycle = t.seq
	if t.closed {
		cancel()
	}
	return Ticket{seq: t.seq, ctx: ctx, cancel: cancel}
}

// Resolve commits data for tk. It reports false when tk is stale.
func (t *Tracker[T]) Resolve(tk Ticket, data T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer tk.cancel()

	if !t.current(tk) {
		return false
	}
	t.state.Loading = false
	t.state.Error = ""
	t.state.Data = data
	t.state.HasData = true
	t.cancel = nil
	return true
}

// Fail records message for tk and leaves Data as it was. It reports false
// when tk is stale.
func (t *Tracker[T]) Fail(tk Ticket, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer tk.cancel()

	if !t.current(tk) {
		return false
	}
	t.state.Loading = false
	t.state.Error = message
	t.cancel = nil
	return true
}

// Run drives one whole cycle. It returns nil on a committed success, the
// fetch error on a committed failure, and ErrStale when the result was dropped.
func (t *Tracker[T]) Run(ctx context.Context, fn func(context.Context) (T, error), failureMessage string) error {
	tk := t.Begin(ctx)
	data, err := fn(tk.Context())
	if err != nil {
		if !t.Fail(tk, failureMessage) {
			return ErrStale
		}
		return err
	}
	if !t.Resolve(tk, data) {
		return ErrStale
	}
	return nil
}

func (t *Tracker[T]) Snapshot() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker[T]) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase()
}

// View returns the state together with the phase derived from it.
func (t *Tracker[T]) View() (State[T], Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.phase()
}

// Close unmounts the tracker: the in-flight cycle is cancelled and any later
// result is ignored.
func (t *Tracker[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tracker[T]) current(tk Ticket) bool {
	return !t.closed && tk.seq == t.seq
}

func (t *Tracker[T]) phase() Phase {
	switch {
	case t.state.Cycle == 0:
		return PhaseIdle
	case t.state.Loading:
		return PhaseLoading
	case t.state.Error != "":
		return PhaseFailure
	case t.size != nil && t.size(t.state.Data) == 0:
		return PhaseEmpty
	default:
		return PhaseSuccess
	}
}
