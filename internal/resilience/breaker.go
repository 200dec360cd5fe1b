// Package resilience keeps a misbehaving capture or correlation backend from
// stalling the recognition loops: a circuit breaker sheds calls to a backend
// that keeps failing, and Retry re-runs transient failures with backoff.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
)

// State is the breaker position.
type State uint8

const (
	Closed State = iota
	Open
	HalfOpen
)

var stateNames = [...]string{Closed: "closed", Open: "open", HalfOpen: "half-open"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// ErrOpen is the cause of every rejection while the breaker is open.
var ErrOpen = errors.New("circuit breaker open")

// Counts summarizes what a breaker has seen since it was created.
type Counts struct {
	Allowed   uint64
	Rejected  uint64
	Failures  uint64
	Successes uint64
}

// Breaker sheds calls to a backend after Threshold consecutive failures.
// Once ResetTimeout has passed it lets calls through again in half-open state
// and closes after HalfOpenSuccesses of them succeed.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	consecutive int
	trials      int
	openedAt    time.Time
	counts      Counts
}

// New creates a closed breaker.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.normalized(), now: time.Now}
}

// Name is the label used in logs.
func (b *Breaker) Name() string { return b.cfg.Name }

// Allow returns nil if a call may proceed. While open it returns an
// UNAVAILABLE error wrapping ErrOpen.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if b.now().Sub(b.openedAt) < b.cfg.ResetTimeout {
			b.counts.Rejected++
			return apperrors.Wrap(ErrOpen, apperrors.CodeUnavailable, "call rejected").
				WithMetadata("breaker", b.cfg.Name)
		}
		b.moveLocked(HalfOpen)
	}
	b.counts.Allowed++
	return nil
}

// Success records a call that worked.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counts.Successes++
	switch b.state {
	case Closed:
		b.consecutive = 0
	case HalfOpen:
		b.trials++
		if b.trials >= b.cfg.HalfOpenSuccesses {
			b.moveLocked(Closed)
		}
	}
}

// Failure records a call that failed. Any failure during half-open reopens.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counts.Failures++
	b.consecutive++
	switch b.state {
	case Closed:
		if b.consecutive >= b.cfg.Threshold {
			b.moveLocked(Open)
		}
	case HalfOpen:
		b.moveLocked(Open)
	}
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Counts returns a copy of the call counters.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *Breaker) moveLocked(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.trials = 0

	log := slog.With("breaker", b.cfg.Name, "from", from, "to", to)
	switch to {
	case Open:
		b.openedAt = b.now()
		log.Warn("circuit breaker opened", "consecutive_failures", b.consecutive)
	case Closed:
		b.consecutive = 0
		log.Info("circuit breaker closed")
	default:
		log.Info("circuit breaker probing")
	}
}

// ExecuteWithResult runs fn if the breaker allows it and records the outcome.
func ExecuteWithResult[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if err := b.Allow(); err != nil {
		return zero, err
	}
	v, err := fn()
	if err != nil {
		b.Failure()
		return zero, err
	}
	b.Success()
	return v, nil
}
