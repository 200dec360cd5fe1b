// Package watcher runs the capture loop and the fixed-interval observers that
// turn frames into game state.
package watcher

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/gamesight/internal/classifier"
	"github.com/GriffinCanCode/gamesight/internal/config"
	"github.com/GriffinCanCode/gamesight/internal/recognition"
	"github.com/GriffinCanCode/gamesight/internal/screen"
	"github.com/GriffinCanCode/gamesight/internal/syncx"
	"github.com/GriffinCanCode/gamesight/internal/trace"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Reader is the recognition surface used by the observers.
type Reader interface {
	Stat(ctx context.Context, frame *vision.Frame, kind recognition.StatKind) (int32, bool)
	Stamina(ctx context.Context, frame *vision.Frame) (int32, bool)
	Cooldowns(ctx context.Context, frame *vision.Frame) map[classifier.SlotID]bool
	Status(ctx context.Context, frame *vision.Frame) (recognition.StatusFlags, bool)
	SlotCount(ctx context.Context, frame *vision.Frame, slot int) (uint32, bool)
	SlotEquipped(ctx context.Context, frame *vision.Frame, slot int) (bool, bool)
	SlotAvailable(ctx context.Context, frame *vision.Frame, slot int) (bool, bool)
}

// Watcher owns one capture goroutine and one goroutine per observer. All of
// them check the shared stop flag at the top of every iteration; a recognition
// pass already in progress runs to completion.
type Watcher struct {
	cfg    *config.Config
	source screen.Source
	reader Reader

	frame  *syncx.RWGuard[*vision.Frame]
	state  *syncx.RWGuard[State]
	events chan Event

	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher. Call Start to begin polling.
func New(cfg *config.Config, source screen.Source, reader Reader) *Watcher {
	return &Watcher{
		cfg:    cfg,
		source: source,
		reader: reader,
		frame:  syncx.NewGuard[*vision.Frame](nil),
		state:  syncx.NewGuard(newState()),
		events: make(chan Event, EventBufferSize),
		stopCh: make(chan struct{}),
	}
}

// Start launches the loops. They run until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.spawn(func() { w.captureLoop(ctx) })
	w.spawn(func() { w.observe(ctx, "stats", w.cfg.StatsInterval, w.observeStats) })
	w.spawn(func() { w.observe(ctx, "cooldowns", w.cfg.CooldownInterval, w.observeCooldowns) })
	w.spawn(func() { w.observe(ctx, "status", w.cfg.StatusInterval, w.observeStatus) })
	if len(w.cfg.ActionBarSlots) > 0 {
		w.spawn(func() { w.observe(ctx, "slots", w.cfg.SlotsInterval, w.observeSlots) })
	}
	trace.Logger(ctx).Info("watcher started",
		"capture_interval", w.cfg.CaptureInterval(),
		"slots", w.cfg.ActionBarSlots)
}

// Stop raises the stop flag and waits for every loop to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.stopped.Store(true)
		close(w.stopCh)
	})
	w.wg.Wait()
}

// Snapshot returns a copy of the latest state.
func (w *Watcher) Snapshot() State {
	return syncx.View(w.state, State.clone)
}

// Frame returns the latest captured frame, or nil before the first capture.
func (w *Watcher) Frame() *vision.Frame {
	return w.frame.Get()
}

func (w *Watcher) spawn(fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		fn()
	}()
}

// tick blocks until the next tick and reports whether the loop should go on.
func (w *Watcher) tick(ctx context.Context, ticker *time.Ticker) bool {
	select {
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	case <-ticker.C:
		return !w.stopped.Load()
	}
}

func (w *Watcher) captureLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.CaptureInterval())
	defer ticker.Stop()

	failures := 0
	for w.tick(ctx, ticker) {
		f, changed, err := w.source.Capture(ctx)
		if err != nil {
			failures++
			log := trace.Logger(ctx)
			if failures <= CaptureWarnLimit {
				log.Warn("screen capture failed", "error", err, "consecutive", failures)
			} else {
				log.Debug("screen capture failed", "error", err, "consecutive", failures)
			}
			continue
		}
		if failures > 0 {
			trace.Logger(ctx).Info("screen capture recovered", "after", failures)
			failures = 0
		}
		if changed {
			w.frame.Set(f)
		}
	}
}

func (w *Watcher) observe(ctx context.Context, name string, interval time.Duration, fn func(context.Context, *vision.Frame)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for w.tick(ctx, ticker) {
		frame := w.frame.Get()
		if frame == nil {
			continue
		}
		passCtx, span := trace.StartSpan(ctx, "watcher."+name)
		fn(passCtx, frame)
		span.End()
	}
}

func (w *Watcher) observeStats(ctx context.Context, frame *vision.Frame) {
	values := make(map[recognition.StatKind]int32)
	for _, kind := range recognition.AllStats() {
		if v, ok := w.reader.Stat(ctx, frame, kind); ok {
			values[kind] = v
		}
	}
	stamina, hasStamina := w.reader.Stamina(ctx, frame)

	var changes []Event
	w.state.Write(func(s *State) {
		changes = diff(EventStat, recognition.AllStats(), s.Stats, values, recognition.StatKind.String, int32Value)
		if s.HasStamina != hasStamina || s.Stamina != stamina {
			changes = append(changes, Event{Kind: EventStat, Name: "stamina", Value: int64(stamina), Found: hasStamina})
		}
		s.Stats = values
		s.Stamina, s.HasStamina = stamina, hasStamina
		s.UpdatedAt = time.Now()
	})
	w.emitAll(changes)
}

func (w *Watcher) observeCooldowns(ctx context.Context, frame *vision.Frame) {
	values := w.reader.Cooldowns(ctx, frame)

	var changes []Event
	w.state.Write(func(s *State) {
		changes = diff(EventCooldown, classifier.AllSlots(), s.Cooldowns, values, classifier.SlotID.String, boolValue)
		s.Cooldowns = values
		s.UpdatedAt = time.Now()
	})
	w.emitAll(changes)
}

func (w *Watcher) observeStatus(ctx context.Context, frame *vision.Frame) {
	flags, ok := w.reader.Status(ctx, frame)

	var changes []Event
	w.state.Write(func(s *State) {
		changes = diff(EventStatus, statusNames, statusMap(s.Status, s.HasStatus), statusMap(flags, ok), identity, boolValue)
		s.Status, s.HasStatus = flags, ok
		s.UpdatedAt = time.Now()
	})
	w.emitAll(changes)
}

var statusNames = []string{"pz", "hur", "poison"}

// statusMap keys the flags by event name; an unread status bar has no keys.
func statusMap(f recognition.StatusFlags, ok bool) map[string]bool {
	if !ok {
		return nil
	}
	return map[string]bool{"pz": f.ProtectionZone, "hur": f.Hur, "poison": f.Poison}
}

func (w *Watcher) observeSlots(ctx context.Context, frame *vision.Frame) {
	slots := w.cfg.ActionBarSlots
	counts := make(map[int]uint32, len(slots))
	equipped := make(map[int]bool, len(slots))
	available := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if n, ok := w.reader.SlotCount(ctx, frame, slot); ok {
			counts[slot] = n
		}
		if eq, ok := w.reader.SlotEquipped(ctx, frame, slot); ok {
			equipped[slot] = eq
		}
		if av, ok := w.reader.SlotAvailable(ctx, frame, slot); ok {
			available[slot] = av
		}
	}

	var changes []Event
	w.state.Write(func(s *State) {
		changes = diff(EventSlot, slots, s.SlotCounts, counts, strconv.Itoa, uint32Value)
		changes = append(changes, diff(EventSlotEquipped, slots, s.SlotEquipped, equipped, strconv.Itoa, boolValue)...)
		changes = append(changes, diff(EventSlotAvailable, slots, s.SlotAvailable, available, strconv.Itoa, boolValue)...)
		s.SlotCounts, s.SlotEquipped, s.SlotAvailable = counts, equipped, available
		s.UpdatedAt = time.Now()
	})
	w.emitAll(changes)
}

func (w *Watcher) emitAll(events []Event) {
	for _, e := range events {
		w.emit(e)
	}
}
