package watcher

import (
	"maps"
	"time"

	"github.com/GriffinCanCode/gamesight/internal/classifier"
	"github.com/GriffinCanCode/gamesight/internal/recognition"
)

// State is the latest value read by each observer. Missing keys mean the value
// could not be read on the last pass.
type State struct {
	Stats      map[recognition.StatKind]int32
	Stamina    int32
	HasStamina bool
	Cooldowns  map[classifier.SlotID]bool
	Status     recognition.StatusFlags
	HasStatus  bool
	SlotCounts map[int]uint32

	// Slot status; see recognition.Engine.SlotAvailable for the defaults.
	SlotEquipped  map[int]bool
	SlotAvailable map[int]bool
	UpdatedAt     time.Time
}

func newState() State {
	return State{
		Stats:         make(map[recognition.StatKind]int32),
		Cooldowns:     make(map[classifier.SlotID]bool),
		SlotCounts:    make(map[int]uint32),
		SlotEquipped:  make(map[int]bool),
		SlotAvailable: make(map[int]bool),
	}
}

// clone returns a deep copy safe to hand out.
func (s State) clone() State {
	s.Stats = maps.Clone(s.Stats)
	s.Cooldowns = maps.Clone(s.Cooldowns)
	s.SlotCounts = maps.Clone(s.SlotCounts)
	s.SlotEquipped = maps.Clone(s.SlotEquipped)
	s.SlotAvailable = maps.Clone(s.SlotAvailable)
	return s
}
