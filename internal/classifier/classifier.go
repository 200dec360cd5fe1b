// Package classifier turns fixed-size screen regions into values with a single
// hash lookup. Tables are computed once from templates and never change.
package classifier

import (
	"log/slog"

	"github.com/GriffinCanCode/gamesight/internal/fingerprint"
	"github.com/GriffinCanCode/gamesight/internal/regionfilter"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// HashTable maps a region fingerprint to its meaning.
type HashTable map[int64]int32

// Raw leaves every pixel unchanged when used without stage 2.
var Raw = regionfilter.Params{RangeLow: 1, RangeHigh: 0}

// TemplateSource resolves template keys to pixels.
type TemplateSource interface {
	Frame(key string) (*vision.Frame, bool)
}

// Tables holds the lookup tables used on the hot path.
type Tables struct {
	Numbers        HashTable
	MinutesOrHours HashTable
	Cooldowns      HashTable
}

// Build fingerprints the digit and cooldown templates.
//
// Numbers uses the value params with stage 2. MinutesOrHours reuses the same
// digit templates with the non-value params and no stage 2. Cooldowns hash the
// icon pixels unfiltered. Missing templates are logged and skipped; on
// fingerprint collisions the later insert wins.
func Build(src TemplateSource, value, nonValue regionfilter.Params) *Tables {
	t := &Tables{
		Numbers:        make(HashTable),
		MinutesOrHours: make(HashTable),
		Cooldowns:      make(HashTable),
	}

	for d := int32(0); d <= 9; d++ {
		key := DigitTemplatePrefix + string(rune('0'+d))
		f, ok := src.Frame(key)
		if !ok {
			slog.Warn("digit template missing, hash not generated", "key", key)
			continue
		}
		insert(t.Numbers, "numbers", key, f, true, value, d)
		insert(t.MinutesOrHours, "minutes_or_hours", key, f, false, nonValue, d)
	}

	for _, slot := range AllSlots() {
		key := slot.TemplateKey()
		f, ok := src.Frame(key)
		if !ok {
			slog.Debug("cooldown template missing", "slot", slot, "key", key)
			continue
		}
		insert(t.Cooldowns, "cooldowns", key, f, false, Raw, int32(slot))
	}

	slog.Info("hash tables built",
		"numbers", len(t.Numbers),
		"minutes_or_hours", len(t.MinutesOrHours),
		"cooldowns", len(t.Cooldowns))
	return t
}

func insert(table HashTable, name, key string, f *vision.Frame, stage2 bool, p regionfilter.Params, v int32) {
	data, ok := regionfilter.ExtractFrame(f, regionfilter.Full(f), stage2, p)
	if !ok {
		slog.Warn("template could not be filtered", "table", name, "key", key)
		return
	}
	h := fingerprint.Hash(data)
	if prev, dup := table[h]; dup && prev != v {
		slog.Warn("fingerprint collision, later template wins", "table", name, "key", key, "previous", prev, "value", v)
	}
	table[h] = v
}

// Classify fingerprints the region at anchor + offset and looks it up.
// Returns 0 when the region is out of bounds or the fingerprint is unknown,
// which is indistinguishable from a recognized 0.
func Classify(frame *vision.Frame, anchor vision.BoundingBox, offset vision.Rect, table HashTable, stage2 bool, p regionfilter.Params) int32 {
	data, ok := regionfilter.ExtractFrame(frame, offset.Offset(anchor), stage2, p)
	if !ok {
		return 0
	}
	return table[fingerprint.Hash(data)]
}

// Lookup is Classify without the zero fallback: ok is false for a miss.
func Lookup(frame *vision.Frame, anchor vision.BoundingBox, offset vision.Rect, table HashTable, stage2 bool, p regionfilter.Params) (int32, bool) {
	data, ok := regionfilter.ExtractFrame(frame, offset.Offset(anchor), stage2, p)
	if !ok {
		return 0, false
	}
	v, ok := table[fingerprint.Hash(data)]
	return v, ok
}
