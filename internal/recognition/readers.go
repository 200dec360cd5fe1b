package recognition

import (
	"context"

	"github.com/GriffinCanCode/gamesight/internal/classifier"
	"github.com/GriffinCanCode/gamesight/internal/trace"
	"github.com/GriffinCanCode/gamesight/internal/vision"
)

// Stat reads a skills panel value. Cells are classified right to left with
// decimal weights; a cell that does not match any digit counts as 0. Not found
// when the skills icon is missing or no cell matched.
func (e *Engine) Stat(ctx context.Context, frame *vision.Frame, kind StatKind) (int32, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.stat")
	defer span.End()
	span.SetAttr("stat", kind.String())

	if !kind.valid() {
		return 0, false
	}
	anchor, ok := e.LocateAnchor(ctx, frame, AnchorSkills, true)
	if !ok {
		return 0, false
	}

	var value, weight int32 = 0, 1
	hits := 0
	for i, cell := range e.statCells(anchor, int(kind)) {
		if i > 0 {
			weight *= 10
		}
		d, ok := classifier.Lookup(frame, anchor, cell, e.tables.Numbers, true, e.cfg.ValueFilter)
		if !ok {
			continue
		}
		value += d * weight
		hits++
	}
	if hits == 0 {
		return 0, false
	}
	return value, true
}

// Stamina reads the HH:MM stamina clock and returns it in minutes. All four
// cells must match.
func (e *Engine) Stamina(ctx context.Context, frame *vision.Frame) (int32, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.stamina")
	defer span.End()

	anchor, ok := e.LocateAnchor(ctx, frame, AnchorSkills, true)
	if !ok {
		return 0, false
	}

	var d [4]int32
	for i, cell := range e.staminaCells(anchor) {
		v, ok := classifier.Lookup(frame, anchor, cell, e.tables.MinutesOrHours, false, e.cfg.NonValueFilter)
		if !ok {
			trace.Logger(ctx).Debug("stamina cell not recognized", "cell", i)
			return 0, false
		}
		d[i] = v
	}
	return (d[0]*10+d[1])*60 + d[2]*10 + d[3], true
}

// Cooldown reports whether the icon of slot is lit in the cooldown bar.
// Not found when the bar or the slot's icon template is missing.
func (e *Engine) Cooldown(ctx context.Context, frame *vision.Frame, slot classifier.SlotID) (active, ok bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.cooldown")
	defer span.End()
	span.SetAttr("slot", slot.String())

	if !slot.Valid() {
		return false, false
	}
	icon, found := e.templates.Frame(slot.TemplateKey())
	if !found {
		trace.Logger(ctx).Debug("cooldown template missing", "slot", slot)
		return false, false
	}
	anchor, found := e.LocateAnchor(ctx, frame, AnchorCooldownBar, true)
	if !found {
		return false, false
	}

	cell := vision.Rect{
		X:      int(anchor.Width) + cooldownBarGap + (int(slot)-1)*cooldownSlotStep,
		Width:  icon.Width,
		Height: icon.Height,
	}
	return classifier.Classify(frame, anchor, cell, e.tables.Cooldowns, false, classifier.Raw) == int32(slot), true
}

// Cooldowns reads every known slot. Slots that could not be read are omitted.
func (e *Engine) Cooldowns(ctx context.Context, frame *vision.Frame) map[classifier.SlotID]bool {
	out := make(map[classifier.SlotID]bool)
	for _, slot := range classifier.AllSlots() {
		if active, ok := e.Cooldown(ctx, frame, slot); ok {
			out[slot] = active
		}
	}
	return out
}

// SlotCount reads the item count printed on action bar slot (1-based). An
// empty count reads as 0.
func (e *Engine) SlotCount(ctx context.Context, frame *vision.Frame, slot int) (uint32, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.slot_count")
	defer span.End()
	span.SetAttr("slot", slot)
	log := trace.Logger(ctx)

	if slot < 1 {
		return 0, false
	}
	anchor, ok := e.LocateAnchor(ctx, frame, AnchorActionBar, true)
	if !ok {
		return 0, false
	}

	region := frame.Crop(slotDigitsRect(anchor, slot))
	if region == nil {
		log.Debug("slot digits outside frame", "slot", slot)
		return 0, false
	}
	n, found, err := e.digits.Recognize(region, classifier.DigitTemplatePrefix,
		float32(e.cfg.DigitConfidence), float32(e.cfg.DigitMaxOverlap))
	if err != nil {
		log.Warn("slot count recognition failed", "slot", slot, "error", err)
		return 0, false
	}
	if !found {
		return 0, true
	}
	return n, true
}

// SlotEquipped reports whether the item in action bar slot (1-based) is worn,
// shown by the equipped frame marker. Not found without the action bar, the
// marker template, or a slot frame inside the screen. A slot below 1 is never
// equipped.
func (e *Engine) SlotEquipped(ctx context.Context, frame *vision.Frame, slot int) (bool, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.slot_equipped")
	defer span.End()
	span.SetAttr("slot", slot)

	anchor, ok := e.LocateAnchor(ctx, frame, AnchorActionBar, true)
	if !ok {
		return false, false
	}
	if slot < 1 {
		return false, true
	}
	return e.slotMarker(ctx, frame, anchor, slot, MarkerEquipped)
}

// SlotAvailable reports whether action bar slot (1-based) can be used, i.e. it
// is not greyed out by the unavailable marker. Without the action bar, or for
// a slot below 1, the slot is assumed available. ok is false only when the
// marker template is missing or the slot frame leaves the screen.
func (e *Engine) SlotAvailable(ctx context.Context, frame *vision.Frame, slot int) (bool, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.slot_available")
	defer span.End()
	span.SetAttr("slot", slot)

	anchor, ok := e.LocateAnchor(ctx, frame, AnchorActionBar, true)
	if !ok || slot < 1 {
		return true, true
	}
	greyed, ok := e.slotMarker(ctx, frame, anchor, slot, MarkerUnavailable)
	if !ok {
		return true, false
	}
	return !greyed, true
}

func (e *Engine) slotMarker(ctx context.Context, frame *vision.Frame, anchor vision.BoundingBox, slot int, key string) (bool, bool) {
	region := frame.Crop(slotFrameRect(anchor, slot))
	if region == nil {
		trace.Logger(ctx).Debug("slot frame outside screen", "slot", slot)
		return false, false
	}
	return e.findIcon(ctx, region, key)
}

// Status reads the condition icons left of the stop button.
func (e *Engine) Status(ctx context.Context, frame *vision.Frame) (StatusFlags, bool) {
	ctx, span := trace.StartSpan(ctx, "recognition.status")
	defer span.End()

	anchor, ok := e.LocateAnchor(ctx, frame, AnchorStop, true)
	if !ok {
		return StatusFlags{}, false
	}
	bar := frame.Crop(statusBarRect(anchor))
	if bar == nil {
		trace.Logger(ctx).Debug("status bar outside frame", "stop", anchor)
		return StatusFlags{}, false
	}

	return StatusFlags{
		ProtectionZone: e.hasIcon(ctx, bar, IconProtectionZone),
		Hur:            e.hasIcon(ctx, bar, IconHur),
		Poison:         e.hasIcon(ctx, bar, IconPoison),
	}, true
}

func (e *Engine) hasIcon(ctx context.Context, region *vision.Frame, key string) bool {
	found, _ := e.findIcon(ctx, region, key)
	return found
}

// findIcon searches region for the template under key. ok is false when the
// template is missing or the search failed.
func (e *Engine) findIcon(ctx context.Context, region *vision.Frame, key string) (found, ok bool) {
	icon, ok := e.templates.Frame(key)
	if !ok {
		trace.Logger(ctx).Debug("icon template missing", "key", key)
		return false, false
	}
	_, found, err := e.matcher.LocateBest(region, icon, float32(e.cfg.IconConfidence))
	if err != nil {
		trace.Logger(ctx).Warn("icon search failed", "key", key, "error", err)
		return false, false
	}
	return found, true
}

// statCells returns the digit cells of a stats row, rightmost first.
func (e *Engine) statCells(anchor vision.BoundingBox, row int) []vision.Rect {
	top := int(anchor.Height) + statRowGap + row*statRowStep
	cells := make([]vision.Rect, statMaxDigits)
	for k := range cells {
		cells[k] = vision.Rect{
			X:      statValueRight - (k+1)*e.cellW - k*digitCellGap,
			Y:      top,
			Width:  e.cellW,
			Height: e.cellH,
		}
	}
	return cells
}

// staminaCells returns the H H M M cells, left to right.
func (e *Engine) staminaCells(anchor vision.BoundingBox) [4]vision.Rect {
	top := int(anchor.Height) + statRowGap + staminaRow*statRowStep
	cell := func(x int) vision.Rect {
		return vision.Rect{X: x, Y: top, Width: e.cellW, Height: e.cellH}
	}
	m1 := statValueRight - e.cellW
	m0 := m1 - digitCellGap - e.cellW
	h1 := m0 - digitCellGap - staminaColonWidth - digitCellGap - e.cellW
	h0 := h1 - digitCellGap - e.cellW
	return [4]vision.Rect{cell(h0), cell(h1), cell(m0), cell(m1)}
}

func slotLeft(arrows vision.BoundingBox, slot int) int {
	return arrows.Right() + slot*actionSlotSpacing + (slot-1)*actionSlotWidth
}

func slotFrameRect(arrows vision.BoundingBox, slot int) vision.Rect {
	x0, y := slotLeft(arrows, slot), int(arrows.Y)
	return vision.Span(x0, y, x0+actionSlotWidth, y+actionSlotHeight)
}

func slotDigitsRect(arrows vision.BoundingBox, slot int) vision.Rect {
	x0, y := slotLeft(arrows, slot), int(arrows.Y)
	return vision.Span(x0+slotDigitsLeft, y+slotDigitsTop, x0+slotDigitsRight, y+slotDigitsBottom)
}

func statusBarRect(stop vision.BoundingBox) vision.Rect {
	x, y := int(stop.X), int(stop.Y)
	return vision.Span(x-statusBarLeft, y+statusBarTop, x-statusBarRight, y+statusBarBottom)
}
