package classifier

import (
	"testing"

	"github.com/GriffinCanCode/gamesight/internal/fingerprint"
	"github.com/GriffinCanCode/gamesight/internal/regionfilter"
	"github.com/GriffinCanCode/gamesight/internal/vision"
	"github.com/GriffinCanCode/gamesight/internal/vision/visiontest"
)

var (
	valueParams = regionfilter.Params{
		RangeLow: 50, RangeHigh: 100, ZeroForRange: 0,
		ValA: 126, ValB: 192, ValAB: 192, ValElse: 0,
	}
	nonValueParams = regionfilter.Params{RangeLow: 50, RangeHigh: 100}
)

func iconFrame(seed byte) *vision.Frame {
	f := vision.NewFrame(8, 8)
	for i := range f.Pix {
		f.Pix[i] = byte(i)*seed + seed
	}
	return f
}

func testSource() visiontest.Source {
	src := visiontest.Digits(DigitTemplatePrefix, 192)
	src[SlotAttack.TemplateKey()] = iconFrame(3)
	src[SlotExoriGran.TemplateKey()] = iconFrame(7)
	return src
}

func TestBuildTables(t *testing.T) {
	tables := Build(testSource(), valueParams, nonValueParams)

	if len(tables.Numbers) != 10 {
		t.Errorf("len(Numbers) = %d, want 10", len(tables.Numbers))
	}
	if len(tables.MinutesOrHours) != 10 {
		t.Errorf("len(MinutesOrHours) = %d, want 10", len(tables.MinutesOrHours))
	}
	if len(tables.Cooldowns) != 2 {
		t.Errorf("len(Cooldowns) = %d, want 2", len(tables.Cooldowns))
	}

	one := visiontest.Digit('1', 192)
	data, _ := regionfilter.ExtractFrame(one, regionfilter.Full(one), true, valueParams)
	if got, ok := tables.Numbers[fingerprint.Hash(data)]; !ok || got != 1 {
		t.Errorf("Numbers[hash(digit_1)] = %d, %v; want 1", got, ok)
	}

	icon := iconFrame(7)
	if got := tables.Cooldowns[fingerprint.HashFrame(icon)]; got != int32(SlotExoriGran) {
		t.Errorf("Cooldowns[hash(exori gran)] = %d, want %d", got, SlotExoriGran)
	}
}

func TestBuildMissingDigit(t *testing.T) {
	src := testSource()
	delete(src, DigitTemplatePrefix+"5")

	tables := Build(src, valueParams, nonValueParams)
	if len(tables.Numbers) != 9 {
		t.Errorf("len(Numbers) = %d, want 9", len(tables.Numbers))
	}
	for _, v := range tables.Numbers {
		if v == 5 {
			t.Error("digit 5 should be absent")
		}
	}
}

func TestBuildEmptySource(t *testing.T) {
	tables := Build(visiontest.Source{}, valueParams, nonValueParams)
	if len(tables.Numbers)+len(tables.MinutesOrHours)+len(tables.Cooldowns) != 0 {
		t.Errorf("tables should be empty: %+v", tables)
	}
}

func TestClassify(t *testing.T) {
	tables := Build(testSource(), valueParams, nonValueParams)

	screen := vision.Filled(40, 30, 70)
	screen.Paste(visiontest.Digit('7', 192), 20, 12)
	screen.Paste(visiontest.Digit('3', 192), 26, 12)
	anchor := vision.Box(10, 10, 4, 4)
	cell := func(dx int) vision.Rect {
		return vision.Rect{X: dx, Y: 2, Width: visiontest.GlyphWidth, Height: visiontest.GlyphHeight}
	}

	tests := []struct {
		name   string
		offset vision.Rect
		want   int32
	}{
		{"seven", cell(10), 7},
		{"three", cell(16), 3},
		{"background hashes to no digit", cell(0), 0},
		{"out of bounds", cell(40), 0},
		{"negative position", vision.Rect{X: -20, Y: 0, Width: 5, Height: 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(screen, anchor, tt.offset, tables.Numbers, true, valueParams); got != tt.want {
				t.Errorf("Classify = %d, want %d", got, tt.want)
			}
		})
	}
}

// Stage 1 maps the 70-valued background to 0, so a blank cell filters to all
// zeros. It only classifies as 0 because that pattern is absent from the table.
func TestClassifyZeroIsAmbiguous(t *testing.T) {
	tables := Build(testSource(), valueParams, nonValueParams)
	screen := vision.Filled(20, 20, 70)
	screen.Paste(visiontest.Digit('0', 192), 0, 0)
	anchor := vision.Box(0, 0, 1, 1)

	zero := Classify(screen, anchor, vision.Rect{Width: 5, Height: 7}, tables.Numbers, true, valueParams)
	blank := Classify(screen, anchor, vision.Rect{X: 10, Y: 10, Width: 5, Height: 7}, tables.Numbers, true, valueParams)
	if zero != 0 || blank != 0 {
		t.Errorf("Classify(zero) = %d, Classify(blank) = %d; both want 0", zero, blank)
	}

	if v, ok := Lookup(screen, anchor, vision.Rect{Width: 5, Height: 7}, tables.Numbers, true, valueParams); !ok || v != 0 {
		t.Errorf("Lookup(zero) = %d, %v; want 0, true", v, ok)
	}
	if _, ok := Lookup(screen, anchor, vision.Rect{X: 10, Y: 10, Width: 5, Height: 7}, tables.Numbers, true, valueParams); ok {
		t.Error("Lookup(blank) should miss")
	}
}

func TestClassifyCooldownRaw(t *testing.T) {
	tables := Build(testSource(), valueParams, nonValueParams)
	screen := vision.NewFrame(30, 20)
	screen.Paste(iconFrame(3), 12, 5)

	got := Classify(screen, vision.Box(10, 5, 2, 2), vision.Rect{X: 2, Width: 8, Height: 8}, tables.Cooldowns, false, Raw)
	if SlotID(got) != SlotAttack {
		t.Errorf("Classify = %v, want attack", SlotID(got))
	}
}
