package config

import "time"

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultEnvFile          = ".env"
	DefaultTemplatesDir     = "templates"
	DefaultMatcherBackend   = "ncc"
	DefaultValueFilter      = "50,100,0,126,192,192,0"
	DefaultNonValueFilter   = "50,100,0,0,0,0,0"
	DefaultAnchorConfidence = 0.85
	DefaultIconConfidence   = 0.8
	DefaultDigitConfidence  = 0.8
	DefaultDigitMaxOverlap  = 0.3
	DefaultCaptureRate      = 10.0 // Hz
	DefaultStatsInterval    = 100 * time.Millisecond
	DefaultCooldownInterval = 50 * time.Millisecond
	DefaultStatusInterval   = 250 * time.Millisecond
	DefaultSlotsInterval    = time.Second
	DefaultLogLevel         = "info"
)

// DefaultActionBarSlots are the action-bar slots whose counts are watched.
var DefaultActionBarSlots = []string{"1", "2", "3"}

// filterParamCount is the number of fields in a filter parameter set.
const filterParamCount = 7
