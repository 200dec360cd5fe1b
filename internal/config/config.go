// Package config handles engine configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/GriffinCanCode/gamesight/internal/errors"
	"github.com/GriffinCanCode/gamesight/internal/regionfilter"
)

type Config struct {
	TemplatesDir     string
	ReplayDir        string // replay captured frames instead of grabbing the screen
	MatcherBackend   string
	ValueFilter      regionfilter.Params
	NonValueFilter   regionfilter.Params
	AnchorConfidence float64
	IconConfidence   float64
	DigitConfidence  float64
	DigitMaxOverlap  float64
	VerifyCache      bool
	CaptureRate      float64 // Hz
	StatsInterval    time.Duration
	CooldownInterval time.Duration
	StatusInterval   time.Duration
	SlotsInterval    time.Duration
	ActionBarSlots   []int
	LogLevel         string

	problems []string
}

// LoadEnvFile merges a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return apperrors.Wrap(err, apperrors.CodeConfigInvalid, "read env file").WithMetadata("path", path)
	}
	return nil
}

func Load() *Config {
	c := &Config{
		TemplatesDir:     getEnv("TEMPLATES_DIR", DefaultTemplatesDir),
		ReplayDir:        getEnv("REPLAY_DIR", ""),
		MatcherBackend:   getEnv("MATCHER_BACKEND", DefaultMatcherBackend),
		AnchorConfidence: getEnvFloat("ANCHOR_CONFIDENCE", DefaultAnchorConfidence),
		IconConfidence:   getEnvFloat("ICON_CONFIDENCE", DefaultIconConfidence),
		DigitConfidence:  getEnvFloat("DIGIT_CONFIDENCE", DefaultDigitConfidence),
		DigitMaxOverlap:  getEnvFloat("DIGIT_MAX_OVERLAP", DefaultDigitMaxOverlap),
		VerifyCache:      getEnvBool("VERIFY_CACHE", true),
		CaptureRate:      getEnvFloat("SCREEN_CAPTURE_RATE", DefaultCaptureRate),
		StatsInterval:    getEnvDuration("STATS_INTERVAL", DefaultStatsInterval),
		CooldownInterval: getEnvDuration("COOLDOWN_INTERVAL", DefaultCooldownInterval),
		StatusInterval:   getEnvDuration("STATUS_INTERVAL", DefaultStatusInterval),
		SlotsInterval:    getEnvDuration("SLOTS_INTERVAL", DefaultSlotsInterval),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
	}

	var err error
	if c.ValueFilter, err = ParseFilterParams(getEnv("VALUE_FILTER_PARAMS", DefaultValueFilter)); err != nil {
		c.problems = append(c.problems, "VALUE_FILTER_PARAMS: "+err.Error())
	}
	if c.NonValueFilter, err = ParseFilterParams(getEnv("NON_VALUE_FILTER_PARAMS", DefaultNonValueFilter)); err != nil {
		c.problems = append(c.problems, "NON_VALUE_FILTER_PARAMS: "+err.Error())
	}
	for _, s := range getEnvList("ACTION_BAR_SLOTS", DefaultActionBarSlots) {
		slot, err := strconv.Atoi(s)
		if err != nil {
			c.problems = append(c.problems, fmt.Sprintf("ACTION_BAR_SLOTS: %q is not a number", s))
			continue
		}
		c.ActionBarSlots = append(c.ActionBarSlots, slot)
	}
	return c
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.problems...)

	if c.TemplatesDir == "" {
		problems = append(problems, "TEMPLATES_DIR is empty")
	}
	for name, v := range map[string]float64{
		"ANCHOR_CONFIDENCE": c.AnchorConfidence,
		"ICON_CONFIDENCE":   c.IconConfidence,
		"DIGIT_CONFIDENCE":  c.DigitConfidence,
		"DIGIT_MAX_OVERLAP": c.DigitMaxOverlap,
	} {
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("%s must be within [0, 1], got %v", name, v))
		}
	}
	if c.CaptureRate <= 0 {
		problems = append(problems, fmt.Sprintf("SCREEN_CAPTURE_RATE must be positive, got %v", c.CaptureRate))
	}
	for name, d := range map[string]time.Duration{
		"STATS_INTERVAL":    c.StatsInterval,
		"COOLDOWN_INTERVAL": c.CooldownInterval,
		"STATUS_INTERVAL":   c.StatusInterval,
		"SLOTS_INTERVAL":    c.SlotsInterval,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %v", name, d))
		}
	}
	for _, slot := range c.ActionBarSlots {
		if slot < 1 {
			problems = append(problems, fmt.Sprintf("ACTION_BAR_SLOTS: slot %d must be >= 1", slot))
		}
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) == 0 {
		return nil
	}
	// map iteration order above is random
	sort.Strings(problems)
	return apperrors.New(apperrors.CodeConfigInvalid, strings.Join(problems, "; "))
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// CaptureInterval converts CaptureRate to a ticker period.
func (c *Config) CaptureInterval() time.Duration {
	if c.CaptureRate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / c.CaptureRate)
}

// ParseFilterParams parses seven comma-separated integers in the order
// range_low, range_high, zero_for_range, val_a, val_b, val_ab, val_else.
func ParseFilterParams(s string) (regionfilter.Params, error) {
	parts := strings.Split(s, ",")
	if len(parts) != filterParamCount {
		return regionfilter.Params{}, fmt.Errorf("want %d values, got %d", filterParamCount, len(parts))
	}
	var v [filterParamCount]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return regionfilter.Params{}, fmt.Errorf("value %d (%q) is not a byte", i+1, strings.TrimSpace(p))
		}
		v[i] = uint8(n)
	}
	return regionfilter.Params{
		RangeLow:     v[0],
		RangeHigh:    v[1],
		ZeroForRange: v[2],
		ValA:         v[3],
		ValB:         v[4],
		ValAB:        v[5],
		ValElse:      v[6],
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		return result
	}
	return def
}
