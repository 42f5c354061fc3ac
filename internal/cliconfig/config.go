package cliconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/runlane/internal/domain"
)

// Output formats.
const (
	FormatText        = "text"
	FormatJSON        = "json"
	FormatInteractive = "interactive"
)

// Config holds CLI configuration for runlane.
type Config struct {
	Records string
	Format  string

	Start string
	End   string
	Since time.Duration

	Width            int
	Gutter           int
	MinChunkWidth    float64
	MinMultipleWidth float64
	Group            bool

	Overscan     int
	Rows         int
	Offset       int
	CacheEntries int

	Watch    bool
	Debounce time.Duration
	LogLevel string

	// Parsed from Start/End by Validate.
	StartTime time.Time
	EndTime   time.Time
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:           FormatText,
		Width:            120,
		Gutter:           40,
		MinChunkWidth:    4,
		MinMultipleWidth: 4,
		Overscan:         40,
		CacheEntries:     256,
		Debounce:         100 * time.Millisecond,
		LogLevel:         "info",
	}
}

// Validate checks the configuration for errors and sets derived values.
func (c *Config) Validate() error {
	if c.Records == "" {
		return fmt.Errorf("%w: records file is required", domain.ErrInvalidConfig)
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case FormatText, FormatJSON, FormatInteractive:
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidConfig, c.Format)
	}

	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive", domain.ErrInvalidConfig)
	}
	if c.Gutter < 0 || c.Gutter >= c.Width {
		return fmt.Errorf("%w: gutter %d must leave room in width %d", domain.ErrInvalidConfig, c.Gutter, c.Width)
	}
	if !finitePositive(c.MinChunkWidth) || !finitePositive(c.MinMultipleWidth) {
		return fmt.Errorf("%w: minimum widths must be positive and finite", domain.ErrInvalidConfig)
	}
	if c.MinMultipleWidth < c.MinChunkWidth {
		return fmt.Errorf("%w: min-multiple-width must be at least min-chunk-width", domain.ErrInvalidConfig)
	}
	if c.Since < 0 {
		return fmt.Errorf("%w: since must not be negative", domain.ErrInvalidConfig)
	}
	if c.Overscan < 0 || c.Rows < 0 || c.Offset < 0 {
		return fmt.Errorf("%w: overscan, rows and offset must not be negative", domain.ErrInvalidConfig)
	}
	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive", domain.ErrInvalidConfig)
	}

	var err error
	if c.StartTime, err = parseTime("start", c.Start); err != nil {
		return err
	}
	if c.EndTime, err = parseTime("end", c.End); err != nil {
		return err
	}
	if !c.StartTime.IsZero() && !c.EndTime.IsZero() && !c.StartTime.Before(c.EndTime) {
		return fmt.Errorf("%w: start must be before end", domain.ErrInvalidConfig)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// parseTime accepts RFC3339 or unix milliseconds.
func parseTime(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfig, name, err)
	}
	return t, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr applies any explicitly present value, zero included. Negative
// values are left for Validate to reject.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setCountFromString is setIntFromString for settings where zero is valid.
func (s *configSetter) setCountFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
