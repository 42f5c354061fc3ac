package runlane

import (
	"time"

	"github.com/bft-labs/runlane/internal/app"
	"github.com/bft-labs/runlane/internal/batch"
	"github.com/bft-labs/runlane/pkg/log"
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// Batcher positions records on a lane. Use it to swap the cached default.
type Batcher = batch.Batcher

// Option configures optional behavior of a Timeline.
type Option func(*options)

type options struct {
	app          app.Options
	logger       log.Logger
	batcher      batch.Batcher
	cacheEntries int
}

func defaultOptions() options {
	return options{
		app: app.Options{
			Width:    120,
			Gutter:   app.DefaultGutter,
			Overscan: app.DefaultOverscan,
		},
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBatcher replaces the cached default batcher.
func WithBatcher(b Batcher) Option {
	return func(o *options) {
		o.batcher = b
	}
}

// WithCacheSize bounds the default batcher's cache.
func WithCacheSize(entries int) Option {
	return func(o *options) {
		o.cacheEntries = entries
	}
}

// WithWidth sets the container width, gutter included.
func WithWidth(width int) Option {
	return func(o *options) {
		o.app.Width = width
	}
}

// WithGutter sets the label column width.
func WithGutter(gutter int) Option {
	return func(o *options) {
		o.app.Gutter = gutter
	}
}

// WithMinWidths sets the floors for single runs and merged batches.
func WithMinWidths(chunk, multiple float64) Option {
	return func(o *options) {
		o.app.MinChunkWidth = chunk
		o.app.MinMultipleWidth = multiple
	}
}

// WithGroup lays out one row per job key instead of one per run.
func WithGroup(group bool) Option {
	return func(o *options) {
		o.app.Group = group
	}
}

// WithWindow fixes the visible range.
func WithWindow(start, end time.Time) Option {
	return func(o *options) {
		o.app.Window.Start = start
		o.app.Window.End = end
	}
}

// WithSince shows the range ending now.
func WithSince(d time.Duration) Option {
	return func(o *options) {
		o.app.Window.Since = d
	}
}

// WithRowHeight sets the row height used for scrolling.
func WithRowHeight(h int) Option {
	return func(o *options) {
		o.app.RowHeight = h
	}
}

// WithOverscan sets how many rows beyond the viewport stay mounted.
func WithOverscan(n int) Option {
	return func(o *options) {
		o.app.Overscan = n
	}
}

// WithLocation sets the zone used for divider labels.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.app.Location = loc
	}
}

// WithClock overrides time.Now, used for running records and WithSince.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.app.Now = now
	}
}
