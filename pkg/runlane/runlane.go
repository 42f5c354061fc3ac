package runlane

import (
	"context"
	"io"
	"slices"

	"github.com/bft-labs/runlane/internal/adapters/render"
	"github.com/bft-labs/runlane/internal/app"
	"github.com/bft-labs/runlane/internal/batch"
	"github.com/bft-labs/runlane/internal/domain"
	"github.com/bft-labs/runlane/internal/ports"
)

// Re-export the data model so callers need not import internal packages.
type (
	Record = domain.Record
	Status = domain.Status
	Batch  = domain.Batch
	Window = domain.Window

	View    = ports.View
	Row     = ports.Row
	Divider = ports.Divider

	// RecordSource supplies the runs for each Build.
	RecordSource = ports.RecordSource
)

// ErrInvalidArgument is returned for an empty window, a non-positive width or
// inconsistent minimum widths.
var ErrInvalidArgument = domain.ErrInvalidArgument

// Millis returns a pointer to ms for Record.EndTime.
func Millis(ms int64) *int64 {
	return domain.Millis(ms)
}

// BatchRecords positions records inside window on a lane width pixels wide.
// It is stateless and safe for concurrent use.
func BatchRecords(records []Record, window Window, width, minChunkWidth, minMultipleWidth float64) ([]Batch, error) {
	return batch.NewDefaultBatcher().Batch(batch.Request{
		Records:          records,
		Window:           window,
		Width:            width,
		MinChunkWidth:    minChunkWidth,
		MinMultipleWidth: minMultipleWidth,
	})
}

type staticSource []Record

func (s staticSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

// StaticSource serves a fixed set of records.
func StaticSource(records []Record) RecordSource {
	return staticSource(slices.Clone(records))
}

// Timeline builds views of the runs in a RecordSource.
type Timeline struct {
	tl *app.Timeline
}

// New creates a Timeline. Without options it lays out one row per run over
// the runs' own extent, in a 120 column container with a 40 column gutter.
func New(source RecordSource, opts ...Option) *Timeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := o.batcher
	if b == nil {
		b = batch.NewCachedBatcher(batch.NewDefaultBatcher(), o.cacheEntries)
	}
	return &Timeline{tl: app.NewTimeline(source, b, o.logger, o.app)}
}

// Build loads the records and lays out every row.
func (t *Timeline) Build(ctx context.Context) (View, error) {
	return t.tl.Build(ctx)
}

// Scroll restricts v to the rows mounted for a viewport of height rows
// starting at offset.
func (t *Timeline) Scroll(v View, offset, height int) View {
	return t.tl.Scroll(v, offset, height)
}

// Resize changes the container width used by later builds.
func (t *Timeline) Resize(width int) {
	t.tl.Resize(width)
}

// RenderText writes v as styled terminal rows.
func RenderText(w io.Writer, v View) error {
	return render.NewText().Render(w, v)
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v View) error {
	return render.JSON{}.Render(w, v)
}

// Summary describes v in one line, e.g. "3 rows, 4 batches (1 merged)".
func Summary(v View) string {
	return render.Summary(v)
}
