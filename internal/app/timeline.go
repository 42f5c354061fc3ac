// Package app assembles timeline views: it loads records, resolves the
// visible window, batches each lane and decides which rows are mounted.
package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bft-labs/runlane/internal/batch"
	"github.com/bft-labs/runlane/internal/domain"
	"github.com/bft-labs/runlane/internal/ports"
	"github.com/bft-labs/runlane/pkg/log"
)

// DefaultGutter is the label column width left of the lanes.
const DefaultGutter = 40

// noKeyLabel labels the lane of records without a grouping key.
const noKeyLabel = "(no key)"

// WindowSpec selects the visible time range. Explicit Start/End win over
// Since; when both are empty the records' own extent is used.
type WindowSpec struct {
	Start time.Time
	End   time.Time
	Since time.Duration
}

// Options configures a Timeline.
type Options struct {
	// Width is the full container width including the gutter
	Width int

	// Gutter is reserved for labels on the left of each lane
	Gutter int

	MinChunkWidth    float64
	MinMultipleWidth float64

	// Group puts all records sharing a key on one lane
	Group bool

	RowHeight int
	Overscan  int

	Window   WindowSpec
	Location *time.Location

	// Now defaults to time.Now
	Now func() time.Time
}

// Timeline builds views from a record source.
type Timeline struct {
	source  ports.RecordSource
	batcher batch.Batcher
	logger  log.Logger

	mu   sync.RWMutex
	opts Options
}

// NewTimeline wires a timeline. A nil batcher uses a cached default batcher;
// a nil logger discards output.
func NewTimeline(source ports.RecordSource, batcher batch.Batcher, logger log.Logger, opts Options) *Timeline {
	if batcher == nil {
		batcher = batch.NewCachedBatcher(batch.NewDefaultBatcher(), 0)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if opts.Gutter < 0 {
		opts.Gutter = 0
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}
	if opts.MinChunkWidth == 0 {
		opts.MinChunkWidth = batch.DefaultMinChunkWidth
	}
	if opts.MinMultipleWidth == 0 {
		opts.MinMultipleWidth = batch.DefaultMinMultipleWidth
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Timeline{source: source, batcher: batcher, logger: logger, opts: opts}
}

// Resize changes the container width, e.g. when the terminal is resized.
func (t *Timeline) Resize(width int) {
	t.mu.Lock()
	t.opts.Width = width
	t.mu.Unlock()
}

// Options returns the effective options.
func (t *Timeline) Options() Options {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.opts
}

// Build loads records and lays out every row. All rows are visible; use
// Scroll to restrict them.
func (t *Timeline) Build(ctx context.Context) (ports.View, error) {
	opts := t.Options()

	laneWidth := opts.Width - opts.Gutter
	if laneWidth <= 0 {
		return ports.View{}, fmt.Errorf("%w: width %d leaves no room after gutter %d",
			domain.ErrInvalidArgument, opts.Width, opts.Gutter)
	}

	records, err := t.source.Load(ctx)
	if err != nil {
		return ports.View{}, fmt.Errorf("load records: %w", err)
	}

	now := opts.Now().UnixMilli()
	window, err := ResolveWindow(opts.Window, records, now)
	if err != nil {
		return ports.View{}, err
	}

	view := ports.View{
		Window:    window,
		LaneWidth: float64(laneWidth),
		Gutter:    opts.Gutter,
		Dividers:  Dividers(window, float64(laneWidth), opts.Location),
	}

	var rows []ports.Row
	if opts.Group {
		rows, err = t.groupedRows(records, window, float64(laneWidth), opts)
	} else {
		rows, err = t.recordRows(records, window, float64(laneWidth), opts, now)
	}
	if err != nil {
		return ports.View{}, err
	}
	view.Rows = rows
	view.TotalSize = Virtualizer{Count: len(rows), RowHeight: opts.RowHeight}.TotalSize()

	t.logger.Debug("timeline built",
		log.Int("records", len(records)),
		log.Int("rows", len(rows)),
		log.Int64("window_start", window.Start),
		log.Int64("window_end", window.End),
		log.Int("lane_width", laneWidth),
	)
	return view, nil
}

// Scroll marks the rows mounted for a viewport of height at offset.
func (t *Timeline) Scroll(v ports.View, offset, height int) ports.View {
	opts := t.Options()
	vz := Virtualizer{Count: len(v.Rows), RowHeight: opts.RowHeight, Overscan: opts.Overscan}
	v.Visible = vz.Items(offset, height)
	v.TotalSize = vz.TotalSize()
	return v
}

func (t *Timeline) request(records []domain.Record, window domain.Window, laneWidth float64, opts Options) batch.Request {
	return batch.Request{
		Records:          records,
		Window:           window,
		Width:            laneWidth,
		MinChunkWidth:    opts.MinChunkWidth,
		MinMultipleWidth: opts.MinMultipleWidth,
	}
}

// recordRows gives every record in the window its own lane.
func (t *Timeline) recordRows(records []domain.Record, window domain.Window, laneWidth float64, opts Options, now int64) ([]ports.Row, error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.Record) int {
		return cmp.Or(cmp.Compare(a.StartTime, b.StartTime), cmp.Compare(a.ID, b.ID))
	})

	rows := make([]ports.Row, 0, len(sorted))
	for _, r := range sorted {
		batches, err := t.batcher.Batch(t.request([]domain.Record{r}, window, laneWidth, opts))
		if err != nil {
			return nil, err
		}
		if len(batches) == 0 {
			continue
		}
		rows = append(rows, ports.Row{
			Label:   shortID(r.ID),
			Elapsed: Elapsed(r, now),
			Status:  r.Status,
			Batches: batches,
		})
	}
	return rows, nil
}

// groupedRows puts every record sharing a key on one lane.
func (t *Timeline) groupedRows(records []domain.Record, window domain.Window, laneWidth float64, opts Options) ([]ports.Row, error) {
	type group struct {
		key     string
		first   int64
		records []domain.Record
	}
	index := map[string]int{}
	var groups []*group
	for _, r := range records {
		key := r.Key
		if key == "" {
			key = noKeyLabel
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{key: key, first: r.StartTime})
		}
		g := groups[i]
		g.first = min(g.first, r.StartTime)
		g.records = append(g.records, r)
	}
	slices.SortStableFunc(groups, func(a, b *group) int {
		return cmp.Or(cmp.Compare(a.first, b.first), cmp.Compare(a.key, b.key))
	})

	rows := make([]ports.Row, 0, len(groups))
	for _, g := range groups {
		batches, err := t.batcher.Batch(t.request(g.records, window, laneWidth, opts))
		if err != nil {
			return nil, err
		}
		if len(batches) == 0 {
			continue
		}
		rows = append(rows, ports.Row{
			Label:   g.key,
			Status:  latest(g.records).Status,
			Batches: batches,
		})
	}
	return rows, nil
}

// ResolveWindow turns spec into a concrete window.
func ResolveWindow(spec WindowSpec, records []domain.Record, now int64) (domain.Window, error) {
	var w domain.Window
	switch {
	case !spec.Start.IsZero() || !spec.End.IsZero():
		w.Start, w.End = spec.Start.UnixMilli(), spec.End.UnixMilli()
		if spec.Start.IsZero() {
			w.Start = w.End - int64(max(spec.Since, time.Hour)/time.Millisecond)
		}
		if spec.End.IsZero() {
			w.End = now
		}
	case spec.Since > 0:
		w.Start, w.End = now-int64(spec.Since/time.Millisecond), now
	case len(records) > 0:
		w.Start, w.End = records[0].StartTime, records[0].EndOr(now)
		for _, r := range records[1:] {
			w.Start = min(w.Start, r.StartTime)
			w.End = max(w.End, r.EndOr(now))
		}
		if w.End <= w.Start {
			w.End = w.Start + oneHourMillis/60
		}
	default:
		w.Start, w.End = now-oneHourMillis, now
	}
	if err := w.Validate(); err != nil {
		return domain.Window{}, err
	}
	return w, nil
}

func latest(records []domain.Record) domain.Record {
	out := records[0]
	for _, r := range records[1:] {
		if r.StartTime >= out.StartTime {
			out = r
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
