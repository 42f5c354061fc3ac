package batch

import (
	"fmt"
	"math"
	"slices"

	"github.com/bft-labs/runlane/internal/domain"
)

// DefaultBatcher is the stateless sweep-merge batcher. The zero value is ready to use.
type DefaultBatcher struct{}

// NewDefaultBatcher creates a new batcher.
func NewDefaultBatcher() *DefaultBatcher {
	return &DefaultBatcher{}
}

// interval is a record mapped into pixel space.
type interval struct {
	left, right float64
	record      domain.Record
}

// open is the accumulator of the sweep.
type open struct {
	left, right float64
	records     []domain.Record
}

func (o open) width() float64 { return o.right - o.left }

func (o open) batch() domain.Batch {
	return domain.Batch{Left: o.left, Width: o.width(), Records: o.records}
}

// Batch implements Batcher.
func (DefaultBatcher) Batch(req Request) ([]domain.Batch, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	intervals := project(req)
	if len(intervals) == 0 {
		return []domain.Batch{}, nil
	}

	// Ties keep input order.
	slices.SortStableFunc(intervals, func(a, b interval) int {
		switch {
		case a.left < b.left:
			return -1
		case a.left > b.left:
			return 1
		}
		return 0
	})

	closed := make([]open, 0, len(intervals))
	cur := open{left: intervals[0].left, right: intervals[0].right, records: []domain.Record{intervals[0].record}}
	for _, iv := range intervals[1:] {
		if iv.left < cur.left+max(cur.width(), req.MinMultipleWidth) {
			cur.right = cur.left + max(cur.width(), iv.right-cur.left, req.MinMultipleWidth)
			cur.records = append(cur.records, iv.record)
			continue
		}
		closed = append(closed, cur)
		cur = open{left: iv.left, right: iv.right, records: []domain.Record{iv.record}}
	}
	closed = append(closed, cur)
	closed = fitRight(closed, req.Width)

	out := make([]domain.Batch, len(closed))
	for i, o := range closed {
		out[i] = o.batch()
	}
	return out, nil
}

func validate(req Request) error {
	if err := req.Window.Validate(); err != nil {
		return err
	}
	if !positiveFinite(req.Width) {
		return fmt.Errorf("%w: width %v must be positive and finite", domain.ErrInvalidArgument, req.Width)
	}
	if !positiveFinite(req.MinChunkWidth) {
		return fmt.Errorf("%w: min chunk width %v must be positive and finite", domain.ErrInvalidArgument, req.MinChunkWidth)
	}
	if !positiveFinite(req.MinMultipleWidth) {
		return fmt.Errorf("%w: min multiple width %v must be positive and finite", domain.ErrInvalidArgument, req.MinMultipleWidth)
	}
	if req.MinMultipleWidth < req.MinChunkWidth {
		return fmt.Errorf("%w: min multiple width %v is below min chunk width %v",
			domain.ErrInvalidArgument, req.MinMultipleWidth, req.MinChunkWidth)
	}
	return nil
}

// positiveFinite is false for NaN.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// project clips records to the window, maps them to pixels and applies the
// single-record floor. Records outside the window or with end before start
// are dropped.
func project(req Request) []interval {
	w := req.Window
	span := w.Duration()
	floor := min(req.MinChunkWidth, req.Width)

	toPixel := func(ms int64) float64 {
		return w.Offset(ms) * req.Width / span
	}

	out := make([]interval, 0, len(req.Records))
	for _, r := range req.Records {
		start, end := r.StartTime, r.EndOr(w.End)
		if end < start || !w.Contains(start, end) {
			continue
		}
		left := toPixel(max(start, w.Start))
		right := toPixel(min(end, w.End))

		if right-left < floor {
			right = left + floor
			if right > req.Width {
				right = req.Width
				left = right - floor
			}
		}
		out = append(out, interval{left: left, right: right, record: r})
	}
	return out
}

// fitRight pulls a trailing batch widened past the lane's edge back inside,
// absorbing any predecessor it would then overlap.
func fitRight(batches []open, width float64) []open {
	n := len(batches)
	last := batches[n-1]
	if last.right <= width {
		return batches
	}
	last.left = width - min(last.width(), width)
	last.right = width

	for n > 1 && batches[n-2].right > last.left {
		prev := batches[n-2]
		last.left = prev.left
		last.records = append(slices.Clone(prev.records), last.records...)
		n--
	}
	batches = batches[:n]
	batches[n-1] = last
	return batches
}
