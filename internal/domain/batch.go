package domain

import "fmt"

// Batch is a positioned block on a timeline lane.
// It maintains the invariant that Records is never empty once emitted.
type Batch struct {
	// Left is the pixel offset from the start of the lane
	Left float64

	// Width is the pixel width of the block
	Width float64

	// Records are the runs represented by this block, in sweep order
	Records []Record
}

// Right returns the pixel offset of the batch's right edge.
func (b Batch) Right() float64 {
	return b.Left + b.Width
}

// Size returns the number of records in the batch.
func (b Batch) Size() int {
	return len(b.Records)
}

// Multiple reports whether the batch merges more than one record.
func (b Batch) Multiple() bool {
	return len(b.Records) > 1
}

// Statuses returns the distinct statuses of the batch in first-seen order.
func (b Batch) Statuses() []Status {
	seen := make(map[Status]struct{}, len(b.Records))
	out := make([]Status, 0, len(b.Records))
	for _, r := range b.Records {
		if _, ok := seen[r.Status]; ok {
			continue
		}
		seen[r.Status] = struct{}{}
		out = append(out, r.Status)
	}
	return out
}

// Window is the visible time range [Start, End] in unix milliseconds.
type Window struct {
	Start int64
	End   int64
}

// Duration returns the window length in milliseconds. It is computed in
// float64 so that windows wider than the int64 range stay positive.
func (w Window) Duration() float64 {
	return float64(w.End) - float64(w.Start)
}

// Offset returns the distance of ms from the window start in milliseconds.
func (w Window) Offset(ms int64) float64 {
	return float64(ms) - float64(w.Start)
}

// Validate checks that the window is non-empty.
func (w Window) Validate() error {
	if w.Start >= w.End {
		return fmt.Errorf("%w: window start %d must be before end %d", ErrInvalidArgument, w.Start, w.End)
	}
	return nil
}

// Contains reports whether the closed interval [start, end] touches the window.
func (w Window) Contains(start, end int64) bool {
	return end >= w.Start && start <= w.End
}
