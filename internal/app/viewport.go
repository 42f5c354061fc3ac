package app

import "github.com/bft-labs/runlane/internal/ports"

// Default virtualization parameters.
const (
	DefaultRowHeight = 32
	DefaultOverscan  = 40
)

// Virtualizer decides which fixed-height rows are mounted for a scroll position.
type Virtualizer struct {
	Count     int
	RowHeight int
	Overscan  int
}

// TotalSize returns the scrollable height of all rows.
func (v Virtualizer) TotalSize() int {
	if v.Count <= 0 || v.RowHeight <= 0 {
		return 0
	}
	return v.Count * v.RowHeight
}

// ClampOffset limits offset to the scrollable range for a viewport of height.
func (v Virtualizer) ClampOffset(offset, height int) int {
	maxOffset := max(0, v.TotalSize()-height)
	return min(max(0, offset), maxOffset)
}

// Items returns the rows intersecting [offset, offset+height) plus Overscan
// rows on either side.
func (v Virtualizer) Items(offset, height int) []ports.Item {
	if v.Count <= 0 || v.RowHeight <= 0 || height <= 0 {
		return []ports.Item{}
	}
	offset = v.ClampOffset(offset, height)

	first := offset / v.RowHeight
	last := min(v.Count-1, (offset+height-1)/v.RowHeight)
	from := max(0, first-v.Overscan)
	to := min(v.Count-1, last+v.Overscan)

	items := make([]ports.Item, 0, to-from+1)
	for i := from; i <= to; i++ {
		items = append(items, ports.Item{Index: i, Start: i * v.RowHeight, Size: v.RowHeight})
	}
	return items
}
