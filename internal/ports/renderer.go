package ports

import (
	"io"

	"github.com/bft-labs/runlane/internal/domain"
)

// Row is one lane of the timeline.
type Row struct {
	// Label is the run id (per-record mode) or grouping key
	Label string

	// Elapsed is the formatted run duration, empty for grouped rows
	Elapsed string

	// Status is the status of the row's lead record
	Status domain.Status

	// Batches are positioned within [0, View.LaneWidth]
	Batches []domain.Batch
}

// Divider is a vertical time marker.
type Divider struct {
	Time  int64
	Left  float64
	Label string
}

// Item is a mounted row produced by the virtualizer.
type Item struct {
	Index int
	Start int
	Size  int
}

// View is everything a renderer needs for one frame.
type View struct {
	Window    domain.Window
	LaneWidth float64
	Gutter    int
	Loading   bool
	Rows      []Row
	Dividers  []Divider

	// Visible lists the rows to draw; nil means all rows.
	Visible   []Item
	TotalSize int
}

// Renderer draws a view.
type Renderer interface {
	Render(w io.Writer, v View) error
}
