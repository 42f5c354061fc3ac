// Package batch lays out time-stamped records as positioned, possibly merged
// blocks on a fixed-width timeline lane.
package batch

import "github.com/bft-labs/runlane/internal/domain"

// Default floor widths in pixels.
const (
	DefaultMinChunkWidth    = 4
	DefaultMinMultipleWidth = 4
)

// Request describes one batching pass.
type Request struct {
	// Records to lay out, in input order
	Records []domain.Record

	// Window is the visible time range mapped onto [0, Width]
	Window domain.Window

	// Width is the pixel width of the lane
	Width float64

	// MinChunkWidth is the floor for a single record's block
	MinChunkWidth float64

	// MinMultipleWidth is the floor for a block merging several records
	MinMultipleWidth float64
}

// Batcher converts records into ordered, non-overlapping batches.
type Batcher interface {
	// Batch lays out req.Records. It returns domain.ErrInvalidArgument
	// (wrapped) for windows or widths that cannot describe any geometry.
	Batch(req Request) ([]domain.Batch, error)
}
