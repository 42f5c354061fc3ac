package ports

import (
	"context"

	"github.com/bft-labs/runlane/internal/domain"
)

// RecordSource supplies the records to place on the timeline.
// How they are fetched or kept fresh is up to the implementation.
type RecordSource interface {
	// Load returns the current records in their source order.
	Load(ctx context.Context) ([]domain.Record, error)
}
