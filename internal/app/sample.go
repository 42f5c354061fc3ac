package app

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/runlane/internal/domain"
)

var sampleStatuses = []domain.Status{
	domain.StatusSucceeded,
	domain.StatusSucceeded,
	domain.StatusSucceeded,
	domain.StatusFailed,
	domain.StatusCanceled,
}

// SampleRecords generates n demo runs spread over the hour before now,
// round-robin over jobs keys. The last run of each job is still in progress.
func SampleRecords(rng *rand.Rand, now time.Time, n, jobs int) []domain.Record {
	if n <= 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = 1
	}
	end := now.UnixMilli()
	start := now.Add(-time.Hour).UnixMilli()
	span := end - start

	records := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		s := start + rng.Int64N(span)
		d := int64(time.Second/time.Millisecond) * (1 + rng.Int64N(300))
		r := domain.Record{
			ID:        uuid.NewString(),
			Key:       fmt.Sprintf("job-%d", i%jobs),
			Status:    sampleStatuses[rng.IntN(len(sampleStatuses))],
			StartTime: s,
			EndTime:   domain.Millis(min(s+d, end)),
		}
		if i >= n-jobs {
			r.Status = domain.StatusStarted
			r.EndTime = nil
		}
		records = append(records, r)
	}
	return records
}
