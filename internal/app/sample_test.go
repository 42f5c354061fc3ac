package app

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/runlane/internal/domain"
)

func TestSampleRecords(t *testing.T) {
	now := time.UnixMilli(10 * 3600 * 1000)
	rng := rand.New(rand.NewPCG(1, 2))

	records := SampleRecords(rng, now, 20, 3)
	require.Len(t, records, 20)

	seen := map[string]bool{}
	running := 0
	for _, r := range records {
		_, err := uuid.Parse(r.ID)
		require.NoError(t, err)
		require.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true

		require.GreaterOrEqual(t, r.StartTime, now.Add(-time.Hour).UnixMilli())
		require.Less(t, r.StartTime, now.UnixMilli())
		if r.Running() {
			running++
			require.Equal(t, domain.StatusStarted, r.Status)
			continue
		}
		require.LessOrEqual(t, *r.EndTime, now.UnixMilli())
		require.GreaterOrEqual(t, *r.EndTime, r.StartTime)
	}
	require.Equal(t, 3, running)
}

func TestSampleRecords_Empty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	require.Empty(t, SampleRecords(rng, time.Now(), 0, 3))
}
