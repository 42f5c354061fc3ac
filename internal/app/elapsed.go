package app

import (
	"fmt"

	"github.com/bft-labs/runlane/internal/domain"
)

// FormatElapsed renders a millisecond duration as H:MM:SS.
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Elapsed formats how long r has run; running records count up to now.
func Elapsed(r domain.Record, now int64) string {
	return FormatElapsed(r.EndOr(now) - r.StartTime)
}
