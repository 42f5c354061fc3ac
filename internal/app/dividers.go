package app

import (
	"time"

	"github.com/bft-labs/runlane/internal/domain"
	"github.com/bft-labs/runlane/internal/ports"
)

const (
	oneHourMillis = int64(time.Hour / time.Millisecond)

	// Windows longer than this get hourly dividers instead of ten-minute ones.
	wideWindowMillis = 4 * oneHourMillis

	// maxDividers bounds the markers of a single window; wider windows get none.
	maxDividers = 10000
)

// DividerInterval returns the spacing between time dividers for w.
func DividerInterval(w domain.Window) int64 {
	if w.Duration() > float64(wideWindowMillis) {
		return oneHourMillis
	}
	return oneHourMillis / 6
}

// Dividers places a marker at every interval multiple inside w.
func Dividers(w domain.Window, laneWidth float64, loc *time.Location) []ports.Divider {
	if loc == nil {
		loc = time.UTC
	}
	interval := DividerInterval(w)
	if w.Duration()/float64(interval) > maxDividers {
		return nil
	}
	first := w.Start - mod(w.Start, interval)
	if first < w.Start {
		first += interval
	}

	var out []ports.Divider
	// t >= first stops at int64 overflow near the end of the range.
	for t := first; t <= w.End && t >= first; t += interval {
		out = append(out, ports.Divider{
			Time:  t,
			Left:  w.Offset(t) * laneWidth / w.Duration(),
			Label: time.UnixMilli(t).In(loc).Format("15:04"),
		})
	}
	return out
}

// mod is the non-negative remainder of a/b.
func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
