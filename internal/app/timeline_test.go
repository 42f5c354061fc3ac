package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/runlane/internal/domain"
)

// staticSource serves a fixed slice of records.
type staticSource struct {
	records []domain.Record
	err     error
}

func (s staticSource) Load(ctx context.Context) ([]domain.Record, error) {
	return s.records, s.err
}

func rec(id, key string, status domain.Status, start, end int64) domain.Record {
	return domain.Record{ID: id, Key: key, Status: status, StartTime: start, EndTime: domain.Millis(end)}
}

func fixedNow(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func window(start, end int64) WindowSpec {
	return WindowSpec{Start: time.UnixMilli(start), End: time.UnixMilli(end)}
}

func TestTimeline_RecordRows(t *testing.T) {
	src := staticSource{records: []domain.Record{
		rec("bbbbbbbbbbbb", "job", domain.StatusFailed, 500, 600),
		rec("aaaaaaaaaaaa", "job", domain.StatusSucceeded, 0, 1000),
		rec("outside", "job", domain.StatusSucceeded, 5000, 6000),
	}}
	tl := NewTimeline(src, nil, nil, Options{
		Width:  140,
		Gutter: 40,
		Window: window(0, 1000),
		Now:    fixedNow(1000),
	})

	v, err := tl.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100.0, v.LaneWidth)
	require.Len(t, v.Rows, 2, "rows outside the window are dropped")

	require.Equal(t, "aaaaaaaa", v.Rows[0].Label)
	require.Equal(t, "0:00:01", v.Rows[0].Elapsed)
	require.Len(t, v.Rows[0].Batches, 1)
	require.Equal(t, 0.0, v.Rows[0].Batches[0].Left)
	require.Equal(t, 100.0, v.Rows[0].Batches[0].Width)

	require.Equal(t, "bbbbbbbb", v.Rows[1].Label)
	require.Equal(t, domain.StatusFailed, v.Rows[1].Status)
	require.Equal(t, 50.0, v.Rows[1].Batches[0].Left)
	require.Equal(t, 2*DefaultRowHeight, v.TotalSize)
}

func TestTimeline_GroupedRows(t *testing.T) {
	src := staticSource{records: []domain.Record{
		rec("a", "ingest", domain.StatusSucceeded, 0, 1000),
		rec("b", "ingest", domain.StatusFailed, 100, 200),
		rec("c", "report", domain.StatusSucceeded, 50, 60),
		rec("d", "", domain.StatusQueued, 900, 950),
	}}
	tl := NewTimeline(src, nil, nil, Options{
		Width:  100,
		Group:  true,
		Window: window(0, 1000),
		Now:    fixedNow(1000),
	})

	v, err := tl.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Rows, 3)

	require.Equal(t, "ingest", v.Rows[0].Label)
	require.Len(t, v.Rows[0].Batches, 1)
	require.Len(t, v.Rows[0].Batches[0].Records, 2)
	require.Equal(t, domain.StatusFailed, v.Rows[0].Status)

	require.Equal(t, "report", v.Rows[1].Label)
	require.Equal(t, noKeyLabel, v.Rows[2].Label)
}

func TestTimeline_Errors(t *testing.T) {
	t.Run("gutter wider than container", func(t *testing.T) {
		tl := NewTimeline(staticSource{}, nil, nil, Options{Width: 30, Gutter: 40})
		_, err := tl.Build(context.Background())
		require.True(t, errors.Is(err, domain.ErrInvalidArgument))
	})

	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("boom")
		tl := NewTimeline(staticSource{err: boom}, nil, nil, Options{Width: 100})
		_, err := tl.Build(context.Background())
		require.ErrorIs(t, err, boom)
	})

	t.Run("inverted window", func(t *testing.T) {
		tl := NewTimeline(staticSource{}, nil, nil, Options{Width: 100, Window: window(10, 5)})
		_, err := tl.Build(context.Background())
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestTimeline_EmptyIsNotAnError(t *testing.T) {
	tl := NewTimeline(staticSource{}, nil, nil, Options{Width: 100, Now: fixedNow(10 * oneHourMillis)})
	v, err := tl.Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, v.Rows)
	require.Equal(t, domain.Window{Start: 9 * oneHourMillis, End: 10 * oneHourMillis}, v.Window)
}

func TestTimeline_ScrollAndResize(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 100; i++ {
		records = append(records, rec(string(rune('a'+i%26))+"x", "", domain.StatusSucceeded, int64(i), int64(i+10)))
	}
	tl := NewTimeline(staticSource{records: records}, nil, nil, Options{
		Width:     60,
		Gutter:    10,
		RowHeight: 1,
		Overscan:  2,
		Window:    window(0, 200),
	})

	v, err := tl.Build(context.Background())
	require.NoError(t, err)
	v = tl.Scroll(v, 50, 10)
	require.Len(t, v.Visible, 14)
	require.Equal(t, 48, v.Visible[0].Index)
	require.Equal(t, 100, v.TotalSize)

	tl.Resize(110)
	v, err = tl.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100.0, v.LaneWidth)
}

func TestResolveWindow(t *testing.T) {
	now := int64(10 * oneHourMillis)
	records := []domain.Record{
		rec("a", "", domain.StatusSucceeded, 1000, 2000),
		{ID: "b", Status: domain.StatusStarted, StartTime: 500},
	}

	tests := []struct {
		name    string
		spec    WindowSpec
		records []domain.Record
		want    domain.Window
	}{
		{"explicit", window(1, 2), records, domain.Window{Start: 1, End: 2}},
		{"since", WindowSpec{Since: time.Hour}, records, domain.Window{Start: now - oneHourMillis, End: now}},
		{"start only", WindowSpec{Start: time.UnixMilli(5)}, nil, domain.Window{Start: 5, End: now}},
		{"extent with running record", WindowSpec{}, records, domain.Window{Start: 500, End: now}},
		{"extent of instant", WindowSpec{}, []domain.Record{rec("a", "", domain.StatusSucceeded, 7, 7)}, domain.Window{Start: 7, End: 7 + oneHourMillis/60}},
		{"nothing", WindowSpec{}, nil, domain.Window{Start: now - oneHourMillis, End: now}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWindow(tt.spec, tt.records, now)
			if err != nil {
				t.Fatalf("ResolveWindow() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveWindow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
