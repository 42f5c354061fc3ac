package runlane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/runlane/internal/batch"
)

type countingBatcher struct {
	calls int
	next  Batcher
}

func (c *countingBatcher) Batch(req batch.Request) ([]Batch, error) {
	c.calls++
	return c.next.Batch(req)
}

func sampleRecords() []Record {
	return []Record{
		{ID: "a", Key: "build", Status: "succeeded", StartTime: 0, EndTime: Millis(600)},
		{ID: "b", Key: "build", Status: "failed", StartTime: 700, EndTime: Millis(900)},
		{ID: "c", Key: "deploy", Status: "started", StartTime: 300},
	}
}

func TestBatchRecords_InvalidArgument(t *testing.T) {
	_, err := BatchRecords(sampleRecords(), Window{Start: 10, End: 10}, 100, 4, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BatchRecords(sampleRecords(), Window{Start: 0, End: 1000}, math.NaN(), 4, 4)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStaticSource(t *testing.T) {
	records := sampleRecords()
	src := StaticSource(records)
	records[0].ID = "changed"

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a", got[0].ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestTimeline_Options(t *testing.T) {
	cb := &countingBatcher{next: batch.NewDefaultBatcher()}
	tl := New(StaticSource(sampleRecords()),
		WithBatcher(cb),
		WithWidth(140),
		WithGutter(40),
		WithMinWidths(2, 3),
		WithWindow(time.UnixMilli(0), time.UnixMilli(1000)),
		WithRowHeight(1),
		WithOverscan(0),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return time.UnixMilli(1000) }),
	)

	view, err := tl.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100.0, view.LaneWidth)
	require.Len(t, view.Rows, 3)
	require.Equal(t, 3, cb.calls)

	// c is still running, so it reaches the window end.
	running := view.Rows[1].Batches[0]
	require.Equal(t, 30.0, running.Left)
	require.Equal(t, 100.0, running.Right())

	scrolled := tl.Scroll(view, 1, 1)
	require.Len(t, scrolled.Visible, 1)
	require.Equal(t, 1, scrolled.Visible[0].Index)

	tl.Resize(30)
	_, err = tl.Build(context.Background())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTimeline_GroupAndRender(t *testing.T) {
	tl := New(StaticSource(sampleRecords()),
		WithGroup(true),
		WithWindow(time.UnixMilli(0), time.UnixMilli(1000)),
		WithClock(func() time.Time { return time.UnixMilli(1000) }),
	)
	view, err := tl.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	require.Equal(t, "build", view.Rows[0].Label)
	require.Equal(t, "deploy", view.Rows[1].Label)

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, view))
	require.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	require.NoError(t, RenderText(&buf, view))
	require.Contains(t, buf.String(), "build")
	require.Contains(t, buf.String(), "deploy")
}
