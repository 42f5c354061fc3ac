package batch

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/runlane/internal/domain"
)

const eps = 1e-9

func rec(id string, start, end int64) domain.Record {
	return domain.Record{ID: id, Status: domain.StatusSucceeded, StartTime: start, EndTime: domain.Millis(end)}
}

func running(id string, start int64) domain.Record {
	return domain.Record{ID: id, Status: domain.StatusStarted, StartTime: start}
}

func req(records ...domain.Record) Request {
	return Request{
		Records:          records,
		Window:           domain.Window{Start: 0, End: 1000},
		Width:            100,
		MinChunkWidth:    4,
		MinMultipleWidth: 4,
	}
}

func ids(b domain.Batch) []string {
	out := make([]string, len(b.Records))
	for i, r := range b.Records {
		out[i] = r.ID
	}
	return out
}

func TestDefaultBatcher_Example(t *testing.T) {
	got, err := NewDefaultBatcher().Batch(req(rec("a", 0, 1000), rec("b", 100, 200)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 0.0, got[0].Left)
	require.Equal(t, 100.0, got[0].Width)
	require.Equal(t, []string{"a", "b"}, ids(got[0]))
}

func TestDefaultBatcher_Layouts(t *testing.T) {
	type shape struct {
		Left, Width float64
		IDs         []string
	}

	tests := []struct {
		name string
		req  Request
		want []shape
	}{
		{
			name: "empty input",
			req:  req(),
			want: []shape{},
		},
		{
			name: "full window",
			req:  req(rec("a", 0, 1000)),
			want: []shape{{0, 100, []string{"a"}}},
		},
		{
			name: "separate records stay apart",
			req:  req(rec("a", 0, 100), rec("b", 500, 600)),
			want: []shape{{0, 10, []string{"a"}}, {50, 10, []string{"b"}}},
		},
		{
			name: "touching records do not merge",
			req:  req(rec("a", 0, 100), rec("b", 100, 200)),
			want: []shape{{0, 10, []string{"a"}}, {10, 10, []string{"b"}}},
		},
		{
			name: "short record widened to floor",
			req:  req(rec("a", 500, 501)),
			want: []shape{{50, 4, []string{"a"}}},
		},
		{
			name: "identical timestamps merge",
			req:  req(rec("a", 300, 300), rec("b", 300, 300)),
			want: []shape{{30, 4, []string{"a", "b"}}},
		},
		{
			name: "records sorted by start",
			req:  req(rec("late", 800, 900), rec("early", 0, 100)),
			want: []shape{{0, 10, []string{"early"}}, {80, 10, []string{"late"}}},
		},
		{
			name: "clipped to window",
			req:  req(rec("a", -500, 100), rec("b", 900, 5000)),
			want: []shape{{0, 10, []string{"a"}}, {90, 10, []string{"b"}}},
		},
		{
			name: "outside window dropped",
			req:  req(rec("before", -500, -1), rec("after", 1001, 2000), rec("in", 0, 100)),
			want: []shape{{0, 10, []string{"in"}}},
		},
		{
			name: "degenerate record dropped",
			req:  req(rec("bad", 600, 500), rec("ok", 0, 100)),
			want: []shape{{0, 10, []string{"ok"}}},
		},
		{
			name: "running record extends to window end",
			req:  req(running("r", 500)),
			want: []shape{{50, 50, []string{"r"}}},
		},
		{
			name: "floor at right edge shifts left",
			req:  req(rec("a", 999, 1000)),
			want: []shape{{96, 4, []string{"a"}}},
		},
		{
			name: "merge chain through overlap",
			req:  req(rec("a", 0, 200), rec("b", 150, 400), rec("c", 390, 500)),
			want: []shape{{0, 50, []string{"a", "b", "c"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDefaultBatcher().Batch(tt.req)
			if err != nil {
				t.Fatalf("Batch() unexpected error: %v", err)
			}
			shapes := make([]shape, len(got))
			for i, b := range got {
				shapes[i] = shape{b.Left, b.Width, ids(b)}
			}
			if diff := cmp.Diff(tt.want, shapes); diff != "" {
				t.Errorf("Batch() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultBatcher_MultipleFloor(t *testing.T) {
	r := req(rec("a", 100, 100), rec("b", 101, 101))
	r.MinChunkWidth = 2
	r.MinMultipleWidth = 6

	got, err := NewDefaultBatcher().Batch(r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 10, got[0].Left, eps)
	require.InDelta(t, 6, got[0].Width, eps)
}

func TestDefaultBatcher_MultipleFloorAtRightEdge(t *testing.T) {
	r := req(rec("x", 900, 960), rec("a", 999, 999), rec("b", 1000, 1000))
	r.MinChunkWidth = 1
	r.MinMultipleWidth = 8

	got, err := NewDefaultBatcher().Batch(r)
	require.NoError(t, err)
	require.Len(t, got, 1, "trailing batch shifted left absorbs its neighbour")
	require.InDelta(t, 90, got[0].Left, eps)
	require.InDelta(t, 10, got[0].Width, eps)
	require.Equal(t, []string{"x", "a", "b"}, ids(got[0]))
}

func TestDefaultBatcher_FloorWiderThanLane(t *testing.T) {
	r := req(rec("a", 0, 1), rec("b", 2, 3))
	r.Width = 3
	r.MinChunkWidth = 5
	r.MinMultipleWidth = 5

	got, err := NewDefaultBatcher().Batch(r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 0.0, got[0].Left)
	require.Equal(t, 3.0, got[0].Width)
}

func TestDefaultBatcher_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"start equals end", func(r *Request) { r.Window = domain.Window{Start: 5, End: 5} }},
		{"start after end", func(r *Request) { r.Window = domain.Window{Start: 10, End: 5} }},
		{"zero width", func(r *Request) { r.Width = 0 }},
		{"negative width", func(r *Request) { r.Width = -1 }},
		{"zero chunk floor", func(r *Request) { r.MinChunkWidth = 0 }},
		{"zero multiple floor", func(r *Request) { r.MinMultipleWidth = 0 }},
		{"multiple below chunk", func(r *Request) { r.MinChunkWidth = 5; r.MinMultipleWidth = 4 }},
		{"NaN width", func(r *Request) { r.Width = math.NaN() }},
		{"infinite width", func(r *Request) { r.Width = math.Inf(1) }},
		{"NaN chunk floor", func(r *Request) { r.MinChunkWidth = math.NaN() }},
		{"infinite chunk floor", func(r *Request) { r.MinChunkWidth = math.Inf(1) }},
		{"NaN multiple floor", func(r *Request) { r.MinMultipleWidth = math.NaN() }},
		{"infinite multiple floor", func(r *Request) { r.MinMultipleWidth = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req(rec("a", 0, 1000))
			tt.mutate(&r)
			got, err := NewDefaultBatcher().Batch(r)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("Batch() error = %v, want ErrInvalidArgument", err)
			}
			if got != nil {
				t.Errorf("Batch() = %v, want nil on error", got)
			}
		})
	}
}

func TestDefaultBatcher_WindowWiderThanInt64(t *testing.T) {
	r := req(rec("a", 0, 1000))
	r.Window = domain.Window{Start: math.MinInt64/2 - 10, End: math.MaxInt64/2 + 10}

	got, err := NewDefaultBatcher().Batch(r)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 50.0, got[0].Left, 1e-6)
	require.InDelta(t, 4.0, got[0].Width, 1e-9)
	require.GreaterOrEqual(t, got[0].Left, 0.0)
	require.LessOrEqual(t, got[0].Right(), r.Width)
}

func TestDefaultBatcher_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	b := NewDefaultBatcher()

	for iter := 0; iter < 200; iter++ {
		n := rnd.Intn(40)
		records := make([]domain.Record, 0, n)
		inWindow := map[string]bool{}
		for i := 0; i < n; i++ {
			start := int64(rnd.Intn(3000) - 1000)
			id := fmt.Sprintf("r%d", i)
			var r domain.Record
			if rnd.Intn(5) == 0 {
				r = running(id, start)
			} else {
				r = rec(id, start, start+int64(rnd.Intn(400)))
			}
			records = append(records, r)
			if r.EndOr(1000) >= 0 && r.StartTime <= 1000 {
				inWindow[id] = true
			}
		}

		r := req(records...)
		r.Width = float64(1 + rnd.Intn(300))
		r.MinChunkWidth = float64(1 + rnd.Intn(6))
		r.MinMultipleWidth = r.MinChunkWidth + float64(rnd.Intn(4))

		got, err := b.Batch(r)
		require.NoError(t, err)

		again, err := b.Batch(r)
		require.NoError(t, err)
		require.Equal(t, got, again, "layout must be deterministic")

		seen := map[string]int{}
		for i, bt := range got {
			require.NotEmpty(t, bt.Records)
			require.GreaterOrEqual(t, bt.Left, 0.0)
			require.LessOrEqual(t, bt.Right(), r.Width+eps)
			if bt.Multiple() {
				require.GreaterOrEqual(t, bt.Width, min(r.MinMultipleWidth, r.Width)-eps)
			} else {
				require.GreaterOrEqual(t, bt.Width, min(r.MinChunkWidth, r.Width)-eps)
			}
			if i > 0 {
				require.LessOrEqual(t, got[i-1].Right(), bt.Left+eps, "batches must not overlap")
			}
			for _, rc := range bt.Records {
				seen[rc.ID]++
			}
		}
		require.Len(t, seen, len(inWindow))
		for id, count := range seen {
			require.True(t, inWindow[id], "record %s outside window was kept", id)
			require.Equal(t, 1, count, "record %s duplicated", id)
		}
	}
}
