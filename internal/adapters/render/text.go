// Package render draws timeline views to a terminal or as JSON.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/runlane/internal/domain"
	"github.com/bft-labs/runlane/internal/ports"
)

const (
	singleCell   = '█'
	multipleCell = '▓'
	emptyCell    = ' '
	dividerCell  = '┊'
	statusDot    = "●"

	emptyMessage   = "No runs in range"
	loadingMessage = "Loading runs…"
)

// Text renders a view as styled terminal lines, one per lane.
type Text struct {
	header lipgloss.Style
	muted  lipgloss.Style
}

// NewText creates a terminal renderer.
func NewText() *Text {
	return &Text{
		header: lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Faint(true),
	}
}

// Render implements ports.Renderer.
func (t *Text) Render(w io.Writer, v ports.View) error {
	_, err := io.WriteString(w, t.String(v))
	return err
}

// String renders v to a string.
func (t *Text) String(v ports.View) string {
	var b strings.Builder
	b.WriteString(t.headerLine(v))
	b.WriteByte('\n')

	if v.Loading || len(v.Rows) == 0 {
		msg := emptyMessage
		if v.Loading {
			msg = loadingMessage
		}
		b.WriteString(t.muted.Render(msg))
		b.WriteByte('\n')
		return b.String()
	}

	for _, i := range visibleIndexes(v) {
		b.WriteString(t.row(v, v.Rows[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

// headerLine labels each divider at its column.
func (t *Text) headerLine(v ports.View) string {
	lane := []rune(strings.Repeat(" ", columns(v.LaneWidth)))
	next := 0
	for _, d := range v.Dividers {
		col := int(math.Round(d.Left))
		label := []rune(d.Label)
		if col < next || col+len(label) > len(lane) {
			continue
		}
		copy(lane[col:], label)
		next = col + len(label) + 1
	}
	return strings.Repeat(" ", v.Gutter) + t.header.Render(string(lane))
}

func (t *Text) row(v ports.View, r ports.Row) string {
	return t.gutter(v.Gutter, r) + Lane(v, r.Batches)
}

// gutter lays out "● label elapsed" in exactly width cells, dropping the
// elapsed time and then truncating the label when space runs out.
func (t *Text) gutter(width int, r ports.Row) string {
	if width <= 0 {
		return ""
	}
	avail := width - 3 // dot, space, trailing space
	label := []rune(r.Label)
	elapsed := r.Elapsed
	if elapsed != "" && len(label)+1+len(elapsed) > avail {
		elapsed = ""
	}
	if len(label) > max(avail, 0) {
		label = label[:max(avail, 0)]
	}

	out := statusStyle(r.Status).Render(statusDot)
	if width >= 2 {
		out += " " + string(label)
	}
	if elapsed != "" {
		out += " " + t.muted.Render(elapsed)
	}
	if pad := width - lipgloss.Width(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}

// Lane draws batches onto a row of LaneWidth cells with divider marks in
// the gaps.
func Lane(v ports.View, batches []domain.Batch) string {
	n := columns(v.LaneWidth)
	if n == 0 {
		return ""
	}
	cells := make([]string, n)
	for i := range cells {
		cells[i] = string(emptyCell)
	}
	for _, d := range v.Dividers {
		if col := int(math.Round(d.Left)); col >= 0 && col < n {
			cells[col] = string(dividerCell)
		}
	}

	for _, bt := range batches {
		from, to := cellSpan(bt, n)
		glyph := string(singleCell)
		if bt.Multiple() {
			glyph = string(multipleCell)
		}
		statuses := bt.Statuses()
		span := to - from
		for c := from; c < to; c++ {
			// Merged batches are striped by their distinct statuses.
			s := statuses[(c-from)*len(statuses)/span]
			cells[c] = statusStyle(s).Render(glyph)
		}
	}
	return strings.Join(cells, "")
}

// cellSpan maps a batch to whole cells, never less than one.
func cellSpan(bt domain.Batch, n int) (int, int) {
	from := int(math.Floor(bt.Left))
	to := int(math.Ceil(bt.Right()))
	from = min(max(from, 0), n-1)
	to = min(max(to, from+1), n)
	return from, to
}

func columns(width float64) int {
	return max(0, int(math.Floor(width)))
}

func visibleIndexes(v ports.View) []int {
	if v.Visible == nil {
		out := make([]int, len(v.Rows))
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, len(v.Visible))
	for _, it := range v.Visible {
		if it.Index >= 0 && it.Index < len(v.Rows) {
			out = append(out, it.Index)
		}
	}
	return out
}

// Summary describes a view in one line, for logs and status bars.
func Summary(v ports.View) string {
	batches, merged := 0, 0
	for _, r := range v.Rows {
		batches += len(r.Batches)
		for _, bt := range r.Batches {
			if bt.Multiple() {
				merged++
			}
		}
	}
	return fmt.Sprintf("%d rows, %d batches (%d merged)", len(v.Rows), batches, merged)
}

var _ ports.Renderer = (*Text)(nil)
