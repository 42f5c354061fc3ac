package render

import (
	"encoding/json"
	"io"

	"github.com/bft-labs/runlane/internal/ports"
)

// JSON renders the view model as indented JSON for other tools to draw.
type JSON struct{}

type jsonView struct {
	Start     int64         `json:"start"`
	End       int64         `json:"end"`
	LaneWidth float64       `json:"lane_width"`
	Dividers  []jsonDivider `json:"dividers"`
	Rows      []jsonRow     `json:"rows"`
}

type jsonDivider struct {
	Time  int64   `json:"time"`
	Left  float64 `json:"left"`
	Label string  `json:"label"`
}

type jsonRow struct {
	Label   string      `json:"label"`
	Elapsed string      `json:"elapsed,omitempty"`
	Status  string      `json:"status"`
	Batches []jsonBatch `json:"batches"`
}

type jsonBatch struct {
	Left     float64  `json:"left"`
	Width    float64  `json:"width"`
	Statuses []string `json:"statuses"`
	RunIDs   []string `json:"run_ids"`
}

// Render implements ports.Renderer. Only visible rows are written when the
// view has been scrolled.
func (JSON) Render(w io.Writer, v ports.View) error {
	out := jsonView{
		Start:     v.Window.Start,
		End:       v.Window.End,
		LaneWidth: v.LaneWidth,
		Dividers:  make([]jsonDivider, 0, len(v.Dividers)),
		Rows:      make([]jsonRow, 0, len(v.Rows)),
	}
	for _, d := range v.Dividers {
		out.Dividers = append(out.Dividers, jsonDivider{Time: d.Time, Left: d.Left, Label: d.Label})
	}
	for _, i := range visibleIndexes(v) {
		r := v.Rows[i]
		row := jsonRow{Label: r.Label, Elapsed: r.Elapsed, Status: string(r.Status), Batches: make([]jsonBatch, 0, len(r.Batches))}
		for _, bt := range r.Batches {
			jb := jsonBatch{Left: bt.Left, Width: bt.Width}
			for _, s := range bt.Statuses() {
				jb.Statuses = append(jb.Statuses, string(s))
			}
			for _, rc := range bt.Records {
				jb.RunIDs = append(jb.RunIDs, rc.ID)
			}
			row.Batches = append(row.Batches, jb)
		}
		out.Rows = append(out.Rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var _ ports.Renderer = JSON{}
