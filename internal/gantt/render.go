package gantt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/theme"
)

// GateRegion is the per-frame hover/click rectangle of one gate label.
type GateRegion struct {
	Rect       Rect
	GateName   string
	GateInputs map[string]any
	JobID      string
}

// ResultRegion is the per-frame hover/click rectangle of one result label.
type ResultRegion struct {
	Rect   Rect
	Marker ResultMarker
}

// Frame is one complete redraw: the drawn surface, the layout used to
// draw it, and every interactive region recorded at its exact drawn
// rectangle. Regions live for exactly one frame.
type Frame struct {
	Surface       *Surface
	Layout        Layout
	HookRegion    *Rect
	GateRegions   []GateRegion
	ResultRegions []ResultRegion
}

// Renderer issues a full redraw per frame. It holds no state between
// frames beyond the theme; redraws are cheap because job counts are
// bounded by a CI run's size.
type Renderer struct {
	Theme theme.Theme
}

// NewRenderer returns a renderer for the given theme.
func NewRenderer(th theme.Theme) Renderer {
	return Renderer{Theme: th}
}

// stepLabelMinWidth is the segment width, in cells, above which the step
// name is legible enough to draw inside the segment.
const stepLabelMinWidth = 8

// Frame draws the model under the given viewport and returns the frame.
// selectedID is the stable row id to highlight, "" for none.
func (r Renderer) Frame(m *Model, vp Viewport, selectedID string) *Frame {
	dims := r.Theme.Dimensions
	layout := Layout{Start: m.TimelineStart, Viewport: vp, Dims: dims}

	lastRowBottom := dims.AxisHeight + dims.StageSpacing
	if n := len(m.Rows); n > 0 {
		lastRowBottom = m.Rows[n-1].Y + dims.RowHeight
	}
	hookLabelY := lastRowBottom + 1
	resultsBase := hookLabelY + 2
	height := resultsBase + 2*len(m.Results) + 1
	if height < vp.Height {
		height = vp.Height
	}

	s := NewSurface(vp.Width, height, r.Theme.Colors.Background)
	f := &Frame{Surface: s, Layout: layout}

	r.drawAxis(s, m, layout)
	if m.ShowStageHeaders {
		for _, stage := range m.Stages {
			r.drawStageHeader(s, stage)
		}
	}
	for _, row := range m.Rows {
		r.drawJobRow(s, row, layout, row.ID == selectedID)
	}
	for _, row := range m.Rows {
		r.drawDependencies(s, m, row, layout)
	}
	r.drawHook(s, f, m, layout, hookLabelY)
	r.drawGates(s, f, m, layout)
	r.drawResults(s, f, m, layout, resultsBase)
	return f
}

func (r Renderer) drawAxis(s *Surface, m *Model, layout Layout) {
	colors := r.Theme.Colors
	s.FillRect(Rect{X: 0, Y: 0, W: s.Width(), H: layout.Dims.AxisHeight}, colors.AxisBackground)
	s.HLine(0, s.Width()-1, layout.Dims.AxisHeight-1, '─', colors.Border)

	markers := s.Width() / 16
	if markers > 20 {
		markers = 20
	}
	if markers < 1 {
		return
	}
	span := m.TimelineEnd.Sub(m.TimelineStart)
	for i := 0; i <= markers; i++ {
		t := m.TimelineStart.Add(span * time.Duration(i) / time.Duration(markers))
		x := layout.TimeToX(t)
		s.Set(x, layout.Dims.AxisHeight-1, '┴', colors.Border, "")
		label := t.UTC().Format("15:04:05")
		s.Text(x-MeasureText(label)/2, 0, label, colors.AxisText, colors.AxisBackground)
	}
}

func (r Renderer) drawStageHeader(s *Surface, stage StageGroup) {
	colors := r.Theme.Colors
	h := r.Theme.Dimensions.StageHeaderHeight
	s.FillRect(Rect{X: 0, Y: stage.Y, W: s.Width(), H: h}, colors.StageBackground)
	s.Text(1, stage.Y, TruncText("Stage: "+stage.Name, s.Width()-2), colors.StageText, colors.StageBackground)
}

func (r Renderer) drawJobRow(s *Surface, row *JobRow, layout Layout, selected bool) {
	colors := r.Theme.Colors
	dims := layout.Dims
	midY := layout.RowMidY(row)

	if selected {
		s.FillRect(Rect{X: 0, Y: row.Y, W: dims.LeftMargin, H: dims.RowHeight}, colors.RowSelected)
	}

	name := row.JobID
	if row.MatrixKey != "" {
		name = strings.TrimSpace(strings.TrimPrefix(name, row.MatrixKey))
	}
	labelBg := colors.Background
	if selected {
		labelBg = colors.RowSelected
	}
	s.Text(1, midY, TruncText(name, dims.LeftMargin-2), colors.RowText, labelBg)
	s.HLine(0, s.Width()-1, row.Y+dims.RowHeight-1, '─', colors.Border)

	for _, seg := range row.Segments {
		x0, x1 := layout.SegmentSpan(seg)
		s.FillRect(Rect{X: x0, Y: midY, W: x1 - x0, H: 1}, seg.Color)
		if seg.Status == domain.StatusStopped {
			for x := x0; x < x1; x += 2 {
				s.Set(x, midY, '╱', colors.Line, "")
			}
		}
		if x1-x0 >= 2 {
			s.Set(x0, midY, '▏', colors.Border, "")
			s.Set(x1-1, midY, '▕', colors.Border, "")
		}
		if seg.Kind == SegmentStep && seg.StepName != "" && x1-x0 > stepLabelMinWidth {
			s.Text(x0+1, midY, TruncText(seg.StepName, x1-x0-2), colors.Background, seg.Color)
		}
	}
}

func (r Renderer) drawDependencies(s *Surface, m *Model, row *JobRow, layout Layout) {
	if len(row.Needs) == 0 {
		return
	}
	line := r.Theme.Colors.Line
	for _, need := range row.Needs {
		dep := m.rowByJobID(need)
		if dep == nil || len(dep.Segments) == 0 || len(row.Segments) == 0 {
			continue
		}
		depLast := dep.Segments[len(dep.Segments)-1]
		curFirst := row.Segments[0]

		x1 := layout.TimeToX(depLast.End)
		y1 := layout.RowMidY(dep)
		x2 := layout.TimeToX(curFirst.Start)
		y2 := layout.RowMidY(row)

		if x2 > x1 {
			s.HLine(x1, x2, y1, '╌', line)
		}
		if y2 > y1 {
			s.VLine(y1+1, y2-2, x2, '┊', line)
			s.Set(x2, y2-1, '▾', line, "")
		} else if y2 < y1 {
			s.VLine(y2+2, y1-1, x2, '┊', line)
			s.Set(x2, y2+1, '▴', line, "")
		}
	}
}

func (r Renderer) drawHook(s *Surface, f *Frame, m *Model, layout Layout, labelY int) {
	if m.Run.Started.IsZero() {
		return
	}
	colors := r.Theme.Colors
	x := layout.TimeToX(m.Run.Started)
	s.VLine(layout.Dims.AxisHeight, labelY-1, x, '┊', colors.Line)
	rect := s.Label(x, labelY, m.Run.HookType()+" trigger", colors.HookText, colors.AxisBackground, colors.Border)
	region := rect.Expand(1)
	f.HookRegion = &region
}

// gateName extracts a best-effort display name from a gate input map:
// an explicit gate_name field, else name, else the first key in sorted
// order, else the literal "Gate".
func gateName(inputs map[string]any) string {
	if v, ok := inputs["gate_name"].(string); ok && v != "" {
		return v
	}
	if v, ok := inputs["name"].(string); ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "Gate"
	}
	sort.Strings(keys)
	return keys[0]
}

func (r Renderer) drawGates(s *Surface, f *Frame, m *Model, layout Layout) {
	colors := r.Theme.Colors
	for _, row := range m.Rows {
		if row.GateInputs == nil || len(row.Segments) == 0 {
			continue
		}
		name := gateName(row.GateInputs)
		x := layout.TimeToX(row.Segments[0].Start)
		midY := layout.RowMidY(row)
		s.Diamond(x, midY, colors.GateText)

		w := MeasureText(name) + 2*labelPadding
		if w < labelMinWidth {
			w = labelMinWidth
		}
		x0 := x - w - 2
		if x0 < 1 {
			x0 = 1
		}
		rect := Rect{X: x0, Y: midY - 1, W: w, H: 1}
		s.FillRect(rect, colors.AxisBackground)
		s.Text(x0+labelPadding, midY-1, name, colors.GateText, colors.AxisBackground)

		f.GateRegions = append(f.GateRegions, GateRegion{
			Rect:       rect.Expand(1),
			GateName:   name,
			GateInputs: row.GateInputs,
			JobID:      row.JobID,
		})
	}
}

func (r Renderer) drawResults(s *Surface, f *Frame, m *Model, layout Layout, baseY int) {
	colors := r.Theme.Colors
	for i, marker := range m.Results {
		x := layout.TimeToX(marker.Time)
		labelY := baseY + 2*i

		startY := layout.Dims.AxisHeight
		if row := m.rowByID(marker.JobRowID); row != nil {
			startY = layout.RowMidY(row)
		}
		s.Diamond(x, startY, colors.Text)
		s.VLine(startY+1, labelY-1, x, '┊', colors.Line)

		rect := s.Label(x, labelY, marker.Result.DisplayLabel(), colors.Text, colors.AxisBackground, colors.Border)
		f.ResultRegions = append(f.ResultRegions, ResultRegion{Rect: rect.Expand(1), Marker: marker})
	}
}

// rowByJobID finds a row by its declared job id (the id needs refer to).
func (m *Model) rowByJobID(jobID string) *JobRow {
	for _, row := range m.Rows {
		if row.JobID == jobID {
			return row
		}
	}
	return nil
}

// rowByID finds a row by its stable run-job id.
func (m *Model) rowByID(id string) *JobRow {
	if id == "" {
		return nil
	}
	for _, row := range m.Rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

// FormatDuration humanizes a duration for tooltips and status lines.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
