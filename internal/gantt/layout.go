package gantt

import (
	"math"
	"time"

	"github.com/runchart/runchart/internal/theme"
)

// Zoom bounds and wheel step factors, in surface cells per millisecond.
const (
	MinCellsPerMs = 0.001
	MaxCellsPerMs = 10

	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
)

// Viewport is the pan/zoom transform applied when mapping time to
// horizontal cell position, plus the surface size. It is an immutable
// snapshot: every mutation returns a new value, and the Interaction
// Controller is the only producer of new snapshots.
type Viewport struct {
	CellsPerMs float64 // horizontal zoom factor
	OffsetX    float64 // horizontal pan, in cells
	Width      int     // surface width, in cells
	Height     int     // minimum surface height, in cells
}

// ZoomIn returns the viewport scaled one wheel tick in, clamped.
func (v Viewport) ZoomIn() Viewport {
	return v.zoom(wheelZoomIn)
}

// ZoomOut returns the viewport scaled one wheel tick out, clamped.
func (v Viewport) ZoomOut() Viewport {
	return v.zoom(wheelZoomOut)
}

func (v Viewport) zoom(factor float64) Viewport {
	v.CellsPerMs *= factor
	if v.CellsPerMs < MinCellsPerMs {
		v.CellsPerMs = MinCellsPerMs
	}
	if v.CellsPerMs > MaxCellsPerMs {
		v.CellsPerMs = MaxCellsPerMs
	}
	return v
}

// Pan returns the viewport shifted horizontally by dx cells.
func (v Viewport) Pan(dx int) Viewport {
	v.OffsetX += float64(dx)
	return v
}

// Resize returns the viewport with a new surface size.
func (v Viewport) Resize(width, height int) Viewport {
	v.Width = width
	v.Height = height
	return v
}

// FitToWidth returns the viewport zoomed so the span start..end exactly
// fills the width available next to the label margin, with the pan reset.
// The fitted zoom is deliberately not clamped to the wheel range; only
// user rescaling is.
func (v Viewport) FitToWidth(start, end time.Time, dims theme.Dimensions) Viewport {
	available := v.Width - dims.LeftMargin - dims.RightPadding
	rangeMs := float64(end.Sub(start)) / float64(time.Millisecond)
	if available <= 0 || rangeMs <= 0 {
		return v
	}
	v.CellsPerMs = float64(available) / rangeMs
	v.OffsetX = 0
	return v
}

// Layout maps time instants to cell coordinates for one frame. Row and
// stage y offsets are not computed here: they are assigned once during the
// model build, since vertical placement does not pan or zoom.
type Layout struct {
	Start    time.Time
	Viewport Viewport
	Dims     theme.Dimensions
}

// TimeToX maps a time instant to a horizontal cell coordinate. For any
// fixed viewport it is monotonic non-decreasing in t; dependency arrows
// and hit-testing rely on that.
func (l Layout) TimeToX(t time.Time) int {
	ms := float64(t.Sub(l.Start)) / float64(time.Millisecond)
	return l.Dims.LeftMargin + int(math.Floor(ms*l.Viewport.CellsPerMs+l.Viewport.OffsetX))
}

// SegmentSpan returns the drawn cell range [x0, x1) of a segment, at
// least one cell wide so zero-duration segments stay visible.
func (l Layout) SegmentSpan(seg Segment) (x0, x1 int) {
	x0 = l.TimeToX(seg.Start)
	x1 = l.TimeToX(seg.End)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	return x0, x1
}

// SegmentBandY returns the vertical cell range [y0, y1] a row's segments
// occupy. Clicks select a job only inside this band, not the whole row.
func (l Layout) SegmentBandY(row *JobRow) (y0, y1 int) {
	inset := (l.Dims.RowHeight - 1) / 2
	return row.Y + inset, row.Y + l.Dims.RowHeight - 1 - inset
}

// RowMidY returns the vertical center of a row, where segments are drawn.
func (l Layout) RowMidY(row *JobRow) int {
	return row.Y + l.Dims.RowHeight/2
}
