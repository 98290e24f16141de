package gantt

import (
	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/theme"
)

// RegionKind identifies which kind of interactive region the pointer is
// over. The order of the constants is the hit-test priority.
type RegionKind int

const (
	RegionHook RegionKind = iota
	RegionGate
	RegionResult
	RegionSegment
)

// Region is one interactive region under the pointer.
type Region struct {
	Kind    RegionKind
	Gate    *GateRegion   // RegionGate
	Result  *ResultRegion // RegionResult
	Row     *JobRow       // RegionSegment
	Segment *Segment      // RegionSegment
}

// Pointer states. Making the state a tagged variant (rather than a pile
// of booleans) keeps drag/hover/click precedence explicit.
type pointerState interface{ pointerState() }

type pointerIdle struct{}

type pointerDragging struct {
	lastX, lastY int
	moved        bool
}

type pointerHovering struct{ region Region }

func (pointerIdle) pointerState()     {}
func (pointerDragging) pointerState() {}
func (pointerHovering) pointerState() {}

// Tooltip is the always-on hover answer for a row segment. It is computed
// independently of the interactive-region priority order.
type Tooltip struct {
	Row     *JobRow
	Segment Segment
	X, Y    int
}

// Popover is the gate detail shown while hovering a gate label. Gates are
// hover-only: any click closes the popover.
type Popover struct {
	X, Y     int
	GateName string
	Inputs   map[string]any
	JobID    string
}

// Controller owns the viewport state and all pointer handling. It is the
// single producer of viewport snapshots; layout and rendering only ever
// read the snapshot they are handed.
type Controller struct {
	renderer Renderer
	model    *Model
	frame    *Frame

	viewport   Viewport
	state      pointerState
	popover    *Popover
	selectedID string

	// Event callbacks, set by the host. These are the only points where
	// the core hands control back to its environment.
	OnJobSelect   func(rowID string)
	OnHookClick   func(hookType string)
	OnResultClick func(res domain.Result)
}

// NewController creates an idle controller for the given theme.
func NewController(th theme.Theme) *Controller {
	return &Controller{renderer: NewRenderer(th), state: pointerIdle{}}
}

// SetTheme swaps the style configuration; the next Render uses it.
func (c *Controller) SetTheme(th theme.Theme) {
	c.renderer = NewRenderer(th)
}

// SetModel installs a freshly built model. The viewport survives data
// rebuilds so panning and zooming persist across live updates; the very
// first model zooms to fit.
func (c *Controller) SetModel(m *Model) {
	first := c.model == nil || c.viewport.CellsPerMs == 0
	c.model = m
	c.frame = nil
	if m != nil && first {
		c.viewport = c.viewport.FitToWidth(m.TimelineStart, m.TimelineEnd, c.renderer.Theme.Dimensions)
	}
}

// Model returns the current model, nil before any data arrived.
func (c *Controller) Model() *Model { return c.model }

// Viewport returns the current viewport snapshot.
func (c *Controller) Viewport() Viewport { return c.viewport }

// SelectedID returns the stable id of the selected row, "" for none.
func (c *Controller) SelectedID() string { return c.selectedID }

// Resize updates the surface size and re-fits the zoom, so a resize is a
// full re-layout before the next render.
func (c *Controller) Resize(width, height int) {
	c.viewport = c.viewport.Resize(width, height)
	if c.model != nil {
		c.viewport = c.viewport.FitToWidth(c.model.TimelineStart, c.model.TimelineEnd, c.renderer.Theme.Dimensions)
	}
}

// ZoomToFit resets the zoom so the whole timeline fits the width.
func (c *Controller) ZoomToFit() {
	if c.model != nil {
		c.viewport = c.viewport.FitToWidth(c.model.TimelineStart, c.model.TimelineEnd, c.renderer.Theme.Dimensions)
	}
}

// Wheel applies one zoom tick. Wheel input always zooms; there is no
// modifier-key distinction.
func (c *Controller) Wheel(up bool) {
	if up {
		c.viewport = c.viewport.ZoomIn()
	} else {
		c.viewport = c.viewport.ZoomOut()
	}
}

// Render draws a fresh frame and records its interactive regions for
// subsequent hit-testing. Returns nil while there is no model.
func (c *Controller) Render() *Frame {
	if c.model == nil {
		return nil
	}
	c.frame = c.renderer.Frame(c.model, c.viewport, c.selectedID)
	return c.frame
}

// PointerDown begins a drag.
func (c *Controller) PointerDown(x, y int) {
	c.state = pointerDragging{lastX: x, lastY: y}
}

// PointerUp ends a drag; a press-and-release with no movement in between
// is delivered as a click.
func (c *Controller) PointerUp(x, y int) bool {
	drag, wasDrag := c.state.(pointerDragging)
	c.state = pointerIdle{}
	if wasDrag && !drag.moved {
		return c.click(x, y)
	}
	return false
}

// PointerLeave resets the pointer state and hides any open popover.
func (c *Controller) PointerLeave() bool {
	c.state = pointerIdle{}
	changed := c.popover != nil
	c.popover = nil
	return changed
}

// PointerMove handles both drag panning and hover hit-testing. It
// reports whether the display needs a redraw.
func (c *Controller) PointerMove(x, y int) bool {
	if drag, ok := c.state.(pointerDragging); ok {
		dx := x - drag.lastX
		c.viewport = c.viewport.Pan(dx)
		c.state = pointerDragging{lastX: x, lastY: y, moved: drag.moved || dx != 0}
		return true
	}

	region, ok := c.hitRegion(x, y)
	if !ok {
		c.state = pointerIdle{}
		if c.popover != nil {
			c.popover = nil
			return true
		}
		return false
	}

	c.state = pointerHovering{region: region}
	if region.Kind == RegionGate {
		c.popover = &Popover{
			X:        x,
			Y:        y,
			GateName: region.Gate.GateName,
			Inputs:   region.Gate.GateInputs,
			JobID:    region.Gate.JobID,
		}
		return true
	}
	if c.popover != nil {
		c.popover = nil
		return true
	}
	return false
}

// Hovering returns the region under the pointer while in the hovering
// state, for cursor-affordance display.
func (c *Controller) Hovering() (Region, bool) {
	h, ok := c.state.(pointerHovering)
	return h.region, ok
}

// GatePopover returns the open gate popover, if any.
func (c *Controller) GatePopover() (Popover, bool) {
	if c.popover == nil {
		return Popover{}, false
	}
	return *c.popover, true
}

// click resolves a click in strict priority order: hook label, result
// labels, then job segments. A click selects a job only when it lands
// inside an actual segment, not merely inside the row. Any click closes
// an open gate popover.
func (c *Controller) click(x, y int) bool {
	redraw := c.popover != nil
	c.popover = nil
	if c.frame == nil {
		return redraw
	}

	if c.frame.HookRegion != nil && c.frame.HookRegion.Contains(x, y) {
		if c.OnHookClick != nil {
			c.OnHookClick(c.model.Run.HookType())
		}
		return redraw
	}

	for _, res := range c.frame.ResultRegions {
		if res.Rect.Contains(x, y) {
			if c.OnResultClick != nil {
				c.OnResultClick(res.Marker.Result)
			}
			return redraw
		}
	}

	if row, _, ok := c.segmentAt(x, y); ok {
		c.selectedID = row.ID
		if c.OnJobSelect != nil {
			c.OnJobSelect(row.ID)
		}
		return true
	}
	return redraw
}

// hitRegion resolves the interactive region under the pointer in strict
// priority order: hook, then gates (first match wins), then results,
// then job segments.
func (c *Controller) hitRegion(x, y int) (Region, bool) {
	if c.frame == nil {
		return Region{}, false
	}
	if c.frame.HookRegion != nil && c.frame.HookRegion.Contains(x, y) {
		return Region{Kind: RegionHook}, true
	}
	for i := range c.frame.GateRegions {
		if c.frame.GateRegions[i].Rect.Contains(x, y) {
			return Region{Kind: RegionGate, Gate: &c.frame.GateRegions[i]}, true
		}
	}
	for i := range c.frame.ResultRegions {
		if c.frame.ResultRegions[i].Rect.Contains(x, y) {
			return Region{Kind: RegionResult, Result: &c.frame.ResultRegions[i]}, true
		}
	}
	if row, seg, ok := c.segmentAt(x, y); ok {
		return Region{Kind: RegionSegment, Row: row, Segment: seg}, true
	}
	return Region{}, false
}

// segmentAt finds the row segment containing the pointer, using the same
// coordinate mapping the renderer drew with.
func (c *Controller) segmentAt(x, y int) (*JobRow, *Segment, bool) {
	if c.frame == nil || c.model == nil {
		return nil, nil, false
	}
	layout := c.frame.Layout
	for _, row := range c.model.Rows {
		y0, y1 := layout.SegmentBandY(row)
		if y < y0 || y > y1 {
			continue
		}
		for i := range row.Segments {
			x0, x1 := layout.SegmentSpan(row.Segments[i])
			if x >= x0 && x < x1 {
				return row, &row.Segments[i], true
			}
		}
	}
	return nil, nil, false
}

// TooltipAt reports the first row/segment pair containing the pointer.
// This query is independent of the region priority order, but an open
// gate popover suppresses the tooltip so the two never overlap.
func (c *Controller) TooltipAt(x, y int) (Tooltip, bool) {
	if c.popover != nil {
		return Tooltip{}, false
	}
	row, seg, ok := c.segmentAt(x, y)
	if !ok {
		return Tooltip{}, false
	}
	return Tooltip{Row: row, Segment: *seg, X: x, Y: y}, true
}
