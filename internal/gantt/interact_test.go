package gantt_test

import (
	"testing"
	"time"

	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/gantt"
)

func chainController(t *testing.T) (*gantt.Controller, *gantt.Model, *gantt.Frame) {
	t.Helper()
	c := gantt.NewController(testTheme)
	c.Resize(120, 40)
	m := chainModel(t)
	c.SetModel(m)
	f := c.Render()
	if f == nil {
		t.Fatal("expected frame")
	}
	return c, m, f
}

func clickAt(c *gantt.Controller, x, y int) {
	c.PointerDown(x, y)
	c.PointerUp(x, y)
}

func TestController_ClickInsideSegmentSelectsJob(t *testing.T) {
	c, m, f := chainController(t)
	var selected string
	c.OnJobSelect = func(id string) { selected = id }

	row := m.Rows[0]
	x := f.Layout.TimeToX(row.Segments[0].Start) + 1
	y := f.Layout.RowMidY(row)
	clickAt(c, x, y)

	if selected != row.ID {
		t.Errorf("expected selection callback with %q, got %q", row.ID, selected)
	}
	if c.SelectedID() != row.ID {
		t.Errorf("expected selected id %q, got %q", row.ID, c.SelectedID())
	}
}

func TestController_ClickOutsideSegmentsDoesNotSelect(t *testing.T) {
	c, m, f := chainController(t)
	called := false
	c.OnJobSelect = func(string) { called = true }

	row := m.Rows[0]
	x0, _ := f.Layout.SegmentSpan(row.Segments[0])
	y := f.Layout.RowMidY(row)
	clickAt(c, x0-3, y)

	if called || c.SelectedID() != "" {
		t.Error("click left of the segment must not select the job")
	}
}

func TestController_ClickOnRowBorderDoesNotSelect(t *testing.T) {
	c, m, f := chainController(t)

	row := m.Rows[0]
	x := f.Layout.TimeToX(row.Segments[0].Start) + 1
	clickAt(c, x, row.Y+testTheme.Dimensions.RowHeight-1)

	if c.SelectedID() != "" {
		t.Error("click on the row border must not select the job")
	}
}

func TestController_HookClickWinsOverSegments(t *testing.T) {
	c, _, f := chainController(t)
	var hook string
	c.OnHookClick = func(h string) { hook = h }
	c.OnJobSelect = func(string) { t.Error("hook click must not select a job") }

	clickAt(c, f.HookRegion.X, f.HookRegion.Y)

	if hook != "push" {
		t.Errorf("expected hook callback with 'push', got %q", hook)
	}
}

func TestController_ResultClick(t *testing.T) {
	issued := base.Add(45 * time.Second)
	jobs := []domain.Job{{ID: "rj-build", JobID: "build", Started: at(0), Ended: at(time.Minute)}}
	results := []domain.Result{{ID: "r1", Type: "artifact", Label: "bin", IssuedAt: &issued}}

	c := gantt.NewController(testTheme)
	c.Resize(120, 40)
	c.SetModel(gantt.Build(testRun(), jobs, results, testTheme, now))
	f := c.Render()

	var clicked domain.Result
	c.OnResultClick = func(res domain.Result) { clicked = res }

	region := f.ResultRegions[0].Rect
	clickAt(c, region.X+1, region.Y)

	if clicked.ID != "r1" {
		t.Errorf("expected result callback with r1, got %+v", clicked)
	}
}

func TestController_DragPansWithoutSelecting(t *testing.T) {
	c, m, f := chainController(t)
	c.OnJobSelect = func(string) { t.Error("a drag must not select") }

	row := m.Rows[0]
	x := f.Layout.TimeToX(row.Segments[0].Start) + 1
	y := f.Layout.RowMidY(row)

	before := c.Viewport().OffsetX
	c.PointerDown(x, y)
	c.PointerMove(x+10, y)
	c.PointerUp(x+10, y)

	if got := c.Viewport().OffsetX; got != before+10 {
		t.Errorf("expected pan offset %g, got %g", before+10, got)
	}
}

func TestController_HoverGateOpensPopoverAndSuppressesTooltip(t *testing.T) {
	jobs := []domain.Job{
		{
			ID: "rj-1", JobID: "approve", Status: domain.StatusWaiting,
			Started:    at(0),
			GateInputs: map[string]any{"gate_name": "prod", "ok": true},
		},
	}
	c := gantt.NewController(testTheme)
	c.Resize(120, 40)
	m := gantt.Build(testRun(), jobs, nil, testTheme, now)
	c.SetModel(m)
	f := c.Render()

	gate := f.GateRegions[0].Rect
	c.PointerMove(gate.X+1, gate.Y)

	pop, ok := c.GatePopover()
	if !ok {
		t.Fatal("expected popover after hovering the gate")
	}
	if pop.GateName != "prod" {
		t.Errorf("unexpected popover: %+v", pop)
	}

	row := m.Rows[0]
	segX := f.Layout.TimeToX(row.Segments[0].Start) + 1
	if _, ok := c.TooltipAt(segX, f.Layout.RowMidY(row)); ok {
		t.Error("tooltip must stay hidden while the popover is open")
	}
}

func TestController_ClickClosesPopover(t *testing.T) {
	jobs := []domain.Job{
		{
			ID: "rj-1", JobID: "approve", Status: domain.StatusWaiting,
			Started:    at(0),
			GateInputs: map[string]any{"gate_name": "prod"},
		},
	}
	c := gantt.NewController(testTheme)
	c.Resize(120, 40)
	c.SetModel(gantt.Build(testRun(), jobs, nil, testTheme, now))
	f := c.Render()

	gate := f.GateRegions[0].Rect
	c.PointerMove(gate.X+1, gate.Y)
	if _, ok := c.GatePopover(); !ok {
		t.Fatal("expected popover")
	}

	clickAt(c, 0, 0)
	if _, ok := c.GatePopover(); ok {
		t.Error("any click must close the popover")
	}
}

func TestController_TooltipReportsSegment(t *testing.T) {
	c, m, f := chainController(t)

	row := m.Rows[0]
	x := f.Layout.TimeToX(row.Segments[0].Start) + 1
	tip, ok := c.TooltipAt(x, f.Layout.RowMidY(row))
	if !ok {
		t.Fatal("expected tooltip over the segment")
	}
	if tip.Row.ID != row.ID {
		t.Errorf("tooltip row %q, want %q", tip.Row.ID, row.ID)
	}
}

func TestController_ViewportSurvivesModelRebuild(t *testing.T) {
	c, m, _ := chainController(t)

	c.Wheel(true)
	c.Wheel(true)
	zoomed := c.Viewport().CellsPerMs

	c.SetModel(gantt.Build(m.Run, []domain.Job{
		{ID: "rj-build", JobID: "build", Started: at(0), Ended: at(30 * time.Second)},
	}, nil, testTheme, now))

	if got := c.Viewport().CellsPerMs; got != zoomed {
		t.Errorf("viewport zoom reset by rebuild: %g != %g", got, zoomed)
	}
}

func TestController_ResizeRefitsZoom(t *testing.T) {
	c, _, _ := chainController(t)
	before := c.Viewport()

	c.Resize(240, 40)
	after := c.Viewport()

	if after.Width != 240 {
		t.Errorf("width = %d, want 240", after.Width)
	}
	if after.CellsPerMs <= before.CellsPerMs {
		t.Error("wider surface should fit with a larger zoom")
	}
}

func TestController_PointerLeaveClosesPopover(t *testing.T) {
	jobs := []domain.Job{
		{
			ID: "rj-1", JobID: "approve", Status: domain.StatusWaiting,
			Started:    at(0),
			GateInputs: map[string]any{"gate_name": "prod"},
		},
	}
	c := gantt.NewController(testTheme)
	c.Resize(120, 40)
	c.SetModel(gantt.Build(testRun(), jobs, nil, testTheme, now))
	f := c.Render()

	gate := f.GateRegions[0].Rect
	c.PointerMove(gate.X+1, gate.Y)
	c.PointerLeave()

	if _, ok := c.GatePopover(); ok {
		t.Error("leaving the surface must close the popover")
	}
}
