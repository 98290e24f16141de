package tui

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/gantt"
	"github.com/runchart/runchart/internal/provider"
	"github.com/runchart/runchart/internal/theme"
)

// SnapshotLoadedMsg is sent when a run snapshot has been fetched from the
// provider. It is exported so that tests can inject it directly into
// AppModel.Update.
type SnapshotLoadedMsg struct {
	Snapshot domain.Snapshot
	Err      error
}

// ThemeChangedMsg switches the color theme. The chart never inspects its
// environment for theme changes; hosts announce them with this message.
type ThemeChangedMsg struct {
	Mode theme.Mode
}

// tickMsg is sent by the auto-refresh ticker.
type tickMsg struct{}

// notice is the one-line status text produced by click events. It lives
// behind a pointer so the controller callbacks, wired once at startup,
// keep writing into the same place as the model value is copied around.
type notice struct {
	text string
}

// AppModel is the root Bubbletea model for runchart.
type AppModel struct {
	provider   domain.SnapshotProvider
	controller *gantt.Controller
	mode       theme.Mode
	th         theme.Theme

	// Data state
	snapshot *domain.Snapshot
	loading  bool
	stale    bool
	err      error

	// Display state
	width       int
	height      int
	heightCap   int
	scrollY     int
	mouseX      int
	mouseY      int
	refreshBase time.Duration
	notice      *notice
}

// chartTop is the first screen row of the chart, below the header line.
const chartTop = 1

// chartChrome is the number of screen rows around the chart: header,
// status line and footer.
const chartChrome = 3

// NewAppModel creates the root application model. refresh is the polling
// interval while the run is active; heightCap limits the chart height in
// rows, 0 meaning the whole terminal.
func NewAppModel(p domain.SnapshotProvider, mode theme.Mode, refresh time.Duration, heightCap int) AppModel {
	th := theme.Resolve(mode)
	ctrl := gantt.NewController(th)
	n := &notice{}
	ctrl.OnJobSelect = func(string) { n.text = "" }
	ctrl.OnHookClick = func(hookType string) {
		n.text = fmt.Sprintf("trigger: %s", hookType)
	}
	ctrl.OnResultClick = func(res domain.Result) {
		n.text = fmt.Sprintf("result: %s (%s)", res.DisplayLabel(), res.Type)
	}
	return AppModel{
		provider:    p,
		controller:  ctrl,
		mode:        mode,
		th:          th,
		loading:     true,
		heightCap:   heightCap,
		refreshBase: refresh,
		notice:      n,
	}
}

// Init triggers the initial snapshot load.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot(), tickEvery(m.refreshBase))
}

func (m AppModel) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.provider.Snapshot()
		return SnapshotLoadedMsg{Snapshot: snap, Err: err}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// anyActive reports whether any job is still in a non-terminal status.
func anyActive(jobs []domain.Job) bool {
	for _, j := range jobs {
		if !j.Status.Terminal() {
			return true
		}
	}
	return false
}

// chartHeight returns the number of rows available to the chart.
func (m AppModel) chartHeight() int {
	h := m.height - chartChrome
	if m.heightCap > 0 && h > m.heightCap {
		h = m.heightCap
	}
	if h < 1 {
		h = 1
	}
	return h
}

// rebuild turns the current snapshot into a fresh chart model. The
// viewport held by the controller survives the rebuild.
func (m AppModel) rebuild() {
	if m.snapshot == nil {
		return
	}
	model := gantt.Build(m.snapshot.Run, m.snapshot.Jobs, m.snapshot.Results, m.th, time.Now().UTC())
	m.controller.SetModel(model)
}

// Update handles all incoming messages and input events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.controller.Resize(msg.Width, m.chartHeight())

	case SnapshotLoadedMsg:
		m.loading = false
		m.stale = false
		if msg.Err != nil {
			var staleErr *provider.StaleSnapshotError
			if errors.As(msg.Err, &staleErr) {
				m.stale = true
			} else {
				m.err = msg.Err
				return m, nil
			}
		}
		m.err = nil
		snap := msg.Snapshot
		m.snapshot = &snap
		m.rebuild()

	case ThemeChangedMsg:
		m.mode = msg.Mode
		m.th = theme.Resolve(msg.Mode)
		m.controller.SetTheme(m.th)
		m.rebuild()

	case tickMsg:
		interval := 30 * time.Second
		if m.snapshot != nil && anyActive(m.snapshot.Jobs) {
			interval = m.refreshBase
		}
		return m, tea.Batch(m.loadSnapshot(), tickEvery(interval))

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			return m, m.loadSnapshot()
		case "f":
			m.controller.ZoomToFit()
		case "t":
			next := m.mode.Toggle()
			return m, func() tea.Msg { return ThemeChangedMsg{Mode: next} }
		case "up":
			m.scrollY = clampScroll(m.scrollY-1, m.maxScroll(m.controller.Render()))
		case "down":
			m.scrollY = clampScroll(m.scrollY+1, m.maxScroll(m.controller.Render()))
		case "pgup":
			m.scrollY = clampScroll(m.scrollY-m.chartHeight(), m.maxScroll(m.controller.Render()))
		case "pgdown":
			m.scrollY = clampScroll(m.scrollY+m.chartHeight(), m.maxScroll(m.controller.Render()))
		case "home":
			m.scrollY = 0
		}
	}
	return m, nil
}

// updateMouse translates screen coordinates into chart coordinates and
// forwards the event to the interaction controller.
func (m AppModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := msg.X
	y := msg.Y - chartTop + m.scrollY

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.controller.Wheel(true)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.controller.Wheel(false)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.controller.PointerDown(x, y)
		}
	case tea.MouseActionRelease:
		if msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonNone {
			m.controller.PointerUp(x, y)
		}
	case tea.MouseActionMotion:
		m.mouseX = x
		m.mouseY = y
		m.controller.PointerMove(x, y)
	}
	return m, nil
}

func clampScroll(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (m AppModel) maxScroll(frame *gantt.Frame) int {
	if frame == nil {
		return 0
	}
	max := frame.Surface.Height() - m.chartHeight()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the full TUI.
func (m AppModel) View() string {
	if m.loading {
		return "Loading run...\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'ctrl+r' to retry or 'q' to quit.\n", m.err)
	}

	frame := m.controller.Render()
	if frame == nil {
		return "No jobs in this run.\n\nPress 'ctrl+r' to reload or 'q' to quit.\n"
	}

	m.drawOverlays(frame)

	lines := frame.Surface.Lines()
	start := clampScroll(m.scrollY, m.maxScroll(frame))
	end := start + m.chartHeight()
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[start:end], "\n")

	return m.header() + body + "\n" + m.statusLine() + m.footer()
}

// drawOverlays paints the gate popover or the hover tooltip onto the
// frame. The popover wins: while it is open the tooltip stays hidden.
func (m AppModel) drawOverlays(frame *gantt.Frame) {
	c := m.th.Colors
	if pop, ok := m.controller.GatePopover(); ok {
		frame.Surface.Box(pop.X+2, pop.Y+1, popoverLines(pop), c.Text, c.Background, c.GateText)
		return
	}
	if tip, ok := m.controller.TooltipAt(m.mouseX, m.mouseY); ok {
		frame.Surface.Box(tip.X+2, tip.Y+1, tooltipLines(tip), c.Text, c.Background, c.Border)
	}
}

// tooltipLines formats the hover detail for one run segment.
func tooltipLines(tip gantt.Tooltip) []string {
	seg := tip.Segment
	name := tip.Row.JobID
	detail := string(seg.Kind)
	if seg.Kind == gantt.SegmentStep && seg.StepName != "" {
		detail = seg.StepName
	}
	dur := gantt.FormatDuration(seg.End.Sub(seg.Start))
	span := fmt.Sprintf("%s - %s", seg.Start.UTC().Format("15:04:05"), seg.End.UTC().Format("15:04:05"))
	lines := []string{name, fmt.Sprintf("%s  %s", detail, dur), span}
	if seg.Status != "" {
		lines = append(lines, string(seg.Status))
	}
	return lines
}

// popoverLines formats the gate inputs, one per line, keys sorted.
func popoverLines(pop gantt.Popover) []string {
	lines := []string{pop.GateName}
	keys := make([]string, 0, len(pop.Inputs))
	for k := range pop.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, formatGateValue(pop.Inputs[k])))
	}
	return lines
}

// formatGateValue renders one gate input value for display. Booleans
// become check marks; JSON numbers drop a spurious decimal point.
func formatGateValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "✓"
		}
		return "✗"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (m AppModel) header() string {
	run := m.controller.Model().Run
	started := ""
	if !run.Started.IsZero() {
		started = run.Started.UTC().Format("2006-01-02 15:04:05")
	}
	stale := ""
	if m.stale {
		stale = "  [stale]"
	}
	return fmt.Sprintf(" runchart | %s  %s trigger  %s%s\n", run.WorkflowName, run.HookType(), started, stale)
}

// statusLine shows the selected job, the last click notice, or a hover
// affordance for clickable regions.
func (m AppModel) statusLine() string {
	if m.notice.text != "" {
		return " " + m.notice.text + "\n"
	}
	id := m.controller.SelectedID()
	if id == "" {
		if region, ok := m.controller.Hovering(); ok {
			switch region.Kind {
			case gantt.RegionHook, gantt.RegionResult:
				return " click to inspect\n"
			}
		}
		return "\n"
	}
	model := m.controller.Model()
	for _, row := range model.Rows {
		if row.ID != id {
			continue
		}
		dur := ""
		if n := len(row.Segments); n > 0 {
			d := row.Segments[n-1].End.Sub(row.Segments[0].Start)
			dur = "  " + gantt.FormatDuration(d)
		}
		return fmt.Sprintf(" job: %s  %s%s\n", row.JobID, row.Status, dur)
	}
	return "\n"
}

func (m AppModel) footer() string {
	return " drag: pan   wheel: zoom   f: fit   t: theme   ↑/↓: scroll   ctrl+r: refresh   q: quit\n"
}

// Run starts the Bubbletea program. Exits on error.
// Run blocks until the user quits and returns the theme mode that was
// active at exit, so the caller can persist a toggle.
func Run(p domain.SnapshotProvider, mode theme.Mode, refresh time.Duration, heightCap int) theme.Mode {
	prog := tea.NewProgram(
		NewAppModel(p, mode, refresh, heightCap),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := prog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "runchart error: %v\n", err)
		os.Exit(1)
	}
	if app, ok := final.(AppModel); ok {
		return app.mode
	}
	return mode
}
