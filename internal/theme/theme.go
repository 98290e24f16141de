// Package theme supplies the resolved style configuration for the Gantt
// surface: colors for each job status and segment kind, and the fixed cell
// dimensions of the layout. A Theme is a pure function of the mode flag.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runchart/runchart/internal/domain"
)

// Mode selects between the light and dark palettes.
type Mode int

const (
	Light Mode = iota
	Dark
)

// ParseMode maps a config string to a Mode, defaulting to Dark.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "light") {
		return Light
	}
	return Dark
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Segment kind names used for color lookup.
const (
	SegmentQueued     = "queued"
	SegmentWorkerInit = "worker_init"
	SegmentStep       = "step"
	SegmentCompleted  = "completed"
)

// Colors holds every color the renderer needs.
type Colors struct {
	// Status colors.
	Success    lipgloss.Color
	Building   lipgloss.Color
	Fail       lipgloss.Color
	Waiting    lipgloss.Color
	Scheduling lipgloss.Color

	// Segment colors.
	Queued     lipgloss.Color
	WorkerInit lipgloss.Color
	Step       lipgloss.Color
	Completed  lipgloss.Color

	// Base surface colors.
	Background    lipgloss.Color
	Border        lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Line          lipgloss.Color

	// Time axis.
	AxisBackground lipgloss.Color
	AxisText       lipgloss.Color

	// Stage header bands.
	StageBackground lipgloss.Color
	StageText       lipgloss.Color

	// Job rows.
	RowText     lipgloss.Color
	RowSelected lipgloss.Color

	// Hook marker.
	HookText lipgloss.Color

	// Gate markers.
	GateText lipgloss.Color
}

// Dimensions are the fixed layout constants, in surface cells.
type Dimensions struct {
	RowHeight         int
	StageHeaderHeight int
	StageSpacing      int
	AxisHeight        int
	LeftMargin        int
	RightPadding      int
}

// Theme is a fully resolved style configuration.
type Theme struct {
	Mode       Mode
	Colors     Colors
	Dimensions Dimensions
}

var dimensions = Dimensions{
	RowHeight:         3,
	StageHeaderHeight: 1,
	StageSpacing:      1,
	AxisHeight:        2,
	LeftMargin:        28,
	RightPadding:      6,
}

var lightColors = Colors{
	Success:    lipgloss.Color("#21BA45"),
	Building:   lipgloss.Color("#4FA3E3"),
	Fail:       lipgloss.Color("#FF4F60"),
	Waiting:    lipgloss.Color("#FE9A76"),
	Scheduling: lipgloss.Color("#4FA3E3"),

	Queued:     lipgloss.Color("#FE9A76"),
	WorkerInit: lipgloss.Color("#4FA3E3"),
	Step:       lipgloss.Color("#4FA3E3"),
	Completed:  lipgloss.Color("#21BA45"),

	Background:    lipgloss.Color("#FFFFFF"),
	Border:        lipgloss.Color("#D9D9D9"),
	Text:          lipgloss.Color("#262626"),
	TextSecondary: lipgloss.Color("#666666"),
	Line:          lipgloss.Color("#8C8C8C"),

	AxisBackground: lipgloss.Color("#FAFAFA"),
	AxisText:       lipgloss.Color("#666666"),

	StageBackground: lipgloss.Color("#F0F0F0"),
	StageText:       lipgloss.Color("#333333"),

	RowText:     lipgloss.Color("#333333"),
	RowSelected: lipgloss.Color("#E6F7FF"),

	HookText: lipgloss.Color("#D46B08"),
	GateText: lipgloss.Color("#52C41A"),
}

var darkColors = Colors{
	Success:    lipgloss.Color("#21BA45"),
	Building:   lipgloss.Color("#4FA3E3"),
	Fail:       lipgloss.Color("#FF4F60"),
	Waiting:    lipgloss.Color("#FE9A76"),
	Scheduling: lipgloss.Color("#4FA3E3"),

	Queued:     lipgloss.Color("#FE9A76"),
	WorkerInit: lipgloss.Color("#4FA3E3"),
	Step:       lipgloss.Color("#4FA3E3"),
	Completed:  lipgloss.Color("#21BA45"),

	Background:    lipgloss.Color("#141414"),
	Border:        lipgloss.Color("#434141"),
	Text:          lipgloss.Color("#CCCCCC"),
	TextSecondary: lipgloss.Color("#D9D9D9"),
	Line:          lipgloss.Color("#595959"),

	AxisBackground: lipgloss.Color("#1F1F1F"),
	AxisText:       lipgloss.Color("#D9D9D9"),

	StageBackground: lipgloss.Color("#1A1A1A"),
	StageText:       lipgloss.Color("#D9D9D9"),

	RowText:     lipgloss.Color("#D9D9D9"),
	RowSelected: lipgloss.Color("#1F3A4D"),

	HookText: lipgloss.Color("#FFA940"),
	GateText: lipgloss.Color("#95DE64"),
}

// Resolve returns the full theme for the given mode.
func Resolve(mode Mode) Theme {
	colors := darkColors
	if mode == Light {
		colors = lightColors
	}
	return Theme{Mode: mode, Colors: colors, Dimensions: dimensions}
}

// StatusColor returns the color for a job or step status.
func (t Theme) StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusSuccess:
		return t.Colors.Success
	case domain.StatusBuilding:
		return t.Colors.Building
	case domain.StatusFail:
		return t.Colors.Fail
	case domain.StatusWaiting:
		return t.Colors.Waiting
	case domain.StatusScheduling:
		return t.Colors.Scheduling
	default:
		return t.Colors.TextSecondary
	}
}

// SegmentColor returns the color for a segment kind.
func (t Theme) SegmentColor(kind string) lipgloss.Color {
	switch kind {
	case SegmentQueued:
		return t.Colors.Queued
	case SegmentWorkerInit:
		return t.Colors.WorkerInit
	case SegmentStep:
		return t.Colors.Step
	case SegmentCompleted:
		return t.Colors.Completed
	default:
		return t.Colors.TextSecondary
	}
}
