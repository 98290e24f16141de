package gantt

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Rect is a cell-coordinate rectangle. Click and hover regions are Rects
// recomputed on every frame and never persisted across frames.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Expand grows the rectangle by n cells horizontally on both sides,
// widening the pointer target the way the original labels did.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y, W: r.W + 2*n, H: r.H}
}

// wideTail marks the second cell of a double-width rune.
const wideTail rune = 0

// cell is one styled character position.
type cell struct {
	r      rune
	fg, bg lipgloss.Color
}

// Surface is an immediate-mode 2D drawing target in terminal cells. All
// draw calls clip silently at the edges; later draws overwrite earlier
// ones, which gives the renderer its back-to-front priority.
type Surface struct {
	width, height int
	cells         [][]cell
}

// NewSurface returns a surface filled with spaces on the given background.
func NewSurface(width, height int, bg lipgloss.Color) *Surface {
	s := &Surface{width: width, height: height}
	s.cells = make([][]cell, height)
	for y := range s.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' ', bg: bg}
		}
		s.cells[y] = row
	}
	return s
}

// Width returns the surface width in cells.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in cells.
func (s *Surface) Height() int { return s.height }

// Set places a single rune, keeping the cell background when bg is empty.
func (s *Surface) Set(x, y int, r rune, fg, bg lipgloss.Color) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	c := &s.cells[y][x]
	c.r = r
	c.fg = fg
	if bg != "" {
		c.bg = bg
	}
}

// FillRect paints a rectangle's background, clearing its runes.
func (s *Surface) FillRect(r Rect, bg lipgloss.Color) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			s.Set(x, y, ' ', "", bg)
		}
	}
}

// MeasureText returns the display width of a string in cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// Text draws a string starting at (x, y) and returns the width drawn.
// Double-width runes occupy two cells.
func (s *Surface) Text(x, y int, text string, fg, bg lipgloss.Color) int {
	cx := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.Set(cx, y, r, fg, bg)
		if w == 2 {
			s.Set(cx+1, y, wideTail, fg, bg)
		}
		cx += w
	}
	return cx - x
}

// TruncText truncates text to maxWidth cells with a trailing ellipsis.
func TruncText(text string, maxWidth int) string {
	if MeasureText(text) <= maxWidth {
		return text
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

// HLine draws a horizontal run of the given rune over [x0, x1].
func (s *Surface) HLine(x0, x1, y int, r rune, fg lipgloss.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		s.Set(x, y, r, fg, "")
	}
}

// VLine draws a vertical run of the given rune over [y0, y1].
func (s *Surface) VLine(y0, y1, x int, r rune, fg lipgloss.Color) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		s.Set(x, y, r, fg, "")
	}
}

// Diamond draws a diamond marker at (x, y).
func (s *Surface) Diamond(x, y int, fg lipgloss.Color) {
	s.Set(x, y, '◆', fg, "")
}

// labelPadding and labelMinWidth size the measured background rectangle
// behind every label so pointer hit-testing against it is exact.
const (
	labelPadding  = 1
	labelMinWidth = 8
)

// Label draws text on a measured background rectangle centered on x and
// returns the rectangle. The box is clamped to the left surface edge.
func (s *Surface) Label(x, y int, text string, fg, bg, border lipgloss.Color) Rect {
	w := MeasureText(text) + 2*labelPadding
	if w < labelMinWidth {
		w = labelMinWidth
	}
	x0 := x - w/2
	if x0 < 0 {
		x0 = 0
	}
	r := Rect{X: x0, Y: y, W: w, H: 1}
	s.FillRect(r, bg)
	s.Set(x0, y, '▕', border, bg)
	s.Set(x0+w-1, y, '▏', border, bg)
	s.Text(x0+(w-MeasureText(text))/2, y, text, fg, bg)
	return r
}

// Box draws a bordered overlay (tooltip, popover) whose top-left corner is
// nudged back inside the surface when it would overflow.
func (s *Surface) Box(x, y int, lines []string, fg, bg, border lipgloss.Color) {
	inner := 0
	for _, line := range lines {
		if w := MeasureText(line); w > inner {
			inner = w
		}
	}
	w := inner + 4
	h := len(lines) + 2
	if x+w > s.width {
		x = s.width - w
	}
	if y+h > s.height {
		y = s.height - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	s.FillRect(Rect{X: x, Y: y, W: w, H: h}, bg)
	s.Set(x, y, '┌', border, bg)
	s.Set(x+w-1, y, '┐', border, bg)
	s.Set(x, y+h-1, '└', border, bg)
	s.Set(x+w-1, y+h-1, '┘', border, bg)
	s.HLine(x+1, x+w-2, y, '─', border)
	s.HLine(x+1, x+w-2, y+h-1, '─', border)
	s.VLine(y+1, y+h-2, x, '│', border)
	s.VLine(y+1, y+h-2, x+w-1, '│', border)
	for i, line := range lines {
		s.Text(x+2, y+1+i, TruncText(line, inner), fg, bg)
	}
}

// Lines renders the surface to one styled string per row, grouping
// same-styled cell runs to keep the output compact.
func (s *Surface) Lines() []string {
	lines := make([]string, s.height)
	var run strings.Builder
	for y := 0; y < s.height; y++ {
		var out strings.Builder
		run.Reset()
		var curFg, curBg lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().Foreground(curFg).Background(curBg)
			out.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < s.width; x++ {
			c := s.cells[y][x]
			if c.r == wideTail {
				continue
			}
			if c.fg != curFg || c.bg != curBg {
				flush()
				curFg, curBg = c.fg, c.bg
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = out.String()
	}
	return lines
}

// String renders the whole surface.
func (s *Surface) String() string {
	return strings.Join(s.Lines(), "\n")
}
