package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/scene"
)

// cellWidth is the number of terminal columns one playfield cell takes,
// so cubes look roughly square.
const cellWidth = 2

// hudWidth is the width of the score panel right of the playfield.
const hudWidth = 18

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board is everything the renderer needs for one frame.
type Board struct {
	Width, Height int // playfield size in cells, border included
	Snapshot      scene.Snapshot
	State         core.GameState
	HighScore     int
}

// projector maps scene coordinates to screen positions: a front view,
// looking down -z, with y growing upwards.
type projector struct {
	originX, originY int
	height           int
}

func newProjector(s *core.Screen, w, h int) projector {
	total := w*cellWidth + 2 + hudWidth
	ox := (s.Width() - total) / 2
	oy := (s.Height() - h) / 2
	if ox < 0 {
		ox = 0
	}
	if oy < 0 {
		oy = 0
	}
	return projector{originX: ox, originY: oy, height: h}
}

// cell returns the screen column and row of the cell centered at (x, y).
func (p projector) cell(x, y float64) (int, int) {
	cx := int(math.Round(x))
	cy := int(math.Round(y))
	return p.originX + cx*cellWidth, p.originY + (p.height - 1 - cy)
}

func (p projector) put(s *core.Screen, x, y float64, glyph string, c core.Color) {
	sx, sy := p.cell(x, y)
	s.DrawColoredText(sx, sy, glyph, c)
}

// DrawBoard renders the playfield and the score panel into s.
func DrawBoard(s *core.Screen, b Board) {
	s.Clear()
	p := newProjector(s, b.Width, b.Height)
	snap := b.Snapshot

	for _, m := range snap.Markers {
		p.put(s, m.Position.X(), m.Position.Y(), " .", core.ColorGray)
	}
	for _, seg := range snap.Probes {
		drawSegment(s, p, seg)
	}
	for _, v := range snap.Border {
		p.put(s, v.Position.X(), v.Position.Y(), "▓▓", v.Color)
	}
	for _, v := range snap.Settled {
		p.put(s, v.Position.X(), v.Position.Y(), "██", v.Color)
	}
	for _, v := range snap.Active {
		p.put(s, v.Position.X(), v.Position.Y(), "██", v.Color)
	}

	drawHUD(s, p.originX+b.Width*cellWidth+2, p.originY, b)
}

// drawSegment marks the cells a probe helper passes through, excluding
// its origin cell.
func drawSegment(s *core.Screen, p projector, seg scene.Segment) {
	d := seg.To.Sub(seg.From)
	length := d.Len()
	if length == 0 {
		return
	}
	glyph := "──"
	if math.Abs(d.Y()) > math.Abs(d.X()) {
		glyph = "│ "
	}
	step := d.Mul(1 / length)
	for t := 1.0; t <= length+1e-9; t++ {
		at := seg.From.Add(step.Mul(t))
		p.put(s, at.X(), at.Y(), glyph, core.ColorMagenta)
	}
}

// hudHeight is the number of rows of the score panel, frame included.
const hudHeight = 13

func drawHUD(s *core.Screen, x, y int, b Board) {
	st := b.State
	panel := core.NewRect(x, y, hudWidth, hudHeight)
	s.DrawBox(panel)

	in := panel.Inset(2, 1)
	x, y = in.X, in.Y
	s.DrawColoredText(x, y, "RAYTRIS", core.ColorCyan)
	s.DrawText(x, y+2, fmt.Sprintf("Score  %d", st.Score))
	s.DrawText(x, y+3, fmt.Sprintf("Lines  %d", st.Lines))
	s.DrawText(x, y+4, fmt.Sprintf("Level  %d", st.Level))
	s.DrawText(x, y+5, fmt.Sprintf("Pieces %d", st.Pieces))
	s.DrawColoredText(x, y+7, fmt.Sprintf("Best   %d", max(b.HighScore, st.Score)), core.ColorYellow)

	switch {
	case st.GameOver:
		s.DrawColoredText(x, y+9, "GAME OVER", core.ColorRed)
		s.DrawText(x, y+10, "r: restart")
	case st.Paused:
		s.DrawColoredText(x, y+9, "PAUSED", core.ColorYellow)
	}
}
