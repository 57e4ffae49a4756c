package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collide/internal/canvas"
)

// colorStyles maps canvas.Color to lipgloss styles.
var colorStyles = map[canvas.Color]lipgloss.Style{
	canvas.ColorDefault:      lipgloss.NewStyle(),
	canvas.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	canvas.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	canvas.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	canvas.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	canvas.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	canvas.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	canvas.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	canvas.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	canvas.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	canvas.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	canvas.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	canvas.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *canvas.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[canvas.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
