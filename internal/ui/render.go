package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Partial cells growing up from the bottom, one per eighth
	lowerBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	// Fire gradient from low to high intensity
	fireColors = []lipgloss.Color{
		lipgloss.Color("#8B0000"), // Dark red (ember)
		lipgloss.Color("#B22222"), // Firebrick
		lipgloss.Color("#DC143C"), // Crimson
		lipgloss.Color("#FF4500"), // Orange-red
		lipgloss.Color("#FF6347"), // Tomato
		lipgloss.Color("#FF8C00"), // Dark orange
		lipgloss.Color("#FFA500"), // Orange
		lipgloss.Color("#FFD700"), // Gold/Yellow
	}
)

// waveformRows draws profile points as columns mirrored around the middle of
// rows text lines. Points of 1.0 or more fill the whole height. The upper
// half uses eighth blocks; the lower half only has half-cell resolution.
func waveformRows(points []float32, rows int) []string {
	rows = max(rows-rows%2, 2)
	half := rows / 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(points)))
	}

	for col, p := range points {
		level := float64(min(max(p, 0), 1)) * float64(half)

		for d := 0; d < half; d++ {
			fill := min(max(level-float64(d), 0), 1)

			// Upper half, d rows above the centre
			if idx := int(fill * 8); idx > 0 {
				grid[half-1-d][col] = lowerBlocks[idx-1]
			}

			// Lower half, d rows below the centre
			switch {
			case fill >= 1:
				grid[half+d][col] = '█'
			case fill >= 0.5:
				grid[half+d][col] = '▀'
			}
		}
	}

	lines := make([]string, rows)
	for r, line := range grid {
		lines[r] = string(line)
	}
	return lines
}

// renderSpectrum creates a fire-coloured two row visualisation of band
// heights, normalised to the tallest band
func renderSpectrum(barHeights []float64, width int) string {
	if len(barHeights) == 0 || width == 0 {
		return ""
	}

	stride := max(len(barHeights)/width, 1)

	maxHeight := 0.0
	for _, h := range barHeights {
		maxHeight = max(maxHeight, h)
	}
	if maxHeight == 0 {
		maxHeight = 1
	}

	displayHeights := make([]float64, 0, width)
	for i := 0; i < len(barHeights) && len(displayHeights) < width; i += stride {
		displayHeights = append(displayHeights, barHeights[i]/maxHeight)
	}

	var result strings.Builder

	// Top row shows the portion above 0.5
	for _, normalised := range displayHeights {
		if normalised <= 0.5 {
			result.WriteString(" ")
			continue
		}
		blockIdx := min(int((normalised-0.5)*2*float64(len(lowerBlocks)-1)), len(lowerBlocks)-1)
		result.WriteString(fireStyle(normalised).Render(string(lowerBlocks[blockIdx])))
	}
	result.WriteString("\n")

	for _, normalised := range displayHeights {
		blockIdx := len(lowerBlocks) - 1
		if normalised < 0.5 {
			blockIdx = min(int(normalised*2*float64(len(lowerBlocks)-1)), len(lowerBlocks)-1)
		}
		result.WriteString(fireStyle(normalised).Render(string(lowerBlocks[blockIdx])))
	}

	return result.String()
}

// fireStyle colours by overall height, hotter is higher
func fireStyle(normalised float64) lipgloss.Style {
	idx := min(max(int(normalised*float64(len(fireColors)-1)), 0), len(fireColors)-1)
	return lipgloss.NewStyle().Foreground(fireColors[idx])
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
