package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// RenderTable formats rows as aligned columns with a bold header line.
// Rows shorter than the header are padded with empty cells.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(formatRow(headers, widths)))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(formatRow(row, widths))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			// Last column stays unpadded so lines don't trail spaces.
			parts[i] = cell
			continue
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
