package output

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)

	// MutedStyle dims secondary cells such as placeholder states.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// WarnStyle highlights cells that need attention.
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// RenderTable creates a formatted table with proper column alignment.
// Column widths come from lipgloss/table. No borders are rendered.
// Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}
