package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// textTable renders static rows as bar-separated columns under a bold
// header. Styling follows the terminal behind the writer, so piped output
// stays plain text.
type textTable struct {
	headers []string
	rows    [][]string
}

func newTextTable(headers ...string) *textTable {
	return &textTable{headers: headers, rows: make([][]string, 0)}
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	sepStyle := r.NewStyle().Faint(true)

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// Style widths include the padding.
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	line := func(cells []string, style lipgloss.Style) string {
		var sb strings.Builder
		for i := range widths {
			if i > 0 {
				sb.WriteString(sepStyle.Render("|"))
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(line(t.headers, headerStyle))
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)) + "\n")
	for _, row := range t.rows {
		sb.WriteString(line(row, cellStyle))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
