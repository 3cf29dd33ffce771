// Package cli provides the command-line interface for lut3d.
package cli

import (
	"strings"
	"unicode/utf8"
)

// Table renders rows as aligned plain-text columns.
type Table struct {
	headers    []string
	rows       [][]string
	padding    int
	maxWidths  map[int]int  // Maximum width per column index (0 = no limit)
	alignRight map[int]bool // Right-align these columns (numbers)
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:    headers,
		padding:    2,
		maxWidths:  make(map[int]int),
		alignRight: make(map[int]bool),
	}
}

// SetColumnMaxWidth wraps text in a column at word boundaries.
func (t *Table) SetColumnMaxWidth(colIndex int, maxWidth int) {
	t.maxWidths[colIndex] = maxWidth
}

// SetAlignRight right-aligns a column.
func (t *Table) SetAlignRight(colIndex int) {
	t.alignRight[colIndex] = true
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row ...string) {
	newRow := make([]string, len(t.headers))
	copy(newRow, row)
	t.rows = append(t.rows, newRow)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	cells := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		cells[r] = make([][]string, len(row))
		for c, cell := range row {
			cells[r][c] = wrapText(cell, t.maxWidths[c])
		}
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range cells {
		for c, lines := range row {
			for _, line := range lines {
				widths[c] = max(widths[c], utf8.RuneCountInString(line))
			}
		}
	}

	var sb strings.Builder
	sep := strings.Repeat(" ", t.padding)
	writeLine := func(parts []string) {
		sb.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		sb.WriteString("\n")
	}

	parts := make([]string, len(t.headers))
	for i, h := range t.headers {
		parts[i] = t.pad(i, h, widths[i])
	}
	writeLine(parts)

	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	writeLine(parts)

	for _, row := range cells {
		height := 1
		for _, lines := range row {
			height = max(height, len(lines))
		}
		for l := 0; l < height; l++ {
			for c := range t.headers {
				text := ""
				if l < len(row[c]) {
					text = row[c][l]
				}
				parts[c] = t.pad(c, text, widths[c])
			}
			writeLine(parts)
		}
	}

	return sb.String()
}

func (t *Table) pad(col int, s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	fill := strings.Repeat(" ", width-n)
	if t.alignRight[col] {
		return fill + s
	}
	return s + fill
}

// wrapText wraps text to fit within width, breaking at word boundaries.
// Words longer than width are split.
func wrapText(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
