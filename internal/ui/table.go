package ui

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Column configures a column in the table.
type Column struct {
	Header       string
	MaxWidth     int    // 0 = unlimited; longer cells are end-truncated
	Ellipsis     string // default: "…"
	PaddingRight int    // default: 2 spaces
}

type Table struct {
	columns []Column
	rows    [][]string

	ShowHeader    bool
	ShowSeparator bool
}

func NewTable(columns ...Column) *Table {
	for i := range columns {
		if columns[i].PaddingRight == 0 {
			columns[i].PaddingRight = 2
		}
		if columns[i].Ellipsis == "" {
			columns[i].Ellipsis = "…"
		}
	}

	return &Table{
		columns:       columns,
		ShowHeader:    true,
		ShowSeparator: true,
	}
}

func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	widths := t.computeWidths()

	if t.ShowHeader {
		headerCells := make([]string, len(t.columns))
		for i, c := range t.columns {
			headerCells[i] = c.Header
		}
		if err := t.writeRow(w, headerCells, widths); err != nil {
			return err
		}
		if t.ShowSeparator {
			if err := t.writeSeparator(w, widths); err != nil {
				return err
			}
		}
	}

	for _, row := range t.rows {
		if err := t.writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) computeWidths() []int {
	widths := make([]int, len(t.columns))

	for i, col := range t.columns {
		widths[i] = t.cellWidth(i, col.Header)
	}
	for _, row := range t.rows {
		for i := range t.columns {
			if w := t.cellWidth(i, row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) cellWidth(col int, s string) int {
	w := utf8.RuneCountInString(s)
	if mw := t.columns[col].MaxWidth; mw > 0 && w > mw {
		return mw
	}
	return w
}

func (t *Table) writeRow(w io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	for i, cell := range cells {
		col := t.columns[i]
		cell = truncateEnd(cell, widths[i], col.Ellipsis)
		b.WriteString(cell)
		if pad := widths[i] - utf8.RuneCountInString(cell) + col.PaddingRight; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Table) writeSeparator(w io.Writer, widths []int) error {
	var b strings.Builder
	for i, width := range widths {
		b.WriteString(strings.Repeat("-", width))
		b.WriteString(strings.Repeat(" ", t.columns[i].PaddingRight))
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func truncateEnd(s string, width int, ellipsis string) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	keep := width - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}
