package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderOptions controls the text report.
type RenderOptions struct {
	// MaxExamples limits the names shown per street type; 0 shows all.
	MaxExamples int
	// MaxCellWidth truncates long cells to this display width; 0 disables truncation.
	MaxCellWidth int
}

// Render writes the report as three aligned tables.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	var sections []string

	streetRows := make([][]string, 0, len(r.StreetTypes))
	for _, e := range r.StreetTypes {
		names := e.Names
		more := ""

		if opts.MaxExamples > 0 && len(names) > opts.MaxExamples {
			more = fmt.Sprintf(" (+%d more)", len(names)-opts.MaxExamples)
			names = names[:opts.MaxExamples]
		}

		streetRows = append(streetRows, []string{e.Token, strconv.Itoa(len(e.Names)), strings.Join(names, "; ") + more})
	}

	sections = append(sections, section("Street Types", []string{"Token", "Names", "Examples"}, streetRows, opts))
	sections = append(sections, section("Post Codes", []string{"Value", "Count"}, countRows(r.Postcodes), opts))
	sections = append(sections, section("Counties", []string{"Value", "Count"}, countRows(r.Counties), opts))

	_, err := io.WriteString(w, strings.Join(sections, "\n"))

	return err
}

func countRows(entries []CountEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Value, strconv.Itoa(e.Count)})
	}

	return rows
}

func section(title string, header []string, rows [][]string, opts RenderOptions) string {
	var sb strings.Builder

	sb.WriteString(title + ":\n")

	if len(rows) == 0 {
		sb.WriteString("(none)\n")
		return sb.String()
	}

	for _, line := range formatTable(header, rows, opts.MaxCellWidth) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatTable lays out a pipe table padded by display width, so that wide
// runes in street names keep the columns straight.
func formatTable(header []string, rows [][]string, maxCell int) []string {
	table := make([][]string, 0, len(rows)+1)
	table = append(table, header)

	for _, row := range rows {
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}

			if maxCell > 0 && runewidth.StringWidth(cells[i]) > maxCell {
				cells[i] = runewidth.Truncate(cells[i], maxCell, "...")
			}
		}

		table = append(table, cells)
	}

	colWidths := make([]int, len(header))
	for _, row := range table {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table)+1)
	for i, row := range table {
		result = append(result, formatRow(row, colWidths))

		if i == 0 {
			sep := make([]string, len(colWidths))
			for j, w := range colWidths {
				sep[j] = strings.Repeat("-", w)
			}
			result = append(result, formatRow(sep, colWidths))
		}
	}

	return result
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, content := range cells {
		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := widths[j] - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
