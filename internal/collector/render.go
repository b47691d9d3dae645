// internal/collector/render.go
package collector

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/user/sketchfetch/internal/timesketch"
)

// RenderTable writes an event table to w as a bordered text table.
// When w is a terminal the table is clipped to the terminal width.
func RenderTable(w io.Writer, t *timesketch.EventTable, title string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			tw.SetAllowedRowLength(width)
		}
	}

	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, 0, len(t.Columns))
	for _, col := range t.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, 0, len(t.Columns))
		for _, col := range t.Columns {
			r = append(r, timesketch.FormatCell(row[col]))
		}
		tw.AppendRow(r)
	}

	_ = tw.Render()
}
