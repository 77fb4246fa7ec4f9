package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrs rebuilds the attribute table from the loaded collection.
// Returns false when there is nothing to show.
func (m *Model) refreshAttrs() bool {
	fc := m.ctrl.Collection()
	if fc.Len() == 0 {
		return false
	}
	widths := []int{4, 4, 7, 5, 10, 9}
	rows := make([]table.Row, 0, fc.Len())
	for i := 0; i < fc.Len(); i++ {
		r := fc.At(i)
		row := table.Row{
			strconv.Itoa(i + 1),
			r.Label,
			r.Address,
			r.Phone,
			fmt.Sprintf("%.5f", r.Longitude),
			fmt.Sprintf("%.5f", r.Latitude),
		}
		for j, cell := range row {
			widths[j] = max(widths[j], len([]rune(cell))+1)
		}
		rows = append(rows, row)
	}
	const maxColW = 28
	titles := []string{"#", "Name", "Address", "Phone", "Longitude", "Latitude"}
	cols := make([]table.Column, len(titles))
	for i, t := range titles {
		cols[i] = table.Column{Title: t, Width: min(widths[i], maxColW)}
	}
	// clear rows first so a narrower column set never renders stale rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	return true
}
