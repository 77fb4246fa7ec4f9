package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"pointmap/internal/geom"
)

type recordItem struct {
	index int
	rec   geom.PointRecord
}

func (r recordItem) Title() string { return r.rec.Label }

func (r recordItem) Description() string {
	if r.rec.Address != "" {
		return r.rec.Address
	}
	return fmt.Sprintf("%.5f, %.5f", r.rec.Latitude, r.rec.Longitude)
}

func (r recordItem) FilterValue() string { return r.rec.Label + " " + r.rec.Address }

func newRecordList() list.Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	l := list.New(nil, d, 0, 0)
	l.Title = "Records"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return l
}

// refreshRecords fills the sidebar from the installed layer.
func (m *Model) refreshRecords() tea.Cmd {
	fc := m.ctrl.Collection()
	items := make([]list.Item, 0, fc.Len())
	for i := 0; i < fc.Len(); i++ {
		items = append(items, recordItem{index: i, rec: fc.At(i)})
	}
	return m.l.SetItems(items)
}
