package tui

import (
	"errors"
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"pointmap/internal/geom"
	"pointmap/internal/view"
)

// panCells is how far one arrow key moves the map.
const panCells = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lo := m.layout()
		m.l.SetSize(max(0, lo.sidebarW-2), lo.contentH-2)
		return m, nil

	case loadedMsg:
		cmd := m.handleLoaded(msg)
		return m, cmd

	case frameMsg:
		m.eng.current()
		if m.eng.flying {
			return m, m.tick()
		}
		m.animating = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) dispatch(ev view.Event) tea.Cmd {
	if err := m.ctrl.Dispatch(ev); err != nil {
		if !errors.Is(err, view.ErrIllegalTransition) {
			m.status = "error: " + err.Error()
		}
		m.log.Debug("event rejected", "err", err)
		return nil
	}
	if m.eng.flying && !m.animating {
		m.animating = true
		return m.tick()
	}
	return nil
}

func (m *Model) handleLoaded(msg loadedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(view.LoadFailed{Err: msg.err})
		if m.ctrl.State() == view.Failed {
			m.status = "load error: " + msg.err.Error()
		}
		return nil
	}
	fallback := geom.Centroid{Longitude: m.cfg.InitialCenter.Lng, Latitude: m.cfg.InitialCenter.Lat}
	fc, c, err := geom.Aggregate(msg.res.Records, fallback)
	cmd := m.dispatch(view.Loaded{
		Collection: fc,
		Centroid:   c,
		Rejected:   len(msg.res.Rejected),
		Empty:      geom.IsEmptyDataset(err),
	})
	if m.ctrl.State() != view.Centered {
		return nil
	}
	if m.ctrl.Empty() {
		m.status = fmt.Sprintf("no valid points (%d skipped)", len(msg.res.Rejected))
	} else {
		m.status = fmt.Sprintf("loaded %d points (%d skipped)", fc.Len(), len(msg.res.Rejected))
	}
	return tea.Batch(cmd, m.refreshRecords())
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	_ = m.ctrl.Dispatch(view.Unmounted{})
	m.cancel()
	return m, tea.Quit
}

// pan moves the center by dx, dy map cells.
func (m *Model) pan(dx, dy int) tea.Cmd {
	lo := m.layout()
	p := newProjection(m.ctrl.Viewport(), lo.mapW, lo.mapH)
	lon, lat := p.cellToLonLat(lo.mapW/2+dx, lo.mapH/2+dy)
	return m.dispatch(view.FlyTo{Lng: lon, Lat: lat})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, keys belong to the list.
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "+", "=":
		cmd = m.dispatch(view.ZoomBy{Delta: 1})
	case "-", "_":
		cmd = m.dispatch(view.ZoomBy{Delta: -1})
	case "c":
		c := m.ctrl.Centroid()
		cmd = m.dispatch(view.FlyTo{Lng: c.Longitude, Lat: c.Latitude, Zoom: m.cfg.FocusZoom, Animate: true})
	case "tab":
		m.showSidebar = !m.showSidebar
		lo := m.layout()
		m.l.SetSize(max(0, lo.sidebarW-2), lo.contentH-2)
	case "h":
		m.helpVisible = !m.helpVisible
	case "l":
		m.showLabels = !m.showLabels
		m.status = fmt.Sprintf("labels: %v", m.showLabels)
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs && !m.refreshAttrs() {
			m.showAttrs = false
			m.status = "no records to show"
		}
	case "esc":
		m.showAttrs = false
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(recordItem); ok {
				cmd = m.dispatch(view.FlyTo{Lng: it.rec.Longitude, Lat: it.rec.Latitude, Animate: true})
				m.dispatch(view.MarkerEnter{Index: it.index})
				m.status = "selected: " + it.rec.Label
			}
		}
	case "up", "down", "left", "right":
		if m.showAttrs {
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		if m.showSidebar && (msg.String() == "up" || msg.String() == "down") {
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		var dx, dy int
		switch msg.String() {
		case "up":
			dy = -panCells / 2
		case "down":
			dy = panCells / 2
		case "left":
			dx = -panCells
		case "right":
			dx = panCells
		}
		cmd = m.pan(dx, dy)
	default:
		if m.showSidebar {
			m.l, cmd = m.l.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lo := m.layout()
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		cmd = m.dispatch(view.ZoomBy{Delta: 0.5})
	case tea.MouseButtonWheelDown:
		cmd = m.dispatch(view.ZoomBy{Delta: -0.5})
	}

	cx, cy := msg.X-lo.mapX, msg.Y-lo.mapY
	inside := !m.showAttrs && cx >= 0 && cx < lo.mapW && cy >= 0 && cy < lo.mapH
	if !inside {
		m.hovering, m.hoverHasGeo = false, false
		m.leave()
		return m, cmd
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	if m.eng.ready {
		p := newProjection(m.eng.current(), lo.mapW, lo.mapH)
		m.hoverLon, m.hoverLat = p.cellToLonLat(cx, cy)
		m.hoverHasGeo = true
	}

	idx, hit := m.hitTest(cx, cy, lo.mapW, lo.mapH)
	sel := m.ctrl.Selection()
	switch {
	case hit && (sel.Idle() || sel.Index != idx):
		m.dispatch(view.MarkerEnter{Index: idx})
	case !hit:
		m.leave()
	}
	return m, cmd
}

func (m *Model) leave() {
	if !m.ctrl.Selection().Idle() {
		m.dispatch(view.MarkerLeave{})
	}
}
