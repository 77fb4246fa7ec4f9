package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pointmap/internal/view"
)

const idleHint = "Hover on a store to view its information."

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	title := m.cfg.Style.Title
	if title == "" {
		title = "pointmap"
	}
	header := m.styles.title.Render(fmt.Sprintf(" %s ─ %s ", title, m.ctrl.State()))
	header = lipgloss.NewStyle().Width(lo.contentW).Render(header)

	// Map viewport
	var mapView string
	if m.showAttrs {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lo.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lo.mapH-2, 20))
		box := m.styles.box.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, box)
	} else {
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).Render(m.renderMap(lo.mapW, lo.mapH))
	}

	parts := []string{}
	if m.showSidebar {
		parts = append(parts, lipgloss.NewStyle().Width(lo.sidebarW).Render(m.l.View()), " ")
	}
	parts = append(parts, mapView, " ", m.renderInfo(lo.infoW))
	body := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	// Footer
	statusStyle := m.styles.dim
	if m.ctrl.State() == view.Failed {
		statusStyle = m.styles.err
	}
	status := statusStyle.Render(" " + m.status + " ")
	vp := m.ctrl.Viewport()
	coords := m.styles.dim.Render(fmt.Sprintf("  z=%.1f", vp.Zoom))
	if m.hoverHasGeo {
		coords = m.styles.dim.Render(fmt.Sprintf("  lon=%.5f lat=%.5f z=%.1f  ", m.hoverLon, m.hoverLat, vp.Zoom))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, lo.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lo.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return m.styles.app.Width(lo.contentW).Height(m.height).Render(ui)
}

// renderInfo is the side panel: the hovered record, or a hint.
func (m Model) renderInfo(w int) string {
	inner := max(8, w-4)
	var lines []string
	switch m.ctrl.State() {
	case view.Uninitialized, view.Loading:
		lines = []string{m.styles.dim.Render("loading points…")}
	case view.Failed:
		lines = []string{
			m.styles.err.Render("Could not load points"),
			lipgloss.NewStyle().Width(inner).Render(m.ctrl.Err().Error()),
		}
	default:
		sel := m.ctrl.Selection()
		switch {
		case !sel.Idle():
			r := sel.Active
			lines = append(lines, m.styles.title.Render(truncate(r.Label, inner)))
			if r.Address != "" {
				lines = append(lines, lipgloss.NewStyle().Width(inner).Render(r.Address))
			}
			if r.Phone != "" {
				lines = append(lines, "tel: "+r.Phone)
			}
		case m.ctrl.Empty():
			lines = []string{m.styles.dim.Render("No points in this dataset.")}
		default:
			lines = []string{lipgloss.NewStyle().Width(inner).Render(idleHint)}
		}
	}
	return m.styles.box.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"c center",
		"Tab records",
		"a attrs",
		"l labels",
		"h help",
		"q quit",
	}
	return m.styles.dim.Render("  " + strings.Join(keys, "  "))
}
