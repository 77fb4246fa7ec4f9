package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pointmap/internal/geom"
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellGrid
	cellMarker
	cellLabel
	cellHover
)

type grid struct {
	w, h  int
	runes []rune
	kinds []cellKind
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([]rune, w*h), kinds: make([]cellKind, w*h)}
	for i := range g.runes {
		g.runes[i] = ' '
	}
	return g
}

func (g *grid) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y*g.w+x] = r
	g.kinds[y*g.w+x] = k
}

func (g *grid) kind(x, y int) cellKind {
	return g.kinds[y*g.w+x]
}

// markerPos is a marker projected into the map area.
type markerPos struct {
	index  int
	mx, my int
}

// projectMarkers returns the visible markers of the installed layer in
// source order.
func (m Model) projectMarkers(p projection) []markerPos {
	if m.eng.layer == nil {
		return nil
	}
	src := m.eng.layer.Source
	out := make([]markerPos, 0, src.Len())
	for i := 0; i < src.Len(); i++ {
		r := src.At(i)
		mx, my, ok := p.toMicro(r.Longitude, r.Latitude)
		if !ok {
			continue
		}
		out = append(out, markerPos{index: i, mx: mx, my: my})
	}
	return out
}

// graticuleStep picks a degree spacing giving a handful of lines per span.
func graticuleStep(span float64) float64 {
	steps := []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 30, 45, 90}
	for _, s := range steps {
		if span/s <= 6 {
			return s
		}
	}
	return 90
}

func (m Model) drawGraticule(br *brailleBuf, p projection, w, h int) {
	west, north := p.cellToLonLat(0, 0)
	east, south := p.cellToLonLat(w-1, h-1)
	step := graticuleStep(math.Max(east-west, north-south))
	_, centerLat := p.cellToLonLat(w/2, h/2)
	centerLon, _ := p.cellToLonLat(w/2, h/2)
	for lon := math.Ceil(west/step) * step; lon <= east; lon += step {
		mx, _, _ := p.toMicro(lon, centerLat)
		for my := 0; my < p.hMic; my += 3 {
			br.setPixel(mx, my)
		}
	}
	for lat := math.Ceil(south/step) * step; lat <= north; lat += step {
		_, my, _ := p.toMicro(centerLon, lat)
		for mx := 0; mx < p.wMic; mx += 3 {
			br.setPixel(mx, my)
		}
	}
}

// renderMap draws the graticule, markers, labels and the hover ring into a
// w x h string.
func (m Model) renderMap(w, h int) string {
	g := newGrid(w, h)
	if !m.eng.ready || m.eng.removed {
		return renderGrid(g, m.styles)
	}
	p := newProjection(m.eng.current(), w, h)

	gridBuf := newBrailleBuf(w, h)
	m.drawGraticule(gridBuf, p, w, h)
	markerBuf := newBrailleBuf(w, h)
	markers := m.projectMarkers(p)
	for _, mk := range markers {
		markerBuf.dot(mk.mx, mk.my)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r := markerBuf.at(x, y); r != 0 {
				g.set(x, y, r, cellMarker)
			} else if r := gridBuf.at(x, y); r != 0 {
				g.set(x, y, r, cellGrid)
			}
		}
	}

	if m.showLabels {
		for _, mk := range markers {
			m.placeLabel(g, m.eng.layer.Source.At(mk.index), mk.mx/2, mk.my/4+1)
		}
	}

	if sel := m.ctrl.Selection(); !sel.Idle() {
		for _, mk := range markers {
			if mk.index == sel.Index {
				g.set(mk.mx/2, mk.my/4, '◯', cellHover)
				break
			}
		}
	}
	return renderGrid(g, m.styles)
}

// placeLabel centers text under a marker, skipping it when it would cover
// another marker or label.
func (m Model) placeLabel(g *grid, r geom.PointRecord, cx, cy int) {
	text := []rune(truncate(r.Label, 24))
	if cy >= g.h || len(text) == 0 {
		return
	}
	x0 := cx - len(text)/2
	if x0 < 0 || x0+len(text) > g.w {
		return
	}
	for i := range text {
		if k := g.kind(x0+i, cy); k == cellMarker || k == cellLabel || k == cellHover {
			return
		}
	}
	for i, ch := range text {
		g.set(x0+i, cy, ch, cellLabel)
	}
}

func renderGrid(g *grid, st styles) string {
	style := func(k cellKind) lipgloss.Style {
		switch k {
		case cellGrid:
			return st.grid
		case cellMarker:
			return st.marker
		case cellLabel:
			return st.label
		case cellHover:
			return st.hover
		}
		return lipgloss.NewStyle()
	}
	lines := make([]string, g.h)
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		sb.Reset()
		row := g.runes[y*g.w : (y+1)*g.w]
		kinds := g.kinds[y*g.w : (y+1)*g.w]
		start := 0
		for x := 1; x <= g.w; x++ {
			if x < g.w && kinds[x] == kinds[start] {
				continue
			}
			run := string(row[start:x])
			if kinds[start] == cellBlank {
				sb.WriteString(run)
			} else {
				sb.WriteString(style(kinds[start]).Render(run))
			}
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// hitTest returns the marker nearest to the map cell, within two cells
// horizontally and one vertically.
func (m Model) hitTest(cx, cy, w, h int) (int, bool) {
	if !m.eng.ready || m.eng.layer == nil {
		return 0, false
	}
	p := newProjection(m.eng.current(), w, h)
	hx, hy := cx*2+1, cy*4+2
	best, bestIdx := math.MaxInt, -1
	for _, mk := range m.projectMarkers(p) {
		dx, dy := mk.mx-hx, mk.my-hy
		if abs(dx) > 4 || abs(dy) > 4 {
			continue
		}
		d := dx*dx + dy*dy
		if d < best {
			best, bestIdx = d, mk.index
		}
	}
	return bestIdx, bestIdx >= 0
}
