package tui

import (
	"time"

	"pointmap/internal/view"
)

const flightDuration = 400 * time.Millisecond

// canvas is the terminal rendering engine driven by view.Controller. It keeps
// the layer to draw and the viewport currently on screen, which trails the
// controller's viewport during an animated flight.
type canvas struct {
	now func() time.Time

	ready   bool
	removed bool
	layer   *view.SymbolLayer

	shown  view.Viewport
	from   view.Viewport
	to     view.Viewport
	start  time.Time
	flying bool
}

func newCanvas() *canvas {
	return &canvas{now: time.Now}
}

func (c *canvas) Init(vp view.Viewport) {
	c.ready = true
	c.shown, c.to = vp, vp
}

func (c *canvas) AddLayer(l view.SymbolLayer) {
	c.layer = &l
}

func (c *canvas) FlyTo(vp view.Viewport) {
	if !vp.Animated || !c.ready {
		c.shown, c.to, c.flying = vp, vp, false
		return
	}
	c.from = c.current()
	c.to = vp
	c.start = c.now()
	c.flying = true
}

func (c *canvas) Remove() {
	c.removed = true
	c.layer = nil
	c.flying = false
}

// current returns the viewport to draw now and finishes a flight whose time
// is up.
func (c *canvas) current() view.Viewport {
	if !c.flying {
		return c.shown
	}
	t := float64(c.now().Sub(c.start)) / float64(flightDuration)
	if t >= 1 {
		c.shown, c.flying = c.to, false
		return c.shown
	}
	// ease out
	t = 1 - (1-t)*(1-t)
	lerp := func(a, b float64) float64 { return a + (b-a)*t }
	c.shown = view.Viewport{
		CenterLng: lerp(c.from.CenterLng, c.to.CenterLng),
		CenterLat: lerp(c.from.CenterLat, c.to.CenterLat),
		Zoom:      lerp(c.from.Zoom, c.to.Zoom),
		Animated:  true,
	}
	return c.shown
}
