package tui

import (
	"math"

	"pointmap/internal/view"
)

// microPerWorld is the size of the whole Web Mercator world at zoom 0 in
// braille micro pixels (2x4 per cell).
const microPerWorld = 64.0

const maxMercatorLat = 85.05112878

// mercator maps lon/lat to the unit square, y growing south.
func mercator(lon, lat float64) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	phi := lat * math.Pi / 180
	x = (lon + 180) / 360
	y = (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2
	return x, y
}

func inverseMercator(x, y float64) (lon, lat float64) {
	lon = x*360 - 180
	n := math.Pi * (1 - 2*y)
	lat = math.Atan(math.Sinh(n)) * 180 / math.Pi
	return lon, lat
}

// projection converts between lon/lat and micro pixel coordinates of a map
// area w x h cells centered on a viewport.
type projection struct {
	cx, cy float64
	scale  float64
	wMic   int
	hMic   int
}

func newProjection(vp view.Viewport, w, h int) projection {
	cx, cy := mercator(vp.CenterLng, vp.CenterLat)
	return projection{
		cx:    cx,
		cy:    cy,
		scale: microPerWorld * math.Pow(2, vp.Zoom),
		wMic:  w * 2,
		hMic:  h * 4,
	}
}

// toMicro returns micro pixel coordinates; ok is false when the point falls
// outside the map area.
func (p projection) toMicro(lon, lat float64) (mx, my int, ok bool) {
	x, y := mercator(lon, lat)
	fx := (x-p.cx)*p.scale + float64(p.wMic)/2
	fy := (y-p.cy)*p.scale + float64(p.hMic)/2
	mx, my = int(math.Floor(fx)), int(math.Floor(fy))
	return mx, my, mx >= 0 && my >= 0 && mx < p.wMic && my < p.hMic
}

// cellToLonLat converts a map cell back to lon/lat at the cell center.
func (p projection) cellToLonLat(cx, cy int) (float64, float64) {
	fx := float64(cx*2) + 1
	fy := float64(cy*4) + 2
	x := p.cx + (fx-float64(p.wMic)/2)/p.scale
	y := p.cy + (fy-float64(p.hMic)/2)/p.scale
	return inverseMercator(x, y)
}

// degreesPerMicro is the longitude span of one micro pixel.
func (p projection) degreesPerMicro() float64 {
	return 360 / p.scale
}
