package view

import (
	"fmt"
	"log/slog"
	"math"

	"pointmap/internal/geom"
)

const (
	MinZoom = 0
	MaxZoom = 22
)

// Controller owns Viewport and Selection. All mutation goes through
// Dispatch; accessors are read-only.
type Controller struct {
	engine Engine
	opts   Options
	log    *slog.Logger

	state      State
	viewport   Viewport
	selection  Selection
	collection geom.FeatureCollection
	centroid   geom.Centroid
	rejected   int
	empty      bool
	err        error
}

// New returns an Uninitialized controller driving engine.
func New(engine Engine, opts Options, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		engine:   engine,
		opts:     opts,
		log:      log,
		viewport: opts.Initial,
		centroid: geom.Centroid{Longitude: opts.Initial.CenterLng, Latitude: opts.Initial.CenterLat},
	}
}

func (c *Controller) State() State                       { return c.state }
func (c *Controller) Viewport() Viewport                 { return c.viewport }
func (c *Controller) Selection() Selection               { return c.selection }
func (c *Controller) Collection() geom.FeatureCollection { return c.collection }
func (c *Controller) Centroid() geom.Centroid            { return c.centroid }
func (c *Controller) Rejected() int                      { return c.rejected }
func (c *Controller) Empty() bool                        { return c.empty }
func (c *Controller) Err() error                         { return c.err }

func (c *Controller) illegal(ev Event) error {
	return fmt.Errorf("%w: %T in state %s", ErrIllegalTransition, ev, c.state)
}

// Dispatch applies ev. Once Closed every event is dropped without error.
func (c *Controller) Dispatch(ev Event) error {
	if c.state == Closed {
		c.log.Debug("event after teardown dropped", "event", fmt.Sprintf("%T", ev))
		return nil
	}
	switch ev := ev.(type) {
	case Mounted:
		if c.state != Uninitialized {
			return c.illegal(ev)
		}
		c.viewport = c.opts.Initial
		c.engine.Init(c.viewport)
		c.state = Loading

	case Loaded:
		if c.state != Loading {
			return c.illegal(ev)
		}
		c.collection = ev.Collection
		c.rejected = ev.Rejected
		c.empty = ev.Empty || ev.Collection.Len() == 0
		if c.empty {
			c.centroid = geom.Centroid{Longitude: c.opts.Initial.CenterLng, Latitude: c.opts.Initial.CenterLat}
			c.viewport = c.opts.Initial
		} else {
			c.centroid = ev.Centroid
			c.viewport = Viewport{
				CenterLng: ev.Centroid.Longitude,
				CenterLat: ev.Centroid.Latitude,
				Zoom:      c.opts.FocusZoom,
				Animated:  true,
			}
		}
		// the canvas may have been panned while loading
		c.engine.FlyTo(c.viewport)
		c.engine.AddLayer(SymbolLayer{ID: LayerID, Icon: c.opts.Icon, Source: c.collection})
		c.state = Centered
		c.log.Info("viewport centered", "lng", c.viewport.CenterLng, "lat", c.viewport.CenterLat,
			"zoom", c.viewport.Zoom, "markers", c.collection.Len(), "empty", c.empty)

	case LoadFailed:
		if c.state != Loading {
			return c.illegal(ev)
		}
		c.err = ev.Err
		c.state = Failed
		c.log.Error("load failed", "err", ev.Err)

	case MarkerEnter:
		if c.state != Centered {
			return c.illegal(ev)
		}
		if ev.Index < 0 || ev.Index >= c.collection.Len() {
			return fmt.Errorf("%w: marker %d out of range", ErrIllegalTransition, ev.Index)
		}
		r := c.collection.At(ev.Index)
		c.selection = Selection{Active: &r, Index: ev.Index}

	case MarkerLeave:
		if c.state != Centered {
			return c.illegal(ev)
		}
		c.selection = Selection{}

	case FlyTo:
		if c.state == Uninitialized {
			return c.illegal(ev)
		}
		vp := Viewport{CenterLng: ev.Lng, CenterLat: ev.Lat, Zoom: c.viewport.Zoom, Animated: ev.Animate}
		if ev.Zoom != 0 {
			vp.Zoom = clampZoom(ev.Zoom)
		}
		vp.CenterLat = max(-85, min(85, vp.CenterLat))
		vp.CenterLng = wrapLng(vp.CenterLng)
		c.viewport = vp
		c.engine.FlyTo(vp)

	case ZoomBy:
		if c.state == Uninitialized {
			return c.illegal(ev)
		}
		c.viewport.Zoom = clampZoom(c.viewport.Zoom + ev.Delta)
		c.viewport.Animated = false
		c.engine.FlyTo(c.viewport)

	case Unmounted:
		if c.state != Uninitialized {
			c.engine.Remove()
		}
		c.selection = Selection{}
		c.state = Closed

	default:
		return c.illegal(ev)
	}
	return nil
}

func clampZoom(z float64) float64 {
	return max(MinZoom, min(MaxZoom, z))
}

func wrapLng(lng float64) float64 {
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return 0
	}
	lng = math.Mod(lng, 360)
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
