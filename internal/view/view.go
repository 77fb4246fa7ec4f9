// Package view holds the viewport and selection state of the map and the
// state machine that drives them. It knows nothing about the terminal; a
// rendering Engine is told what to draw.
package view

import (
	"errors"
	"fmt"

	"pointmap/internal/geom"
)

// LayerID names the marker layer installed after a load.
const LayerID = "shops"

// ErrIllegalTransition is returned when an event does not apply to the
// current state. State is left untouched.
var ErrIllegalTransition = errors.New("view: illegal transition")

// State of the controller.
type State int

const (
	Uninitialized State = iota
	Loading
	Centered
	Failed
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Centered:
		return "centered"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Viewport is the visible map region.
type Viewport struct {
	CenterLng float64
	CenterLat float64
	Zoom      float64
	Animated  bool
}

// Selection is the record under the pointer; Active is nil when idle.
type Selection struct {
	Active *geom.PointRecord
	Index  int
}

// Idle reports whether nothing is selected.
func (s Selection) Idle() bool { return s.Active == nil }

// SymbolLayer is a set of icon+label markers backed by a named source.
type SymbolLayer struct {
	ID     string
	Icon   string
	Source geom.FeatureCollection
}

// Engine is the rendering surface the controller drives.
type Engine interface {
	Init(Viewport)
	AddLayer(SymbolLayer)
	FlyTo(Viewport)
	Remove()
}

// Options configure a Controller. FocusZoom is the zoom used once a dataset
// is centered, taken as is.
type Options struct {
	Initial   Viewport
	FocusZoom float64
	Icon      string
}
