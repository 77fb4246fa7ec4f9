package view

import "pointmap/internal/geom"

// Event is dispatched into a Controller.
type Event interface{ event() }

// Mounted starts the controller; the host begins the dataset load.
type Mounted struct{}

// Loaded carries the aggregated dataset. Empty marks an EmptyDataset load.
type Loaded struct {
	Collection geom.FeatureCollection
	Centroid   geom.Centroid
	Rejected   int
	Empty      bool
}

// LoadFailed carries a fetch or parse failure.
type LoadFailed struct{ Err error }

// MarkerEnter is sent when the pointer enters marker Index of the layer.
type MarkerEnter struct{ Index int }

// MarkerLeave is sent when the pointer leaves the layer.
type MarkerLeave struct{}

// FlyTo moves the viewport. A zero Zoom keeps the current zoom.
type FlyTo struct {
	Lng, Lat float64
	Zoom     float64
	Animate  bool
}

// ZoomBy adds Delta to the zoom level.
type ZoomBy struct{ Delta float64 }

// Unmounted releases the engine; later events are ignored.
type Unmounted struct{}

func (Mounted) event()     {}
func (Loaded) event()      {}
func (LoadFailed) event()  {}
func (MarkerEnter) event() {}
func (MarkerLeave) event() {}
func (FlyTo) event()       {}
func (ZoomBy) event()      {}
func (Unmounted) event()   {}
