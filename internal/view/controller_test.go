package view

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointmap/internal/geom"
)

type recordingEngine struct {
	calls   []string
	inits   []Viewport
	flights []Viewport
	layers  []SymbolLayer
}

func (e *recordingEngine) Init(v Viewport) {
	e.calls = append(e.calls, "init")
	e.inits = append(e.inits, v)
}

func (e *recordingEngine) AddLayer(l SymbolLayer) {
	e.calls = append(e.calls, "layer")
	e.layers = append(e.layers, l)
}

func (e *recordingEngine) FlyTo(v Viewport) {
	e.calls = append(e.calls, "fly")
	e.flights = append(e.flights, v)
}

func (e *recordingEngine) Remove() {
	e.calls = append(e.calls, "remove")
}

var defaultViewport = Viewport{CenterLng: -73.9712, CenterLat: 40.7831, Zoom: 9}

func newController(t *testing.T) (*Controller, *recordingEngine) {
	t.Helper()
	eng := &recordingEngine{}
	c := New(eng, Options{Initial: defaultViewport, FocusZoom: 15, Icon: "cafe"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return c, eng
}

func loadedEvent(t *testing.T, recs ...geom.PointRecord) Loaded {
	t.Helper()
	fc, c, err := geom.Aggregate(recs, geom.Centroid{Longitude: defaultViewport.CenterLng, Latitude: defaultViewport.CenterLat})
	return Loaded{Collection: fc, Centroid: c, Empty: geom.IsEmptyDataset(err)}
}

var (
	shopA = geom.PointRecord{Longitude: 0, Latitude: 0, Label: "A", Address: "1 Main", Phone: "555"}
	shopB = geom.PointRecord{Longitude: 2, Latitude: 2, Label: "B"}
)

func TestControllerLifecycle(t *testing.T) {
	c, eng := newController(t)
	assert.Equal(t, Uninitialized, c.State())

	require.NoError(t, c.Dispatch(Mounted{}))
	assert.Equal(t, Loading, c.State())
	assert.Equal(t, []Viewport{defaultViewport}, eng.inits)

	require.NoError(t, c.Dispatch(loadedEvent(t, shopA, shopB)))
	assert.Equal(t, Centered, c.State())
	assert.Equal(t, Viewport{CenterLng: 1, CenterLat: 1, Zoom: 15, Animated: true}, c.Viewport())
	assert.Equal(t, []string{"init", "fly", "layer"}, eng.calls)
	require.Len(t, eng.layers, 1)
	assert.Equal(t, LayerID, eng.layers[0].ID)
	assert.Equal(t, "cafe", eng.layers[0].Icon)
	assert.Equal(t, 2, eng.layers[0].Source.Len())

	require.NoError(t, c.Dispatch(Unmounted{}))
	assert.Equal(t, Closed, c.State())
	assert.Equal(t, "remove", eng.calls[len(eng.calls)-1])
}

func TestControllerHover(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(loadedEvent(t, shopA, shopB)))
	assert.True(t, c.Selection().Idle())

	require.NoError(t, c.Dispatch(MarkerEnter{Index: 0}))
	sel := c.Selection()
	require.NotNil(t, sel.Active)
	assert.Equal(t, shopA, *sel.Active)
	assert.Equal(t, 0, sel.Index)

	require.NoError(t, c.Dispatch(MarkerEnter{Index: 1}))
	assert.Equal(t, shopB, *c.Selection().Active)

	require.NoError(t, c.Dispatch(MarkerLeave{}))
	assert.True(t, c.Selection().Idle())

	err := c.Dispatch(MarkerEnter{Index: 7})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.True(t, c.Selection().Idle())
}

func TestControllerHoverBeforeLoad(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	assert.ErrorIs(t, c.Dispatch(MarkerEnter{Index: 0}), ErrIllegalTransition)
	assert.ErrorIs(t, c.Dispatch(MarkerLeave{}), ErrIllegalTransition)
	assert.Equal(t, Loading, c.State())
}

func TestControllerLoadFailure(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))

	failure := &geom.Error{Kind: geom.FetchFailure, Message: "GET: status 500"}
	require.NoError(t, c.Dispatch(LoadFailed{Err: failure}))
	assert.Equal(t, Failed, c.State())
	assert.Equal(t, defaultViewport, c.Viewport())
	assert.True(t, geom.IsFetchFailure(c.Err()))
	assert.Empty(t, eng.layers)
	assert.Empty(t, eng.flights)

	assert.ErrorIs(t, c.Dispatch(loadedEvent(t, shopA)), ErrIllegalTransition)
	assert.Equal(t, defaultViewport, c.Viewport())
}

func TestControllerEmptyDataset(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(loadedEvent(t)))
	assert.Equal(t, Centered, c.State())
	assert.True(t, c.Empty())
	assert.Equal(t, defaultViewport, c.Viewport())
	assert.Equal(t, geom.Centroid{Longitude: -73.9712, Latitude: 40.7831}, c.Centroid())
	require.Len(t, eng.layers, 1)
	assert.Equal(t, 0, eng.layers[0].Source.Len())
	assert.Equal(t, []Viewport{defaultViewport}, eng.flights)
}

func TestControllerEmptyDatasetAfterPan(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(FlyTo{Lng: -74.3, Lat: 40.7}))
	require.NoError(t, c.Dispatch(ZoomBy{Delta: 2}))

	require.NoError(t, c.Dispatch(loadedEvent(t)))
	assert.Equal(t, defaultViewport, c.Viewport())
	require.NotEmpty(t, eng.flights)
	assert.Equal(t, defaultViewport, eng.flights[len(eng.flights)-1])
}

func TestControllerFocusZoomUsedAsGiven(t *testing.T) {
	eng := &recordingEngine{}
	c := New(eng, Options{Initial: defaultViewport}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(loadedEvent(t, shopA)))
	assert.Equal(t, 0.0, c.Viewport().Zoom)
}

func TestControllerIgnoresEventsAfterUnmount(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(Unmounted{}))
	calls := len(eng.calls)

	require.NoError(t, c.Dispatch(loadedEvent(t, shopA)))
	require.NoError(t, c.Dispatch(LoadFailed{Err: errors.New("late")}))
	assert.Equal(t, Closed, c.State())
	assert.Equal(t, defaultViewport, c.Viewport())
	assert.NoError(t, c.Err())
	assert.Len(t, eng.calls, calls)
}

func TestControllerUnmountBeforeMount(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Unmounted{}))
	assert.Equal(t, Closed, c.State())
	assert.Empty(t, eng.calls)
}

func TestControllerIllegalTransitions(t *testing.T) {
	c, _ := newController(t)
	assert.ErrorIs(t, c.Dispatch(loadedEvent(t, shopA)), ErrIllegalTransition)
	assert.ErrorIs(t, c.Dispatch(FlyTo{Lng: 1, Lat: 1}), ErrIllegalTransition)
	assert.Equal(t, Uninitialized, c.State())

	require.NoError(t, c.Dispatch(Mounted{}))
	assert.ErrorIs(t, c.Dispatch(Mounted{}), ErrIllegalTransition)
}

func TestControllerFlyAndZoom(t *testing.T) {
	c, eng := newController(t)
	require.NoError(t, c.Dispatch(Mounted{}))
	require.NoError(t, c.Dispatch(loadedEvent(t, shopA, shopB)))

	require.NoError(t, c.Dispatch(FlyTo{Lng: 190, Lat: 89, Animate: true}))
	assert.Equal(t, Viewport{CenterLng: -170, CenterLat: 85, Zoom: 15, Animated: true}, c.Viewport())

	require.NoError(t, c.Dispatch(ZoomBy{Delta: 10}))
	assert.Equal(t, float64(MaxZoom), c.Viewport().Zoom)
	require.NoError(t, c.Dispatch(ZoomBy{Delta: -100}))
	assert.Equal(t, float64(MinZoom), c.Viewport().Zoom)

	require.NoError(t, c.Dispatch(FlyTo{Lng: 1, Lat: 2, Zoom: 12}))
	assert.Equal(t, 12.0, c.Viewport().Zoom)
	assert.False(t, c.Viewport().Animated)
	assert.Equal(t, c.Viewport(), eng.flights[len(eng.flights)-1])
}
