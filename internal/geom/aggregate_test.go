package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nyc = Centroid{Longitude: -73.9712, Latitude: 40.7831}

func rec(lon, lat float64, label string) PointRecord {
	return PointRecord{Longitude: lon, Latitude: lat, Label: label}
}

func TestAggregateSinglePoint(t *testing.T) {
	fc, c, err := Aggregate([]PointRecord{rec(12.34, -56.78, "a")}, nyc)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.Len())
	assert.Equal(t, Centroid{Longitude: 12.34, Latitude: -56.78}, c)
}

func TestAggregateMean(t *testing.T) {
	_, c, err := Aggregate([]PointRecord{rec(0, 0, "a"), rec(2, 2, "b")}, nyc)
	require.NoError(t, err)
	assert.Equal(t, Centroid{Longitude: 1, Latitude: 1}, c)
}

func TestAggregatePreservesOrder(t *testing.T) {
	in := []PointRecord{rec(3, 3, "c"), rec(1, 1, "a"), rec(2, 2, "b"), rec(1, 1, "a")}
	fc, _, err := Aggregate(in, nyc)
	require.NoError(t, err)
	assert.Equal(t, in, fc.Records())
	assert.Equal(t, BBox{MinX: 1, MinY: 1, MaxX: 3, MaxY: 3}, fc.BBox())

	in[0].Label = "mutated"
	assert.Equal(t, "c", fc.At(0).Label, "collection must not alias its input")
}

func TestAggregateReorderInvariant(t *testing.T) {
	in := []PointRecord{rec(-73.99, 40.72, "a"), rec(-73.98, 40.74, "b"), rec(-73.97, 40.76, "c"), rec(-74.01, 40.70, "d")}
	_, want, err := Aggregate(in, nyc)
	require.NoError(t, err)

	reversed := make([]PointRecord, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	rotated := append(append([]PointRecord{}, in[2:]...), in[:2]...)
	for _, perm := range [][]PointRecord{reversed, rotated} {
		_, got, err := Aggregate(perm, nyc)
		require.NoError(t, err)
		assert.InDelta(t, want.Longitude, got.Longitude, 1e-9)
		assert.InDelta(t, want.Latitude, got.Latitude, 1e-9)
	}
}

func TestAggregateEmpty(t *testing.T) {
	for _, in := range [][]PointRecord{nil, {}} {
		fc, c, err := Aggregate(in, nyc)
		assert.True(t, IsEmptyDataset(err))
		assert.Equal(t, 0, fc.Len())
		assert.Equal(t, nyc, c)
		assert.False(t, math.IsNaN(c.Longitude) || math.IsNaN(c.Latitude))
	}
}
