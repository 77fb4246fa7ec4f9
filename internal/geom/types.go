package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to contain lon/lat. The zero box is treated as empty
// only when first is true.
func (b BBox) Extend(lon, lat float64, first bool) BBox {
	if first {
		return BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
	}
	b.MinX = min(b.MinX, lon)
	b.MinY = min(b.MinY, lat)
	b.MaxX = max(b.MaxX, lon)
	b.MaxY = max(b.MaxY, lat)
	return b
}

// Bound returns the box as an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// RawRow is one tokenized CSV row keyed by header name. Values are float64,
// string or nil (empty cell).
type RawRow map[string]any

// PointRecord is a single geolocated marker.
type PointRecord struct {
	Longitude float64
	Latitude  float64
	Label     string
	Address   string
	Phone     string
	Icon      string
}

// Point returns the record position as lon/lat.
func (r PointRecord) Point() orb.Point { return orb.Point{r.Longitude, r.Latitude} }

// Centroid is the planar mean position of a point set.
type Centroid struct {
	Longitude float64
	Latitude  float64
}

// ValidLonLat reports whether lon/lat are finite and inside WGS84 ranges.
func ValidLonLat(lon, lat float64) bool {
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
