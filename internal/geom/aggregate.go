package geom

// FeatureCollection is an ordered, immutable set of records.
type FeatureCollection struct {
	records []PointRecord
	bbox    BBox
}

// NewFeatureCollection copies records into a collection, keeping their order.
func NewFeatureCollection(records []PointRecord) FeatureCollection {
	fc := FeatureCollection{records: make([]PointRecord, len(records))}
	copy(fc.records, records)
	for i, r := range fc.records {
		fc.bbox = fc.bbox.Extend(r.Longitude, r.Latitude, i == 0)
	}
	return fc
}

func (fc FeatureCollection) Len() int { return len(fc.records) }

func (fc FeatureCollection) At(i int) PointRecord { return fc.records[i] }

// Records returns a copy of the records.
func (fc FeatureCollection) Records() []PointRecord {
	out := make([]PointRecord, len(fc.records))
	copy(out, fc.records)
	return out
}

// BBox is the bounding box of the collection; zero when empty.
func (fc FeatureCollection) BBox() BBox { return fc.bbox }

// Aggregate builds the collection and its planar centroid. An empty input
// yields fallback together with an EmptyDataset error; the returned
// collection is still usable.
func Aggregate(records []PointRecord, fallback Centroid) (FeatureCollection, Centroid, error) {
	fc := NewFeatureCollection(records)
	if fc.Len() == 0 {
		return fc, fallback, &Error{Kind: EmptyDataset, Message: "no valid records"}
	}
	var sumLon, sumLat float64
	for _, r := range fc.records {
		sumLon += r.Longitude
		sumLat += r.Latitude
	}
	n := float64(fc.Len())
	return fc, Centroid{Longitude: sumLon / n, Latitude: sumLat / n}, nil
}
