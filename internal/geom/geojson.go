package geom

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON returns the collection as a GeoJSON FeatureCollection of points
// with icon/name/address/phone properties, the layout the symbol layer reads.
func (fc FeatureCollection) GeoJSON() *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, r := range fc.records {
		f := geojson.NewFeature(r.Point())
		f.Properties["icon"] = r.Icon
		f.Properties["name"] = r.Label
		f.Properties["address"] = r.Address
		f.Properties["phone"] = r.Phone
		out.Append(f)
	}
	if fc.Len() > 0 {
		b := fc.bbox.Bound()
		out.BBox = geojson.NewBBox(b)
	}
	return out
}

// MarshalGeoJSON encodes the collection with an optional indent.
func (fc FeatureCollection) MarshalGeoJSON(indent string) ([]byte, error) {
	if indent == "" {
		return fc.GeoJSON().MarshalJSON()
	}
	return json.MarshalIndent(fc.GeoJSON(), "", indent)
}

// ParseGeoJSON reads Point features from a FeatureCollection. Properties are
// looked up with the same column names as the CSV path. Non-point geometries
// are rejected per feature.
func ParseGeoJSON(r io.Reader, opts CSVOptions) (LoadResult, error) {
	opts = opts.withDefaults()
	data, err := io.ReadAll(r)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "reading body", Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return LoadResult{}, &Error{Kind: ParseFailure, Message: "decoding geojson", Err: err}
	}
	lookup := func(props geojson.Properties, names ...string) any {
		for _, n := range names {
			if v, ok := props[n]; ok {
				return v
			}
			if v, ok := props[strings.ToLower(n)]; ok {
				return v
			}
		}
		return nil
	}
	var res LoadResult
	for i, f := range fc.Features {
		line := i + 1
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			kind := "nil"
			if f.Geometry != nil {
				kind = f.Geometry.GeoJSONType()
			}
			res.Rejected = append(res.Rejected, &RecordError{Line: line, Field: "geometry", Reason: fmt.Sprintf("unsupported geometry %s", kind)})
			continue
		}
		row := RawRow{
			opts.Columns.Longitude: pt.Lon(),
			opts.Columns.Latitude:  pt.Lat(),
			opts.Columns.Label:     lookup(f.Properties, opts.Columns.Label, "name"),
			opts.Columns.Address:   lookup(f.Properties, opts.Columns.Address, "address"),
			opts.Columns.Phone:     lookup(f.Properties, opts.Columns.Phone, "phone"),
		}
		rec, rerr := ToRecord(row, line, opts)
		if rerr != nil {
			res.Rejected = append(res.Rejected, rerr)
			continue
		}
		if icon, ok := f.Properties["icon"].(string); ok && icon != "" {
			rec.Icon = icon
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}
