package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columns names the CSV headers a PointRecord is read from.
type Columns struct {
	Longitude string
	Latitude  string
	Label     string
	Address   string
	Phone     string
}

// DefaultColumns matches the shop dataset layout.
var DefaultColumns = Columns{
	Longitude: "Longitude",
	Latitude:  "Latitude",
	Label:     "Name",
	Address:   "Street Combined",
	Phone:     "Phone Number",
}

// CSVOptions controls row conversion. Zero values fall back to DefaultColumns
// and the "cafe" icon.
type CSVOptions struct {
	Columns Columns
	Icon    string
}

func (o CSVOptions) withDefaults() CSVOptions {
	d := DefaultColumns
	c := &o.Columns
	if c.Longitude == "" {
		c.Longitude = d.Longitude
	}
	if c.Latitude == "" {
		c.Latitude = d.Latitude
	}
	if c.Label == "" {
		c.Label = d.Label
	}
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.Phone == "" {
		c.Phone = d.Phone
	}
	if o.Icon == "" {
		o.Icon = "cafe"
	}
	return o
}

// LoadResult holds the accepted records in source order and the rows that
// were skipped.
type LoadResult struct {
	Records  []PointRecord
	Rejected []*RecordError
}

var numberRe = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// inferValue converts a cell the way a dynamically typed tokenizer would:
// numbers become float64, true/false become bool, blanks become nil.
func inferValue(s string) any {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil
	case strings.EqualFold(s, "true"):
		return true
	case strings.EqualFold(s, "false"):
		return false
	case numberRe.MatchString(s):
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsInf(f, 0) {
			return f
		}
	}
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// phone numbers and zip codes arrive as numbers
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', 0, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func coordinate(row RawRow, field string, limit float64, line int) (float64, *RecordError) {
	v, present := row[field]
	if !present || v == nil {
		return 0, &RecordError{Line: line, Field: field, Reason: "missing"}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &RecordError{Line: line, Field: field, Reason: "not a number"}
	}
	if f < -limit || f > limit {
		return 0, &RecordError{Line: line, Field: field, Reason: "out of range: " + strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return f, nil
}

// ToRecord validates a raw row and converts it. Out-of-range coordinates are
// rejected, never clamped.
func ToRecord(row RawRow, line int, opts CSVOptions) (PointRecord, *RecordError) {
	opts = opts.withDefaults()
	c := opts.Columns
	lon, rerr := coordinate(row, c.Longitude, 180, line)
	if rerr != nil {
		return PointRecord{}, rerr
	}
	lat, rerr := coordinate(row, c.Latitude, 90, line)
	if rerr != nil {
		return PointRecord{}, rerr
	}
	label := strings.TrimSpace(stringify(row[c.Label]))
	if label == "" {
		return PointRecord{}, &RecordError{Line: line, Field: c.Label, Reason: "missing"}
	}
	return PointRecord{
		Longitude: lon,
		Latitude:  lat,
		Label:     label,
		Address:   strings.TrimSpace(stringify(row[c.Address])),
		Phone:     strings.TrimSpace(stringify(row[c.Phone])),
		Icon:      opts.Icon,
	}, nil
}

// ParseCSV reads a headed CSV and converts every non-empty row to a
// PointRecord. Rows that fail validation are reported in Rejected and do not
// abort the parse.
func ParseCSV(r io.Reader, opts CSVOptions) (LoadResult, error) {
	opts = opts.withDefaults()
	// strips a UTF-8 BOM and decodes BOM-marked UTF-16 exports
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return LoadResult{}, &Error{Kind: ParseFailure, Message: "missing header row"}
	}
	if err != nil {
		return LoadResult{}, &Error{Kind: ParseFailure, Message: "reading header", Err: err}
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var res LoadResult
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return LoadResult{}, &Error{Kind: ParseFailure, Message: "reading rows", Err: err}
		}
		line, _ := cr.FieldPos(0)
		row := make(RawRow, len(header))
		blank := true
		for i, h := range header {
			if i >= len(fields) {
				break
			}
			v := inferValue(fields[i])
			if v != nil {
				blank = false
			}
			row[h] = v
		}
		if blank {
			continue
		}
		rec, rerr := ToRecord(row, line, opts)
		if rerr != nil {
			res.Rejected = append(res.Rejected, rerr)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// LoadCSV reads a CSV file from disk.
func LoadCSV(path string, opts CSVOptions) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "opening " + path, Err: err}
	}
	defer f.Close()
	return ParseCSV(f, opts)
}
