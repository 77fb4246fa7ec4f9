package geom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

// DefaultMaxBody caps the downloaded dataset size when Loader.MaxBody is zero.
const DefaultMaxBody = 64 << 20

// Loader downloads a points dataset. Each call to Load performs exactly one
// fetch; there is no caching and no retry.
type Loader struct {
	Client  *http.Client
	Token   string
	Options CSVOptions
	Logger  *slog.Logger
	// MaxBody is the largest accepted response body in bytes. Larger bodies
	// fail the load instead of being parsed in part.
	MaxBody int64
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Load fetches rawURL and parses it. http, https and file URLs are accepted.
func (l *Loader) Load(ctx context.Context, rawURL string) (LoadResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "invalid url", Err: err}
	}
	log := l.logger().With("url", u.Redacted())

	var res LoadResult
	switch u.Scheme {
	case "file":
		if isGeoJSONPath(u.Path) {
			res, err = LoadGeoJSON(u.Path, l.Options)
		} else {
			res, err = LoadCSV(u.Path, l.Options)
		}
	case "http", "https":
		res, err = l.fetch(ctx, u)
	default:
		err = &Error{Kind: FetchFailure, Message: "unsupported scheme " + u.Scheme}
	}
	if err != nil {
		log.Error("dataset load failed", "err", err)
		return LoadResult{}, err
	}
	for _, r := range res.Rejected {
		log.Warn("skipping record", "line", r.Line, "field", r.Field, "reason", r.Reason)
	}
	log.Info("dataset loaded", "records", len(res.Records), "rejected", len(res.Rejected))
	return res, nil
}

func (l *Loader) fetch(ctx context.Context, u *url.URL) (LoadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "building request", Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	if l.Token != "" {
		req.Header.Set("Authorization", "Bearer "+l.Token)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "GET " + u.Redacted(), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: fmt.Sprintf("GET %s: status %d", u.Redacted(), resp.StatusCode)}
	}
	geo := isGeoJSONPath(u.Path)
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/geo+json":
			geo = true
		case "application/json":
			if !geo {
				return LoadResult{}, &Error{Kind: ParseFailure, Message: "non-tabular response: " + mt}
			}
		case "text/html", "application/xml", "text/xml":
			return LoadResult{}, &Error{Kind: ParseFailure, Message: "non-tabular response: " + mt}
		}
	}
	limit := l.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "reading body", Err: err}
	}
	if int64(len(body)) > limit {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: fmt.Sprintf("response exceeds %d bytes", limit)}
	}
	if geo {
		return ParseGeoJSON(bytes.NewReader(body), l.Options)
	}
	return ParseCSV(bytes.NewReader(body), l.Options)
}

func isGeoJSONPath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".geojson" || ext == ".json"
}

// LoadGeoJSON reads a GeoJSON file from disk.
func LoadGeoJSON(file string, opts CSVOptions) (LoadResult, error) {
	f, err := os.Open(file)
	if err != nil {
		return LoadResult{}, &Error{Kind: FetchFailure, Message: "opening " + file, Err: err}
	}
	defer f.Close()
	return ParseGeoJSON(f, opts)
}
