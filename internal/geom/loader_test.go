package geom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLoader() *Loader {
	return &Loader{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestLoaderFetchesOnce(t *testing.T) {
	var hits atomic.Int32
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, shopsCSV)
	}))
	defer srv.Close()

	l := quietLoader()
	l.Client = srv.Client()
	l.Token = "secret"
	res, err := l.Load(context.Background(), srv.URL+"/shops.csv")
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Bearer secret", auth)
}

func TestLoaderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: IsFetchFailure,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
			check: IsFetchFailure,
		},
		{
			name: "html page",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				fmt.Fprint(w, "<html><body>login</body></html>")
			},
			check: IsParseFailure,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/csv")
			},
			check: IsParseFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			l := quietLoader()
			l.Client = srv.Client()
			res, err := l.Load(context.Background(), srv.URL+"/shops.csv")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected kind: %v", err)
			assert.Empty(t, res.Records)
		})
	}
}

func TestLoaderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := quietLoader().Load(context.Background(), url)
	assert.True(t, IsFetchFailure(err), "got %v", err)
}

func TestLoaderCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, shopsCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := quietLoader()
	l.Client = srv.Client()
	_, err := l.Load(ctx, srv.URL)
	assert.True(t, IsFetchFailure(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderSchemes(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "shops.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(shopsCSV), 0o600))
	geoPath := filepath.Join(dir, "shops.geojson")
	require.NoError(t, os.WriteFile(geoPath, []byte(shopsGeoJSON), 0o600))

	res, err := quietLoader().Load(context.Background(), "file://"+csvPath)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	res, err = quietLoader().Load(context.Background(), "file://"+geoPath)
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)

	_, err = quietLoader().Load(context.Background(), "ftp://example.com/shops.csv")
	assert.True(t, IsFetchFailure(err))
}

func TestLoaderGeoJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		fmt.Fprint(w, shopsGeoJSON)
	}))
	defer srv.Close()

	l := quietLoader()
	l.Client = srv.Client()
	res, err := l.Load(context.Background(), srv.URL+"/points")
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Len(t, res.Rejected, 1)
}

func TestLoaderBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, shopsCSV)
	}))
	defer srv.Close()

	l := quietLoader()
	l.Client = srv.Client()

	l.MaxBody = int64(len(shopsCSV))
	res, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)

	l.MaxBody = int64(len(shopsCSV)) - 1
	res, err = l.Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsFetchFailure(err), "got %v", err)
	assert.Contains(t, err.Error(), "response exceeds")
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Rejected)
}
