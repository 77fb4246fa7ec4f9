package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pointmap/internal/geom"
)

const (
	defaultCenterLat      = 40.7831
	defaultCenterLng      = -73.9712
	defaultZoom           = 9
	defaultFocusZoom      = 15
	defaultRequestTimeout = 30 * time.Second
	defaultIcon           = "cafe"
)

// LatLng is a center coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Style holds the base look of the map.
type Style struct {
	Title       string
	Icon        string
	MarkerColor string
	LabelColor  string
}

// Config holds runtime configuration for the viewer.
type Config struct {
	PointsURL      string
	Style          Style
	Token          string
	InitialCenter  LatLng
	InitialZoom    float64
	FocusZoom      float64
	RequestTimeout time.Duration
	Columns        geom.Columns
	LogFile        string
	LogLevel       string
}

// Default returns a Config with every optional field set.
func Default() Config {
	return Config{
		Style: Style{
			Title:       "pointmap",
			Icon:        defaultIcon,
			MarkerColor: "#FFA500",
			LabelColor:  "#E6E6E6",
		},
		InitialCenter:  LatLng{Lat: defaultCenterLat, Lng: defaultCenterLng},
		InitialZoom:    defaultZoom,
		FocusZoom:      defaultFocusZoom,
		RequestTimeout: defaultRequestTimeout,
		Columns:        geom.DefaultColumns,
		LogFile:        filepath.Join(os.TempDir(), "pointmap.log"),
		LogLevel:       "info",
	}
}

// Load reads configuration from environment variables (optionally .env).
// It does not validate; call Validate once flags have been applied.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := Default()
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("POINTMAP_POINTS_URL", &cfg.PointsURL)
	str("POINTMAP_TOKEN", &cfg.Token)
	str("POINTMAP_TITLE", &cfg.Style.Title)
	str("POINTMAP_ICON", &cfg.Style.Icon)
	str("POINTMAP_MARKER_COLOR", &cfg.Style.MarkerColor)
	str("POINTMAP_LABEL_COLOR", &cfg.Style.LabelColor)
	str("POINTMAP_COL_LONGITUDE", &cfg.Columns.Longitude)
	str("POINTMAP_COL_LATITUDE", &cfg.Columns.Latitude)
	str("POINTMAP_COL_LABEL", &cfg.Columns.Label)
	str("POINTMAP_COL_ADDRESS", &cfg.Columns.Address)
	str("POINTMAP_COL_PHONE", &cfg.Columns.Phone)
	str("POINTMAP_LOG_FILE", &cfg.LogFile)
	str("POINTMAP_LOG_LEVEL", &cfg.LogLevel)

	if v := strings.TrimSpace(os.Getenv("POINTMAP_CENTER")); v != "" {
		c, err := ParseLatLng(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid POINTMAP_CENTER: %w", err)
		}
		cfg.InitialCenter = c
	}
	if err := num("POINTMAP_ZOOM", &cfg.InitialZoom); err != nil {
		return cfg, err
	}
	if err := num("POINTMAP_FOCUS_ZOOM", &cfg.FocusZoom); err != nil {
		return cfg, err
	}
	if v := strings.TrimSpace(os.Getenv("POINTMAP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid POINTMAP_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (LatLng, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return LatLng{}, errors.New(`expected "lat,lng"`)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("latitude: %w", err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("longitude: %w", err)
	}
	return LatLng{Lat: la, Lng: ln}, nil
}

// Validate fails fast on missing or inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.PointsURL == "" {
		errs = append(errs, errors.New("points url is required (POINTMAP_POINTS_URL or --points-url)"))
	} else if u, err := url.Parse(c.PointsURL); err != nil {
		errs = append(errs, fmt.Errorf("points url: %w", err))
	} else {
		switch u.Scheme {
		case "http", "https":
			if u.Host == "" {
				errs = append(errs, fmt.Errorf("points url %q has no host", c.PointsURL))
			}
		case "file":
			if u.Path == "" {
				errs = append(errs, fmt.Errorf("points url %q has no path", c.PointsURL))
			}
		default:
			errs = append(errs, fmt.Errorf("points url scheme %q not supported", u.Scheme))
		}
	}
	if !geom.ValidLonLat(c.InitialCenter.Lng, c.InitialCenter.Lat) {
		errs = append(errs, fmt.Errorf("initial center %v,%v out of range", c.InitialCenter.Lat, c.InitialCenter.Lng))
	}
	if c.InitialZoom < 0 || c.InitialZoom > 22 {
		errs = append(errs, fmt.Errorf("initial zoom %v outside [0,22]", c.InitialZoom))
	}
	if c.FocusZoom < 0 || c.FocusZoom > 22 {
		errs = append(errs, fmt.Errorf("focus zoom %v outside [0,22]", c.FocusZoom))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Columns.Longitude == "" || c.Columns.Latitude == "" || c.Columns.Label == "" {
		errs = append(errs, errors.New("longitude, latitude and label columns must be named"))
	}
	return errors.Join(errs...)
}
