package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pointmap/internal/config"
	"pointmap/internal/geom"
	"pointmap/internal/logger"
	"pointmap/internal/tui"
)

type rootFlags struct {
	pointsURL string
	token     string
	centerLat float64
	centerLng float64
	zoom      float64
	focusZoom float64
	timeout   time.Duration
	icon      string
	logFile   string
	logLevel  string
	geojson   bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "pointmap",
		Short: "terminal map of points of interest loaded from a remote CSV",
		Long: `
pointmap downloads a CSV of places (Name, Longitude, Latitude, and optionally
"Street Combined" and "Phone Number"), centers the map on their centroid and
shows the address and phone of the marker under the mouse.

Settings come from POINTMAP_* environment variables (a .env file is read if
present); flags override them. When stdout is not a terminal, or with
--geojson, the dataset is printed as GeoJSON instead.
`,
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration: %w", err)
			}

			log, closer, err := logger.Open(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer closer.Close()

			loader := &geom.Loader{
				Client:  &http.Client{Timeout: cfg.RequestTimeout},
				Token:   cfg.Token,
				Options: geom.CSVOptions{Columns: cfg.Columns, Icon: cfg.Style.Icon},
				Logger:  log,
			}

			fd := os.Stdout.Fd()
			if f.geojson || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
				return exportGeoJSON(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, loader, log)
			}

			log.Info("starting viewer", "url", redactURL(cfg.PointsURL), "version", Version)
			p := tea.NewProgram(tui.New(cfg, loader, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = p.Run()
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.pointsURL, "points-url", "", "CSV dataset URL (http, https or file)")
	fl.StringVar(&f.token, "token", "", "bearer token sent with the dataset request")
	fl.Float64Var(&f.centerLat, "center-lat", 0, "initial center latitude")
	fl.Float64Var(&f.centerLng, "center-lng", 0, "initial center longitude")
	fl.Float64Var(&f.zoom, "zoom", 0, "initial zoom level")
	fl.Float64Var(&f.focusZoom, "focus-zoom", 0, "zoom level used once the dataset is centered")
	fl.DurationVar(&f.timeout, "timeout", 0, "dataset request timeout")
	fl.StringVar(&f.icon, "icon", "", "marker icon name")
	fl.StringVar(&f.logFile, "log-file", "", "log file path")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.BoolVar(&f.geojson, "geojson", false, "print the dataset as GeoJSON and exit")
	return cmd
}

// apply copies the flags that were set on the command line over cfg.
func (f rootFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("points-url") {
		cfg.PointsURL = f.pointsURL
	}
	if set("token") {
		cfg.Token = f.token
	}
	if set("center-lat") {
		cfg.InitialCenter.Lat = f.centerLat
	}
	if set("center-lng") {
		cfg.InitialCenter.Lng = f.centerLng
	}
	if set("zoom") {
		cfg.InitialZoom = f.zoom
	}
	if set("focus-zoom") {
		cfg.FocusZoom = f.focusZoom
	}
	if set("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if set("icon") {
		cfg.Style.Icon = f.icon
	}
	if set("log-file") {
		cfg.LogFile = f.logFile
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

// exportGeoJSON performs the single load and prints the feature collection.
// Fetch and parse failures are fatal.
func exportGeoJSON(ctx context.Context, out, errOut io.Writer, cfg config.Config, loader *geom.Loader, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	res, err := loader.Load(ctx, cfg.PointsURL)
	if err != nil {
		return err
	}
	fallback := geom.Centroid{Longitude: cfg.InitialCenter.Lng, Latitude: cfg.InitialCenter.Lat}
	fc, c, err := geom.Aggregate(res.Records, fallback)
	if geom.IsEmptyDataset(err) {
		log.Warn("dataset has no valid records, using default center")
	}
	data, err := fc.MarshalGeoJSON("  ")
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return err
	}
	fmt.Fprintf(errOut, "%d points, %d skipped, centroid lat=%.6f lng=%.6f\n", fc.Len(), len(res.Rejected), c.Latitude, c.Longitude)
	return nil
}

// redactURL hides the password of a URL's userinfo for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid url"
	}
	return u.Redacted()
}
