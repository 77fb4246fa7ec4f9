package tui

import (
	"context"
	"log/slog"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"pointmap/internal/config"
	"pointmap/internal/geom"
	"pointmap/internal/view"
)

// Dataset hands back the result of the one load a Model performs.
type Dataset interface {
	Load(ctx context.Context, url string) (geom.LoadResult, error)
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showLabels  bool

	status string

	cfg    config.Config
	loader Dataset
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	ctrl   *view.Controller
	eng    *canvas
	styles styles

	// records sidebar
	l list.Model

	// attributes table
	showAttrs bool
	tbl       table.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	animating bool
}

type loadedMsg struct {
	res geom.LoadResult
	err error
}

type frameMsg time.Time

// New builds the viewer. Nothing is fetched until the program calls Init.
func New(cfg config.Config, loader Dataset, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	eng := newCanvas()
	initial := view.Viewport{
		CenterLng: cfg.InitialCenter.Lng,
		CenterLat: cfg.InitialCenter.Lat,
		Zoom:      cfg.InitialZoom,
	}
	m := Model{
		helpVisible: true,
		showLabels:  true,
		status:      "loading points…",
		cfg:         cfg,
		loader:      loader,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		eng:         eng,
		ctrl:        view.New(eng, view.Options{Initial: initial, FocusZoom: cfg.FocusZoom, Icon: cfg.Style.Icon}, log),
		styles:      newStyles(cfg.Style),
		l:           newRecordList(),
		tbl:         table.New(table.WithFocused(true)),
	}
	m.tbl.SetHeight(12)
	return m
}

// Controller exposes the view state, mainly for the host and tests.
func (m Model) Controller() *view.Controller { return m.ctrl }

func (m Model) Init() tea.Cmd {
	if err := m.ctrl.Dispatch(view.Mounted{}); err != nil {
		m.log.Warn("mount", "err", err)
		return nil
	}
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	url, timeout := m.cfg.PointsURL, m.cfg.RequestTimeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := loader.Load(ctx, url)
		return loadedMsg{res: res, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	sidebarW           int
	infoW              int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	const headerHeight, footerHeight = 1, 2
	lo := layout{
		contentW: max(20, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	if m.showSidebar {
		lo.sidebarW = 28
		lo.mapX = lo.sidebarW + 1
	}
	lo.infoW = min(34, lo.contentW/3)
	lo.mapW = max(10, lo.contentW-lo.mapX-lo.infoW-1)
	lo.mapH = lo.contentH
	return lo
}
