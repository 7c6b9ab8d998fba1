// Package dashboard composes rendered panels into the single-page display
// and its alternative outputs: terminal text, an Atom feed, PDF and a
// directory export.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seenimoa/pronviz/internal/dataset"
	"github.com/seenimoa/pronviz/internal/panel"
	"github.com/seenimoa/pronviz/pkg/metrics"
	"github.com/seenimoa/pronviz/pkg/models"
	"github.com/seenimoa/pronviz/pkg/utils"
)

// DefaultTitle is the page heading when none is configured.
const DefaultTitle = "Variables Responsible for Sub-standard Pronunciation in Pakistan"

// ErrUnknownPanel is returned for a panel ID outside the catalog.
var ErrUnknownPanel = errors.New("unknown panel")

// Options configures a Dashboard. Zero fields take defaults.
type Options struct {
	Title       string
	ChartConfig ChartConfigFunc
	LiveReload  bool // add the websocket refresh script to HTML output
	Renderer    *panel.Renderer
	Logger      *zap.Logger
	Metrics     *metrics.Manager
	Now         func() time.Time
}

// Dashboard renders the fixed factor table through the six catalog
// panels. It is safe for concurrent use; every Build starts from the
// immutable dataset.
type Dashboard struct {
	title      string
	paper      models.Paper
	panels     []panel.Panel
	renderer   *panel.Renderer
	md         *panel.Markdown
	liveReload bool
	logger     *zap.Logger
	metrics    *metrics.Manager
	now        func() time.Time
}

// New builds a Dashboard. Panel configuration errors surface here rather
// than on the first request.
func New(opts Options) (*Dashboard, error) {
	panels, err := Catalog(opts.ChartConfig)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		title:      opts.Title,
		paper:      dataset.Paper(),
		panels:     panels,
		renderer:   opts.Renderer,
		md:         panel.NewMarkdown(),
		liveReload: opts.LiveReload,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		now:        opts.Now,
	}
	if d.title == "" {
		d.title = DefaultTitle
	}
	if d.renderer == nil {
		d.renderer = panel.NewRenderer(dataset.Flow(), panel.WithMarkdown(d.md))
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d, nil
}

// Title returns the page heading.
func (d *Dashboard) Title() string { return d.title }

// Paper returns the cited paper.
func (d *Dashboard) Paper() models.Paper { return d.paper }

// Factors returns a copy of the factor table every panel is drawn from.
func (d *Dashboard) Factors() []models.FactorScore { return dataset.Factors() }

// Panels returns the panel definitions in page order.
func (d *Dashboard) Panels() []panel.Panel {
	return append([]panel.Panel(nil), d.panels...)
}

// RenderPanel draws a single panel by ID.
func (d *Dashboard) RenderPanel(id string) (panel.Rendered, error) {
	for _, p := range d.panels {
		if p.ID == id {
			return d.render(p)
		}
	}
	return panel.Rendered{}, fmt.Errorf("%w: %q", ErrUnknownPanel, id)
}

func (d *Dashboard) render(p panel.Panel) (panel.Rendered, error) {
	start := time.Now()
	out, err := d.renderer.Render(p, dataset.Factors())
	elapsed := time.Since(start)
	d.metrics.ObservePanel(string(p.Kind), elapsed, err)
	if err != nil {
		d.logger.Error("panel render failed", zap.String("panel", p.ID), zap.Error(err))
		return panel.Rendered{}, err
	}
	d.logger.Debug("panel rendered",
		zap.String("panel", p.ID),
		zap.String("kind", string(p.Kind)),
		zap.Int("svg_bytes", len(out.SVG)),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}

// Build renders every panel in page order and lays them out in rows.
// Panels are drawn one after another; the first failure aborts the page.
func (d *Dashboard) Build(ctx context.Context) (*Page, error) {
	page, err := d.build(ctx)
	d.metrics.ObservePage(err)
	return page, err
}

func (d *Dashboard) build(ctx context.Context) (*Page, error) {
	intro := dataset.IntroMarkdown(d.paper)
	introHTML, err := d.md.HTML(intro)
	if err != nil {
		return nil, fmt.Errorf("intro: %w", err)
	}

	rendered := make(map[string]panel.Rendered, len(d.panels))
	for _, p := range d.panels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := d.render(p)
		if err != nil {
			return nil, err
		}
		rendered[p.ID] = out
	}

	page := &Page{
		ID:            uuid.NewString(),
		Title:         d.title,
		Paper:         d.paper,
		Intro:         introHTML,
		IntroMarkdown: intro,
		Factors:       dataset.Factors(),
		GeneratedAt:   d.now(),
		LiveReload:    d.liveReload,
	}
	for _, ids := range Rows() {
		var row Row
		for _, id := range ids {
			if r, ok := rendered[id]; ok {
				row.Panels = append(row.Panels, r)
			}
		}
		if len(row.Panels) > 0 {
			page.Rows = append(page.Rows, row)
		}
	}
	d.logger.Info("dashboard built",
		zap.String("render_id", page.ID),
		zap.Int("panels", len(rendered)),
	)
	return page, nil
}

// Page is a fully rendered dashboard.
type Page struct {
	ID            string
	Title         string
	Paper         models.Paper
	Intro         template.HTML
	IntroMarkdown string
	Factors       []models.FactorScore
	Rows          []Row
	GeneratedAt   time.Time
	LiveReload    bool
}

// Row is one horizontal band of the page, followed by a rule.
type Row struct {
	Panels []panel.Rendered
}

// Wide reports whether the row holds a single full-width panel.
func (r Row) Wide() bool { return len(r.Panels) == 1 }

// Panels returns every panel in page order.
func (p *Page) Panels() []panel.Rendered {
	var out []panel.Rendered
	for _, r := range p.Rows {
		out = append(out, r.Panels...)
	}
	return out
}

// Panel looks up a rendered panel by ID.
func (p *Page) Panel(id string) (panel.Rendered, bool) {
	for _, r := range p.Panels() {
		if r.ID == id {
			return r, true
		}
	}
	return panel.Rendered{}, false
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"timestamp": utils.FormatTimestamp,
}).Parse(PageTemplate))

// HTML renders the page as a standalone HTML document.
func (p *Page) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}
