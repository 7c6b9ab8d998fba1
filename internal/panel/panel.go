// Package panel implements the dashboard's repeated unit: one titled chart
// next to a collapsed-by-default details block.
package panel

import (
	"fmt"
	"html/template"

	"github.com/seenimoa/pronviz/internal/chart"
	"github.com/seenimoa/pronviz/pkg/models"
)

// Panel describes one visualisation and its explanation.
type Panel struct {
	ID      string
	Title   string
	Kind    chart.Kind
	Details string // markdown
	// Subset restricts the chart to the named factors (full or short name),
	// in the given order. Empty means every factor.
	Subset      []string
	ShortLabels bool
	Config      chart.Config
}

// Rendered is a drawn panel ready for a display surface.
type Rendered struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Kind      chart.Kind    `json:"kind"`
	SVG       template.HTML `json:"svg"`
	Details   template.HTML `json:"details_html"`
	Markdown  string        `json:"details_markdown"`
	Collapsed bool          `json:"collapsed"`
}

// ChartFunc draws one chart kind from a validated series.
type ChartFunc func(s chart.Series, cfg chart.Config) (string, error)

// Renderer turns Panels into Rendered output. It holds no per-render state
// and may be shared.
type Renderer struct {
	charts map[chart.Kind]ChartFunc
	md     *Markdown
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithChart registers or replaces the drawing function for a kind.
func WithChart(kind chart.Kind, fn ChartFunc) Option {
	return func(r *Renderer) { r.charts[kind] = fn }
}

// WithMarkdown replaces the details converter.
func WithMarkdown(md *Markdown) Option {
	return func(r *Renderer) { r.md = md }
}

// NewRenderer returns a Renderer for the six built-in kinds. flow is the
// graph drawn by KindFlow panels.
func NewRenderer(flow models.FlowGraph, opts ...Option) *Renderer {
	r := &Renderer{
		charts: map[chart.Kind]ChartFunc{
			chart.KindPie:        chart.Pie,
			chart.KindBar:        chart.HorizontalBar,
			chart.KindRadar:      chart.Radar,
			chart.KindGroupedBar: chart.GroupedBar,
			chart.KindHeatmap:    chart.Heatmap,
			// The flow diagram tells a fixed causal story. It is not derived
			// from the factor percentages; the series is validated like any
			// other panel's input but never plotted.
			chart.KindFlow: func(_ chart.Series, cfg chart.Config) (string, error) {
				return chart.Flow(flow, cfg)
			},
		},
		md: NewMarkdown(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws p from scores. An empty score list is an InvalidInputError
// for every kind; nothing is drawn in that case.
func (r *Renderer) Render(p Panel, scores []models.FactorScore) (Rendered, error) {
	if len(scores) == 0 {
		return Rendered{}, &chart.InvalidInputError{Kind: p.Kind, Reason: "at least one category is required"}
	}
	draw, ok := r.charts[p.Kind]
	if !ok {
		return Rendered{}, &chart.ConfigurationError{Field: "kind", Reason: fmt.Sprintf("panel %q: no renderer for kind %q", p.ID, p.Kind)}
	}
	selected, err := Select(scores, p.Subset)
	if err != nil {
		return Rendered{}, fmt.Errorf("panel %s: %w", p.ID, err)
	}
	series := chart.FromScores(selected, p.ShortLabels)
	if err := series.Validate(p.Kind); err != nil {
		return Rendered{}, fmt.Errorf("panel %s: %w", p.ID, err)
	}

	svg, err := draw(series, p.Config)
	if err != nil {
		return Rendered{}, fmt.Errorf("panel %s: %w", p.ID, err)
	}
	details, err := r.md.HTML(p.Details)
	if err != nil {
		return Rendered{}, fmt.Errorf("panel %s details: %w", p.ID, err)
	}
	return Rendered{
		ID:        p.ID,
		Title:     p.Title,
		Kind:      p.Kind,
		SVG:       template.HTML(svg),
		Details:   details,
		Markdown:  p.Details,
		Collapsed: true,
	}, nil
}

// Select returns the factors named in names, in that order. An empty names
// list selects everything.
func Select(scores []models.FactorScore, names []string) ([]models.FactorScore, error) {
	if len(names) == 0 {
		return scores, nil
	}
	out := make([]models.FactorScore, 0, len(names))
	for _, name := range names {
		found := false
		for _, f := range scores {
			if f.Matches(name) {
				out = append(out, f)
				found = true
				break
			}
		}
		if !found {
			return nil, &chart.ConfigurationError{Field: "subset", Reason: fmt.Sprintf("no factor named %q", name)}
		}
	}
	return out, nil
}
