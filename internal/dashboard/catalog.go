package dashboard

import (
	"fmt"

	"github.com/seenimoa/pronviz/internal/chart"
	"github.com/seenimoa/pronviz/internal/dataset"
	"github.com/seenimoa/pronviz/internal/panel"
)

// Panel IDs, in page order.
const (
	PanelPie     = "pie"
	PanelBar     = "bar"
	PanelRadar   = "radar"
	PanelGrouped = "grouped"
	PanelHeatmap = "heatmap"
	PanelFlow    = "flow"
)

// ChartConfigFunc resolves the chart configuration for a kind.
type ChartConfigFunc func(kind chart.Kind) (chart.Config, error)

// DefaultChartConfig resolves every kind to its built-in configuration.
func DefaultChartConfig(kind chart.Kind) (chart.Config, error) {
	return chart.DefaultConfig(kind), nil
}

type entry struct {
	id, title   string
	kind        chart.Kind
	excerpt     string
	subset      []string
	shortLabels bool
}

var catalog = []entry{
	{id: PanelPie, title: "Pie Chart - Factor Contribution", kind: chart.KindPie, excerpt: dataset.ExcerptPie},
	{id: PanelBar, title: "Bar Chart - Factor Impact", kind: chart.KindBar, excerpt: dataset.ExcerptBar},
	{id: PanelRadar, title: "Radar Chart - Multi-factor Influence", kind: chart.KindRadar, excerpt: dataset.ExcerptRadar},
	{id: PanelGrouped, title: "Grouped Bar - Level Comparison", kind: chart.KindGroupedBar, excerpt: dataset.ExcerptGrouped,
		subset: []string{"Primary", "Tertiary"}, shortLabels: true},
	{id: PanelHeatmap, title: "Heatmap - Intensity of Factors", kind: chart.KindHeatmap, excerpt: dataset.ExcerptHeatmap},
	{id: PanelFlow, title: "Flow of Pronunciation Issues (Visual)", kind: chart.KindFlow, excerpt: dataset.ExcerptFlow},
}

// rows groups panel IDs into page rows. Two-panel rows share the width.
var rows = [][]string{
	{PanelPie, PanelBar},
	{PanelRadar, PanelGrouped},
	{PanelHeatmap},
	{PanelFlow},
}

// Catalog returns the six dashboard panels in page order, each configured
// through cfgFor. A nil cfgFor uses the built-in chart defaults.
func Catalog(cfgFor ChartConfigFunc) ([]panel.Panel, error) {
	if cfgFor == nil {
		cfgFor = DefaultChartConfig
	}
	excerpts := dataset.Excerpts()
	panels := make([]panel.Panel, 0, len(catalog))
	for _, e := range catalog {
		cfg, err := cfgFor(e.kind)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", e.id, err)
		}
		ex, ok := excerpts[e.excerpt]
		if !ok {
			return nil, fmt.Errorf("panel %s: no details text %q", e.id, e.excerpt)
		}
		panels = append(panels, panel.Panel{
			ID:          e.id,
			Title:       e.title,
			Kind:        e.kind,
			Details:     ex.Markdown(),
			Subset:      append([]string(nil), e.subset...),
			ShortLabels: e.shortLabels,
			Config:      cfg,
		})
	}
	return panels, nil
}

// Rows returns the page layout as rows of panel IDs.
func Rows() [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
