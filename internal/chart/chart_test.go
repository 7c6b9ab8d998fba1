package chart

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/pronviz/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func referenceSeries() Series {
	return Series{
		Labels: []string{"Primary", "Tertiary", "Media", "Natives", "L1vsL2"},
		Values: []float64{43, 21, 14, 13, 9},
	}
}

func referenceFlow() models.FlowGraph {
	return models.FlowGraph{
		Nodes: []models.FlowNode{
			{Label: "Primary Level Negligence", Color: "#1f77b4"},
			{Label: "Tertiary Level Unawareness", Color: "#ff7f0e"},
			{Label: "Sub-standard Pronunciation", Color: "#d62728"},
			{Label: "Poor Communication", Color: "#2ca02c"},
		},
		Edges: []models.FlowEdge{
			{From: "Primary Level Negligence", To: "Tertiary Level Unawareness"},
			{From: "Tertiary Level Unawareness", To: "Sub-standard Pronunciation"},
			{From: "Sub-standard Pronunciation", To: "Poor Communication"},
		},
	}
}

type renderFunc func(Series, Config) (string, error)

var seriesRenderers = map[Kind]renderFunc{
	KindPie:        Pie,
	KindBar:        HorizontalBar,
	KindRadar:      Radar,
	KindGroupedBar: GroupedBar,
	KindHeatmap:    Heatmap,
}

// ════════════════════════════════════════════════════════════════════
// Validation
// ════════════════════════════════════════════════════════════════════

func TestEmptySeriesIsInvalidInput(t *testing.T) {
	for kind, render := range seriesRenderers {
		t.Run(string(kind), func(t *testing.T) {
			svg, err := render(Series{}, DefaultConfig(kind))
			var inv *InvalidInputError
			require.True(t, errors.As(err, &inv), "got %v", err)
			assert.Equal(t, kind, inv.Kind)
			assert.Empty(t, svg)
		})
	}
}

func TestLabelValueMismatchIsConfigurationError(t *testing.T) {
	s := Series{Labels: []string{"a", "b"}, Values: []float64{1}}
	for kind, render := range seriesRenderers {
		t.Run(string(kind), func(t *testing.T) {
			_, err := render(s, DefaultConfig(kind))
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "labels", cfgErr.Field)
		})
	}
}

func TestPercentageOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"negative", -1},
		{"above hundred", 101},
		{"nan", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Series{Labels: []string{"x"}, Values: []float64{tt.value}}.Validate(KindBar)
			var inv *InvalidInputError
			assert.True(t, errors.As(err, &inv), "got %v", err)
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "dimensions"},
		{"margins swallow plot", func(c *Config) { c.MarginLeft = c.Width }, "margins"},
		{"negative axis", func(c *Config) { c.AxisMax = -5 }, "axis_max"},
		{"opacity above one", func(c *Config) { c.FillOpacity = 2 }, "fill_opacity"},
		{"zero font", func(c *Config) { c.FontSize = 0 }, "font_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(KindBar)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := LayoutBar(referenceSeries(), cfg)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Grouped-Bar")
	require.NoError(t, err)
	assert.Equal(t, KindGroupedBar, k)

	_, err = ParseKind("scatter")
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

// ════════════════════════════════════════════════════════════════════
// Pie
// ════════════════════════════════════════════════════════════════════

func TestPieSlicesFillCircle(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"reference sums to 100", []float64{43, 21, 14, 13, 9}},
		{"sums to 60", []float64{10, 20, 30}},
		{"sums to 150", []float64{50, 50, 50}},
		{"single category", []float64{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := make([]string, len(tt.values))
			for i := range labels {
				labels[i] = string(rune('A' + i))
			}
			lay, err := LayoutPie(Series{Labels: labels, Values: tt.values}, DefaultConfig(KindPie))
			require.NoError(t, err)
			total, sweep := 0.0, 0.0
			for _, s := range lay.Slices {
				total += s.Fraction
				sweep += s.Sweep()
			}
			assert.InDelta(t, 1.0, total, 1e-9)
			assert.InDelta(t, 360.0, sweep, 1e-9)
		})
	}
}

func TestPieReferenceProportions(t *testing.T) {
	lay, err := LayoutPie(referenceSeries(), DefaultConfig(KindPie))
	require.NoError(t, err)
	require.Len(t, lay.Slices, 5)

	assert.InDelta(t, PieStartAngle, lay.Slices[0].Start, 1e-9)
	for i, want := range []float64{43, 21, 14, 13, 9} {
		assert.InDelta(t, want*3.6, lay.Slices[i].Sweep(), 1e-9)
		if i > 0 {
			assert.InDelta(t, lay.Slices[i-1].End, lay.Slices[i].Start, 1e-9)
		}
	}
	// Every category gets a distinct Set3 colour.
	seen := map[string]bool{}
	for _, s := range lay.Slices {
		seen[s.Color] = true
	}
	assert.Len(t, seen, 5)
}

func TestPieAllZeroIsInvalid(t *testing.T) {
	_, err := LayoutPie(Series{Labels: []string{"a", "b"}, Values: []float64{0, 0}}, DefaultConfig(KindPie))
	var inv *InvalidInputError
	assert.True(t, errors.As(err, &inv))
}

func TestPieSVG(t *testing.T) {
	svg, err := Pie(referenceSeries(), DefaultConfig(KindPie))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(svg, `class="slice"`))
	assert.Contains(t, svg, ">43.0%</text>")
	assert.Contains(t, svg, ">9.0%</text>")
	assert.Contains(t, svg, ">Contribution of Factors</text>")
}

// ════════════════════════════════════════════════════════════════════
// Bars
// ════════════════════════════════════════════════════════════════════

func TestHorizontalBarScenario(t *testing.T) {
	lay, err := LayoutBar(referenceSeries(), DefaultConfig(KindBar))
	require.NoError(t, err)
	require.Len(t, lay.Bars, 5)
	assert.Equal(t, 50.0, lay.AxisMax)
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50}, lay.Ticks)

	for i, want := range []float64{43, 21, 14, 13, 9} {
		assert.InDelta(t, want/50*lay.PlotW, lay.Bars[i].Length(true), 1e-9)
		if i > 0 {
			assert.Greater(t, lay.Bars[i].Y, lay.Bars[i-1].Y, "bars run top to bottom")
		}
	}
}

func TestBarLengthMonotonic(t *testing.T) {
	s := Series{
		Labels: []string{"a", "b", "c", "d", "e", "f"},
		Values: []float64{0, 5, 12.5, 30, 49, 50},
	}
	cases := []struct {
		layout     func(Series, Config) (BarLayout, error)
		horizontal bool
	}{
		{LayoutBar, true},
		{LayoutGroupedBar, false},
	}
	for _, c := range cases {
		lay, err := c.layout(s, DefaultConfig(KindBar))
		require.NoError(t, err)
		for i := 1; i < len(lay.Bars); i++ {
			assert.Greater(t, lay.Bars[i].Length(c.horizontal), lay.Bars[i-1].Length(c.horizontal))
		}
	}
}

func TestBarClampsAboveAxis(t *testing.T) {
	lay, err := LayoutBar(Series{Labels: []string{"x"}, Values: []float64{80}}, DefaultConfig(KindBar))
	require.NoError(t, err)
	assert.InDelta(t, lay.PlotW, lay.Bars[0].W, 1e-9)
}

func TestGroupedBarScenario(t *testing.T) {
	s := Series{Labels: []string{"Primary", "Tertiary"}, Values: []float64{43, 21}}
	lay, err := LayoutGroupedBar(s, DefaultConfig(KindGroupedBar))
	require.NoError(t, err)
	require.Len(t, lay.Bars, 2)
	assert.Equal(t, 50.0, lay.AxisMax)
	assert.Equal(t, "Primary", lay.Bars[0].Label)
	assert.Equal(t, "Tertiary", lay.Bars[1].Label)
	assert.InDelta(t, 43.0/50*lay.PlotH, lay.Bars[0].H, 1e-9)
	assert.InDelta(t, 21.0/50*lay.PlotH, lay.Bars[1].H, 1e-9)
	// Both bars stand on the same baseline.
	assert.InDelta(t, lay.Bars[0].Y+lay.Bars[0].H, lay.Bars[1].Y+lay.Bars[1].H, 1e-9)

	svg, err := GroupedBar(s, DefaultConfig(KindGroupedBar))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(svg, `class="bar"`))
	assert.Contains(t, svg, `fill="#1f77b4"`)
	assert.Contains(t, svg, `fill="#ff7f0e"`)
}

// ════════════════════════════════════════════════════════════════════
// Radar
// ════════════════════════════════════════════════════════════════════

func TestRadarPolygonIsClosed(t *testing.T) {
	for n := 1; n <= 7; n++ {
		s := Series{}
		for i := 0; i < n; i++ {
			s.Labels = append(s.Labels, string(rune('a'+i)))
			s.Values = append(s.Values, float64(10*(i+1)))
		}
		lay, err := LayoutRadar(s, DefaultConfig(KindRadar))
		require.NoError(t, err)
		require.Len(t, lay.Polygon, n+1)
		assert.Equal(t, lay.Polygon[0], lay.Polygon[n])
		for i := 0; i < n; i++ {
			assert.InDelta(t, 2*math.Pi*float64(i)/float64(n), lay.Polygon[i].Angle, 1e-12)
		}
	}
}

func TestRadarScalesToNiceMax(t *testing.T) {
	lay, err := LayoutRadar(referenceSeries(), DefaultConfig(KindRadar))
	require.NoError(t, err)
	assert.Equal(t, 50.0, lay.Max)
	// The first vertex lies on the positive x axis at 43/50 of the radius.
	assert.InDelta(t, lay.CX+lay.R*43/50, lay.Polygon[0].X, 1e-9)
	assert.InDelta(t, lay.CY, lay.Polygon[0].Y, 1e-9)

	svg, err := Radar(referenceSeries(), DefaultConfig(KindRadar))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(svg, `class="marker"`))
	assert.Contains(t, svg, `fill-opacity="0.25"`)
}

// ════════════════════════════════════════════════════════════════════
// Heatmap
// ════════════════════════════════════════════════════════════════════

func TestHeatmapSingleRow(t *testing.T) {
	lay, err := LayoutHeatmap(referenceSeries(), DefaultConfig(KindHeatmap))
	require.NoError(t, err)
	assert.Equal(t, 1, lay.Rows)
	require.Len(t, lay.Cells, 5)

	var annotations []string
	for _, c := range lay.Cells {
		annotations = append(annotations, c.Annotation)
		assert.Equal(t, lay.Cells[0].Y, c.Y)
	}
	if diff := cmp.Diff([]string{"43", "21", "14", "13", "9"}, annotations); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 9.0, lay.Min)
	assert.Equal(t, 43.0, lay.Max)
	assert.NotEqual(t, lay.Cells[0].Color, lay.Cells[4].Color)

	svg, err := Heatmap(referenceSeries(), DefaultConfig(KindHeatmap))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(svg, `class="cell"`))
	assert.Equal(t, 5, strings.Count(svg, `class="annotation"`))
	assert.Contains(t, svg, `class="colorbar"`)
}

func TestHeatmapUnknownColormap(t *testing.T) {
	cfg := DefaultConfig(KindHeatmap)
	cfg.Colormap = "rainbow"
	_, err := Heatmap(referenceSeries(), cfg)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

// ════════════════════════════════════════════════════════════════════
// Flow
// ════════════════════════════════════════════════════════════════════

func TestFlowLayout(t *testing.T) {
	lay, err := LayoutFlow(referenceFlow(), DefaultConfig(KindFlow))
	require.NoError(t, err)
	assert.Len(t, lay.Nodes, 4)
	assert.Len(t, lay.Edges, 3)
	assert.Len(t, lay.Legend, 4)
	for i := 1; i < len(lay.Nodes); i++ {
		assert.Greater(t, lay.Nodes[i].Y, lay.Nodes[i-1].Y, "nodes run top to bottom")
		assert.Equal(t, lay.Nodes[0].X, lay.Nodes[i].X)
	}
	for i, le := range lay.Legend {
		assert.Equal(t, lay.Nodes[i].Color, le.Color)
		assert.Greater(t, le.X, lay.Nodes[i].X+lay.Radius)
	}

	svg, err := Flow(referenceFlow(), DefaultConfig(KindFlow))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(svg, `class="node"`))
	assert.Equal(t, 3, strings.Count(svg, `class="edge"`))
}

func TestFlowRejectsBadGraphs(t *testing.T) {
	cycle := referenceFlow()
	cycle.Edges = append(cycle.Edges, models.FlowEdge{From: "Poor Communication", To: "Primary Level Negligence"})

	dangling := referenceFlow()
	dangling.Edges = append(dangling.Edges, models.FlowEdge{From: "Poor Communication", To: "Nowhere"})

	dup := referenceFlow()
	dup.Nodes = append(dup.Nodes, dup.Nodes[0])

	fanOut := referenceFlow()
	fanOut.Edges = []models.FlowEdge{
		{From: "Primary Level Negligence", To: "Tertiary Level Unawareness"},
		{From: "Primary Level Negligence", To: "Sub-standard Pronunciation"},
		{From: "Primary Level Negligence", To: "Poor Communication"},
	}

	graphs := map[string]models.FlowGraph{
		"cycle":     cycle,
		"dangling":  dangling,
		"duplicate": dup,
		"branching": fanOut,
	}
	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			_, err := Flow(g, DefaultConfig(KindFlow))
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}

	_, err := Flow(models.FlowGraph{}, DefaultConfig(KindFlow))
	var inv *InvalidInputError
	assert.True(t, errors.As(err, &inv))
}

func TestFlowShortChartShrinksNodes(t *testing.T) {
	cfg := DefaultConfig(KindFlow)
	cfg.Height = 120 // 60px of plot for four nodes

	lay, err := LayoutFlow(referenceFlow(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, lay.Radius, 1e-9)
	_, py, _, ph := cfg.plotArea()
	for i, nd := range lay.Nodes {
		assert.GreaterOrEqual(t, nd.Y-lay.Radius, py-1e-9, "node %d above plot", i)
		assert.LessOrEqual(t, nd.Y+lay.Radius, py+ph+1e-9, "node %d below plot", i)
		if i > 0 {
			assert.Greater(t, nd.Y, lay.Nodes[i-1].Y, "nodes run top to bottom")
		}
	}
	for _, e := range lay.Edges {
		assert.Less(t, e.Y1, e.Y2, "%s→%s points down", e.From, e.To)
	}
}

// ════════════════════════════════════════════════════════════════════
// Idempotence and palettes
// ════════════════════════════════════════════════════════════════════

func TestRenderIsIdempotent(t *testing.T) {
	for kind, render := range seriesRenderers {
		t.Run(string(kind), func(t *testing.T) {
			a, err := render(referenceSeries(), DefaultConfig(kind))
			require.NoError(t, err)
			b, err := render(referenceSeries(), DefaultConfig(kind))
			require.NoError(t, err)
			assert.Equal(t, a, b)
			assert.True(t, strings.HasPrefix(a, "<svg "))
			assert.True(t, strings.HasSuffix(a, "</svg>"))
		})
	}
	a, _ := Flow(referenceFlow(), DefaultConfig(KindFlow))
	b, _ := Flow(referenceFlow(), DefaultConfig(KindFlow))
	assert.Equal(t, a, b)
}

func TestPalette(t *testing.T) {
	cw, err := Palette("coolwarm", 5)
	require.NoError(t, err)
	assert.Len(t, cw, 5)
	seen := map[string]bool{}
	for _, c := range cw {
		seen[c] = true
	}
	assert.Len(t, seen, 5)

	set3, err := Palette("Set3", 14)
	require.NoError(t, err)
	assert.Equal(t, set3[0], set3[12], "qualitative palettes cycle")

	_, err = Palette("nope", 3)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	low, err := ColormapAt("YlGnBu", 0)
	require.NoError(t, err)
	assert.Equal(t, "#ffffd9", low)
	assert.Equal(t, "#262626", contrastText(low))
	assert.Equal(t, "#ffffff", contrastText("#081d58"))

	names := PaletteNames()
	assert.IsNonDecreasing(t, names)
	for _, n := range names {
		_, err := Palette(n, 3)
		assert.NoError(t, err, n)
	}
}

func TestTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 10, 20, 30, 40, 50}, ticks(50, 5))
	assert.Equal(t, []float64{0}, ticks(0, 5))
	assert.Equal(t, 50.0, niceCeil(43))
	assert.Equal(t, 1.0, niceCeil(0))
}

func TestEscapedLabels(t *testing.T) {
	svg, err := HorizontalBar(Series{Labels: []string{`<b>"x"&`}, Values: []float64{10}}, DefaultConfig(KindBar))
	require.NoError(t, err)
	assert.Contains(t, svg, "&lt;b&gt;&quot;x&quot;&amp;")
	assert.NotContains(t, svg, "<b>")
}
