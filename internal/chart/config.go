package chart

// Config holds rendering parameters for one chart.
type Config struct {
	Width        int    // SVG width in pixels
	Height       int    // SVG height in pixels
	MarginTop    int    // space for the title
	MarginRight  int    // legend / colorbar space
	MarginBottom int    // axis labels
	MarginLeft   int    // category labels
	BgColor      string // background fill
	GridColor    string // grid and tick lines
	TextColor    string // labels and title
	FontSize     int    // tick label size; the title is FontSize+3
	Title        string
	XLabel       string
	YLabel       string

	// AxisMax fixes the value-axis upper bound for bar, grouped bar and
	// radar charts. Zero derives it from the data.
	AxisMax float64
	// StartAngle is where the first pie slice begins, in degrees
	// counter-clockwise from three o'clock.
	StartAngle float64
	// Palette colours categories in order, cycling when shorter.
	Palette []string
	// Colormap names the sequential map used by the heatmap.
	Colormap string
	// LineColor and FillOpacity style the radar polygon.
	LineColor   string
	FillOpacity float64
	// NodeRadius sizes flow diagram nodes.
	NodeRadius float64
}

// PieStartAngle is the default rotation of the first pie slice. Any value
// draws a correct chart; 140° keeps the largest slice's label clear of the
// title.
const PieStartAngle = 140.0

// DefaultAxisMax is the fixed upper bound shared by the bar charts, so bars
// in different panels compare visually even though no value reaches it.
const DefaultAxisMax = 50.0

func baseConfig() Config {
	return Config{
		MarginTop:    36,
		MarginRight:  24,
		MarginBottom: 40,
		MarginLeft:   40,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     10,
	}
}

// DefaultConfig returns the reference configuration for a chart kind.
func DefaultConfig(kind Kind) Config {
	cfg := baseConfig()
	switch kind {
	case KindPie:
		cfg.Width, cfg.Height = 520, 400
		cfg.MarginLeft, cfg.MarginRight, cfg.MarginBottom = 24, 24, 24
		cfg.Title = "Contribution of Factors"
		cfg.StartAngle = PieStartAngle
		cfg.Palette = Set3()
	case KindBar:
		cfg.Width, cfg.Height = 520, 360
		cfg.MarginLeft = 200
		cfg.Title = "Impact of Factors"
		cfg.XLabel = "Percentage"
		cfg.AxisMax = DefaultAxisMax
		cfg.Palette = mustSample("coolwarm", 5)
	case KindRadar:
		cfg.Width, cfg.Height = 460, 420
		cfg.MarginLeft, cfg.MarginRight, cfg.MarginBottom = 24, 24, 24
		cfg.Title = "Radar Chart"
		cfg.LineColor = "#FF5733"
		cfg.FillOpacity = 0.25
	case KindGroupedBar:
		cfg.Width, cfg.Height = 420, 360
		cfg.MarginLeft = 56
		cfg.Title = "Primary vs Tertiary"
		cfg.YLabel = "Percentage"
		cfg.AxisMax = DefaultAxisMax
		cfg.Palette = []string{"#1f77b4", "#ff7f0e"}
	case KindHeatmap:
		cfg.Width, cfg.Height = 720, 220
		cfg.MarginLeft, cfg.MarginRight, cfg.MarginBottom = 24, 80, 110
		cfg.Title = "Heatmap"
		cfg.Colormap = "YlGnBu"
	case KindFlow:
		cfg.Width, cfg.Height = 560, 480
		cfg.MarginLeft, cfg.MarginRight, cfg.MarginBottom = 24, 220, 24
		cfg.Title = "Flow of Pronunciation Issues"
		cfg.NodeRadius = 40
	}
	return cfg
}

// plotArea returns the usable drawing area.
func (c Config) plotArea() (x, y, w, h float64) {
	return float64(c.MarginLeft), float64(c.MarginTop),
		float64(c.Width - c.MarginLeft - c.MarginRight),
		float64(c.Height - c.MarginTop - c.MarginBottom)
}

// Validate rejects configurations that leave no room to draw.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return misconfigured("dimensions", "width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.MarginTop < 0 || c.MarginRight < 0 || c.MarginBottom < 0 || c.MarginLeft < 0 {
		return misconfigured("margins", "margins must not be negative")
	}
	if _, _, w, h := c.plotArea(); w <= 0 || h <= 0 {
		return misconfigured("margins", "margins leave no plot area in a %dx%d chart", c.Width, c.Height)
	}
	if c.AxisMax < 0 {
		return misconfigured("axis_max", "must not be negative, got %v", c.AxisMax)
	}
	if c.FillOpacity < 0 || c.FillOpacity > 1 {
		return misconfigured("fill_opacity", "must be within [0,1], got %v", c.FillOpacity)
	}
	if c.FontSize <= 0 {
		return misconfigured("font_size", "must be positive, got %d", c.FontSize)
	}
	return nil
}

// color returns the palette entry for category i, or fallback when the
// palette is empty.
func (c Config) color(i int, fallback string) string {
	if len(c.Palette) == 0 {
		return fallback
	}
	return c.Palette[i%len(c.Palette)]
}
