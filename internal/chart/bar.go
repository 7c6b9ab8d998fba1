package chart

// Bar is one rectangle in a bar chart, in SVG coordinates.
type Bar struct {
	Label string
	Value float64
	X, Y  float64
	W, H  float64
	Color string
}

// BarLayout is the geometry of a horizontal or vertical bar chart.
type BarLayout struct {
	PlotX, PlotY, PlotW, PlotH float64
	AxisMax                    float64
	Ticks                      []float64
	Bars                       []Bar
}

// Length returns the bar's extent along the value axis.
func (b Bar) Length(horizontal bool) float64 {
	if horizontal {
		return b.W
	}
	return b.H
}

func axisMax(s Series, cfg Config) float64 {
	if cfg.AxisMax > 0 {
		return cfg.AxisMax
	}
	return niceCeil(s.Max())
}

// LayoutBar places one horizontal bar per category, top to bottom in
// series order. Bar length is proportional to the value against the fixed
// axis bound; values beyond the bound stop at the plot edge.
func LayoutBar(s Series, cfg Config) (BarLayout, error) {
	if err := s.Validate(KindBar); err != nil {
		return BarLayout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return BarLayout{}, err
	}
	px, py, pw, ph := cfg.plotArea()
	upper := axisMax(s, cfg)
	lay := BarLayout{PlotX: px, PlotY: py, PlotW: pw, PlotH: ph, AxisMax: upper, Ticks: ticks(upper, 5)}

	band := ph / float64(s.Len())
	for i, v := range s.Values {
		lay.Bars = append(lay.Bars, Bar{
			Label: s.Labels[i],
			Value: v,
			X:     px,
			Y:     py + float64(i)*band + band*0.1,
			W:     clamp(v, 0, upper) / upper * pw,
			H:     band * 0.8,
			Color: cfg.color(i, "#4caf50"),
		})
	}
	return lay, nil
}

// LayoutGroupedBar places the categories as adjacent vertical bars sharing
// one y scale.
func LayoutGroupedBar(s Series, cfg Config) (BarLayout, error) {
	if err := s.Validate(KindGroupedBar); err != nil {
		return BarLayout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return BarLayout{}, err
	}
	px, py, pw, ph := cfg.plotArea()
	upper := axisMax(s, cfg)
	lay := BarLayout{PlotX: px, PlotY: py, PlotW: pw, PlotH: ph, AxisMax: upper, Ticks: ticks(upper, 5)}

	band := pw / float64(s.Len())
	width := band * 0.5
	for i, v := range s.Values {
		h := clamp(v, 0, upper) / upper * ph
		lay.Bars = append(lay.Bars, Bar{
			Label: s.Labels[i],
			Value: v,
			X:     px + float64(i)*band + (band-width)/2,
			Y:     py + ph - h,
			W:     width,
			H:     h,
			Color: cfg.color(i, "#1f77b4"),
		})
	}
	return lay, nil
}

// HorizontalBar renders a horizontal bar chart.
func HorizontalBar(s Series, cfg Config) (string, error) {
	lay, err := LayoutBar(s, cfg)
	if err != nil {
		return "", err
	}
	w := newSVG(cfg, KindBar)
	bottom := lay.PlotY + lay.PlotH
	for _, t := range lay.Ticks {
		x := lay.PlotX + t/lay.AxisMax*lay.PlotW
		w.printf(`<line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`,
			x, lay.PlotY, x, bottom, w.cfg.GridColor)
		w.text(x, bottom+14, "middle", "tick", formatTick(t))
	}
	for _, b := range lay.Bars {
		w.printf(`<rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-value="%s"/>`,
			b.X, b.Y, b.W, b.H, b.Color, formatTick(b.Value))
		w.text(lay.PlotX-6, b.Y+b.H/2+4, "end", "label", b.Label)
	}
	w.printf(`<line class="axis" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`,
		lay.PlotX, lay.PlotY, lay.PlotX, bottom, w.cfg.TextColor)
	if cfg.XLabel != "" {
		w.text(lay.PlotX+lay.PlotW/2, bottom+30, "middle", "axis-label", cfg.XLabel)
	}
	return w.close(), nil
}

// GroupedBar renders adjacent vertical bars under a shared y axis.
func GroupedBar(s Series, cfg Config) (string, error) {
	lay, err := LayoutGroupedBar(s, cfg)
	if err != nil {
		return "", err
	}
	w := newSVG(cfg, KindGroupedBar)
	bottom := lay.PlotY + lay.PlotH
	for _, t := range lay.Ticks {
		y := bottom - t/lay.AxisMax*lay.PlotH
		w.printf(`<line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`,
			lay.PlotX, y, lay.PlotX+lay.PlotW, y, w.cfg.GridColor)
		w.text(lay.PlotX-6, y+4, "end", "tick", formatTick(t))
	}
	for _, b := range lay.Bars {
		w.printf(`<rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-value="%s"/>`,
			b.X, b.Y, b.W, b.H, b.Color, formatTick(b.Value))
		w.text(b.X+b.W/2, bottom+14, "middle", "label", b.Label)
	}
	w.printf(`<line class="axis" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`,
		lay.PlotX, bottom, lay.PlotX+lay.PlotW, bottom, w.cfg.TextColor)
	if cfg.YLabel != "" {
		x, y := lay.PlotX-38, lay.PlotY+lay.PlotH/2
		w.printf(`<text class="axis-label" x="%.2f" y="%.2f" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-90,%.2f,%.2f)">%s</text>`,
			x, y, w.cfg.FontSize, w.cfg.TextColor, x, y, escapeXML(cfg.YLabel))
	}
	return w.close(), nil
}
