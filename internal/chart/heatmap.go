package chart

import (
	"fmt"
	"math"
)

// HeatCell is one annotated cell of the heatmap.
type HeatCell struct {
	Label      string
	Value      float64
	Annotation string
	X, Y, W, H float64
	Color      string
	TextColor  string
}

// HeatmapLayout is the geometry of a single-row heatmap.
type HeatmapLayout struct {
	Rows     int
	Min, Max float64
	Cells    []HeatCell
	// Colorbar placement, right of the cells.
	BarX, BarY, BarW, BarH float64
}

// LayoutHeatmap lays the categories out as one row of cells whose colour
// intensity scales linearly from the smallest to the largest value.
func LayoutHeatmap(s Series, cfg Config) (HeatmapLayout, error) {
	if err := s.Validate(KindHeatmap); err != nil {
		return HeatmapLayout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return HeatmapLayout{}, err
	}
	cmap := cfg.Colormap
	if cmap == "" {
		cmap = "YlGnBu"
	}
	if _, err := ColormapAt(cmap, 0); err != nil {
		return HeatmapLayout{}, err
	}

	px, py, pw, ph := cfg.plotArea()
	lay := HeatmapLayout{Rows: 1, Min: s.Values[0], Max: s.Values[0]}
	for _, v := range s.Values {
		lay.Min = math.Min(lay.Min, v)
		lay.Max = math.Max(lay.Max, v)
	}
	lay.BarX = px + pw + 16
	lay.BarY = py
	lay.BarW = 14
	lay.BarH = ph

	cellW := pw / float64(s.Len())
	for i, v := range s.Values {
		t := 0.5
		if lay.Max > lay.Min {
			t = (v - lay.Min) / (lay.Max - lay.Min)
		}
		fill, err := ColormapAt(cmap, t)
		if err != nil {
			return HeatmapLayout{}, err
		}
		lay.Cells = append(lay.Cells, HeatCell{
			Label:      s.Labels[i],
			Value:      v,
			Annotation: fmt.Sprintf("%d", int(math.Round(v))),
			X:          px + float64(i)*cellW,
			Y:          py,
			W:          cellW,
			H:          ph,
			Color:      fill,
			TextColor:  contrastText(fill),
		})
	}
	return lay, nil
}

// Heatmap renders a single-row annotated heatmap with a colorbar.
func Heatmap(s Series, cfg Config) (string, error) {
	lay, err := LayoutHeatmap(s, cfg)
	if err != nil {
		return "", err
	}
	cmap := cfg.Colormap
	if cmap == "" {
		cmap = "YlGnBu"
	}
	w := newSVG(cfg, KindHeatmap)
	for _, c := range lay.Cells {
		w.printf(`<rect class="cell" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
			c.X, c.Y, c.W, c.H, c.Color)
		w.printf(`<text class="annotation" x="%.2f" y="%.2f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			c.X+c.W/2, c.Y+c.H/2+4, w.cfg.FontSize+1, c.TextColor, c.Annotation)
		lx, ly := c.X+c.W/2, c.Y+c.H+12
		w.printf(`<text class="label" x="%.2f" y="%.2f" font-size="%d" fill="%s" text-anchor="end" transform="rotate(-45,%.2f,%.2f)">%s</text>`,
			lx, ly, w.cfg.FontSize, w.cfg.TextColor, lx, ly, escapeXML(c.Label))
	}

	// Gradient runs bottom (min) to top (max).
	stops := colormapStops(cmap)
	w.sb.WriteString(`<defs><linearGradient id="heatmap-scale" x1="0" y1="1" x2="0" y2="0">`)
	for i, stop := range stops {
		w.printf(`<stop offset="%.3f" stop-color="%s"/>`, float64(i)/float64(len(stops)-1), stop)
	}
	w.sb.WriteString(`</linearGradient></defs>`)
	w.printf(`<rect class="colorbar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#heatmap-scale)"/>`,
		lay.BarX, lay.BarY, lay.BarW, lay.BarH)
	for _, v := range []float64{lay.Min, (lay.Min + lay.Max) / 2, lay.Max} {
		y := lay.BarY + lay.BarH
		if lay.Max > lay.Min {
			y -= (v - lay.Min) / (lay.Max - lay.Min) * lay.BarH
		} else {
			y -= lay.BarH / 2
		}
		w.text(lay.BarX+lay.BarW+4, y+4, "start", "tick", formatTick(v))
	}
	return w.close(), nil
}
