package chart

import (
	"fmt"
	"math"
)

// PieSlice is one wedge, with angles in degrees counter-clockwise from
// three o'clock.
type PieSlice struct {
	Label    string
	Value    float64
	Fraction float64 // share of the full circle
	Start    float64
	End      float64
	Color    string
}

// Sweep returns the angular size of the slice in degrees.
func (s PieSlice) Sweep() float64 { return s.End - s.Start }

// PieLayout is the geometry of a pie chart.
type PieLayout struct {
	CX, CY, R float64
	Slices    []PieSlice
}

// LayoutPie divides the circle in proportion to the values. The fractions
// are normalised by the series total, so the slices always fill the circle
// whether or not the percentages add up to 100.
func LayoutPie(s Series, cfg Config) (PieLayout, error) {
	if err := s.Validate(KindPie); err != nil {
		return PieLayout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return PieLayout{}, err
	}
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	if total == 0 {
		return PieLayout{}, invalidInput(KindPie, "values sum to zero")
	}

	px, py, pw, ph := cfg.plotArea()
	lay := PieLayout{
		CX: px + pw/2,
		CY: py + ph/2,
		R:  math.Min(pw, ph) / 2 * 0.62,
	}
	angle := cfg.StartAngle
	for i, v := range s.Values {
		frac := v / total
		lay.Slices = append(lay.Slices, PieSlice{
			Label:    s.Labels[i],
			Value:    v,
			Fraction: frac,
			Start:    angle,
			End:      angle + 360*frac,
			Color:    cfg.color(i, "#cccccc"),
		})
		angle += 360 * frac
	}
	return lay, nil
}

// point returns the SVG coordinates at deg on a circle of radius r.
func (l PieLayout) point(deg, r float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return l.CX + r*math.Cos(rad), l.CY - r*math.Sin(rad)
}

// Pie renders a pie chart with a label and a percentage annotation per
// slice.
func Pie(s Series, cfg Config) (string, error) {
	lay, err := LayoutPie(s, cfg)
	if err != nil {
		return "", err
	}
	w := newSVG(cfg, KindPie)
	for _, sl := range lay.Slices {
		if sl.Fraction >= 1 {
			w.printf(`<circle class="slice" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="#000000" stroke-width="1"/>`,
				lay.CX, lay.CY, lay.R, sl.Color)
		} else {
			x1, y1 := lay.point(sl.Start, lay.R)
			x2, y2 := lay.point(sl.End, lay.R)
			large := 0
			if sl.Sweep() > 180 {
				large = 1
			}
			// sweep-flag 0: counter-clockwise on screen.
			w.printf(`<path class="slice" d="M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d,0 %.2f,%.2f Z" fill="%s" stroke="#000000" stroke-width="1"/>`,
				lay.CX, lay.CY, x1, y1, lay.R, lay.R, large, x2, y2, sl.Color)
		}
	}
	for _, sl := range lay.Slices {
		mid := (sl.Start + sl.End) / 2
		lx, ly := lay.point(mid, lay.R*1.1)
		anchor := "start"
		if math.Cos(mid*math.Pi/180) < 0 {
			anchor = "end"
		}
		w.text(lx, ly, anchor, "label", sl.Label)
		ax, ay := lay.point(mid, lay.R*0.6)
		w.text(ax, ay+4, "middle", "pct", formatPct(sl.Fraction*100))
	}
	return w.close(), nil
}

// formatPct formats a slice annotation with one decimal, e.g. "43.0%".
func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
