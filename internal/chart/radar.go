package chart

import "math"

// RadarPoint is a vertex of the radar polygon.
type RadarPoint struct {
	Label string
	Value float64
	Angle float64 // radians, counter-clockwise from three o'clock
	X, Y  float64
}

// RadarLayout is the geometry of a radar (spider) chart.
type RadarLayout struct {
	CX, CY, R float64
	Max       float64
	Rings     []float64 // ring values, excluding 0
	Axes      []RadarPoint
	// Polygon is closed: it holds N+1 points and the last equals the first.
	Polygon []RadarPoint
}

// LayoutRadar spaces one axis per category at angle 2π·i/N and plots the
// values as a closed polygon.
func LayoutRadar(s Series, cfg Config) (RadarLayout, error) {
	if err := s.Validate(KindRadar); err != nil {
		return RadarLayout{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RadarLayout{}, err
	}
	px, py, pw, ph := cfg.plotArea()
	lay := RadarLayout{
		CX:  px + pw/2,
		CY:  py + ph/2,
		R:   math.Min(pw, ph) / 2 * 0.7,
		Max: axisMax(s, cfg),
	}
	for _, t := range ticks(lay.Max, 4) {
		if t > 0 {
			lay.Rings = append(lay.Rings, t)
		}
	}

	n := s.Len()
	for i, v := range s.Values {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := clamp(v, 0, lay.Max) / lay.Max * lay.R
		lay.Axes = append(lay.Axes, RadarPoint{
			Label: s.Labels[i],
			Value: lay.Max,
			Angle: angle,
			X:     lay.CX + lay.R*math.Cos(angle),
			Y:     lay.CY - lay.R*math.Sin(angle),
		})
		lay.Polygon = append(lay.Polygon, RadarPoint{
			Label: s.Labels[i],
			Value: v,
			Angle: angle,
			X:     lay.CX + r*math.Cos(angle),
			Y:     lay.CY - r*math.Sin(angle),
		})
	}
	lay.Polygon = append(lay.Polygon, lay.Polygon[0])
	return lay, nil
}

// Radar renders a filled radar chart with markers at every vertex.
func Radar(s Series, cfg Config) (string, error) {
	lay, err := LayoutRadar(s, cfg)
	if err != nil {
		return "", err
	}
	line := cfg.LineColor
	if line == "" {
		line = "#FF5733"
	}
	w := newSVG(cfg, KindRadar)
	for _, ring := range lay.Rings {
		r := ring / lay.Max * lay.R
		w.printf(`<circle class="ring" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s"/>`,
			lay.CX, lay.CY, r, w.cfg.GridColor)
		w.text(lay.CX+3, lay.CY-r-2, "start", "tick", formatTick(ring))
	}
	for _, a := range lay.Axes {
		w.printf(`<line class="spoke" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`,
			lay.CX, lay.CY, a.X, a.Y, w.cfg.GridColor)
		lx := lay.CX + lay.R*1.12*math.Cos(a.Angle)
		ly := lay.CY - lay.R*1.12*math.Sin(a.Angle)
		anchor := "middle"
		switch c := math.Cos(a.Angle); {
		case c > 0.1:
			anchor = "start"
		case c < -0.1:
			anchor = "end"
		}
		w.text(lx, ly+4, anchor, "label", a.Label)
	}

	w.sb.WriteString(`<path class="polygon" d="`)
	for i, p := range lay.Polygon {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		w.printf("%s%.2f,%.2f ", cmd, p.X, p.Y)
	}
	w.printf(`Z" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1.5"/>`, line, cfg.FillOpacity, line)
	for _, p := range lay.Polygon[:len(lay.Polygon)-1] {
		w.printf(`<circle class="marker" cx="%.2f" cy="%.2f" r="3" fill="%s"/>`, p.X, p.Y, line)
	}
	return w.close(), nil
}
