package chart

import (
	"fmt"
	"math"
	"strings"
)

// svgWriter accumulates one SVG document.
type svgWriter struct {
	sb  strings.Builder
	cfg Config
}

// newSVG writes the header, background and title.
func newSVG(cfg Config, kind Kind) *svgWriter {
	w := &svgWriter{cfg: cfg}
	w.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" data-kind="%s">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, kind)
	w.printf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, cfg.Width, cfg.Height, cfg.BgColor)
	if cfg.Title != "" {
		w.printf(`<text class="title" x="%d" y="22" font-size="%d" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
			cfg.Width/2, cfg.FontSize+3, cfg.TextColor, escapeXML(cfg.Title))
	}
	return w
}

func (w *svgWriter) printf(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
}

// text writes a label at (x, y).
func (w *svgWriter) text(x, y float64, anchor, class, s string) {
	w.printf(`<text class="%s" x="%.2f" y="%.2f" font-size="%d" fill="%s" text-anchor="%s">%s</text>`,
		class, x, y, w.cfg.FontSize, w.cfg.TextColor, anchor, escapeXML(s))
}

func (w *svgWriter) close() string {
	w.sb.WriteString("</svg>")
	return w.sb.String()
}

// ticks returns evenly spaced tick values from 0 to max inclusive, using a
// 1/2/5×10^k step that yields roughly n intervals.
func ticks(max float64, n int) []float64 {
	if max <= 0 || n <= 0 {
		return []float64{0}
	}
	step := niceStep(max / float64(n))
	var out []float64
	for v := 0.0; v <= max+step*1e-9; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func niceStep(raw float64) float64 {
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	frac := raw / base
	switch {
	case frac <= 1:
		return base
	case frac <= 2:
		return 2 * base
	case frac <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// niceCeil rounds max up to the next multiple of its nice step.
func niceCeil(max float64) float64 {
	if max <= 0 {
		return 1
	}
	step := niceStep(max / 5)
	return math.Ceil(max/step) * step
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
