package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var qualitative = map[string][]string{
	"set3": {
		"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
		"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
	},
	"tab10": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
}

// Colormap anchors, evenly spaced over [0,1].
var colormaps = map[string][]string{
	"coolwarm": {"#3b4cc0", "#7b9ff9", "#c0d4f5", "#f2cbb7", "#ee8468", "#b40426"},
	"ylgnbu":   {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
	"viridis":  {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
}

// Set3 returns the qualitative palette used by the pie chart.
func Set3() []string {
	return append([]string(nil), qualitative["set3"]...)
}

// PaletteNames lists every name accepted by Palette.
func PaletteNames() []string {
	var names []string
	for n := range qualitative {
		names = append(names, n)
	}
	for n := range colormaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Palette resolves a palette name to n colours. Qualitative palettes are
// returned in order (cycling past their length); colormaps are sampled at
// n interior points so neither extreme is used.
func Palette(name string, n int) ([]string, error) {
	if n <= 0 {
		return nil, misconfigured("palette", "need a positive colour count, got %d", n)
	}
	key := strings.ToLower(name)
	if base, ok := qualitative[key]; ok {
		out := make([]string, n)
		for i := range out {
			out[i] = base[i%len(base)]
		}
		return out, nil
	}
	if _, ok := colormaps[key]; ok {
		out := make([]string, n)
		for i := range out {
			c, err := ColormapAt(key, float64(i+1)/float64(n+1))
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, misconfigured("palette", "unknown palette %q", name)
}

// ColormapAt interpolates the named colormap at t ∈ [0,1].
func ColormapAt(name string, t float64) (string, error) {
	anchors, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return "", misconfigured("colormap", "unknown colormap %q", name)
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(anchors)-1)
	i := int(math.Floor(pos))
	if i >= len(anchors)-1 {
		return anchors[len(anchors)-1], nil
	}
	lo, err := colorful.Hex(anchors[i])
	if err != nil {
		return "", fmt.Errorf("colormap %s: %w", name, err)
	}
	hi, err := colorful.Hex(anchors[i+1])
	if err != nil {
		return "", fmt.Errorf("colormap %s: %w", name, err)
	}
	return lo.BlendRgb(hi, pos-float64(i)).Clamped().Hex(), nil
}

// colormapStops returns the anchors of a colormap for SVG gradients.
func colormapStops(name string) []string {
	return colormaps[strings.ToLower(name)]
}

func mustSample(name string, n int) []string {
	out, err := Palette(name, n)
	if err != nil {
		panic(err)
	}
	return out
}

// contrastText picks dark or light annotation text for a fill colour.
func contrastText(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return "#262626"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.408 {
		return "#262626"
	}
	return "#ffffff"
}
