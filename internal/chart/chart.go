// Package chart renders the dashboard's SVG charts.
//
// Every chart kind is drawn in two steps: a pure Layout function turns a
// Series and a Config into plot geometry, and a Render function encodes that
// geometry as a standalone SVG document. The same input always yields the
// same bytes.
package chart

import (
	"fmt"
	"strings"
)

// Kind selects the chart a panel draws.
type Kind string

const (
	KindPie        Kind = "pie"
	KindBar        Kind = "bar"
	KindRadar      Kind = "radar"
	KindGroupedBar Kind = "grouped_bar"
	KindHeatmap    Kind = "heatmap"
	KindFlow       Kind = "flow"
)

// Kinds returns every chart kind in dashboard order.
func Kinds() []Kind {
	return []Kind{KindPie, KindBar, KindRadar, KindGroupedBar, KindHeatmap, KindFlow}
}

// ParseKind maps a kind name (case-insensitive, '-' or '_') to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, k := range Kinds() {
		if k == norm {
			return k, nil
		}
	}
	return "", &ConfigurationError{Field: "kind", Reason: fmt.Sprintf("unknown chart kind %q", s)}
}
