package chart

import (
	"strings"

	"github.com/seenimoa/pronviz/pkg/models"
)

// FlowNodeLayout is a positioned flow diagram node.
type FlowNodeLayout struct {
	Label string
	Color string
	X, Y  float64
}

// FlowEdgeLayout is an arrow between two positioned nodes.
type FlowEdgeLayout struct {
	From, To       string
	X1, Y1, X2, Y2 float64
}

// LegendEntry maps a colour swatch to a node label.
type LegendEntry struct {
	Label string
	Color string
	X, Y  float64
}

// FlowLayout is the geometry of a top-to-bottom flow diagram.
type FlowLayout struct {
	Radius float64
	Nodes  []FlowNodeLayout
	Edges  []FlowEdgeLayout
	Legend []LegendEntry
}

// TopologicalOrder returns node indices so every edge points downwards.
// Unknown endpoints, duplicate labels and cycles are configuration errors.
func TopologicalOrder(g models.FlowGraph) ([]int, error) {
	if len(g.Nodes) == 0 {
		return nil, invalidInput(KindFlow, "the graph has no nodes")
	}
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.Label] {
			return nil, misconfigured("nodes", "duplicate node %q", n.Label)
		}
		seen[n.Label] = true
	}
	indeg := make([]int, len(g.Nodes))
	adj := make([][]int, len(g.Nodes))
	for _, e := range g.Edges {
		from, to := g.NodeIndex(e.From), g.NodeIndex(e.To)
		if from < 0 || to < 0 {
			return nil, misconfigured("edges", "edge %q→%q references an unknown node", e.From, e.To)
		}
		adj[from] = append(adj[from], to)
		indeg[to]++
	}

	var queue, order []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, next := range adj[cur] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return nil, misconfigured("edges", "the graph contains a cycle")
	}
	return order, nil
}

// LayoutFlow stacks the nodes vertically in topological order, centred in
// the plot area, with the legend to the right. Only single-path graphs fit a
// single column; branching graphs are rejected. Nodes shrink when the plot
// is too short for NodeRadius.
func LayoutFlow(g models.FlowGraph, cfg Config) (FlowLayout, error) {
	order, err := TopologicalOrder(g)
	if err != nil {
		return FlowLayout{}, err
	}
	if !g.IsChain() {
		return FlowLayout{}, misconfigured("edges", "the graph must be a single path through every node")
	}
	if err := cfg.Validate(); err != nil {
		return FlowLayout{}, err
	}
	px, py, pw, ph := cfg.plotArea()
	radius := cfg.NodeRadius
	if radius <= 0 {
		radius = 40
	}
	n := len(order)
	if fit := ph / float64(2*n); radius > fit {
		radius = fit
	}
	lay := FlowLayout{Radius: radius}

	step := 0.0
	if n > 1 {
		step = (ph - 2*radius) / float64(n-1)
	}
	pos := make(map[string]FlowNodeLayout, n)
	for rank, idx := range order {
		node := g.Nodes[idx]
		nl := FlowNodeLayout{
			Label: node.Label,
			Color: node.Color,
			X:     px + pw/2,
			Y:     py + radius + float64(rank)*step,
		}
		if n == 1 {
			nl.Y = py + ph/2
		}
		if nl.Color == "" {
			nl.Color = qualitative["tab10"][rank%len(qualitative["tab10"])]
		}
		pos[node.Label] = nl
		lay.Nodes = append(lay.Nodes, nl)
		lay.Legend = append(lay.Legend, LegendEntry{
			Label: node.Label,
			Color: nl.Color,
			X:     px + pw + 16,
			Y:     py + ph/2 - float64(n)*10 + float64(rank)*20,
		})
	}
	for _, e := range g.Edges {
		from, to := pos[e.From], pos[e.To]
		dir := 1.0
		if to.Y < from.Y {
			dir = -1
		}
		lay.Edges = append(lay.Edges, FlowEdgeLayout{
			From: e.From, To: e.To,
			X1: from.X, Y1: from.Y + dir*radius,
			X2: to.X, Y2: to.Y - dir*radius,
		})
	}
	return lay, nil
}

// Flow renders a directed graph top-to-bottom with per-node colours and an
// external legend.
func Flow(g models.FlowGraph, cfg Config) (string, error) {
	lay, err := LayoutFlow(g, cfg)
	if err != nil {
		return "", err
	}
	w := newSVG(cfg, KindFlow)
	w.printf(`<defs><marker id="flow-arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker></defs>`,
		w.cfg.TextColor)
	for _, e := range lay.Edges {
		w.printf(`<line class="edge" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5" marker-end="url(#flow-arrow)"/>`,
			e.X1, e.Y1, e.X2, e.Y2, w.cfg.TextColor)
	}
	for _, nd := range lay.Nodes {
		w.printf(`<circle class="node" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, nd.X, nd.Y, lay.Radius, nd.Color)
		words := strings.Fields(nd.Label)
		top := nd.Y - float64(len(words)-1)*float64(w.cfg.FontSize)/2 + 3
		w.printf(`<text class="node-label" x="%.2f" y="%.2f" font-size="%d" fill="#ffffff" text-anchor="middle">`,
			nd.X, top, w.cfg.FontSize-1)
		for i, word := range words {
			dy := 0
			if i > 0 {
				dy = w.cfg.FontSize
			}
			w.printf(`<tspan x="%.2f" dy="%d">%s</tspan>`, nd.X, dy, escapeXML(word))
		}
		w.sb.WriteString(`</text>`)
	}
	for _, le := range lay.Legend {
		w.printf(`<rect class="legend-swatch" x="%.2f" y="%.2f" width="12" height="12" fill="%s"/>`, le.X, le.Y, le.Color)
		w.text(le.X+18, le.Y+10, "start", "legend-label", le.Label)
	}
	return w.close(), nil
}
