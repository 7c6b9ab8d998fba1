// Package models defines the data types shared across pronviz packages.
package models

// FactorScore is one paper-reported contributing factor and the share of
// poor pronunciation (in percent) attributed to it.
type FactorScore struct {
	Name       string `json:"name"`
	Short      string `json:"short,omitempty"` // compact axis label, e.g. "Primary"
	Percentage int    `json:"percentage"`
}

// Label returns the short label when requested and available, else Name.
func (f FactorScore) Label(short bool) string {
	if short && f.Short != "" {
		return f.Short
	}
	return f.Name
}

// Matches reports whether name refers to this factor by full or short label.
func (f FactorScore) Matches(name string) bool {
	return name != "" && (name == f.Name || name == f.Short)
}

// Paper is the citation block shown at the top of the dashboard.
type Paper struct {
	Title    string   `json:"title"`
	Journal  string   `json:"journal"`
	Authors  []string `json:"authors"`
	Overview string   `json:"overview"`
	Quote    string   `json:"quote"`
}

// FlowNode is a labelled, coloured node of an illustrative flow diagram.
type FlowNode struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// FlowEdge is a directed edge between two nodes, referenced by label.
type FlowEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FlowGraph is a small directed graph drawn top-to-bottom.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// NodeIndex returns the position of the node with the given label, or -1.
func (g FlowGraph) NodeIndex(label string) int {
	for i, n := range g.Nodes {
		if n.Label == label {
			return i
		}
	}
	return -1
}

// IsChain reports whether the graph is a single directed path visiting
// every node exactly once (A→B→C→…).
func (g FlowGraph) IsChain() bool {
	n := len(g.Nodes)
	if n == 0 || len(g.Edges) != n-1 {
		return false
	}
	out := make([]int, n)
	in := make([]int, n)
	next := make([]int, n)
	for i := range next {
		next[i] = -1
	}
	for _, e := range g.Edges {
		from, to := g.NodeIndex(e.From), g.NodeIndex(e.To)
		if from < 0 || to < 0 || from == to {
			return false
		}
		out[from]++
		in[to]++
		next[from] = to
	}
	head := -1
	for i := 0; i < n; i++ {
		if out[i] > 1 || in[i] > 1 {
			return false
		}
		if in[i] == 0 {
			if head >= 0 {
				return false
			}
			head = i
		}
	}
	if head < 0 {
		return false
	}
	visited := 0
	for cur := head; cur >= 0 && visited <= n; cur = next[cur] {
		visited++
	}
	return visited == n
}
