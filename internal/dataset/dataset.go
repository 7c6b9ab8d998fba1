// Package dataset holds the fixed figures and excerpts reported by
// "Variables Responsible for Sub-standard Pronunciation in Pakistan"
// (Akbar, Khan, Islam; IJISR 2019). Nothing here is read from disk or the
// network: every accessor returns a fresh copy of compiled-in values.
package dataset

import (
	"fmt"
	"strings"

	"github.com/seenimoa/pronviz/pkg/models"
)

// Factors returns the five contributing factors in the order the paper
// reports them. The slice is newly allocated on every call.
func Factors() []models.FactorScore {
	return []models.FactorScore{
		{Name: "Primary Sounds Unfamiliarity", Short: "Primary", Percentage: 43},
		{Name: "Tertiary Sounds Unfamiliarity", Short: "Tertiary", Percentage: 21},
		{Name: "Ignoring Media", Short: "Media", Percentage: 14},
		{Name: "Not Copying Natives", Short: "Natives", Percentage: 13},
		{Name: "Comparing L1 with L2", Short: "L1vsL2", Percentage: 9},
	}
}

// Paper returns the citation shown in the page header.
func Paper() models.Paper {
	return models.Paper{
		Title:   "Variables Responsible for Sub-standard Pronunciation in Pakistan",
		Journal: "International Journal of Innovation Sciences and Research, Vol.8, No, 07, pp.1433-1435, July 2019",
		Authors: []string{"Sadeeq Akbar", "Imran Khan", "Shams ul Islam"},
		Overview: "This study investigates the factors responsible for poor pronunciation " +
			"among Pakistani learners of English.",
		Quote: "It is aptly understood that input and authentic listening of speaking is the primary " +
			"need of correct pronunciation, however, learning English as a second language on the " +
			"ground of L1’s sounds also deforms pronunciation to some extent.",
	}
}

// IntroMarkdown renders the paper citation block as markdown.
func IntroMarkdown(p models.Paper) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Paper:** %s  \n", p.Journal))
	sb.WriteString(fmt.Sprintf("**Authors:** %s  \n\n", strings.Join(p.Authors, ", ")))
	sb.WriteString("### Overview\n")
	sb.WriteString(p.Overview + "  \n")
	sb.WriteString(fmt.Sprintf("> \"%s\"\n", p.Quote))
	return sb.String()
}

// Flow returns the causal narrative drawn by the flow diagram panel.
//
// The graph is illustrative: its nodes and edges are fixed labels taken from
// the paper's introduction and are not derived from the factor percentages.
func Flow() models.FlowGraph {
	return models.FlowGraph{
		Nodes: []models.FlowNode{
			{Label: "Primary Level Negligence", Color: "#1f77b4"},
			{Label: "Tertiary Level Unawareness", Color: "#ff7f0e"},
			{Label: "Sub-standard Pronunciation", Color: "#d62728"},
			{Label: "Poor Communication", Color: "#2ca02c"},
		},
		Edges: []models.FlowEdge{
			{From: "Primary Level Negligence", To: "Tertiary Level Unawareness"},
			{From: "Tertiary Level Unawareness", To: "Sub-standard Pronunciation"},
			{From: "Sub-standard Pronunciation", To: "Poor Communication"},
		},
	}
}
