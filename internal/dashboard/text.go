package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/seenimoa/pronviz/internal/chart"
	"github.com/seenimoa/pronviz/pkg/utils"
)

// DefaultTextWidth is the wrap width for terminal output.
const DefaultTextWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb"))
	panelStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ee8468"))
)

// Text renders the page for a terminal: markdown through glamour, the
// factor table as block bars and each panel's details in full.
func (p *Page) Text(width int) (string, error) {
	if width <= 0 {
		width = DefaultTextWidth
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.NoTTYStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}

	rule := strings.Repeat("─", width)
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(p.Title) + "\n")
	intro, err := md.Render(p.IntroMarkdown)
	if err != nil {
		return "", fmt.Errorf("rendering intro: %w", err)
	}
	sb.WriteString(intro)
	sb.WriteString(rule + "\n\n")

	sb.WriteString(panelStyle.Render("Factors") + "\n")
	sb.WriteString(factorBars(p, width))
	sb.WriteString("\n" + rule + "\n")

	for _, row := range p.Rows {
		for _, r := range row.Panels {
			sb.WriteString("\n" + panelStyle.Render(r.Title) + "  " + mutedStyle.Render("["+string(r.Kind)+" chart]") + "\n")
			details, err := md.Render(r.Markdown)
			if err != nil {
				return "", fmt.Errorf("rendering %s details: %w", r.ID, err)
			}
			sb.WriteString(details)
		}
		sb.WriteString(rule + "\n")
	}
	sb.WriteString(mutedStyle.Render("Generated "+utils.FormatTimestamp(p.GeneratedAt)) + "\n")
	return sb.String(), nil
}

// factorBars lays out one line per factor: label, bar against the shared
// axis bound, percentage.
func factorBars(p *Page, width int) string {
	labelWidth := 0
	for _, f := range p.Factors {
		if n := lipgloss.Width(f.Name); n > labelWidth {
			labelWidth = n
		}
	}
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}

	var sb strings.Builder
	label := lipgloss.NewStyle().Width(labelWidth)
	for _, f := range p.Factors {
		bar := utils.Bar(float64(f.Percentage), chart.DefaultAxisMax, barWidth)
		sb.WriteString(fmt.Sprintf("%s  %s %s\n",
			label.Render(f.Name),
			barStyle.Render(bar),
			utils.FormatPctInt(f.Percentage),
		))
	}
	return sb.String()
}
