package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vibeshield/internal/aggregate"
	"vibeshield/internal/model"
	"vibeshield/internal/version"
)

const bannerArt = `
╦  ╦╦╔╗ ╔═╗  ╔═╗╦ ╦╦╔═╗╦  ╔╦╗
╚╗╔╝║╠╩╗║╣   ╚═╗╠═╣║║╣ ║   ║║
 ╚╝ ╩╚═╝╚═╝  ╚═╝╩ ╩╩╚═╝╩═╝═╩╝
`

var (
	styleCritical = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9"))
	styleHigh     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleMedium   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleLow      = lipgloss.NewStyle().Faint(true)
	styleBanner   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleDim      = lipgloss.NewStyle().Faint(true)
	styleSafe     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleFail     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleAgent    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type painter bool

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}

func (p painter) severity(sev model.Severity) string {
	label := strings.ToUpper(string(sev))
	switch sev {
	case model.SeverityCritical:
		return p.paint(styleCritical, label)
	case model.SeverityHigh:
		return p.paint(styleHigh, label)
	case model.SeverityMedium:
		return p.paint(styleMedium, label)
	case model.SeverityLow:
		return p.paint(styleLow, label)
	default:
		return label
	}
}

// Banner is the header printed before interactive output.
func Banner(color bool) string {
	p := painter(color)
	return p.paint(styleBanner, bannerArt) + "\n" +
		p.paint(styleDim, fmt.Sprintf("  %s - Security scanner for vibe coders", version.Version)) + "\n"
}

// FormatHuman renders the terminal report: verdict, counts by severity and by
// type, warnings, then the agent transcript.
func FormatHuman(issues []model.Issue, warnings []string, color bool) string {
	p := painter(color)
	var b strings.Builder

	if len(issues) == 0 {
		b.WriteString(p.paint(styleSafe, "✓ SAFE") + "\n")
		b.WriteString(p.paint(styleDim, "No security issues detected. Ship it!") + "\n")
		writeWarnings(&b, p, warnings)
		return b.String()
	}

	summary := aggregate.Summarize(issues)
	noun := "issue"
	if summary.Total > 1 {
		noun = "issues"
	}
	b.WriteString(p.paint(styleFail, fmt.Sprintf("✗ Found %d security %s", summary.Total, noun)) + "\n\n")

	var parts []string
	for _, sev := range model.Severities {
		if n := summary.BySeverity.Get(sev); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, p.severity(sev)))
		}
	}
	b.WriteString("Severity: " + strings.Join(parts, ", ") + "\n\n")

	b.WriteString("Summary:\n")
	for _, nc := range aggregate.RankedNames(issues) {
		b.WriteString(fmt.Sprintf("  %s %s\n", p.severity(nc.Severity), p.paint(styleDim, fmt.Sprintf("• %s: %d", nc.Name, nc.Count))))
	}
	b.WriteString("\n")

	writeWarnings(&b, p, warnings)
	b.WriteString(p.paint(styleAgent, FormatAgentPrompt(issues, nil)) + "\n")
	return b.String()
}

func writeWarnings(b *strings.Builder, p painter, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(p.paint(styleWarn, "! "+sanitizeInline(w)) + "\n")
	}
	b.WriteString("\n")
}
