package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/kepler/internal/engine"
)

// Summary colors.
const (
	colorTitle   = lipgloss.Color("86")
	colorBorder  = lipgloss.Color("240")
	colorLabel   = lipgloss.Color("245")
	colorValue   = lipgloss.Color("255")
	colorOK      = lipgloss.Color("42")
	colorWarning = lipgloss.Color("214")
)

const summaryBoxWidth = 48

// RunInfo is how a batch was executed, shown beneath the statistics.
type RunInfo struct {
	CacheHit   bool
	Partitions int
	Duration   time.Duration
}

type summaryLine struct {
	label string
	value string
}

func summaryLines(p *message.Printer, s engine.Summary, info RunInfo) []summaryLine {
	source := "solved"
	if info.CacheHit {
		source = "cache"
	}
	return []summaryLine{
		{"Elements", p.Sprintf("%d", s.Elements)},
		{"Circular", p.Sprintf("%d", s.Circular)},
		{"Warm starts", p.Sprintf("%d", s.WarmStarts)},
		{"Iterations", p.Sprintf("%d (mean %.2f)", s.Iterations, s.MeanIterations)},
		{"Max residual", fmt.Sprintf("%.3e", s.MaxResidual)},
		{"Max |E-M|", fmt.Sprintf("%.6f", s.MaxCorrection)},
		{"Partitions", p.Sprintf("%d", info.Partitions)},
		{"Source", source},
		{"Duration", info.Duration.Round(time.Microsecond).String()},
	}
}

// Summary writes the run statistics. styled selects the lipgloss box used
// on terminals; otherwise plain aligned text is written.
func Summary(w io.Writer, s engine.Summary, info RunInfo, styled bool) error {
	p := message.NewPrinter(language.English)
	if styled {
		return styledSummary(w, p, s, info)
	}
	return plainSummary(w, p, s, info)
}

func plainSummary(w io.Writer, p *message.Printer, s engine.Summary, info RunInfo) error {
	var b strings.Builder
	b.WriteString("SUMMARY\n")
	b.WriteString("=======\n")
	for _, line := range summaryLines(p, s, info) {
		fmt.Fprintf(&b, "%-14s %s\n", line.label+":", line.value)
	}
	fmt.Fprintf(&b, "%-14s %s\n", "Converged:", convergenceText(p, s))

	_, err := io.WriteString(w, b.String())
	return err
}

func styledSummary(w io.Writer, p *message.Printer, s engine.Summary, info RunInfo) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	labelStyle := lipgloss.NewStyle().Foreground(colorLabel).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(colorValue).Bold(true)
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(summaryBoxWidth)

	statusColor := colorOK
	if s.NonConverged > 0 {
		statusColor = colorWarning
	}
	statusStyle := lipgloss.NewStyle().Foreground(statusColor).Bold(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render("KEPLER SOLVE"))
	content.WriteString("\n\n")
	for _, line := range summaryLines(p, s, info) {
		content.WriteString(labelStyle.Render(line.label))
		content.WriteString(valueStyle.Render(line.value))
		content.WriteString("\n")
	}
	content.WriteString(labelStyle.Render("Converged"))
	content.WriteString(statusStyle.Render(convergenceText(p, s)))

	_, err := fmt.Fprintln(w, boxStyle.Render(content.String()))
	return err
}

func convergenceText(p *message.Printer, s engine.Summary) string {
	if s.NonConverged == 0 {
		return "all"
	}
	return p.Sprintf("%d of %d did not converge", s.NonConverged, s.Elements)
}
