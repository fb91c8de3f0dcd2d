package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// View implements tea.Model.
func (m ResultsModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m ResultsModel) renderListView() string {
	sections := []string{m.renderSummaryHeader()}

	if len(m.rows) == 0 {
		sections = append(sections, SubtleStyle.Render("No elements to display."))
	} else {
		sections = append(sections, m.table.View())
	}

	if m.paginationEnabled {
		sections = append(sections, SubtleStyle.Render(
			fmt.Sprintf("Page %d/%d | PgUp/PgDn to navigate", m.currentPage, m.totalPages)))
	}

	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderSummaryHeader() string {
	p := message.NewPrinter(language.English)
	s := m.summary

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("KEPLER SOLVE"))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Elements: "))
	content.WriteString(ValueStyle.Render(p.Sprintf("%d", s.Elements)))
	content.WriteString(LabelStyle.Render("   Iterations: "))
	content.WriteString(ValueStyle.Render(p.Sprintf("%d", s.Iterations)))
	content.WriteString(LabelStyle.Render("   Max residual: "))
	content.WriteString(ValueStyle.Render(fmt.Sprintf("%.2e", s.MaxResidual)))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Converged: "))
	if s.NonConverged == 0 {
		content.WriteString(OKStyle.Render("all"))
	} else {
		content.WriteString(WarningStyle.Render(p.Sprintf("%d did not converge", s.NonConverged)))
	}
	if m.info.CacheHit {
		content.WriteString(SubtleStyle.Render("   (from cache)"))
	}

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

func (m ResultsModel) renderStatusBar() string {
	filter := ""
	if m.nonConvergedOnly {
		filter = fmt.Sprintf(" | Non-converged: %d/%d", len(m.rows), len(m.allRows))
	}
	return SubtleStyle.Render(fmt.Sprintf(
		"Sort: %s%s | 's' sort, 'n' non-converged only, enter details, 'q' quit", m.sortBy, filter))
}

func (m ResultsModel) renderDetailView() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return "Selected element is out of range."
	}
	r := m.rows[m.selected]

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(fmt.Sprintf("ELEMENT %d", r.Index)))
	content.WriteString("\n\n")

	line := func(label, value string) {
		content.WriteString(LabelStyle.Render(fmt.Sprintf("%-22s", label)))
		content.WriteString(ValueStyle.Render(value))
		content.WriteString("\n")
	}
	line("Mean anomaly (input)", fmt.Sprintf("%.15g", float64(r.MeanAnomaly)))
	line("Mean anomaly (wrapped)", fmt.Sprintf("%.15g", r.wrapped))
	line("Eccentricity", fmt.Sprintf("%.15g", float64(r.Eccentricity)))
	line("Eccentric anomaly E", fmt.Sprintf("%.15g", float64(r.Eccentric)))
	line("True anomaly f", fmt.Sprintf("%.15g", float64(r.True)))
	line("E (degrees)", fmt.Sprintf("%.6f", float64(r.Eccentric)*180/math.Pi))
	line("f (degrees)", fmt.Sprintf("%.6f", float64(r.True)*180/math.Pi))
	line("Residual", fmt.Sprintf("%.3e", r.residual))

	content.WriteString(LabelStyle.Render(fmt.Sprintf("%-22s", "Converged")))
	if r.Converged {
		content.WriteString(OKStyle.Render("yes"))
	} else {
		content.WriteString(WarningStyle.Render("no (iteration limit reached)"))
	}
	content.WriteString("\n")
	content.WriteString(SubtleStyle.Render("\nPress ENTER or ESC to return, 'q' to quit"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}
