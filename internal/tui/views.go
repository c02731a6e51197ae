package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/botdetector/internal/panel"
	"github.com/Veraticus/botdetector/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// Links shown at the bottom of the panel.
var Links = []struct {
	Name string
	URL  string
}{
	{Name: "Website", URL: "https://www.osrsbotdetector.com/"},
	{Name: "Discord", URL: "https://discord.com/invite/JCAGpcjbfP"},
	{Name: "GitHub", URL: "https://github.com/Bot-detector"},
	{Name: "Patreon", URL: "https://www.patreon.com/bot_detector"},
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.panel.Snapshot()
	sections := []string{
		m.styles.Title.Render("Bot Detector"),
		m.renderSearch(snap),
		m.renderStats(snap),
		m.renderPrediction(snap),
	}
	if snap.ShowBreakdown() {
		sections = append(sections, m.renderBreakdown(snap.Breakdown))
	}
	sections = append(sections, m.renderLinks())
	if m.status != "" {
		sections = append(sections, m.styles.Muted.Render(m.status))
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keymap))
	}

	gap := strings.Repeat("\n", m.config.Presentation.SectionGap())
	body := strings.Join(sections, "\n"+gap)
	return m.styles.Box.Render(body)
}

func (m Model) renderSearch(snap panel.Snapshot) string {
	line := m.input.View()
	switch snap.Icon {
	case panel.IconLoading:
		line += " " + m.spinner.View()
	case panel.IconError:
		line += " " + m.styles.Error.Render("✗ invalid")
	}
	return line
}

func (m Model) renderStats(snap panel.Snapshot) string {
	rows := []string{m.styles.Heading.Render("Reporting Statistics")}
	if snap.ShowAnonymousWarning() {
		rows = append(rows, m.styles.Warning.Render("⚠ Anonymous Reporting Active"))
	}
	rows = append(rows,
		m.row("Names Uploaded", snap.Stats.NamesUploaded),
		m.row("Reports Made", snap.Stats.Reports),
		m.row("Confirmed Bans", snap.Stats.Bans),
		m.row("Probable Bans", snap.Stats.PossibleBans),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPrediction(snap panel.Snapshot) string {
	rows := []string{m.styles.Heading.Render("Primary Prediction")}

	switch {
	case snap.State == panel.StateError:
		rows = append(rows, m.styles.Error.Render("Lookup failed: "+errorText(snap.Err)))
	case snap.Primary != nil:
		confidence := lipgloss.NewStyle().
			Foreground(lipgloss.Color(snap.Primary.Color)).
			Render(snap.Primary.Percent)
		rows = append(rows,
			m.row("Player Name", snap.Primary.PlayerName),
			m.row("Prediction", snap.Primary.Label),
			m.styles.Label.Render("Confidence: ")+confidence,
		)
	default:
		rows = append(rows,
			m.row("Player Name", ""),
			m.row("Prediction", ""),
			m.row("Confidence", ""),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderBreakdown(r *report.Report) string {
	rows := []string{m.styles.Heading.Render("Prediction Breakdown")}
	for _, line := range r.Lines {
		percent := lipgloss.NewStyle().
			Foreground(lipgloss.Color(line.Color)).
			Render(line.Percent)
		rows = append(rows, m.styles.Value.Render(line.Label+": ")+percent)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderLinks() string {
	rows := make([]string, 0, len(Links))
	for _, link := range Links {
		rows = append(rows, m.styles.Label.Render(link.Name+": ")+m.styles.Link.Render(link.URL))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) row(label, value string) string {
	return m.styles.Label.Render(label+": ") + m.styles.Value.Render(value)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
