package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

// Printer writes command output.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Println writes a line, logging rather than failing on write errors.
func (p *Printer) Println(s string) {
	if _, err := fmt.Fprintln(p.w, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

// Prediction prints a prediction with its sorted breakdown.
func (p *Printer) Prediction(pred model.Prediction) {
	p.Println(FormatPrediction(pred))
}

// FormatPrediction renders a prediction box.
func FormatPrediction(pred model.Prediction) string {
	lines := []string{
		"Player Name: " + pred.PlayerName,
		"Prediction:  " + report.NormalizeLabel(pred.Label),
		"Confidence:  " + Colored(report.HexFor(pred.Confidence), report.PercentString(pred.Confidence)),
	}

	if r := report.Render(pred.Breakdown); r != nil {
		lines = append(lines, "", SubtleStyle.Render("Breakdown"))
		for _, line := range r.Lines {
			lines = append(lines, "  "+line.Label+": "+Colored(line.Color, line.Percent))
		}
	}

	return RenderBox(RobotIcon+" "+pred.PlayerName, strings.Join(lines, "\n"))
}

// LookupFailed prints a failed lookup.
func (p *Printer) LookupFailed(name string, err error) {
	p.Println(FormatError(fmt.Sprintf("%s: %v", name, err)))
}

// Stats prints contribution stats; nil prints a notice.
func (p *Printer) Stats(name string, ps *model.PlayerStats) {
	if ps == nil {
		p.Println(FormatWarning("No reporting statistics for " + name))
		return
	}
	content := strings.Join([]string{
		"Reports Made:   " + strconv.Itoa(ps.Reports),
		"Confirmed Bans: " + strconv.Itoa(ps.Bans),
		"Probable Bans:  " + strconv.Itoa(ps.PossibleBans),
	}, "\n")
	p.Println(RenderBox(ChartIcon+" Reporting Statistics: "+name, content))
}

// History prints lookup records as a table.
func (p *Printer) History(records []model.LookupRecord) {
	if len(records) == 0 {
		p.Println(FormatInfo("No lookups recorded yet"))
		return
	}

	widths := []int{20, 14, 24, 12}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableHeaderStyle.Width(widths[0]).Render("When"),
		TableHeaderStyle.Width(widths[1]).Render("Player"),
		TableHeaderStyle.Width(widths[2]).Render("Prediction"),
		TableHeaderStyle.Width(widths[3]).Render("Confidence"),
	)
	rows := []string{header}

	for _, r := range records {
		prediction := report.NormalizeLabel(r.Label)
		confidence := Colored(report.HexFor(r.Confidence), report.PercentString(r.Confidence))
		if r.Failed() {
			prediction = ErrorStyle.Render(ErrorIcon + " failed")
			confidence = ""
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(widths[0]).Render(r.LookedUpAt.Local().Format("2006-01-02 15:04:05")),
			TableCellStyle.Width(widths[1]).Render(r.Name),
			TableCellStyle.Width(widths[2]).Render(prediction),
			TableCellStyle.Width(widths[3]).Render(confidence),
		))
	}

	p.Println(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// NewUploadProgress returns a progress bar for uploading total names.
func (p *Printer) NewUploadProgress(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Uploading names...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
