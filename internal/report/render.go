package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/botdetector/internal/model"
)

// Line is one rendered breakdown entry.
type Line struct {
	Label   string
	Percent string
	Color   string
	Score   float64
}

// Report is a breakdown ordered by descending score.
type Report struct {
	Lines []Line
}

// Render orders breakdown by descending score and formats each entry.
// It returns nil when there is nothing to show; callers hide the section.
// Equal scores keep their breakdown order. The input is not modified.
func Render(breakdown model.Breakdown) *Report {
	if len(breakdown) == 0 {
		return nil
	}

	sorted := make(model.Breakdown, len(breakdown))
	copy(sorted, breakdown)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	lines := make([]Line, 0, len(sorted))
	for _, entry := range sorted {
		lines = append(lines, Line{
			Label:   NormalizeLabel(entry.Label),
			Percent: PercentString(entry.Score),
			Color:   HexFor(entry.Score),
			Score:   entry.Score,
		})
	}

	return &Report{Lines: lines}
}

// NormalizeLabel makes a service label readable: "Real_Player" → "Real Player".
func NormalizeLabel(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(label, "_", " "))
}

// PercentString formats a [0,1] score as a percentage with two decimals.
func PercentString(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// Len returns the number of lines; safe on a nil report.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Lines)
}

// String renders the report as plain "label: NN.NN%" lines.
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Label)
		b.WriteString(": ")
		b.WriteString(line.Percent)
	}
	return b.String()
}
