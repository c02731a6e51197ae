// Package report turns a prediction breakdown into an ordered, color-coded
// report. Everything here is pure; styling for a particular surface is left
// to the caller.
package report

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gradient endpoints for confidence colors.
var (
	Red    = colorful.Color{R: 1, G: 0, B: 0}
	Yellow = colorful.Color{R: 1, G: 1, B: 0}
	Green  = colorful.Color{R: 0, G: 1, B: 0}
)

// Clamp limits score to [0,1]. NaN maps to 0.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(math.Max(0, score), 1)
}

// ColorFor maps a confidence score onto the red→yellow→green gradient.
func ColorFor(score float64) colorful.Color {
	score = Clamp(score)
	if score < 0.5 {
		return Red.BlendRgb(Yellow, score*2)
	}
	return Yellow.BlendRgb(Green, (score-0.5)*2)
}

// HexFor returns ColorFor(score) as #rrggbb.
func HexFor(score float64) string {
	return ColorFor(score).Hex()
}
