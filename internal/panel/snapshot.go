package panel

import (
	"github.com/Veraticus/botdetector/internal/lookup"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/report"
	"github.com/Veraticus/botdetector/internal/stats"
)

// Primary is the rendered primary prediction.
type Primary struct {
	PlayerName string
	Label      string
	Percent    string
	Color      string
	Confidence float64
}

// Snapshot is a read-only view of the panel for rendering.
type Snapshot struct {
	Err        error
	Prediction *model.Prediction
	Primary    *Primary
	Breakdown  *report.Report
	Input      string
	Request    lookup.Request
	Stats      stats.Snapshot
	State      State
	Icon       Icon
	Editable   bool
	Pending    bool
}

// Snapshot returns the current view of the panel.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, pending := p.coord.Current()
	snap := Snapshot{
		State:    p.state,
		Icon:     p.icon,
		Input:    p.input,
		Editable: p.editable,
		Request:  req,
		Pending:  pending,
		Err:      p.lastErr,
		Stats:    p.tracker.Snapshot(),
	}

	if p.prediction != nil {
		prediction := *p.prediction
		prediction.Breakdown = append(model.Breakdown(nil), p.prediction.Breakdown...)
		snap.Prediction = &prediction
		snap.Primary = &Primary{
			PlayerName: prediction.PlayerName,
			Label:      report.NormalizeLabel(prediction.Label),
			Percent:    report.PercentString(prediction.Confidence),
			Color:      report.HexFor(prediction.Confidence),
			Confidence: prediction.Confidence,
		}
		snap.Breakdown = report.Render(prediction.Breakdown)
	}

	return snap
}

// ShowBreakdown reports whether the breakdown section should be visible.
func (s Snapshot) ShowBreakdown() bool {
	return s.Breakdown.Len() > 0
}

// ShowAnonymousWarning reports whether the anonymous reporting indicator is
// visible.
func (s Snapshot) ShowAnonymousWarning() bool {
	return s.Stats.Anonymous
}
