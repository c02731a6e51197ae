package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/botdetector/internal/lookup"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
)

// predict runs one lookup off the update loop.
func (m Model) predict(req lookup.Request) tea.Cmd {
	predictor := m.config.Predictor
	timeout := m.config.LookupTimeout
	return func() tea.Msg {
		outcome := lookup.Outcome{Token: req.Token}
		if predictor == nil {
			outcome.Err = errNoPredictor
			return predictionResolvedMsg{outcome: outcome, name: req.Name.String(), at: time.Now()}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		prediction, err := predictor.Predict(ctx, req.Name)
		outcome.Prediction = prediction
		outcome.Err = err
		return predictionResolvedMsg{outcome: outcome, name: req.Name.String(), at: time.Now()}
	}
}

// refreshStats fetches contribution stats for the configured player.
func (m Model) refreshStats() tea.Cmd {
	fetcher := m.config.Stats
	if fetcher == nil || m.config.Anonymous {
		return nil
	}
	name, err := rsn.Validate(m.config.PlayerName)
	if err != nil {
		return nil
	}
	timeout := m.config.LookupTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ps, fetchErr := fetcher.FetchStats(ctx, name)
		return statsRefreshedMsg{stats: ps, err: fetchErr}
	}
}

// flush uploads everything queued. Each batch gets the lookup timeout.
func (m Model) flush() tea.Cmd {
	uploader := m.config.Uploader
	queue := m.config.Queue
	if uploader == nil || queue == nil || queue.Len() == 0 {
		return nil
	}
	reporter := upload.Reporter(m.config.Anonymous, m.config.PlayerName)
	batchSize := m.config.BatchSize
	timeout := m.config.LookupTimeout
	return func() tea.Msg {
		count, err := upload.Flush(context.Background(), uploader, queue, reporter, batchSize, timeout, nil)
		return namesUploadedMsg{count: count, err: err}
	}
}

// record persists an accepted outcome.
func (m Model) record(msg predictionResolvedMsg) tea.Cmd {
	history := m.config.History
	if history == nil {
		return nil
	}
	rec := &model.LookupRecord{
		Name:       msg.name,
		LookedUpAt: msg.at,
	}
	if !msg.outcome.Succeeded() {
		rec.Error = msg.outcome.Err.Error()
	} else {
		rec.Label = msg.outcome.Prediction.Label
		rec.Confidence = msg.outcome.Prediction.Confidence
		rec.Breakdown = append(model.Breakdown(nil), msg.outcome.Prediction.Breakdown...)
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := history.RecordLookup(ctx, rec); err != nil {
			return historyRecordedMsg{err: err}
		}
		slog.Debug("Recorded lookup", "name", rec.Name, "failed", rec.Failed())
		return historyRecordedMsg{}
	}
}

func statsTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

func uploadTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return uploadTickMsg(t)
	})
}
