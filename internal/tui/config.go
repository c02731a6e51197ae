// Package tui is the terminal rendition of the prediction panel.
package tui

import (
	"context"
	"time"

	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/tui/themes"
	"github.com/Veraticus/botdetector/internal/upload"
)

// HistoryRecorder persists accepted lookups.
type HistoryRecorder interface {
	RecordLookup(ctx context.Context, record *model.LookupRecord) (int64, error)
}

// Config holds TUI configuration.
type Config struct {
	Predictor     detector.Predictor
	Stats         detector.StatsFetcher
	Uploader      detector.Uploader
	History       HistoryRecorder
	Queue         *upload.Queue
	Recorder      *Recorder
	Presentation  themes.Presentation
	PlayerName    string
	LookupTimeout time.Duration
	StatsRefresh  time.Duration
	AutoSend      time.Duration
	BatchSize     int
	Width         int
	Height        int
	Anonymous     bool
	OnlyAtLogout  bool
	ShowHelp      bool
	StatusNotices bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Presentation:  themes.Presentation{Palette: themes.Default},
		LookupTimeout: 30 * time.Second,
		StatsRefresh:  5 * time.Minute,
		AutoSend:      5 * time.Minute,
		BatchSize:     100,
		Width:         60,
		Height:        30,
		ShowHelp:      true,
	}
}

// WithClient uses one detector client for predictions, stats and uploads.
func WithClient(client interface {
	detector.Predictor
	detector.StatsFetcher
	detector.Uploader
}) Option {
	return func(c *Config) {
		c.Predictor = client
		c.Stats = client
		c.Uploader = client
	}
}

// WithHistory records accepted lookups.
func WithHistory(h HistoryRecorder) Option {
	return func(c *Config) {
		c.History = h
	}
}

// WithQueue sets the queue of sighted names to upload.
func WithQueue(q *upload.Queue) Option {
	return func(c *Config) {
		c.Queue = q
	}
}

// WithRecorder captures every update for debugging.
func WithRecorder(r *Recorder) Option {
	return func(c *Config) {
		c.Recorder = r
	}
}

// WithPresentation sets the palette and text scale.
func WithPresentation(p themes.Presentation) Option {
	return func(c *Config) {
		c.Presentation = p
	}
}

// WithPlayer sets the local player and reporting mode.
func WithPlayer(name string, anonymous bool) Option {
	return func(c *Config) {
		c.PlayerName = name
		c.Anonymous = anonymous
	}
}

// WithTimings sets the lookup timeout and the refresh and upload intervals.
// Zero values keep the defaults.
func WithTimings(lookupTimeout, statsRefresh, autoSend time.Duration) Option {
	return func(c *Config) {
		if lookupTimeout > 0 {
			c.LookupTimeout = lookupTimeout
		}
		if statsRefresh > 0 {
			c.StatsRefresh = statsRefresh
		}
		if autoSend > 0 {
			c.AutoSend = autoSend
		}
	}
}

// WithUploads configures batching and whether uploads wait for quit.
func WithUploads(batchSize int, onlyAtLogout bool) Option {
	return func(c *Config) {
		if batchSize > 0 {
			c.BatchSize = batchSize
		}
		c.OnlyAtLogout = onlyAtLogout
	}
}

// WithStatusNotices shows a notice after each successful upload.
func WithStatusNotices(enabled bool) Option {
	return func(c *Config) {
		c.StatusNotices = enabled
	}
}
