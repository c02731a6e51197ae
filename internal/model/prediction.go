// Package model defines the domain types shared by the lookup pipeline, the
// detector transport and the lookup history store.
package model

import (
	"fmt"
	"time"
)

// CategoryScore is the model's confidence that a player belongs to a category.
type CategoryScore struct {
	Label string
	Score float64
}

// Validate ensures the score has a label and lies in [0,1].
func (c CategoryScore) Validate() error {
	if c.Label == "" {
		return fmt.Errorf("category label is required")
	}
	if c.Score < 0.0 || c.Score > 1.0 {
		return fmt.Errorf("score for %q must be between 0.0 and 1.0, got %.4f", c.Label, c.Score)
	}
	return nil
}

// Breakdown holds per-category scores in the order the service returned them.
// Labels are unique. Scores are independent and need not sum to 1.
type Breakdown []CategoryScore

// Get returns the score for label.
func (b Breakdown) Get(label string) (float64, bool) {
	for _, c := range b {
		if c.Label == label {
			return c.Score, true
		}
	}
	return 0, false
}

// Validate checks every entry and rejects duplicate labels.
func (b Breakdown) Validate() error {
	seen := make(map[string]struct{}, len(b))
	for _, c := range b {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Label]; dup {
			return fmt.Errorf("duplicate category label %q", c.Label)
		}
		seen[c.Label] = struct{}{}
	}
	return nil
}

// Prediction is the detector's classification of a single player.
type Prediction struct {
	PlayerName string
	Label      string
	Breakdown  Breakdown
	PlayerID   int64
	Confidence float64
}

// PlayerStats are the cumulative contribution counters the detector keeps
// for a reporting player.
type PlayerStats struct {
	Reports      int
	Bans         int
	PossibleBans int
}

// Sighting is a single observed player name queued for upload.
type Sighting struct {
	SeenAt time.Time
	Name   string
}

// LookupRecord is a persisted, accepted lookup outcome.
type LookupRecord struct {
	LookedUpAt time.Time
	Name       string
	Label      string
	Error      string
	Breakdown  Breakdown
	ID         int64
	Confidence float64
}

// Failed reports whether the lookup ended in an error.
func (r LookupRecord) Failed() bool {
	return r.Error != ""
}
