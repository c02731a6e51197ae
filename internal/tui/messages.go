package tui

import (
	"time"

	"github.com/Veraticus/botdetector/internal/lookup"
	"github.com/Veraticus/botdetector/internal/model"
)

// predictionResolvedMsg carries a finished lookup back to Update.
type predictionResolvedMsg struct {
	at      time.Time
	outcome lookup.Outcome
	name    string
}

// lookupRequestMsg asks the panel to look up a name from outside the input.
type lookupRequestMsg struct {
	name string
}

type statsRefreshedMsg struct {
	err   error
	stats *model.PlayerStats
}

type namesUploadedMsg struct {
	err   error
	count int
}

type historyRecordedMsg struct {
	err error
}

type statsTickMsg time.Time

type uploadTickMsg time.Time
