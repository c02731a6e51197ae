// Package stats tracks the reporting statistics shown in the panel: names
// uploaded this session, plus the cumulative reports, bans and possible bans
// the detector service keeps for the player.
package stats

import (
	"strconv"
	"sync"

	"github.com/Veraticus/botdetector/internal/model"
)

// Tracker holds session counters. Safe for concurrent use.
type Tracker struct {
	remote        *model.PlayerStats
	mu            sync.RWMutex
	namesUploaded int
	anonymous     bool
}

// NewTracker returns a tracker with no remote stats fetched yet.
func NewTracker(anonymous bool) *Tracker {
	return &Tracker{anonymous: anonymous}
}

// IncrementNamesUploaded adds count to the session total. Call it only after
// the upload was confirmed.
func (t *Tracker) IncrementNamesUploaded(count int) {
	if count <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.namesUploaded += count
}

// Refresh replaces the remote counters. A nil ps means the service has no
// stats for the player and clears them.
func (t *Tracker) Refresh(ps *model.PlayerStats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ps == nil {
		t.remote = nil
		return
	}
	cp := *ps
	t.remote = &cp
}

// SetAnonymousMode toggles the anonymous reporting warning.
func (t *Tracker) SetAnonymousMode(anonymous bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.anonymous = anonymous
}

// NamesUploaded returns the session total.
func (t *Tracker) NamesUploaded() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.namesUploaded
}

// Snapshot is a display-ready copy of the tracker. Remote fields are empty
// strings when unknown so "never fetched" is distinct from "0".
type Snapshot struct {
	NamesUploaded string
	Reports       string
	Bans          string
	PossibleBans  string
	Remote        *model.PlayerStats
	Anonymous     bool
}

// Snapshot returns the current display values.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		NamesUploaded: strconv.Itoa(t.namesUploaded),
		Anonymous:     t.anonymous,
	}
	if t.remote != nil {
		remote := *t.remote
		snap.Remote = &remote
		snap.Reports = strconv.Itoa(remote.Reports)
		snap.Bans = strconv.Itoa(remote.Bans)
		snap.PossibleBans = strconv.Itoa(remote.PossibleBans)
	}
	return snap
}
