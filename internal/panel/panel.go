package panel

import (
	"errors"
	"sync"

	"github.com/Veraticus/botdetector/internal/lookup"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/stats"
)

// State is the panel's lookup state.
type State int

const (
	// StateIdle waits for input.
	StateIdle State = iota
	// StateLoading has a lookup in flight; the input is read-only.
	StateLoading
	// StateDisplayingResult shows the last accepted prediction.
	StateDisplayingResult
	// StateError shows the last lookup failure.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateDisplayingResult:
		return "displaying"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Icon is the indicator shown next to the search input.
type Icon int

const (
	// IconSearch is shown while idle or displaying a result.
	IconSearch Icon = iota
	// IconLoading is shown while a lookup is in flight.
	IconLoading
	// IconError flags rejected input or a failed lookup.
	IconError
)

// Panel holds everything the prediction panel displays.
type Panel struct {
	lastErr    error
	coord      *lookup.Coordinator
	tracker    *stats.Tracker
	prediction *model.Prediction
	validator  rsn.Validator
	input      string
	state      State
	icon       Icon
	mu         sync.Mutex
	editable   bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithSanitizer replaces the default name sanitizer.
func WithSanitizer(s rsn.Sanitizer) Option {
	return func(p *Panel) {
		p.validator = rsn.NewValidator(s)
	}
}

// New returns an idle panel.
func New(anonymous bool, opts ...Option) *Panel {
	p := &Panel{
		coord:     lookup.NewCoordinator(),
		validator: rsn.NewValidator(nil),
		state:     StateIdle,
		icon:      IconSearch,
		editable:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tracker = stats.NewTracker(anonymous)
	return p
}

// Submit validates raw and, when valid, starts a lookup. The returned request
// must be dispatched exactly once. An empty name is ignored; a name that is
// too long flags the input and starts nothing. The error is the validation
// error, if any.
func (p *Panel) Submit(raw string) (lookup.Request, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.input = raw

	name, err := p.validator.Validate(raw)
	if err != nil {
		if errors.Is(err, rsn.ErrTooLong) {
			p.icon = IconError
		}
		return lookup.Request{}, false, err
	}

	req := p.coord.Submit(name)
	p.input = name.String()
	p.state = StateLoading
	p.icon = IconLoading
	p.editable = false
	return req, true, nil
}

// Resolve applies outcome if it answers the latest request. It reports
// whether the outcome was applied; stale outcomes leave the panel untouched.
func (p *Panel) Resolve(outcome lookup.Outcome) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.coord.ResolveFunc(outcome, func(_ lookup.Request, o lookup.Outcome) {
		p.editable = true
		if !o.Succeeded() {
			p.state = StateError
			p.icon = IconError
			p.prediction = nil
			p.lastErr = o.Err
			return
		}
		prediction := o.Prediction
		prediction.Breakdown = append(model.Breakdown(nil), o.Prediction.Breakdown...)
		p.state = StateDisplayingResult
		p.icon = IconSearch
		p.prediction = &prediction
		p.lastErr = nil
	})
}

// Clear empties the input and abandons any outstanding lookup. A displayed
// result stays visible.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.coord.Abandon()
	p.input = ""
	p.icon = IconSearch
	p.editable = true
	if p.state == StateLoading {
		p.state = StateIdle
	}
}

// SetInput records the current input text without submitting it.
func (p *Panel) SetInput(raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.input = raw
	if p.icon == IconError && p.state != StateError {
		p.icon = IconSearch
	}
}

// Stats returns the session stats tracker.
func (p *Panel) Stats() *stats.Tracker {
	return p.tracker
}

// IncrementNamesUploaded forwards a confirmed upload to the tracker.
func (p *Panel) IncrementNamesUploaded(count int) {
	p.tracker.IncrementNamesUploaded(count)
}

// RefreshStats replaces the remote stats; nil clears them.
func (p *Panel) RefreshStats(ps *model.PlayerStats) {
	p.tracker.Refresh(ps)
}

// SetAnonymousMode toggles the anonymous reporting warning.
func (p *Panel) SetAnonymousMode(anonymous bool) {
	p.tracker.SetAnonymousMode(anonymous)
}

// State returns the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
