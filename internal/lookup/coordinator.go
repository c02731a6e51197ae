// Package lookup tracks the single outstanding prediction request and decides
// which asynchronous responses may be applied.
//
// Every Submit bumps a monotonically increasing token. A response is accepted
// only when it carries the current token and nothing has resolved that token
// yet, so the last submitted lookup always wins regardless of the order in
// which responses arrive.
package lookup

import (
	"sync"

	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/rsn"
)

// Token identifies a submitted lookup. Zero is never issued.
type Token uint64

// Request is a submitted lookup.
type Request struct {
	Name  rsn.Name
	Token Token
}

// Outcome is the result of a request, delivered on the same channel for
// success and failure.
type Outcome struct {
	Err        error
	Prediction model.Prediction
	Token      Token
}

// Succeeded reports whether the outcome carries a prediction.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Coordinator owns the current token. It is safe for concurrent use; the
// token check and the caller's apply step run in one critical section.
type Coordinator struct {
	current  Request
	mu       sync.Mutex
	resolved bool
}

// NewCoordinator returns a coordinator with no outstanding request.
func NewCoordinator() *Coordinator {
	return &Coordinator{resolved: true}
}

// Submit supersedes any outstanding request and returns the new one.
func (c *Coordinator) Submit(name rsn.Name) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = Request{Name: name, Token: c.current.Token + 1}
	c.resolved = false
	return c.current
}

// Abandon invalidates the outstanding request without starting a new one.
func (c *Coordinator) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = Request{Token: c.current.Token + 1}
	c.resolved = true
}

// Resolve reports whether outcome answers the current request. Stale or
// duplicate outcomes return false and must be ignored.
func (c *Coordinator) Resolve(outcome Outcome) bool {
	return c.ResolveFunc(outcome, nil)
}

// ResolveFunc is Resolve with an apply step that runs only for an accepted
// outcome, while the coordinator's lock is held. Callers use it to update
// their displayed result atomically with the token check.
func (c *Coordinator) ResolveFunc(outcome Outcome, apply func(Request, Outcome)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved || outcome.Token != c.current.Token {
		return false
	}
	c.resolved = true
	if apply != nil {
		apply(c.current, outcome)
	}
	return true
}

// Current returns the latest submitted request and whether it is unresolved.
func (c *Coordinator) Current() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, !c.resolved
}

// Pending reports whether a submitted request is still awaiting its outcome.
func (c *Coordinator) Pending() bool {
	_, pending := c.Current()
	return pending
}
