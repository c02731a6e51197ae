// Package panel is the state machine behind the prediction panel. It wires
// name validation, the lookup coordinator, breakdown rendering and the
// session stats tracker into one state that a UI adapter renders from
// snapshots. It performs no I/O; callers dispatch the request returned by
// Submit and feed the outcome back through Resolve.
package panel
