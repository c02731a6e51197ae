// Package rsn sanitizes and validates player names (RSNs) before any lookup
// against the detector service is attempted.
package rsn
