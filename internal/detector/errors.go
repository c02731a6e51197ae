package detector

import (
	"errors"
	"fmt"

	"github.com/Veraticus/botdetector/internal/common"
)

// Lookup failure sentinels, matched with errors.Is.
var (
	ErrNetwork          = errors.New("detector unreachable")
	ErrBadStatus        = errors.New("detector returned an error status")
	ErrMalformedPayload = errors.New("detector returned a malformed payload")
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindBadStatus
	KindMalformedPayload
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindBadStatus:
		return ErrBadStatus
	case KindMalformedPayload:
		return ErrMalformedPayload
	default:
		return nil
	}
}

// LookupError is returned by every client call that fails.
type LookupError struct {
	Err        error
	Op         string
	Kind       ErrorKind
	StatusCode int
}

func (e *LookupError) Error() string {
	msg := e.Op + ": " + e.Kind.sentinel().Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *LookupError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Retryable reports whether repeating the call could succeed: network
// failures, server errors, and anything common.IsRetryable accepts, such as
// rate limiting.
func (e *LookupError) Retryable() bool {
	return e.Kind == KindNetwork || e.StatusCode >= 500 || common.IsRetryable(e.Err)
}
