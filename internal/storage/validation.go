// Package storage persists lookup history in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidLimit   = errors.New("limit must be positive")
	ErrInvalidRecord  = errors.New("invalid lookup record")
	ErrRecordNotFound = fmt.Errorf("lookup record %w", common.ErrNotFound)
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord checks a record is fit to persist.
func validateRecord(record *model.LookupRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if record.LookedUpAt.IsZero() {
		return fmt.Errorf("%w: lookup time is required", ErrInvalidRecord)
	}
	if record.Failed() {
		return nil
	}
	if record.Label == "" {
		return fmt.Errorf("%w: label is required for successful lookups", ErrInvalidRecord)
	}
	if err := record.Breakdown.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}
