package rsn

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the longest player name the game allows.
const MaxLength = 12

// Name is a sanitized, length-checked player name.
type Name string

// String returns the name as a plain string.
func (n Name) String() string {
	return string(n)
}

// Sanitizer cleans raw text captured from the game or typed by the user.
// Implementations must be deterministic and idempotent.
type Sanitizer func(raw string) string

// Validation errors.
var (
	ErrEmptyName = errors.New("name is empty")
	ErrTooLong   = errors.New("name is too long")
)

// Kind identifies why a name failed validation.
type Kind int

const (
	// EmptyName means nothing was left after sanitizing. Callers should no-op.
	EmptyName Kind = iota + 1
	// TooLong means the name exceeds MaxLength. Callers should flag the input.
	TooLong
)

// ValidationError describes a rejected name.
type ValidationError struct {
	Raw    string
	Kind   Kind
	Length int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyName:
		return ErrEmptyName.Error()
	case TooLong:
		return fmt.Sprintf("%s: %d characters (max %d)", ErrTooLong, e.Length, MaxLength)
	default:
		return "invalid name"
	}
}

// Is lets errors.Is match the sentinel for the error's kind.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case EmptyName:
		return target == ErrEmptyName
	case TooLong:
		return target == ErrTooLong
	}
	return false
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Sanitize is the default Sanitizer. It maps space runes (including
// non-breaking spaces) to spaces and drops control and formatting runes
// before any markup handling, so a removed rune can never splice a new tag
// together. It then drops a leading chat icon, strips markup tags, and
// collapses whitespace runs.
func Sanitize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, raw)

	if strings.Contains(cleaned, "<img") {
		cleaned = cleaned[strings.LastIndex(cleaned, ">")+1:]
	}
	cleaned = tagPattern.ReplaceAllString(cleaned, "")

	return whitespacePattern.ReplaceAllString(cleaned, " ")
}

// Validator validates names with a specific Sanitizer.
type Validator struct {
	sanitize Sanitizer
}

// NewValidator returns a Validator using sanitize, or Sanitize when nil.
func NewValidator(sanitize Sanitizer) Validator {
	if sanitize == nil {
		sanitize = Sanitize
	}
	return Validator{sanitize: sanitize}
}

// Validate sanitizes and trims raw, then checks its length.
func (v Validator) Validate(raw string) (Name, error) {
	sanitize := v.sanitize
	if sanitize == nil {
		sanitize = Sanitize
	}

	cleaned := strings.TrimSpace(sanitize(raw))
	length := utf8.RuneCountInString(cleaned)

	if length == 0 {
		return "", &ValidationError{Raw: raw, Kind: EmptyName}
	}
	if length > MaxLength {
		return "", &ValidationError{Raw: raw, Kind: TooLong, Length: length}
	}

	return Name(cleaned), nil
}

// Validate validates raw with the default Sanitizer.
func Validate(raw string) (Name, error) {
	return NewValidator(nil).Validate(raw)
}
