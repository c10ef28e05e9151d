package rtttl

import (
	"errors"
	"fmt"
)

// Errors returned by the parser, the encoder and the lookup tables
var (
	ErrDelimiterCount      = errors.New("expected exactly 2 ':' delimiters")
	ErrMalformedControl    = errors.New("malformed control pair")
	ErrUnknownControl      = errors.New("unrecognized control name")
	ErrInvalidControlValue = errors.New("invalid control value")
	ErrMalformedNote       = errors.New("note does not match [duration]note[.][octave]")
	ErrUnknownNote         = errors.New("note not found")
	ErrAlreadyDotted       = errors.New("duration already dotted")
	ErrSemitoneOutOfRange  = errors.New("semitone out of range")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrInvalidSequence     = errors.New("invalid tone sequence")
	ErrInvalidState        = errors.New("tone sequence cannot be encoded")
)

// ParseError describes why an RTTTL string was rejected
type ParseError struct {
	Kind   error  // One of the Err* values
	Token  string // Offending part of the input
	Offset int    // Byte offset of Token in the input
	Cause  error  // Underlying error, may be nil
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("rtttl: %v at offset %d", e.Kind, e.Offset)
	if e.Token != "" {
		msg += fmt.Sprintf(" (%q)", e.Token)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
