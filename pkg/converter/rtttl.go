package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// TextCodec handles RTTTL text parsing and generation
type TextCodec struct{}

// NewTextCodec creates a new RTTTL text codec
func NewTextCodec() *TextCodec {
	return &TextCodec{}
}

// Name returns the codec name
func (t *TextCodec) Name() string {
	return "RTTTL text"
}

// Format returns FormatRTTTL
func (t *TextCodec) Format() Format {
	return FormatRTTTL
}

// ParseFile reads an RTTTL file and returns its tone sequence
func (t *TextCodec) ParseFile(filename string) (*rtttl.ToneSequence, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rtttl file: %w", err)
	}
	return t.Decode(data)
}

// Decode parses one RTTTL string. Surrounding whitespace, including a trailing newline, is ignored.
func (t *TextCodec) Decode(data []byte) (*rtttl.ToneSequence, error) {
	if err := t.Validate(data); err != nil {
		return nil, err
	}
	return rtttl.Parse(string(bytes.TrimSpace(data)))
}

// Encode creates RTTTL text from a tone sequence
func (t *TextCodec) Encode(seq *rtttl.ToneSequence) ([]byte, error) {
	str, err := rtttl.Encode(seq)
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

// WriteFile writes RTTTL text to a file, followed by a newline
func (t *TextCodec) WriteFile(seq *rtttl.ToneSequence, filename string) error {
	data, err := t.Encode(seq)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0644)
}

// Validate checks that data looks like a single RTTTL string
func (t *TextCodec) Validate(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("rtttl data is empty")
	}
	if bytes.ContainsAny(trimmed, "\r\n") {
		return errors.New("rtttl data contains more than one line")
	}
	for i, b := range trimmed {
		if b < 0x20 || b == 0x7F {
			return fmt.Errorf("invalid rtttl: control byte 0x%02X at position %d", b, i)
		}
	}
	return nil
}
