// Package converter provides conversion between RTTTL ring tones and Standard MIDI Files
package converter

import (
	"fmt"

	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// Format represents a file format
type Format string

const (
	FormatRTTTL   Format = "rtttl"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// Codec reads and writes tone sequences in one file format
type Codec interface {
	Name() string
	Format() Format
	Decode(data []byte) (*rtttl.ToneSequence, error)
	Encode(seq *rtttl.ToneSequence) ([]byte, error)
}

// Converter handles format conversions
type Converter struct {
	codecs map[Format]Codec
}

// New creates a new Converter. Without arguments the RTTTL text and MIDI codecs are registered.
func New(codecs ...Codec) *Converter {
	if len(codecs) == 0 {
		codecs = []Codec{NewTextCodec(), NewMIDICodec()}
	}
	c := &Converter{codecs: make(map[Format]Codec, len(codecs))}
	for _, codec := range codecs {
		c.SetCodec(codec)
	}
	return c
}

// Codec returns the codec registered for a format
func (c *Converter) Codec(format Format) (Codec, error) {
	codec, ok := c.codecs[format]
	if !ok {
		return nil, fmt.Errorf("no codec for format %s", format)
	}
	return codec, nil
}

// SetCodec registers a codec, replacing any codec for the same format
func (c *Converter) SetCodec(codec Codec) {
	c.codecs[codec.Format()] = codec
}
