package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".rtttl", ".rtx", ".txt":
		return FormatRTTTL
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	// RTTTL is text with exactly two ':' separators
	if bytes.Count(data, []byte(":")) == 2 && !bytes.ContainsRune(data, 0) {
		return FormatRTTTL
	}

	return FormatUnknown
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}
	if inputFormat == FormatUnknown {
		return errors.New("cannot determine input format")
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	outputData, err := c.Convert(data, inputFormat, outputFormat)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// Convert decodes data in one format and encodes it in another
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	seq, err := c.Decode(data, from)
	if err != nil {
		return nil, err
	}
	return c.Encode(seq, to)
}

// Decode decodes data in the given format into a tone sequence
func (c *Converter) Decode(data []byte, format Format) (*rtttl.ToneSequence, error) {
	codec, err := c.Codec(format)
	if err != nil {
		return nil, err
	}
	return codec.Decode(data)
}

// Encode encodes a tone sequence in the given format
func (c *Converter) Encode(seq *rtttl.ToneSequence, format Format) ([]byte, error) {
	codec, err := c.Codec(format)
	if err != nil {
		return nil, err
	}
	return codec.Encode(seq)
}

// RTTTLToMIDI converts RTTTL text to MIDI format
func (c *Converter) RTTTLToMIDI(text []byte) ([]byte, error) {
	return c.Convert(text, FormatRTTTL, FormatMIDI)
}

// MIDIToRTTTL converts MIDI data to RTTTL text
func (c *Converter) MIDIToRTTTL(midiData []byte) ([]byte, error) {
	return c.Convert(midiData, FormatMIDI, FormatRTTTL)
}

// Canonicalize re-encodes RTTTL text with the minimal set of fields
func (c *Converter) Canonicalize(text []byte) ([]byte, error) {
	return c.Convert(text, FormatRTTTL, FormatRTTTL)
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"rtttl -> midi",
		"midi -> rtttl",
		"rtttl -> rtttl",
	}
}
