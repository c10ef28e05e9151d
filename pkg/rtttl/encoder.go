package rtttl

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode converts a tone sequence to its canonical RTTTL string.
//
// Control pairs are only written when the sequence defaults differ from DefaultOctave,
// DefaultDuration and DefaultBeatsPerMinute, and each tone only carries the duration
// and octave fields that differ from the sequence defaults. Parsing the result gives
// back an equal sequence.
func Encode(seq *ToneSequence) (string, error) {
	if seq == nil {
		return "", fmt.Errorf("%w: nil sequence", ErrInvalidState)
	}

	var b strings.Builder
	b.WriteString(seq.name)
	b.WriteByte(':')
	encodeControlSection(&b, seq)
	b.WriteByte(':')
	if err := encodeTones(&b, seq); err != nil {
		return "", err
	}
	return b.String(), nil
}

func encodeControlSection(b *strings.Builder, seq *ToneSequence) {
	var pairs []string
	if seq.octave != DefaultOctave {
		pairs = append(pairs, controlPair(ControlOctave, seq.octave))
	}
	if seq.duration != DefaultDuration {
		pairs = append(pairs, controlPair(ControlDuration, seq.duration.Denominator()))
	}
	if seq.beatsPerMinute != DefaultBeatsPerMinute {
		pairs = append(pairs, controlPair(ControlBeatsPerMinute, seq.beatsPerMinute))
	}
	b.WriteString(strings.Join(pairs, ","))
}

func controlPair(name byte, value int) string {
	return string(name) + "=" + strconv.Itoa(value)
}

func encodeTones(b *strings.Builder, seq *ToneSequence) error {
	defaultDenominator := seq.duration.Denominator()

	for i, t := range seq.tones {
		if !t.Duration.Valid() {
			return fmt.Errorf("%w: tone %d has %s", ErrInvalidState, i, t.Duration)
		}
		if i > 0 {
			b.WriteByte(',')
		}

		if d := t.Duration.Denominator(); d != defaultDenominator {
			b.WriteString(strconv.Itoa(d))
		}

		note, ok := t.Note()
		if ok {
			b.WriteString(strings.ToLower(note.Name))
		} else {
			b.WriteByte('p')
		}

		if t.Duration.IsDotted() {
			b.WriteByte('.')
		}

		if ok && note.Octave != seq.octave {
			b.WriteString(strconv.Itoa(note.Octave))
		}
	}
	return nil
}
