package rtttl

import (
	"fmt"
	"strings"
	"time"
)

// Defaults assumed when a control pair is not given
const (
	DefaultOctave         = 6
	DefaultDuration       = Quarter
	DefaultBeatsPerMinute = 63
)

// Octave range accepted for sequence defaults
const (
	MinOctave = 0
	MaxOctave = 8
)

// ToneSequence is an immutable ring tone: a name, its tones in playback order and the
// defaults used to omit redundant fields when encoding
type ToneSequence struct {
	name           string
	tones          []Tone
	octave         int
	duration       Duration
	beatsPerMinute int
}

// NewSequence creates a sequence using DefaultOctave, DefaultDuration and DefaultBeatsPerMinute
func NewSequence(name string, tones []Tone) (*ToneSequence, error) {
	return NewSequenceWithDefaults(name, tones, DefaultOctave, DefaultDuration, DefaultBeatsPerMinute)
}

// NewSequenceWithDefaults creates a sequence with explicit defaults. The tones are copied.
func NewSequenceWithDefaults(name string, tones []Tone, octave int, duration Duration, beatsPerMinute int) (*ToneSequence, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidSequence)
	}
	if strings.Contains(name, ":") {
		return nil, fmt.Errorf("%w: name %q cannot contain ':'", ErrInvalidSequence, name)
	}
	if octave < MinOctave || octave > MaxOctave {
		return nil, fmt.Errorf("%w: octave %d must be between %d and %d", ErrInvalidSequence, octave, MinOctave, MaxOctave)
	}
	if !duration.Valid() || duration.IsDotted() {
		return nil, fmt.Errorf("%w: default duration must be an undotted duration, got %s", ErrInvalidSequence, duration)
	}
	if beatsPerMinute <= 0 {
		return nil, fmt.Errorf("%w: beats per minute must be > 0, got %d", ErrInvalidSequence, beatsPerMinute)
	}
	for i, t := range tones {
		if !t.Duration.Valid() {
			return nil, fmt.Errorf("%w: tone %d has %s", ErrInvalidSequence, i, t.Duration)
		}
		if n, ok := t.Note(); ok {
			if known, err := NoteFromSemitone(n.Semitone); err != nil || known != n {
				return nil, fmt.Errorf("%w: tone %d has unknown note %+v", ErrInvalidSequence, i, n)
			}
		}
	}

	return &ToneSequence{
		name:           name,
		tones:          append([]Tone(nil), tones...),
		octave:         octave,
		duration:       duration,
		beatsPerMinute: beatsPerMinute,
	}, nil
}

// Name returns the ring tone name
func (s *ToneSequence) Name() string { return s.name }

// Tones returns a copy of the tones in playback order
func (s *ToneSequence) Tones() []Tone {
	return append([]Tone(nil), s.tones...)
}

// Len returns the number of tones
func (s *ToneSequence) Len() int { return len(s.tones) }

// Tone returns the i-th tone
func (s *ToneSequence) Tone(i int) Tone { return s.tones[i] }

// DefaultOctave returns the octave used for notes without an explicit octave
func (s *ToneSequence) DefaultOctave() int { return s.octave }

// DefaultDuration returns the duration used for tones without an explicit duration
func (s *ToneSequence) DefaultDuration() Duration { return s.duration }

// BeatsPerMinute returns the tempo in quarter note beats per minute
func (s *ToneSequence) BeatsPerMinute() int { return s.beatsPerMinute }

// Length returns the total playing time of the sequence
func (s *ToneSequence) Length() time.Duration {
	var beats float64
	for _, t := range s.tones {
		beats += t.Duration.Beats()
	}
	return time.Duration(beats * 60 / float64(s.beatsPerMinute) * float64(time.Second))
}

// Equal reports whether both sequences have the same name, defaults and tones
func (s *ToneSequence) Equal(other *ToneSequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.name != other.name || s.octave != other.octave || s.duration != other.duration ||
		s.beatsPerMinute != other.beatsPerMinute || len(s.tones) != len(other.tones) {
		return false
	}
	for i := range s.tones {
		if s.tones[i] != other.tones[i] {
			return false
		}
	}
	return true
}

func (s *ToneSequence) String() string {
	return fmt.Sprintf("ToneSequence{name=%q, octave=%d, duration=%s, bpm=%d, tones=%v}",
		s.name, s.octave, s.duration, s.beatsPerMinute, s.tones)
}

// MarshalText encodes the sequence as an RTTTL string
func (s *ToneSequence) MarshalText() ([]byte, error) {
	str, err := Encode(s)
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

// UnmarshalText replaces the sequence with the result of parsing an RTTTL string
func (s *ToneSequence) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
