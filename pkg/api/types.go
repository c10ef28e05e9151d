package api

import (
	"fmt"
	"strings"

	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// RTTTLRequest carries an RTTTL string to parse
type RTTTLRequest struct {
	RTTTL string `json:"rtttl" binding:"required"`
}

// RTTTLResponse carries an encoded RTTTL string
type RTTTLResponse struct {
	RTTTL string `json:"rtttl"`
}

// ErrorResponse is returned for failed requests. Parse errors include the offending token.
type ErrorResponse struct {
	Error  string `json:"error"`
	Token  string `json:"token,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

// NoteResponse describes one entry of the note table
type NoteResponse struct {
	Name     string  `json:"name"`
	Semitone int     `json:"semitone"`
	Hz       float64 `json:"hz"`
}

// ToneJSON is the wire form of a tone. An empty note means a rest.
type ToneJSON struct {
	Note     string  `json:"note,omitempty"`
	Rest     bool    `json:"rest"`
	Duration int     `json:"duration"`
	Dotted   bool    `json:"dotted,omitempty"`
	Seconds  float64 `json:"seconds,omitempty"`
}

// SequenceJSON is the wire form of a tone sequence
type SequenceJSON struct {
	Name            string     `json:"name" binding:"required"`
	DefaultOctave   *int       `json:"defaultOctave,omitempty"`
	DefaultDuration int        `json:"defaultDuration,omitempty"`
	BeatsPerMinute  int        `json:"beatsPerMinute,omitempty"`
	Tones           []ToneJSON `json:"tones"`
}

// NewSequenceJSON converts a tone sequence to its wire form
func NewSequenceJSON(seq *rtttl.ToneSequence) SequenceJSON {
	octave := seq.DefaultOctave()
	bpm := float64(seq.BeatsPerMinute())
	out := SequenceJSON{
		Name:            seq.Name(),
		DefaultOctave:   &octave,
		DefaultDuration: seq.DefaultDuration().Denominator(),
		BeatsPerMinute:  seq.BeatsPerMinute(),
		Tones:           make([]ToneJSON, 0, seq.Len()),
	}
	for _, t := range seq.Tones() {
		tj := ToneJSON{
			Rest:     t.IsRest(),
			Duration: t.Duration.Denominator(),
			Dotted:   t.Duration.IsDotted(),
			Seconds:  t.Seconds(bpm),
		}
		if n, ok := t.Note(); ok {
			tj.Note = n.String()
		}
		out.Tones = append(out.Tones, tj)
	}
	return out
}

// ToSequence validates the wire form and builds a tone sequence. Omitted defaults
// fall back to the RTTTL defaults.
func (s SequenceJSON) ToSequence() (*rtttl.ToneSequence, error) {
	octave := rtttl.DefaultOctave
	if s.DefaultOctave != nil {
		octave = *s.DefaultOctave
	}
	duration := rtttl.DefaultDuration
	if s.DefaultDuration != 0 {
		d, err := rtttl.DurationFromDenominator(s.DefaultDuration)
		if err != nil {
			return nil, fmt.Errorf("default duration: %w", err)
		}
		duration = d
	}
	bpm := rtttl.DefaultBeatsPerMinute
	if s.BeatsPerMinute != 0 {
		bpm = s.BeatsPerMinute
	}

	tones := make([]rtttl.Tone, 0, len(s.Tones))
	for i, tj := range s.Tones {
		t, err := tj.toTone()
		if err != nil {
			return nil, fmt.Errorf("tone %d: %w", i, err)
		}
		tones = append(tones, t)
	}
	return rtttl.NewSequenceWithDefaults(s.Name, tones, octave, duration, bpm)
}

func (tj ToneJSON) toTone() (rtttl.Tone, error) {
	d, err := rtttl.DurationFromDenominator(tj.Duration)
	if err != nil {
		return rtttl.Tone{}, err
	}
	if tj.Dotted {
		if d, err = d.Dotted(); err != nil {
			return rtttl.Tone{}, err
		}
	}

	if tj.Rest || tj.Note == "" {
		return rtttl.NewRest(d), nil
	}
	n, ok := rtttl.NoteByName(strings.ToUpper(tj.Note))
	if !ok {
		return rtttl.Tone{}, fmt.Errorf("%w: %s", rtttl.ErrUnknownNote, tj.Note)
	}
	return rtttl.NewTone(n, d), nil
}
