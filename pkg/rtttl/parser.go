package rtttl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Control pair names
const (
	ControlOctave         = 'o'
	ControlDuration       = 'd'
	ControlBeatsPerMinute = 'b'
)

// [duration] pitch [octave], matched after the dot has been removed
var notePattern = regexp.MustCompile(`^(\d{1,2})?([pcdefgab]#?)(\d)?$`)

// parseState holds the running defaults while scanning the tone section
type parseState struct {
	octave         int
	duration       Duration
	beatsPerMinute int
	tones          []Tone
}

// Parse parses an RTTTL string of the form <name>:<control-section>:<tone-section>.
//
// Example:
//
//	Auld L S:d=4,o=6,b=101:g5,c,8c,c,e,d,8c,d,8e,8d,c,8c,e,g,2a,a,g,8e,e,c,d,8c,d,8e,8d,c,8a5,a5,g5,2c
//
// The grammar is looser than the original Nokia format: names may be longer than
// 10 characters, octaves 0-8 are accepted and the '.' of a dotted note may appear
// anywhere in the note. Control pairs are also accepted in the tone section and
// change the defaults for the tones that follow.
func Parse(str string) (*ToneSequence, error) {
	parts := strings.Split(str, ":")
	if len(parts) != 3 {
		return nil, &ParseError{
			Kind:   ErrDelimiterCount,
			Offset: 0,
			Token:  str,
			Cause:  fmt.Errorf("got %d", len(parts)-1),
		}
	}
	name, controls, tones := parts[0], parts[1], parts[2]
	controlOffset := len(name) + 1
	toneOffset := controlOffset + len(controls) + 1

	st := &parseState{
		octave:         DefaultOctave,
		duration:       DefaultDuration,
		beatsPerMinute: DefaultBeatsPerMinute,
	}

	for _, tok := range splitSection(controls, controlOffset) {
		if err := st.controlPair(tok); err != nil {
			return nil, err
		}
	}
	for _, tok := range splitSection(tones, toneOffset) {
		var err error
		if strings.Contains(tok.text, "=") {
			err = st.controlPair(tok)
		} else {
			err = st.note(tok)
		}
		if err != nil {
			return nil, err
		}
	}

	seq, err := NewSequenceWithDefaults(name, st.tones, st.octave, st.duration, st.beatsPerMinute)
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidSequence, Token: name, Offset: 0, Cause: err}
	}
	return seq, nil
}

// token is one comma separated item of a section with its spaces removed
type token struct {
	text   string
	offset int
}

func splitSection(section string, offset int) []token {
	var out []token
	for _, raw := range strings.Split(section, ",") {
		text := strings.ReplaceAll(raw, " ", "")
		if text != "" {
			out = append(out, token{text: text, offset: offset + strings.Index(raw, text[:1])})
		}
		offset += len(raw) + 1
	}
	return out
}

// controlPair handles <control-name> "=" <control-value>
func (st *parseState) controlPair(tok token) error {
	parts := strings.Split(tok.text, "=")
	if len(parts) != 2 {
		return &ParseError{Kind: ErrMalformedControl, Token: tok.text, Offset: tok.offset,
			Cause: errors.New("expected name=value")}
	}
	name, valueStr := parts[0], parts[1]
	if len(name) != 1 {
		return &ParseError{Kind: ErrMalformedControl, Token: tok.text, Offset: tok.offset,
			Cause: errors.New("control name must be 1 character")}
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return &ParseError{Kind: ErrInvalidControlValue, Token: tok.text, Offset: tok.offset, Cause: err}
	}

	// octave and tempo ranges are validated on the final defaults in Parse
	switch name[0] {
	case ControlOctave:
		st.octave = value
	case ControlDuration:
		d, err := DurationFromDenominator(value)
		if err != nil {
			return &ParseError{Kind: ErrInvalidControlValue, Token: tok.text, Offset: tok.offset, Cause: err}
		}
		st.duration = d
	case ControlBeatsPerMinute:
		st.beatsPerMinute = value
	default:
		return &ParseError{Kind: ErrUnknownControl, Token: tok.text, Offset: tok.offset}
	}
	return nil
}

// note handles [duration] note-name [octave] with a '.' anywhere in the token
func (st *parseState) note(tok token) error {
	text := strings.ToLower(tok.text)

	dotted := false
	if i := strings.IndexByte(text, '.'); i >= 0 {
		dotted = true
		text = text[:i] + text[i+1:]
	}

	m := notePattern.FindStringSubmatch(text)
	if m == nil {
		return &ParseError{Kind: ErrMalformedNote, Token: tok.text, Offset: tok.offset}
	}
	durationStr, pitch, octaveStr := m[1], m[2], m[3]

	duration := st.duration
	if durationStr != "" {
		n, _ := strconv.Atoi(durationStr)
		d, err := DurationFromDenominator(n)
		if err != nil {
			return &ParseError{Kind: ErrInvalidDuration, Token: tok.text, Offset: tok.offset, Cause: err}
		}
		duration = d
	}
	if dotted {
		d, err := duration.Dotted()
		if err != nil {
			return &ParseError{Kind: ErrAlreadyDotted, Token: tok.text, Offset: tok.offset, Cause: err}
		}
		duration = d
	}

	octave := st.octave
	if octaveStr != "" {
		octave, _ = strconv.Atoi(octaveStr)
	}

	if pitch == "p" {
		st.tones = append(st.tones, NewRest(duration))
		return nil
	}
	note, ok := NoteByName(strings.ToUpper(pitch) + strconv.Itoa(octave))
	if !ok {
		return &ParseError{Kind: ErrUnknownNote, Token: tok.text, Offset: tok.offset}
	}
	st.tones = append(st.tones, NewTone(note, duration))
	return nil
}
