package rtttl

import "time"

// Tone is a single note or rest with a duration
type Tone struct {
	note     Note
	hasNote  bool
	Duration Duration
}

// NewTone creates a tone that plays note for duration d
func NewTone(note Note, d Duration) Tone {
	return Tone{note: note, hasNote: true, Duration: d}
}

// NewRest creates a silent tone lasting duration d
func NewRest(d Duration) Tone {
	return Tone{Duration: d}
}

// Note returns the pitch of the tone; ok is false for rests
func (t Tone) Note() (note Note, ok bool) {
	return t.note, t.hasNote
}

// IsRest reports whether the tone is silence
func (t Tone) IsRest() bool {
	return !t.hasNote
}

// Seconds returns how long the tone lasts at the given tempo
func (t Tone) Seconds(beatsPerMinute float64) float64 {
	return t.Duration.Seconds(beatsPerMinute)
}

// Time is Seconds as a time.Duration
func (t Tone) Time(beatsPerMinute float64) time.Duration {
	return t.Duration.Time(beatsPerMinute)
}

func (t Tone) String() string {
	if t.IsRest() {
		return "rest/" + t.Duration.String()
	}
	return t.note.String() + "/" + t.Duration.String()
}
