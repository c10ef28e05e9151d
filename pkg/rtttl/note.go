// Package rtttl parses and encodes RTTTL (Ring Tone Text Transfer Language) strings
package rtttl

import (
	"fmt"
	"math"
	"strconv"
)

// Semitone range covered by the note table (C0..B8)
const (
	MinSemitone = 12
	MaxSemitone = 119
)

// Reference pitch: A4 is MIDI semitone 69 at 440 Hz
const (
	referenceSemitone = 69
	referenceHz       = 440.0
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a single pitch of the chromatic scale between C0 and B8
type Note struct {
	Name     string // Pitch name, sharps only ("C", "C#", ...)
	Octave   int    // Octave (0-8)
	Semitone int    // MIDI semitone (C0 = 12, A4 = 69)
}

// Hz returns the frequency of the note in Hz
func (n Note) Hz() float64 {
	return HzFromSemitone(float64(n.Semitone))
}

// Sharp reports whether the note is a sharp
func (n Note) Sharp() bool {
	return len(n.Name) > 1
}

// String returns the name and octave, e.g. "C#4"
func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

var (
	noteTable  [MaxSemitone - MinSemitone + 1]Note
	noteByName = make(map[string]Note, len(noteTable))
)

func init() {
	for i := range noteTable {
		semitone := MinSemitone + i
		n := Note{
			Name:     pitchNames[semitone%12],
			Octave:   semitone/12 - 1,
			Semitone: semitone,
		}
		noteTable[i] = n
		noteByName[n.String()] = n
	}
}

// Notes returns every note of the table in ascending pitch order
func Notes() []Note {
	out := make([]Note, len(noteTable))
	copy(out, noteTable[:])
	return out
}

// NoteByName looks up a note by its uppercase name and octave, e.g. "C#4".
// The second result is false when no such note exists.
func NoteByName(name string) (Note, bool) {
	n, ok := noteByName[name]
	return n, ok
}

// NoteFromSemitone returns the note with the given MIDI semitone
func NoteFromSemitone(semitone int) (Note, error) {
	if semitone < MinSemitone || semitone > MaxSemitone {
		return Note{}, fmt.Errorf("%w: %d not in [%d,%d]", ErrSemitoneOutOfRange, semitone, MinSemitone, MaxSemitone)
	}
	return noteTable[semitone-MinSemitone], nil
}

// NearestNote returns the note closest to the given frequency, clamped to C0..B8.
// Frequencies exactly between two semitones round up.
func NearestNote(hz float64) Note {
	s := math.Floor(SemitoneFromHz(hz) + 0.5)
	switch {
	case math.IsNaN(s) || s < MinSemitone:
		return noteTable[0]
	case s > MaxSemitone:
		return noteTable[len(noteTable)-1]
	}
	return noteTable[int(s)-MinSemitone]
}

// SemitoneFromHz converts a frequency to a (fractional) MIDI semitone
func SemitoneFromHz(hz float64) float64 {
	return referenceSemitone + 12*math.Log2(hz/referenceHz)
}

// HzFromSemitone converts a (fractional) MIDI semitone to a frequency
func HzFromSemitone(semitone float64) float64 {
	return referenceHz * math.Pow(2, (semitone-referenceSemitone)/12)
}
