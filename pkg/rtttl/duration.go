package rtttl

import (
	"fmt"
	"math"
	"time"
)

// Duration is the length of a note or rest, relative to a quarter note
type Duration uint8

// Note durations. The zero value is not a valid duration.
const (
	Whole Duration = iota + 1
	DottedWhole
	Half
	DottedHalf
	Quarter
	DottedQuarter
	Eighth
	DottedEighth
	Sixteenth
	DottedSixteenth
	ThirtySecond
	DottedThirtySecond
)

type durationInfo struct {
	name        string
	beats       float64 // quarter note beats
	denominator int     // 1 for whole, 4 for quarter, ... (dot excluded)
	dotted      bool
}

var durationTable = [...]durationInfo{
	Whole:              {"whole", 4.0, 1, false},
	DottedWhole:        {"dotted whole", 6.0, 1, true},
	Half:               {"half", 2.0, 2, false},
	DottedHalf:         {"dotted half", 3.0, 2, true},
	Quarter:            {"quarter", 1.0, 4, false},
	DottedQuarter:      {"dotted quarter", 1.5, 4, true},
	Eighth:             {"eighth", 0.5, 8, false},
	DottedEighth:       {"dotted eighth", 0.75, 8, true},
	Sixteenth:          {"sixteenth", 0.25, 16, false},
	DottedSixteenth:    {"dotted sixteenth", 0.375, 16, true},
	ThirtySecond:       {"thirty-second", 0.125, 32, false},
	DottedThirtySecond: {"dotted thirty-second", 0.1875, 32, true},
}

// Durations returns all twelve durations, longest undotted first
func Durations() []Duration {
	out := make([]Duration, 0, len(durationTable)-1)
	for d := Whole; d <= DottedThirtySecond; d++ {
		out = append(out, d)
	}
	return out
}

// Valid reports whether d is one of the table durations
func (d Duration) Valid() bool {
	return d >= Whole && d <= DottedThirtySecond
}

// Beats returns the number of quarter note beats the duration lasts
func (d Duration) Beats() float64 {
	if !d.Valid() {
		return 0
	}
	return durationTable[d].beats
}

// Denominator returns the RTTTL duration code (1, 2, 4, 8, 16 or 32)
func (d Duration) Denominator() int {
	if !d.Valid() {
		return 0
	}
	return durationTable[d].denominator
}

// IsDotted reports whether the duration is dotted
func (d Duration) IsDotted() bool {
	return d.Valid() && durationTable[d].dotted
}

// Dotted returns the dotted form of d, which lasts 50% longer
func (d Duration) Dotted() (Duration, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDuration, uint8(d))
	}
	if d.IsDotted() {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyDotted, d)
	}
	// undotted entries are immediately followed by their dotted form
	return d + 1, nil
}

// Seconds returns how long the duration lasts at the given tempo
func (d Duration) Seconds(beatsPerMinute float64) float64 {
	return d.Beats() * 60 / beatsPerMinute
}

// Time is Seconds as a time.Duration
func (d Duration) Time(beatsPerMinute float64) time.Duration {
	return time.Duration(math.Round(d.Seconds(beatsPerMinute) * float64(time.Second)))
}

func (d Duration) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Duration(%d)", uint8(d))
	}
	return durationTable[d].name
}

// DurationFromDenominator returns the undotted duration for an RTTTL duration code
func DurationFromDenominator(n int) (Duration, error) {
	switch n {
	case 1:
		return Whole, nil
	case 2:
		return Half, nil
	case 4:
		return Quarter, nil
	case 8:
		return Eighth, nil
	case 16:
		return Sixteenth, nil
	case 32:
		return ThirtySecond, nil
	}
	return 0, fmt.Errorf("%w: %d must be one of 1, 2, 4, 8, 16 or 32", ErrInvalidDuration, n)
}

// NearestDuration returns the table duration whose beat count is closest to beats.
// Ties go to the longer duration.
func NearestDuration(beats float64) Duration {
	best := Whole
	bestDiff := math.Inf(1)
	for _, d := range Durations() {
		diff := math.Abs(d.Beats() - beats)
		if diff < bestDiff || (diff == bestDiff && d.Beats() > best.Beats()) {
			best, bestDiff = d, diff
		}
	}
	return best
}
