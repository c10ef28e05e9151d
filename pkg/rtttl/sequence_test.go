package rtttl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTones(t *testing.T) []Tone {
	return []Tone{
		NewTone(mustNote(t, "A4"), Quarter),
		NewRest(Quarter),
	}
}

func TestNewSequence(t *testing.T) {
	tones := createTones(t)
	seq, err := NewSequence("name", tones)
	require.NoError(t, err)

	assert.Equal(t, "name", seq.Name())
	assert.Equal(t, tones, seq.Tones())
	assert.Equal(t, DefaultOctave, seq.DefaultOctave())
	assert.Equal(t, DefaultDuration, seq.DefaultDuration())
	assert.Equal(t, DefaultBeatsPerMinute, seq.BeatsPerMinute())
}

func TestNewSequenceWithDefaults(t *testing.T) {
	tones := createTones(t)
	seq, err := NewSequenceWithDefaults("name", tones, DefaultOctave+1, Half, DefaultBeatsPerMinute+1)
	require.NoError(t, err)

	assert.Equal(t, 7, seq.DefaultOctave())
	assert.Equal(t, Half, seq.DefaultDuration())
	assert.Equal(t, 64, seq.BeatsPerMinute())
	assert.Equal(t, 2, seq.Len())
	assert.True(t, seq.Tone(1).IsRest())
}

func TestSequenceIsImmutable(t *testing.T) {
	tones := createTones(t)
	seq, err := NewSequence("name", tones)
	require.NoError(t, err)

	tones[0] = NewRest(Whole)
	assert.False(t, seq.Tone(0).IsRest())

	got := seq.Tones()
	got[1] = NewTone(mustNote(t, "C4"), Whole)
	assert.True(t, seq.Tone(1).IsRest())
}

func TestNewSequenceInvalid(t *testing.T) {
	tones := createTones(t)
	tests := []struct {
		name     string
		seqName  string
		octave   int
		duration Duration
		bpm      int
	}{
		{"octave below range", "name", -1, Half, 64},
		{"octave above range", "name", 9, Half, 64},
		{"zero bpm", "name", 7, Half, 0},
		{"negative bpm", "name", 7, Half, -10},
		{"dotted default", "name", 7, DottedHalf, 64},
		{"invalid default", "name", 7, Duration(0), 64},
		{"empty name", "", 7, Half, 64},
		{"name with colon", "a:b", 7, Half, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSequenceWithDefaults(tt.seqName, tones, tt.octave, tt.duration, tt.bpm)
			assert.ErrorIs(t, err, ErrInvalidSequence)
		})
	}

	_, err := NewSequence("name", []Tone{NewRest(Duration(42))})
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestNewSequenceRejectsNotesOutsideTable(t *testing.T) {
	a4, ok := NoteByName("A4")
	require.True(t, ok)

	for _, n := range []Note{
		{Name: "H", Octave: 12, Semitone: 3},
		{Name: "A", Octave: 5, Semitone: a4.Semitone},
		{Name: "A", Octave: 4, Semitone: a4.Semitone + 1},
		{},
	} {
		_, err := NewSequence("x", []Tone{NewTone(n, Quarter)})
		assert.ErrorIs(t, err, ErrInvalidSequence, "%+v", n)
	}

	seq, err := NewSequence("x", []Tone{NewTone(a4, Quarter)})
	require.NoError(t, err)
	out, err := Encode(seq)
	require.NoError(t, err)
	_, err = Parse(out)
	assert.NoError(t, err)
}

func TestSequenceEqual(t *testing.T) {
	a, err := NewSequence("name", createTones(t))
	require.NoError(t, err)
	b, err := NewSequence("name", createTones(t))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewSequenceWithDefaults("name", createTones(t), 5, Quarter, 63)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	d, err := NewSequence("name", createTones(t)[:1])
	require.NoError(t, err)
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}

func TestToneEquality(t *testing.T) {
	a4 := mustNote(t, "A4")
	assert.Equal(t, NewTone(a4, Half), NewTone(a4, Half))
	assert.NotEqual(t, NewTone(a4, Half), NewTone(a4, DottedHalf))
	assert.NotEqual(t, NewRest(Half), NewTone(mustNote(t, "C0"), Half))

	n, ok := NewRest(Half).Note()
	assert.False(t, ok)
	assert.Equal(t, Note{}, n)
}

func TestSequenceLength(t *testing.T) {
	seq, err := NewSequenceWithDefaults("name", []Tone{
		NewTone(mustNote(t, "A4"), Whole),
		NewRest(DottedHalf),
	}, 6, Quarter, 60)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, seq.Length())
}

func TestSequenceTextMarshaling(t *testing.T) {
	const song = "name:o=5,b=120:8c,p,c#6"
	var seq ToneSequence
	require.NoError(t, seq.UnmarshalText([]byte(song)))
	assert.Equal(t, 3, seq.Len())

	out, err := seq.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, song, string(out))

	assert.Error(t, seq.UnmarshalText([]byte("broken")))
}
