package rtttl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainsSpaces(t *testing.T) {
	seq, err := Parse("a:d=4:c6, d6")
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Len())

	seq, err = Parse("My Song : o = 5 , b = 90 : 8 c , d")
	require.NoError(t, err)
	assert.Equal(t, "My Song ", seq.Name(), "name is kept verbatim")
	assert.Equal(t, 5, seq.DefaultOctave())
	assert.Equal(t, 90, seq.BeatsPerMinute())
	assert.Equal(t, Eighth, seq.Tone(0).Duration)
}

func TestParseEmptyControlSection(t *testing.T) {
	seq, err := Parse("name::c,d,e")
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, 6, seq.DefaultOctave())
	assert.Equal(t, Quarter, seq.DefaultDuration())
	assert.Equal(t, 63, seq.BeatsPerMinute())
}

func TestParseDelimiterCount(t *testing.T) {
	for _, input := range []string{"a:b", "a:b:c:d", "abc", ""} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrDelimiterCount, "Parse(%q)", input)
	}

	_, err := Parse("a:b:c:d")
	assert.Contains(t, err.Error(), "got 3")
}

func TestParseBadControlSection(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"a:b:c", ErrMalformedControl},
		{"a:o=3=4:c", ErrMalformedControl},
		{"a:oc=3:c", ErrMalformedControl},
		{"a:=3:c", ErrMalformedControl},
		{"a:z=3:c", ErrUnknownControl},
		{"a:o=a:c", ErrInvalidControlValue},
		{"a:o=:c", ErrInvalidControlValue},
		{"a:o=9:c", ErrUnknownNote},
		{"a:o=9:c5", ErrInvalidSequence},
		{"a:b=0:c", ErrInvalidSequence},
		{"a::c,b=-5", ErrInvalidSequence},
		{"a:d=3:c", ErrInvalidControlValue},
		{"a::c,z=1", ErrUnknownControl},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse("a:d=3:c")
	assert.ErrorIs(t, err, ErrInvalidDuration, "cause is kept")
}

func TestParseSkipsEmptyControlPairs(t *testing.T) {
	seq, err := Parse("a:,o=5,,b=100,:c")
	require.NoError(t, err)
	assert.Equal(t, 5, seq.DefaultOctave())
	assert.Equal(t, 100, seq.BeatsPerMinute())
}

func TestParseControlPairsInNotes(t *testing.T) {
	seq, err := Parse("name:o=3:a,b,c,o=4,d,e,p,f")
	require.NoError(t, err)
	require.Equal(t, 7, seq.Len())

	want := []string{"A3", "B3", "C3", "D4", "E4", "", "F4"}
	for i, name := range want {
		note, ok := seq.Tone(i).Note()
		if name == "" {
			assert.True(t, seq.Tone(i).IsRest(), "tone %d", i)
			continue
		}
		require.True(t, ok, "tone %d", i)
		assert.Equal(t, name, note.String(), "tone %d", i)
	}
	assert.Equal(t, 4, seq.DefaultOctave(), "final defaults win")
}

func TestParseOutOfRangeControlOverridden(t *testing.T) {
	seq, err := Parse("a:o=9:c5,o=4")
	require.NoError(t, err)
	assert.Equal(t, 4, seq.DefaultOctave())
	note, _ := seq.Tone(0).Note()
	assert.Equal(t, "C5", note.String())

	seq, err = Parse("a::b=0,c,b=90")
	require.NoError(t, err)
	assert.Equal(t, 90, seq.BeatsPerMinute())
	assert.Equal(t, 1, seq.Len())
}

func TestParseEncodeConcurrently(t *testing.T) {
	const song = "name:o=8,d=2,b=10:c,d,e,f,g,a,b,c1,d1,e1,c.2,d.2,e.2,4c,16d,32e.3"
	for i := 0; i < 8; i++ {
		t.Run("", func(t *testing.T) {
			t.Parallel()
			for j := 0; j < 50; j++ {
				seq, err := Parse(song)
				require.NoError(t, err)
				out, err := Encode(seq)
				require.NoError(t, err)
				assert.Equal(t, song, out)
			}
		})
	}
}

func TestParseControlPairDoesNotRewriteEarlierTones(t *testing.T) {
	seq, err := Parse("name:d=8:c,d=2,c,b=200")
	require.NoError(t, err)
	assert.Equal(t, Eighth, seq.Tone(0).Duration)
	assert.Equal(t, Half, seq.Tone(1).Duration)
	assert.Equal(t, Half, seq.DefaultDuration())
	assert.Equal(t, 200, seq.BeatsPerMinute())
}

func TestParseDuration(t *testing.T) {
	seq, err := Parse("name:b=60:a,1a,2a,4a,8a,16a,32a,1a.,2a.,4a.")
	require.NoError(t, err)

	want := []float64{1, 4, 2, 1, 0.5, 0.25, 0.125, 6, 3, 1.5}
	require.Equal(t, len(want), seq.Len())
	for i, secs := range want {
		assert.InDelta(t, secs, seq.Tone(i).Seconds(float64(seq.BeatsPerMinute())), epsilon, "tone %d", i)
	}
}

func TestParseDotAnywhere(t *testing.T) {
	seq, err := Parse("name::.8c5,8.c5,8c.5,8c5.")
	require.NoError(t, err)
	for i := 0; i < seq.Len(); i++ {
		assert.Equal(t, DottedEighth, seq.Tone(i).Duration, "tone %d", i)
		note, _ := seq.Tone(i).Note()
		assert.Equal(t, "C5", note.String())
	}

	_, err = Parse("name::8c..5")
	assert.ErrorIs(t, err, ErrMalformedNote, "only the first dot is removed")
}

func TestParseOctave(t *testing.T) {
	seq, err := Parse("name:b=60:a,a1,a2,a3,a4,a5,a6,a7,c0,b8")
	require.NoError(t, err)

	want := []int{6, 1, 2, 3, 4, 5, 6, 7, 0, 8}
	for i, octave := range want {
		note, ok := seq.Tone(i).Note()
		require.True(t, ok)
		assert.Equal(t, octave, note.Octave, "tone %d", i)
	}
}

func TestParseSharpsAndCase(t *testing.T) {
	seq, err := Parse("name::c#,F#5,P,16G#4")
	require.NoError(t, err)

	n0, _ := seq.Tone(0).Note()
	assert.Equal(t, "C#6", n0.String())
	n1, _ := seq.Tone(1).Note()
	assert.Equal(t, "F#5", n1.String())
	assert.True(t, seq.Tone(2).IsRest())
	n3, _ := seq.Tone(3).Note()
	assert.Equal(t, "G#4", n3.String())
	assert.Equal(t, Sixteenth, seq.Tone(3).Duration)
}

func TestParseInvalidNotes(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"name:b=60:34a", ErrInvalidDuration},
		{"name:b=60:3a", ErrInvalidDuration},
		{"name::h", ErrMalformedNote},
		{"name::c##", ErrMalformedNote},
		{"name::123c", ErrMalformedNote},
		{"name::c45", ErrMalformedNote},
		{"name::c9", ErrUnknownNote},
		{"name::e#4", ErrUnknownNote},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseErrorReportsOffset(t *testing.T) {
	_, err := Parse("song:d=8:c, d,  x5 ,e")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrMalformedNote, perr.Kind)
	assert.Equal(t, "x5", perr.Token)
	assert.Equal(t, 16, perr.Offset)
	assert.Contains(t, perr.Error(), `"x5"`)

	_, err = Parse("song:o=5,q=1:c")
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "q=1", perr.Token)
	assert.Equal(t, 9, perr.Offset)
}

func TestParseEmptyName(t *testing.T) {
	_, err := Parse("::c")
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestParseEmptyToneSection(t *testing.T) {
	seq, err := Parse("silence:b=90:")
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Len())
}
