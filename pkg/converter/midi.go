package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/rtttl2midi/pkg/rtttl"
)

// MIDI defaults
const (
	DefaultTicksPerQuarter = 480
	DefaultMIDITempo       = 120.0
	DefaultVelocity        = 100
	defaultTrackName       = "MIDI"
)

// MIDICodec handles MIDI file parsing and generation
type MIDICodec struct {
	ticksPerQuarter uint16
	channel         uint8
	velocity        uint8
}

// NewMIDICodec creates a new MIDI codec
func NewMIDICodec() *MIDICodec {
	return &MIDICodec{
		ticksPerQuarter: DefaultTicksPerQuarter,
		channel:         0,
		velocity:        DefaultVelocity,
	}
}

// Name returns the codec name
func (m *MIDICodec) Name() string {
	return "Standard MIDI File"
}

// Format returns FormatMIDI
func (m *MIDICodec) Format() Format {
	return FormatMIDI
}

// ParseMIDIFile reads a MIDI file and extracts its melody
func (m *MIDICodec) ParseMIDIFile(filename string) (*rtttl.ToneSequence, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.Decode(data)
}

// noteSpan is one played note in absolute ticks
type noteSpan struct {
	start int64
	end   int64
	key   uint8
}

// Decode extracts a monophonic melody from MIDI data. Overlapping notes are cut at
// the start of the next note and lengths are quantized to RTTTL durations.
func (m *MIDICodec) Decode(data []byte) (*rtttl.ToneSequence, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	ticksPerQuarter := float64(m.ticksPerQuarter)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = float64(mt.Resolution())
	}

	tempo := 0.0
	name := ""
	var spans []noteSpan
	var trackEnd int64

	for _, track := range s.Tracks {
		var tick int64
		pending := make(map[uint8]int64)
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			// Tempo meta message (FF 51 03 tt tt tt)
			if tempo == 0 && len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					tempo = 60000000.0 / float64(microsecondsPerBeat)
				}
			}

			if name == "" {
				msg.GetMetaTrackName(&name)
			}

			var channel, key, velocity uint8
			switch {
			case midi.Message(msg).GetNoteStart(&channel, &key, &velocity):
				if _, playing := pending[key]; !playing {
					pending[key] = tick
				}
			case midi.Message(msg).GetNoteEnd(&channel, &key):
				if start, playing := pending[key]; playing {
					spans = append(spans, noteSpan{start: start, end: tick, key: key})
					delete(pending, key)
				}
			}
		}
		if tick > trackEnd {
			trackEnd = tick
		}
	}

	if tempo == 0 {
		tempo = DefaultMIDITempo
	}
	name = sanitizeName(name)

	tones := spansToTones(spans, trackEnd, ticksPerQuarter)
	octave, duration := commonDefaults(tones)
	bpm := int(math.Round(tempo))
	if bpm < 1 {
		bpm = 1
	}

	return rtttl.NewSequenceWithDefaults(name, tones, octave, duration, bpm)
}

// spansToTones turns note spans into tones, filling gaps with rests
func spansToTones(spans []noteSpan, trackEnd int64, ticksPerQuarter float64) []rtttl.Tone {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	// shortest length that is kept, half a thirty-second note
	minTicks := int64(rtttl.ThirtySecond.Beats() * ticksPerQuarter / 2)

	var tones []rtttl.Tone
	var cursor int64
	for i, sp := range spans {
		if sp.start < cursor {
			continue
		}
		end := sp.end
		if i+1 < len(spans) && spans[i+1].start < end && spans[i+1].start > sp.start {
			end = spans[i+1].start
		}
		if gap := sp.start - cursor; gap >= minTicks {
			tones = appendQuantized(tones, nil, float64(gap)/ticksPerQuarter)
		}
		if end-sp.start >= minTicks {
			note := rtttl.NearestNote(rtttl.HzFromSemitone(float64(sp.key)))
			tones = appendQuantized(tones, &note, float64(end-sp.start)/ticksPerQuarter)
		}
		cursor = end
	}
	if gap := trackEnd - cursor; gap >= minTicks && len(tones) > 0 {
		tones = appendQuantized(tones, nil, float64(gap)/ticksPerQuarter)
	}
	return tones
}

// appendQuantized appends tones covering the given number of beats.
// Lengths above a dotted whole note are split.
func appendQuantized(tones []rtttl.Tone, note *rtttl.Note, beats float64) []rtttl.Tone {
	longest := rtttl.DottedWhole.Beats()
	for {
		d := rtttl.NearestDuration(beats)
		if beats > longest {
			d = rtttl.DottedWhole
		}
		if note == nil {
			tones = append(tones, rtttl.NewRest(d))
		} else {
			tones = append(tones, rtttl.NewTone(*note, d))
		}
		beats -= d.Beats()
		if beats < rtttl.ThirtySecond.Beats()/2 {
			return tones
		}
	}
}

// commonDefaults picks the most frequent octave and undotted duration, so the
// encoded text needs as few explicit fields as possible
func commonDefaults(tones []rtttl.Tone) (int, rtttl.Duration) {
	octaves := make(map[int]int)
	denominators := make(map[int]int)
	for _, t := range tones {
		if n, ok := t.Note(); ok {
			octaves[n.Octave]++
		}
		denominators[t.Duration.Denominator()]++
	}

	octave := mostFrequent(octaves, rtttl.DefaultOctave)
	duration, err := rtttl.DurationFromDenominator(mostFrequent(denominators, rtttl.DefaultDuration.Denominator()))
	if err != nil {
		duration = rtttl.DefaultDuration
	}
	return octave, duration
}

// mostFrequent returns the key with the highest count; fallback wins ties, then the smaller key
func mostFrequent(counts map[int]int, fallback int) int {
	best, bestCount := fallback, counts[fallback]
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best && best != fallback) {
			best, bestCount = k, n
		}
	}
	return best
}

// sanitizeName makes a track name usable as an RTTTL name
func sanitizeName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, ":", " "))
	if name == "" {
		return defaultTrackName
	}
	return name
}

// Encode creates MIDI data from a tone sequence
func (m *MIDICodec) Encode(seq *rtttl.ToneSequence) ([]byte, error) {
	if seq == nil {
		return nil, errors.New("nil tone sequence")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(seq.Name()))
	track.Add(0, smf.MetaTempo(float64(seq.BeatsPerMinute())))
	track.Add(0, smf.MetaMeter(4, 4))

	var delta uint32
	for _, tone := range seq.Tones() {
		ticks := uint32(math.Round(tone.Duration.Beats() * float64(m.ticksPerQuarter)))
		note, ok := tone.Note()
		if !ok {
			delta += ticks
			continue
		}
		key := uint8(note.Semitone)
		track.Add(delta, midi.NoteOn(m.channel, key, m.velocity))
		track.Add(ticks, midi.NoteOff(m.channel, key))
		delta = 0
	}

	// a trailing rest becomes the end of track delta
	track.Close(delta)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteMIDIFile writes MIDI data to a file
func (m *MIDICodec) WriteMIDIFile(seq *rtttl.ToneSequence, filename string) error {
	data, err := m.Encode(seq)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
