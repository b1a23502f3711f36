package kaiku

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSampleRate is used whenever a sample rate is not given explicitly.
const DefaultSampleRate = 44100

const (
	a4Frequency = 440.0
	a4MIDI      = 69
)

var (
	ErrPitchRange       = errors.New("MIDI pitch must be in the range 0-127")
	ErrInvalidFrequency = errors.New("frequency must be positive")
)

// Note is a single pitched note, carrying a MIDI pitch number and/or a
// frequency in Hz. Notes are immutable values; construct them with
// NoteFromMIDI or NoteFromFrequency. Whichever representation was not given
// at construction is derived on demand from the other, using equal
// temperament with A4 = 440 Hz.
type Note struct {
	pitch    int
	freq     float64
	hasPitch bool
}

func NoteFromMIDI(pitch int) (Note, error) {
	if pitch < 0 || pitch > 127 {
		return Note{}, fmt.Errorf("%w, got %v", ErrPitchRange, pitch)
	}
	return Note{pitch: pitch, hasPitch: true}, nil
}

func NoteFromFrequency(hz float64) (Note, error) {
	if hz <= 0 {
		return Note{}, fmt.Errorf("%w, got %v", ErrInvalidFrequency, hz)
	}
	return Note{freq: hz}, nil
}

// MIDI returns the MIDI pitch number of the note. For a note constructed
// from a frequency, the pitch is the nearest equal-temperament note, clamped
// to the 0-127 range.
func (n Note) MIDI() int {
	if n.hasPitch {
		return n.pitch
	}
	pitch := int(math.Round(12*math.Log2(n.freq/a4Frequency))) + a4MIDI
	if pitch < 0 {
		pitch = 0
	} else if pitch > 127 {
		pitch = 127
	}
	return pitch
}

// Frequency returns the frequency of the note in Hz.
func (n Note) Frequency() float64 {
	if !n.hasPitch {
		return n.freq
	}
	return a4Frequency * math.Pow(2, float64(n.pitch-a4MIDI)/12)
}

func (n Note) String() string {
	if n.hasPitch {
		return fmt.Sprintf("note %v (%.2f Hz)", n.pitch, n.Frequency())
	}
	return fmt.Sprintf("note %.2f Hz", n.freq)
}

// Chord is an ordered set of notes sounding simultaneously.
type Chord []Note

// Sequence is an ordered run of notes sounding one after another, e.g. a
// scale or an arpeggio.
type Sequence []Note

// Progression is an ordered run of chords.
type Progression []Chord

func ChordFromMIDI(pitches ...int) (Chord, error) {
	c := make(Chord, 0, len(pitches))
	for _, p := range pitches {
		n, err := NoteFromMIDI(p)
		if err != nil {
			return nil, err
		}
		c = append(c, n)
	}
	return c, nil
}

func SequenceFromMIDI(pitches ...int) (Sequence, error) {
	c, err := ChordFromMIDI(pitches...)
	if err != nil {
		return nil, err
	}
	return Sequence(c), nil
}

// MIDI returns the pitch numbers of the chord, in order.
func (c Chord) MIDI() []int {
	ret := make([]int, len(c))
	for i, n := range c {
		ret[i] = n.MIDI()
	}
	return ret
}

func (s Sequence) MIDI() []int {
	return Chord(s).MIDI()
}

// Reversed returns the sequence in reverse order; a descending scale is
// simply the ascending one reversed.
func (s Sequence) Reversed() Sequence {
	ret := make(Sequence, len(s))
	for i, n := range s {
		ret[len(s)-1-i] = n
	}
	return ret
}
