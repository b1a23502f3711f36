package smf

import (
	"encoding/binary"
	"os"
)

// DefaultTempo is 120 BPM in microseconds per beat.
const DefaultTempo = 500000

// File is an in-memory Standard MIDI File: format 1 header plus tracks.
// Construct it, fill the tracks, then serialize once with Bytes.
type File struct {
	TicksPerBeat uint16
	Tracks       []*Track
}

func NewFile() *File {
	return &File{TicksPerBeat: DefaultTicksPerBeat}
}

// NewTrack appends an empty track to the file and returns it.
func (f *File) NewTrack() *Track {
	t := &Track{}
	f.Tracks = append(f.Tracks, t)
	return t
}

// Bytes serializes the whole file: MThd chunk, then one MTrk chunk per
// track. All integers are big-endian. A file with an empty track still
// serializes to a valid SMF whose track contains only EndOfTrack.
func (f *File) Bytes() []byte {
	dst := append([]byte(nil), "MThd"...)
	dst = binary.BigEndian.AppendUint32(dst, 6)
	dst = binary.BigEndian.AppendUint16(dst, 1) // format 1
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(f.Tracks)))
	dst = binary.BigEndian.AppendUint16(dst, f.TicksPerBeat)
	for _, t := range f.Tracks {
		body := t.Bytes()
		dst = append(dst, "MTrk"...)
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(body)))
		dst = append(dst, body...)
	}
	return dst
}

// WriteFile serializes the file and writes it to path.
func (f *File) WriteFile(path string) error {
	return os.WriteFile(path, f.Bytes(), 0644)
}

// newFileWithMeta starts a single-track file carrying a tempo and a 4/4
// time signature at tick 0, which is the layout all the convenience
// builders share.
func newFileWithMeta(tempo uint32) (*File, *Track) {
	f := NewFile()
	t := f.NewTrack()
	t.AddTempo(0, tempo)
	t.AddTimeSignature(0, 4, 2)
	return f, t
}

// FromNotes builds a file playing the pitches one after another, each
// durationBeats long.
func FromNotes(pitches []uint8, durationBeats float64, tempo uint32) *File {
	f, t := newFileWithMeta(tempo)
	t.AddScale(pitches, DefaultVelocity, durationBeats, 0, f.TicksPerBeat)
	return f
}

// FromChord builds a file playing the pitches simultaneously for
// durationBeats.
func FromChord(pitches []uint8, durationBeats float64, tempo uint32) *File {
	f, t := newFileWithMeta(tempo)
	t.AddChord(pitches, DefaultVelocity, 0, durationBeats, 0, f.TicksPerBeat)
	return f
}

// FromScale is FromNotes under its musical name.
func FromScale(pitches []uint8, noteDurationBeats float64, tempo uint32) *File {
	return FromNotes(pitches, noteDurationBeats, tempo)
}

// FromProgression builds a file playing the chords one after another, each
// chordDurationBeats long.
func FromProgression(chords [][]uint8, chordDurationBeats float64, tempo uint32) *File {
	f, t := newFileWithMeta(tempo)
	t.AddProgression(chords, DefaultVelocity, chordDurationBeats, 0, f.TicksPerBeat)
	return f
}
