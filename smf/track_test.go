package smf_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/maarit-k/kaiku/smf"
)

func TestTrackChordDeltas(t *testing.T) {
	var tr smf.Track
	if err := tr.AddChord([]uint8{60, 64, 67}, 100, 1, 2, 0, 480); err != nil {
		t.Fatal(err)
	}
	// One beat rest (480 ticks), then the NoteOns as a zero-delta group,
	// then two beats later (960 ticks) the NoteOffs in the same pitch
	// order.
	want := []byte{
		0x83, 0x60, 0x90, 0x3C, 0x64,
		0x00, 0x90, 0x40, 0x64,
		0x00, 0x90, 0x43, 0x64,
		0x87, 0x40, 0x80, 0x3C, 0x00,
		0x00, 0x80, 0x40, 0x00,
		0x00, 0x80, 0x43, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
	if got := tr.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("track body\n got %x\nwant %x", got, want)
	}
}

func TestTrackBytesIsRepeatable(t *testing.T) {
	var tr smf.Track
	tr.AddNote(72, 100, 0, 1, 0, 480)
	tr.AddNote(60, 100, 0.5, 1, 0, 480)
	first := tr.Bytes()
	second := tr.Bytes()
	if !bytes.Equal(first, second) {
		t.Errorf("serializing twice differs:\n%x\n%x", first, second)
	}
}

func TestTrackOrderIndependence(t *testing.T) {
	// Events appended out of time order serialize the same as events
	// appended in order, since ticks are absolute.
	var fwd, rev smf.Track
	fwd.AddNote(60, 100, 0, 1, 0, 480)
	fwd.AddNote(64, 100, 1, 1, 0, 480)
	rev.AddNote(64, 100, 1, 1, 0, 480)
	rev.AddNote(60, 100, 0, 1, 0, 480)
	if !bytes.Equal(fwd.Bytes(), rev.Bytes()) {
		t.Error("append order changed the serialized track")
	}
}

func TestTrackUnmatchedNoteOnPanics(t *testing.T) {
	var tr smf.Track
	if err := tr.Append(0, smf.NoteOn{Pitch: 60, Velocity: 100}); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unmatched NoteOn")
		}
	}()
	tr.Bytes()
}

func TestTrackUnmatchedNoteOffPanics(t *testing.T) {
	var tr smf.Track
	if err := tr.Append(0, smf.NoteOff{Pitch: 60}); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unmatched NoteOff")
		}
	}()
	tr.Bytes()
}

func TestTrackChannelRange(t *testing.T) {
	var tr smf.Track
	if err := tr.AddNote(60, 100, 0, 1, 16, 480); !errors.Is(err, smf.ErrChannelRange) {
		t.Errorf("expected ErrChannelRange for channel 16, got %v", err)
	}
	if err := tr.Append(0, smf.ControlChange{Channel: 99}); !errors.Is(err, smf.ErrChannelRange) {
		t.Errorf("expected ErrChannelRange for channel 99, got %v", err)
	}
	if err := tr.AddNote(60, 100, 0, 1, 15, 480); err != nil {
		t.Errorf("channel 15 should be accepted, got %v", err)
	}
}

func TestTrackRejectsNegativeBeats(t *testing.T) {
	var tr smf.Track
	if err := tr.AddNote(60, 100, -1, 1, 0, 480); !errors.Is(err, smf.ErrNegativeBeats) {
		t.Errorf("expected ErrNegativeBeats for a negative start, got %v", err)
	}
	if err := tr.AddNote(60, 100, 0, -1, 0, 480); !errors.Is(err, smf.ErrNegativeBeats) {
		t.Errorf("expected ErrNegativeBeats for a negative duration, got %v", err)
	}
	if err := tr.AddChord([]uint8{60, 64}, 100, -0.5, 1, 0, 480); !errors.Is(err, smf.ErrNegativeBeats) {
		t.Errorf("expected ErrNegativeBeats for a negative chord start, got %v", err)
	}
	if len(tr.Bytes()) != 4 {
		t.Error("rejected events must not be appended")
	}
}

func TestTrackDataBytesAreMasked(t *testing.T) {
	var tr smf.Track
	if err := tr.AddNote(200, 100, 0, 1, 0, 480); err != nil {
		t.Fatal(err)
	}
	body := tr.Bytes()
	if body[1] != 0x90 || body[2] != 200&0x7F {
		t.Errorf("out-of-range pitch not masked: % x", body[:4])
	}
}

func TestTrackRejectsEndOfTrack(t *testing.T) {
	var tr smf.Track
	if err := tr.Append(0, smf.EndOfTrack{}); err == nil {
		t.Error("expected an error appending EndOfTrack by hand")
	}
}

func TestBeatsToTicks(t *testing.T) {
	for _, c := range []struct {
		beats float64
		tpb   uint16
		want  uint32
	}{
		{0, 480, 0},
		{-1, 480, 0}, // negative beats clamp instead of wrapping
		{1, 480, 480},
		{0.5, 480, 240},
		{1.0 / 3.0, 480, 160},
		{2.5, 96, 240},
	} {
		if got := smf.BeatsToTicks(c.beats, c.tpb); got != c.want {
			t.Errorf("BeatsToTicks(%v, %v) = %v, want %v", c.beats, c.tpb, got, c.want)
		}
	}
}
