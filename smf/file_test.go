package smf_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gosmf "gitlab.com/gomidi/midi/v2/smf"

	"github.com/maarit-k/kaiku/smf"
)

func TestFileHeader(t *testing.T) {
	data := smf.FromNotes([]uint8{60}, 1.0, smf.DefaultTempo).Bytes()
	want := []byte{
		'M', 'T', 'h', 'd',
		0x00, 0x00, 0x00, 0x06, // header length
		0x00, 0x01, // format 1
		0x00, 0x01, // one track
		0x01, 0xE0, // 480 ticks per beat
	}
	if len(data) < len(want) || !bytes.Equal(data[:len(want)], want) {
		t.Errorf("header = % x, want % x", data[:14], want)
	}
}

func TestFileEmptyTrack(t *testing.T) {
	f := smf.NewFile()
	f.NewTrack()
	data := f.Bytes()
	want := append([]byte{'M', 'T', 'r', 'k', 0x00, 0x00, 0x00, 0x04}, 0x00, 0xFF, 0x2F, 0x00)
	if !bytes.Equal(data[14:], want) {
		t.Errorf("empty track chunk = % x, want % x", data[14:], want)
	}
}

func TestFileChordGolden(t *testing.T) {
	data := smf.FromChord([]uint8{60, 64, 67}, 2.0, smf.DefaultTempo).Bytes()
	body := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20, // tempo 500000
		0x00, 0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08, // 4/4
		0x00, 0x90, 0x3C, 0x64,
		0x00, 0x90, 0x40, 0x64,
		0x00, 0x90, 0x43, 0x64,
		0x87, 0x40, 0x80, 0x3C, 0x00, // 960 ticks later
		0x00, 0x80, 0x40, 0x00,
		0x00, 0x80, 0x43, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
	want := []byte{
		'M', 'T', 'h', 'd', 0x00, 0x00, 0x00, 0x06, 0x00, 0x01, 0x00, 0x01, 0x01, 0xE0,
		'M', 'T', 'r', 'k', 0x00, 0x00, 0x00, byte(len(body)),
	}
	want = append(want, body...)
	if !bytes.Equal(data, want) {
		t.Errorf("file bytes\n got % x\nwant % x", data, want)
	}
}

func TestFileTicksPerBeatInHeader(t *testing.T) {
	f := smf.NewFile()
	f.TicksPerBeat = 96
	f.NewTrack()
	data := f.Bytes()
	if data[12] != 0x00 || data[13] != 0x60 {
		t.Errorf("ticks per beat field = % x, want 00 60", data[12:14])
	}
}

func TestFileWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chord.mid")
	f := smf.FromChord([]uint8{60, 64, 67}, 1.0, smf.DefaultTempo)
	if err := f.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, f.Bytes()) {
		t.Error("written file differs from Bytes()")
	}
}

// TestFileParsesWithGomidi cross-checks the serialization against an
// independent SMF reader.
func TestFileParsesWithGomidi(t *testing.T) {
	data := smf.FromChord([]uint8{60, 64, 67}, 2.0, smf.DefaultTempo).Bytes()
	parsed, err := gosmf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gomidi failed to parse the file: %v", err)
	}
	if len(parsed.Tracks) != 1 {
		t.Fatalf("parsed %v tracks, want 1", len(parsed.Tracks))
	}
	var ons, offs int
	var ticks, offTick uint32
	for _, ev := range parsed.Tracks[0] {
		ticks += ev.Delta
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			ons++
			if ticks != 0 {
				t.Errorf("NoteOn for key %v at tick %v, want 0", key, ticks)
			}
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			offs++
			offTick = ticks
		}
	}
	if ons != 3 || offs != 3 {
		t.Errorf("parsed %v NoteOns and %v NoteOffs, want 3 and 3", ons, offs)
	}
	if offTick != 960 {
		t.Errorf("NoteOffs at tick %v, want 960", offTick)
	}
}
