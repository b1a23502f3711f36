package kaiku_test

import (
	"math"
	"testing"

	"github.com/maarit-k/kaiku"
)

func TestNoteFromMIDI(t *testing.T) {
	n, err := kaiku.NoteFromMIDI(69)
	if err != nil {
		t.Fatalf("NoteFromMIDI failed: %v", err)
	}
	if got := n.Frequency(); math.Abs(got-440) > 1e-9 {
		t.Errorf("expected A4 to be 440 Hz, got %v", got)
	}
	if got := n.MIDI(); got != 69 {
		t.Errorf("expected pitch 69, got %v", got)
	}
	n, err = kaiku.NoteFromMIDI(60)
	if err != nil {
		t.Fatalf("NoteFromMIDI failed: %v", err)
	}
	if got := n.Frequency(); math.Abs(got-261.6255653) > 1e-6 {
		t.Errorf("expected middle C to be 261.63 Hz, got %v", got)
	}
	for _, pitch := range []int{-1, 128, 1000} {
		if _, err := kaiku.NoteFromMIDI(pitch); err == nil {
			t.Errorf("expected error for pitch %v", pitch)
		}
	}
}

func TestNoteFromFrequency(t *testing.T) {
	n, err := kaiku.NoteFromFrequency(440)
	if err != nil {
		t.Fatalf("NoteFromFrequency failed: %v", err)
	}
	if got := n.MIDI(); got != 69 {
		t.Errorf("expected 440 Hz to be pitch 69, got %v", got)
	}
	if _, err := kaiku.NoteFromFrequency(0); err == nil {
		t.Error("expected error for zero frequency")
	}
	if _, err := kaiku.NoteFromFrequency(-440); err == nil {
		t.Error("expected error for negative frequency")
	}
	// far out of the MIDI range, should clamp rather than wrap
	n, _ = kaiku.NoteFromFrequency(100000)
	if got := n.MIDI(); got != 127 {
		t.Errorf("expected ultrasound to clamp to 127, got %v", got)
	}
}

func TestSequenceReversed(t *testing.T) {
	s, err := kaiku.SequenceFromMIDI(60, 62, 64)
	if err != nil {
		t.Fatalf("SequenceFromMIDI failed: %v", err)
	}
	got := s.Reversed().MIDI()
	want := []int{64, 62, 60}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(s.Reversed().Reversed()) != len(s) {
		t.Error("double reversal changed the length")
	}
}

func TestWavSizes(t *testing.T) {
	buf := kaiku.AudioBuffer{Samples: make([]float32, 1000), SampleRate: 44100}
	wav, err := buf.Wav(false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(wav) != 58+4*1000 {
		t.Errorf("float32 wav expected %v bytes, got %v", 58+4*1000, len(wav))
	}
	wav, err = buf.Wav(true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(wav) != 44+2*1000 {
		t.Errorf("pcm16 wav expected %v bytes, got %v", 44+2*1000, len(wav))
	}
	if string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("wav output does not start with a RIFF/WAVE header")
	}
}

func TestAppendSilence(t *testing.T) {
	buf := kaiku.AudioBuffer{Samples: []float32{1, 1}, SampleRate: 44100}
	got := buf.AppendSilence(0.5)
	if len(got.Samples) != 2+22050 {
		t.Errorf("expected %v samples, got %v", 2+22050, len(got.Samples))
	}
	if got.Samples[0] != 1 || got.Samples[len(got.Samples)-1] != 0 {
		t.Error("silence not appended after the original samples")
	}
	if len(buf.Samples) != 2 {
		t.Error("AppendSilence mutated the receiver")
	}
	if got := buf.AppendSilence(0); len(got.Samples) != 2 {
		t.Errorf("zero duration changed the buffer to %v samples", len(got.Samples))
	}
}

func TestBufferSeconds(t *testing.T) {
	buf := kaiku.AudioBuffer{Samples: make([]float32, 22050), SampleRate: 44100}
	if got := buf.Seconds(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected 0.5 s, got %v", got)
	}
	if got := (kaiku.AudioBuffer{}).Seconds(); got != 0 {
		t.Errorf("expected 0 s for empty buffer, got %v", got)
	}
}
