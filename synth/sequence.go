package synth

import (
	"github.com/maarit-k/kaiku"
)

// Silence gaps between successive items, in seconds.
const (
	ScaleGap       = 0.05
	ArpeggioGap    = 0.02
	ProgressionGap = 0.05
)

// Notes in a run are separated anyway by the gap, so a long release tail
// just smears them together; sequences render with a shortened release.
const sequenceRelease = 0.1

// Scale renders the notes one after another, each noteDuration long, with a
// 50 ms silence gap between them. Order is preserved; render the reversed
// sequence for a descending scale.
func (s *Synth) Scale(notes kaiku.Sequence, noteDuration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	return s.sequence(notes, noteDuration, waveform, amplitude, ScaleGap)
}

// Arpeggio is a scale with a tighter 20 ms gap.
func (s *Synth) Arpeggio(notes kaiku.Sequence, noteDuration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	return s.sequence(notes, noteDuration, waveform, amplitude, ArpeggioGap)
}

func (s *Synth) sequence(notes kaiku.Sequence, noteDuration float64, waveform Waveform, amplitude, gap float64) (kaiku.AudioBuffer, error) {
	sub := *s
	sub.Envelope.Release = sequenceRelease
	gapSamples := int(gap * float64(s.SampleRate))
	var samples []float32
	for i, n := range notes {
		if i > 0 {
			samples = append(samples, make([]float32, gapSamples)...)
		}
		voice, err := sub.Note(n, noteDuration, waveform, amplitude)
		if err != nil {
			return kaiku.AudioBuffer{}, err
		}
		samples = append(samples, voice.Samples...)
	}
	return kaiku.AudioBuffer{Samples: samples, SampleRate: s.SampleRate}, nil
}

// Progression renders each chord in turn, chordDuration long, with a 50 ms
// gap between chords.
func (s *Synth) Progression(chords kaiku.Progression, chordDuration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	gapSamples := int(ProgressionGap * float64(s.SampleRate))
	var samples []float32
	for i, c := range chords {
		if i > 0 {
			samples = append(samples, make([]float32, gapSamples)...)
		}
		chordBuf, err := s.Chord(c, chordDuration, waveform, amplitude)
		if err != nil {
			return kaiku.AudioBuffer{}, err
		}
		samples = append(samples, chordBuf.Samples...)
	}
	return kaiku.AudioBuffer{Samples: samples, SampleRate: s.SampleRate}, nil
}
