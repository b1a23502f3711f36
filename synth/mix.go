package synth

import (
	"github.com/maarit-k/kaiku"
	"github.com/viterin/vek/vek32"
)

// Chord renders the notes of a chord at equal length and mixes them into a
// single buffer. Each voice is pre-scaled to amplitude/N before synthesis;
// after summing, the mix is peak-normalized so that it never clips even when
// the voices happen to line up in phase. An empty chord gives an empty
// buffer.
func (s *Synth) Chord(chord kaiku.Chord, duration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	if len(chord) == 0 {
		return kaiku.AudioBuffer{SampleRate: s.SampleRate}, nil
	}
	voiceAmp := amplitude / float64(len(chord))
	var sum []float32
	for _, n := range chord {
		voice, err := s.Note(n, duration, waveform, voiceAmp)
		if err != nil {
			return kaiku.AudioBuffer{}, err
		}
		if sum == nil {
			sum = voice.Samples
			continue
		}
		vek32.Add_Inplace(sum, voice.Samples)
	}
	normalize(sum)
	return kaiku.AudioBuffer{Samples: sum, SampleRate: s.SampleRate}, nil
}

// normalize divides the samples by the peak magnitude, but only if the peak
// exceeds 1; quieter material is left untouched.
func normalize(samples []float32) {
	if len(samples) == 0 {
		return
	}
	scratch := make([]float32, len(samples))
	copy(scratch, samples)
	vek32.Abs_Inplace(scratch)
	peak := vek32.Max(scratch)
	if peak > 1 {
		vek32.MulNumber_Inplace(samples, 1/peak)
	}
}
