// Package synth turns notes and chords into sample buffers: waveform
// generation, ADSR envelope shaping, chord mixing and sequencing with
// silence gaps. Everything here is synchronous and pure; the output buffer
// is fully materialized in memory before playback touches it.
package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/maarit-k/kaiku"
)

type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
	Pulse
)

// Pulse is a narrow square: high for a quarter of the period.
const pulseDuty = 0.25

var (
	ErrAmplitudeRange  = errors.New("amplitude must be in the range 0-1")
	ErrUnknownWaveform = errors.New("unknown waveform")
)

var waveformNames = [...]string{"sine", "square", "sawtooth", "triangle", "pulse"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if strings.EqualFold(s, name) {
			return Waveform(i), nil
		}
	}
	return Sine, fmt.Errorf("%w %q", ErrUnknownWaveform, s)
}

// Synth generates audio buffers at a fixed sample rate. The envelope is
// applied to every generated buffer; see Envelope for when it degrades to a
// no-op. A Synth is cheap and copyable; rendering holds no state between
// calls.
type Synth struct {
	SampleRate int
	Envelope   Envelope
}

func NewSynth(sampleRate int) *Synth {
	if sampleRate <= 0 {
		sampleRate = kaiku.DefaultSampleRate
	}
	return &Synth{SampleRate: sampleRate, Envelope: DefaultEnvelope()}
}

// Generate renders a single tone of the given frequency and duration. The
// buffer has round(sampleRate*duration) samples. A non-positive duration
// yields an empty buffer; a non-positive frequency is an error.
func (s *Synth) Generate(frequency, duration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	if frequency <= 0 {
		return kaiku.AudioBuffer{}, fmt.Errorf("%w, got %v", kaiku.ErrInvalidFrequency, frequency)
	}
	if amplitude < 0 || amplitude > 1 {
		return kaiku.AudioBuffer{}, fmt.Errorf("%w, got %v", ErrAmplitudeRange, amplitude)
	}
	buf := kaiku.AudioBuffer{SampleRate: s.SampleRate}
	if duration <= 0 {
		return buf, nil
	}
	numSamples := int(math.Round(float64(s.SampleRate) * duration))
	samples := make([]float32, numSamples)
	for i := range samples {
		ft := frequency * float64(i) / float64(s.SampleRate)
		var v float64
		switch waveform {
		case Sine:
			v = math.Sin(2 * math.Pi * ft)
		case Square:
			v = sign(math.Sin(2 * math.Pi * ft))
		case Sawtooth:
			v = 2 * (ft - math.Floor(0.5+ft))
		case Triangle:
			v = 2*math.Abs(2*(ft-math.Floor(0.5+ft))) - 1
		case Pulse:
			v = sign(math.Sin(2*math.Pi*ft) - (1 - 2*pulseDuty))
		default:
			return kaiku.AudioBuffer{}, fmt.Errorf("%w %v", ErrUnknownWaveform, int(waveform))
		}
		samples[i] = float32(amplitude * v)
	}
	s.Envelope.Apply(samples, s.SampleRate)
	buf.Samples = samples
	return buf, nil
}

// Note renders a single note.
func (s *Synth) Note(n kaiku.Note, duration float64, waveform Waveform, amplitude float64) (kaiku.AudioBuffer, error) {
	return s.Generate(n.Frequency(), duration, waveform, amplitude)
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
