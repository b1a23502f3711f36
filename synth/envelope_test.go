package synth_test

import (
	"math"
	"testing"

	"github.com/maarit-k/kaiku/synth"
)

func constantBuffer(n int) []float32 {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = 1
	}
	return samples
}

func TestEnvelopePreservesLength(t *testing.T) {
	e := synth.DefaultEnvelope()
	for _, n := range []int{0, 100, 44100} {
		samples := constantBuffer(n)
		e.Apply(samples, 44100)
		if len(samples) != n {
			t.Errorf("length changed from %v to %v", n, len(samples))
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	e := synth.Envelope{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1}
	samples := constantBuffer(44100)
	e.Apply(samples, 44100)
	if samples[0] != 0 {
		t.Errorf("expected first sample 0 with a positive attack, got %v", samples[0])
	}
	// end of attack reaches full amplitude
	if got := float64(samples[4409]); math.Abs(got-1) > 1e-3 {
		t.Errorf("expected ~1 at the end of attack, got %v", got)
	}
	// middle of the sustain plateau
	if got := float64(samples[22050]); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("expected sustain level 0.5 at the middle, got %v", got)
	}
	// last release sample fades to zero
	if got := float64(samples[44099]); math.Abs(got) > 1e-6 {
		t.Errorf("expected fade to 0 at the end, got %v", got)
	}
}

func TestEnvelopeSkippedWhenTooShort(t *testing.T) {
	e := synth.Envelope{Attack: 0.2, Decay: 0.2, Sustain: 0.5, Release: 0.2}
	// 0.5 s buffer cannot fit 0.6 s of stages: the envelope degrades to a
	// no-op instead of being clamped
	samples := constantBuffer(22050)
	e.Apply(samples, 44100)
	for i, v := range samples {
		if v != 1 {
			t.Fatalf("sample %v modified to %v, expected envelope to be skipped", i, v)
		}
	}
}

func TestZeroEnvelopeIsNoOp(t *testing.T) {
	var e synth.Envelope
	samples := constantBuffer(1000)
	e.Apply(samples, 44100)
	for i, v := range samples {
		if v != 1 {
			t.Fatalf("sample %v modified to %v by a zero envelope", i, v)
		}
	}
}
