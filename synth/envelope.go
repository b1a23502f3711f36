package synth

// Envelope is a piecewise-linear ADSR amplitude envelope: ramp 0 to 1 over
// Attack, 1 to Sustain over Decay, flat Sustain through the middle and
// Sustain to 0 over the trailing Release. Attack, Decay and Release are in
// seconds; Sustain is a level in 0-1.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

func DefaultEnvelope() Envelope {
	return Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.3}
}

// Apply shapes the samples in place. When the attack, decay and release
// stages together are longer than the buffer, the buffer is left unmodified:
// a tone too short to fit the envelope sounds better unshaped than with the
// stages squeezed into it.
func (e Envelope) Apply(samples []float32, sampleRate int) {
	attack := int(e.Attack * float64(sampleRate))
	decay := int(e.Decay * float64(sampleRate))
	release := int(e.Release * float64(sampleRate))
	if attack+decay+release == 0 || len(samples) < attack+decay+release {
		return
	}
	for i := 0; i < attack; i++ {
		samples[i] *= float32(rampAt(i, attack, 0, 1))
	}
	for i := 0; i < decay; i++ {
		samples[attack+i] *= float32(rampAt(i, decay, 1, e.Sustain))
	}
	sustainEnd := len(samples) - release
	for i := attack + decay; i < sustainEnd; i++ {
		samples[i] *= float32(e.Sustain)
	}
	for i := 0; i < release; i++ {
		samples[sustainEnd+i] *= float32(rampAt(i, release, e.Sustain, 0))
	}
}

// rampAt evaluates a linear ramp from 'from' to 'to' over n samples, with
// both endpoints inclusive, at sample i.
func rampAt(i, n int, from, to float64) float64 {
	if n <= 1 {
		return from
	}
	return from + (to-from)*float64(i)/float64(n-1)
}
