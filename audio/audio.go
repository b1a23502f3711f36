// Package audio plays synthesized buffers through a pluggable PCM backend.
// Backends are discovered by trying a fixed priority list of constructors;
// when no real output device can be opened, playback degrades to a logged
// no-op so that headless machines still run everything else. Playback is a
// best-effort enhancement: a failing device never propagates an error to
// the code that asked for sound.
package audio

import (
	"log"

	"github.com/maarit-k/kaiku"
)

// Backend is one PCM output capability. Play blocks until the buffer has
// played out or Stop was called; Stop is best-effort and asynchronous. A
// stop request persists until Reset, so a Stop issued after a session was
// handed off but before the backend picked it up still cancels that
// session. The player calls Reset before each new session.
type Backend interface {
	Play(samples []float32, sampleRate int) error
	Stop()
	Reset()
	IsPlaying() bool
	Name() string
}

// Constructor opens one kind of audio context. Constructors are tried in
// registry order; one that fails is skipped.
type Constructor struct {
	Name string
	New  func(sampleRate int) (kaiku.AudioContext, error)
}

// Registry returns the backend constructors in priority order: the oto
// device output first, the null output last.
func Registry() []Constructor {
	return []Constructor{
		{Name: "oto", New: newOtoContext},
		{Name: "null", New: newNullContext},
	}
}

// AvailableBackends returns the names of all compiled-in backends, in
// priority order.
func AvailableBackends() []string {
	reg := Registry()
	names := make([]string, len(reg))
	for i, c := range reg {
		names[i] = c.Name
	}
	return names
}

// DetectBackend opens the first constructible backend from the registry, or
// returns nil when none can be opened.
func DetectBackend(sampleRate int) Backend {
	return detect(Registry(), sampleRate)
}

func detect(constructors []Constructor, sampleRate int) Backend {
	if sampleRate <= 0 {
		sampleRate = kaiku.DefaultSampleRate
	}
	for _, c := range constructors {
		ctx, err := c.New(sampleRate)
		if err != nil {
			log.Printf("audio: backend %v unavailable: %v", c.Name, err)
			continue
		}
		return &sinkBackend{name: c.Name, ctx: ctx, sampleRate: sampleRate}
	}
	return nil
}
