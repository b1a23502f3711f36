package audio

import (
	"log"

	"github.com/maarit-k/kaiku"
)

// Player wraps one backend and runs at most one playback session at a time.
// An asynchronous session is one worker goroutine; starting a new session
// first stops the old one and waits for its goroutine to finish, so the
// start of the new session happens-after the stop signal to the old one.
// Whether the old sound actually ceases before the new one starts is up to
// the backend and is best-effort.
//
// A Player is not internally locked: concurrent Play calls on the same
// Player must be serialized by the caller. Backend errors during playback
// are logged and end the session early; they are never returned, since
// audio is an enhancement that must not break the caller.
type Player struct {
	backend  Backend
	finished chan struct{}
}

// NewPlayer wraps the given backend; nil means no backend could be opened,
// which turns every Play into a no-op.
func NewPlayer(backend Backend) *Player {
	if backend == nil {
		log.Println("audio: no backend available, playback disabled")
	}
	return &Player{backend: backend}
}

// NewDefaultPlayer detects a backend from the registry at the default
// sample rate.
func NewDefaultPlayer() *Player {
	return NewDefaultPlayerAt(kaiku.DefaultSampleRate)
}

// NewDefaultPlayerAt detects a backend from the registry at the given
// sample rate. A backend only accepts buffers rendered at its own rate, so
// the player must be detected at the rate the synthesizer runs at.
func NewDefaultPlayerAt(sampleRate int) *Player {
	return NewPlayer(DetectBackend(sampleRate))
}

// Play starts playing the buffer. With async true it returns immediately
// and the buffer plays on a worker goroutine; otherwise it blocks until the
// buffer has played out or Stop was called from elsewhere. The backend is
// reset here, before the session is handed off, so that a Stop call racing
// the worker startup lands on the new session instead of being erased.
func (p *Player) Play(buffer kaiku.AudioBuffer, async bool) {
	if p.backend == nil {
		return
	}
	p.stopSession()
	p.backend.Reset()
	if !async {
		p.runSession(buffer)
		return
	}
	p.finished = make(chan struct{})
	go func(finished chan struct{}) {
		defer close(finished)
		p.runSession(buffer)
	}(p.finished)
}

func (p *Player) runSession(buffer kaiku.AudioBuffer) {
	if err := p.backend.Play(buffer.Samples, buffer.SampleRate); err != nil {
		log.Printf("audio: playback on %v ended early: %v", p.backend.Name(), err)
	}
}

// stopSession signals the active session, if any, and waits until its
// goroutine has finished.
func (p *Player) stopSession() {
	if p.finished == nil {
		return
	}
	select {
	case <-p.finished:
	default:
		p.backend.Stop()
		<-p.finished
	}
	p.finished = nil
}

// Stop asks the backend to end the current playback. Best-effort: a backend
// that has already handed the samples to the device cannot take them back.
func (p *Player) Stop() {
	if p.backend != nil {
		p.backend.Stop()
	}
}

// Wait blocks until the active asynchronous session has finished. Returns
// immediately when nothing is playing.
func (p *Player) Wait() {
	if p.finished != nil {
		<-p.finished
	}
}

func (p *Player) IsPlaying() bool {
	return p.backend != nil && p.backend.IsPlaying()
}

// Backend returns the name of the backend in use, or "none".
func (p *Player) Backend() string {
	if p.backend == nil {
		return "none"
	}
	return p.backend.Name()
}
