package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/maarit-k/kaiku"
)

// chunkSize is the number of samples written to the sink at a time; the
// cancellation flag is checked between chunks.
const chunkSize = 1024

// sinkBackend adapts a kaiku.AudioContext to the Backend interface. The
// context stays open for the lifetime of the backend; each Play opens one
// sink, streams the buffer through it in chunks and closes it. Stop cannot
// take back samples the sink has already accepted, so cessation of sound is
// best-effort.
type sinkBackend struct {
	name       string
	ctx        kaiku.AudioContext
	sampleRate int
	playing    atomic.Bool
	cancel     atomic.Bool
}

func (b *sinkBackend) Name() string { return b.name }

func (b *sinkBackend) IsPlaying() bool { return b.playing.Load() }

func (b *sinkBackend) Stop() { b.cancel.Store(true) }

// Reset clears a pending stop request. Play deliberately does not clear it
// itself: the reset must happen on the goroutine that starts the session,
// or a Stop issued before the worker reaches Play would be erased.
func (b *sinkBackend) Reset() { b.cancel.Store(false) }

func (b *sinkBackend) Play(samples []float32, sampleRate int) error {
	if sampleRate != b.sampleRate {
		return fmt.Errorf("backend %v is fixed at %v Hz, buffer is %v Hz", b.name, b.sampleRate, sampleRate)
	}
	if len(samples) == 0 {
		return nil
	}
	b.playing.Store(true)
	defer b.playing.Store(false)
	sink := b.ctx.Output()
	defer sink.Close()
	for start := 0; start < len(samples); start += chunkSize {
		if b.cancel.Load() {
			return nil
		}
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		if err := sink.WriteAudio(samples[start:end]); err != nil {
			return fmt.Errorf("cannot write to %v output: %w", b.name, err)
		}
	}
	return nil
}

func (b *sinkBackend) Close() error { return b.ctx.Close() }
