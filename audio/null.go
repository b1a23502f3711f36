package audio

import (
	"time"

	"github.com/maarit-k/kaiku"
)

// nullContext is the always-constructible fallback output. It plays into
// nowhere but paces writes in real time, so session timing, IsPlaying and
// cancellation behave the same as with a real device.
type nullContext struct {
	sampleRate int
}

func newNullContext(sampleRate int) (kaiku.AudioContext, error) {
	return &nullContext{sampleRate: sampleRate}, nil
}

func (c *nullContext) Output() kaiku.AudioSink { return &nullSink{sampleRate: c.sampleRate} }

func (c *nullContext) Close() error { return nil }

type nullSink struct {
	sampleRate int
}

func (s *nullSink) WriteAudio(buffer []float32) error {
	time.Sleep(time.Duration(float64(len(buffer)) / float64(s.sampleRate) * float64(time.Second)))
	return nil
}

func (s *nullSink) Close() error { return nil }
