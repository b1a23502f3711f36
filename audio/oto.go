package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/maarit-k/kaiku"
)

type otoContext struct {
	ctx *oto.Context
}

func newOtoContext(sampleRate int) (kaiku.AudioContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &otoContext{ctx: ctx}, nil
}

// Output opens a fresh player fed through a pipe, so that WriteAudio gets
// backpressure from the device: a write blocks once oto's internal buffer
// is full, which is what lets the caller check cancellation between chunks.
func (c *otoContext) Output() kaiku.AudioSink {
	pr, pw := io.Pipe()
	p := c.ctx.NewPlayer(pr)
	p.Play()
	return &otoSink{player: p, w: pw}
}

func (c *otoContext) Close() error {
	// oto contexts cannot be destroyed, only suspended
	return c.ctx.Suspend()
}

type otoSink struct {
	player *oto.Player
	w      *io.PipeWriter
	tmp    []byte
}

func (o *otoSink) WriteAudio(buffer []float32) error {
	// reuse the old capacity of tmp by setting its length to zero, then
	// keep the grown slice around for the next write
	o.tmp = floatBufferToLEBytes(buffer, o.tmp[:0])
	if _, err := o.w.Write(o.tmp); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close drains what was already accepted and releases the player.
func (o *otoSink) Close() error {
	o.w.Close()
	for o.player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// floatBufferToLEBytes converts a []float32 buffer to the little-endian
// byte layout oto.FormatFloat32LE expects, appending to dst.
func floatBufferToLEBytes(buffer []float32, dst []byte) []byte {
	for _, v := range buffer {
		bits := math.Float32bits(v)
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return dst
}
