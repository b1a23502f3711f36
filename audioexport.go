package kaiku

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// AudioBuffer is a synthesized run of mono samples in [-1,1], tagged with
// the sample rate it was rendered at. Buffers are produced, consumed and
// discarded; once synthesis is done they are not mutated.
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// Seconds returns the nominal playing time of the buffer.
func (b AudioBuffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// AppendSilence returns the buffer extended by d seconds of silence.
func (b AudioBuffer) AppendSilence(d float64) AudioBuffer {
	if d <= 0 || b.SampleRate <= 0 {
		return b
	}
	n := int(math.Round(d * float64(b.SampleRate)))
	samples := make([]float32, len(b.Samples)+n)
	copy(samples, b.Samples)
	return AudioBuffer{Samples: samples, SampleRate: b.SampleRate}
}

// Wav returns the buffer as a mono .wav file. If pcm16 is true, the samples
// are converted to 16-bit signed PCM; otherwise they are saved as 32-bit
// floats.
func (b AudioBuffer) Wav(pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(b.Samples), b.SampleRate, pcm16, buf)
	err := rawToBuffer(b.Samples, pcm16, buf)
	if err != nil {
		return nil, fmt.Errorf("kaiku.Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Raw returns the bare samples as little-endian bytes, without any header.
func (b AudioBuffer) Raw(pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := rawToBuffer(b.Samples, pcm16, buf)
	if err != nil {
		return nil, fmt.Errorf("kaiku.Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

func rawToBuffer(data []float32, pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, data)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return nil
}

// wavHeader writes a wave header for either a float32 or an int16 mono .wav
// file into the bytes.Buffer. pcm16 = true means the header is for int16
// audio; pcm16 = false means the header is for float32 audio.
func wavHeader(bufferLength, sampleRate int, pcm16 bool, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	numChannels := 1
	var bytesPerSample, chunkSize, fmtChunkSize, waveFormat int
	var factChunk bool
	if pcm16 {
		bytesPerSample = 2
		chunkSize = 36 + bytesPerSample*bufferLength
		fmtChunkSize = 16
		waveFormat = 1 // PCM
		factChunk = false
	} else {
		bytesPerSample = 4
		chunkSize = 50 + bytesPerSample*bufferLength
		fmtChunkSize = 18
		waveFormat = 3 // IEEE float
		factChunk = true
	}
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	if fmtChunkSize > 16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
	}
	if factChunk {
		buf.Write([]byte("fact"))
		binary.Write(buf, binary.LittleEndian, uint32(4))            // fact chunk size
		binary.Write(buf, binary.LittleEndian, uint32(bufferLength)) // sample length
	}
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
