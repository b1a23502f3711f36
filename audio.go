package kaiku

// AudioSink is a destination for mono float32 PCM samples. WriteAudio may
// block until the device has accepted the samples; Close flushes whatever
// was written and releases the device.
type AudioSink interface {
	WriteAudio(buffer []float32) error
	Close() error
}

type AudioContext interface {
	Output() AudioSink
	Close() error
}
