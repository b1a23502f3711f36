// Package engine is the façade that routes musical objects, supplied by a
// music-theory layer as ordered note sequences, either to audio playback or
// to Standard MIDI File bytes. An Engine is constructed explicitly and gets
// its player injected, so tests can run isolated instances side by side;
// there is no package-level singleton.
package engine

import (
	"github.com/maarit-k/kaiku"
	"github.com/maarit-k/kaiku/audio"
	"github.com/maarit-k/kaiku/smf"
	"github.com/maarit-k/kaiku/synth"
)

// Default playback amplitudes. Chords mix several voices, so they start
// quieter per voice.
const (
	noteAmplitude  = 0.5
	chordAmplitude = 0.3
)

type Config struct {
	SampleRate   int
	Waveform     synth.Waveform
	Tempo        uint32 // microseconds per beat, for MIDI export
	TicksPerBeat uint16
}

type Engine struct {
	synth  *synth.Synth
	player *audio.Player
	cfg    Config
}

// New builds an engine from the config and an injected player. Zero config
// fields fall back to the defaults (44100 Hz, sine, 120 BPM, 480 ticks per
// beat). The player's backend must run at cfg.SampleRate, since a backend
// rejects buffers rendered at any other rate; a nil player detects one at
// that rate.
func New(cfg Config, player *audio.Player) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = kaiku.DefaultSampleRate
	}
	if cfg.Tempo == 0 {
		cfg.Tempo = smf.DefaultTempo
	}
	if cfg.TicksPerBeat == 0 {
		cfg.TicksPerBeat = smf.DefaultTicksPerBeat
	}
	if player == nil {
		player = audio.NewDefaultPlayerAt(cfg.SampleRate)
	}
	return &Engine{
		synth:  synth.NewSynth(cfg.SampleRate),
		player: player,
		cfg:    cfg,
	}
}

// NewDefault builds an engine with an auto-detected playback backend.
func NewDefault() *Engine {
	return New(Config{}, nil)
}

// ---- playback ----

// PlayNote synthesizes and plays a single note, duration in seconds. With
// async true the call returns as soon as playback has started.
func (e *Engine) PlayNote(n kaiku.Note, duration float64, async bool) error {
	buf, err := e.synth.Note(n, duration, e.cfg.Waveform, noteAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

func (e *Engine) PlayChord(c kaiku.Chord, duration float64, async bool) error {
	buf, err := e.synth.Chord(c, duration, e.cfg.Waveform, chordAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

// PlayChordArpeggio plays the chord one note at a time.
func (e *Engine) PlayChordArpeggio(c kaiku.Chord, noteDuration float64, async bool) error {
	buf, err := e.synth.Arpeggio(kaiku.Sequence(c), noteDuration, e.cfg.Waveform, noteAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

func (e *Engine) PlayScale(s kaiku.Sequence, noteDuration float64, async bool) error {
	buf, err := e.synth.Scale(s, noteDuration, e.cfg.Waveform, noteAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

func (e *Engine) PlayScaleDescending(s kaiku.Sequence, noteDuration float64, async bool) error {
	return e.PlayScale(s.Reversed(), noteDuration, async)
}

func (e *Engine) PlayProgression(p kaiku.Progression, chordDuration float64, async bool) error {
	buf, err := e.synth.Progression(p, chordDuration, e.cfg.Waveform, chordAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

// PlayProgressionArpeggiated flattens the progression's chords into one run
// of notes and plays it as an arpeggio.
func (e *Engine) PlayProgressionArpeggiated(p kaiku.Progression, noteDuration float64, async bool) error {
	var all kaiku.Sequence
	for _, c := range p {
		all = append(all, c...)
	}
	buf, err := e.synth.Arpeggio(all, noteDuration, e.cfg.Waveform, noteAmplitude)
	if err != nil {
		return err
	}
	e.player.Play(buf, async)
	return nil
}

// ---- audio accessors ----

func (e *Engine) NoteToAudio(n kaiku.Note, duration float64) (kaiku.AudioBuffer, error) {
	return e.synth.Note(n, duration, e.cfg.Waveform, noteAmplitude)
}

func (e *Engine) ChordToAudio(c kaiku.Chord, duration float64) (kaiku.AudioBuffer, error) {
	return e.synth.Chord(c, duration, e.cfg.Waveform, chordAmplitude)
}

func (e *Engine) ScaleToAudio(s kaiku.Sequence, noteDuration float64) (kaiku.AudioBuffer, error) {
	return e.synth.Scale(s, noteDuration, e.cfg.Waveform, noteAmplitude)
}

func (e *Engine) ProgressionToAudio(p kaiku.Progression, chordDuration float64) (kaiku.AudioBuffer, error) {
	return e.synth.Progression(p, chordDuration, e.cfg.Waveform, chordAmplitude)
}

// ---- MIDI export ----

// NoteToMIDI returns SMF bytes for a single note, durationBeats long. A
// non-empty path additionally writes the bytes to that file. MIDI export
// never touches an audio device, so it works the same on headless machines.
func (e *Engine) NoteToMIDI(n kaiku.Note, durationBeats float64, path string) ([]byte, error) {
	f, t := e.newFile()
	t.AddScale(pitchBytes(kaiku.Chord{n}), smf.DefaultVelocity, durationBeats, 0, f.TicksPerBeat)
	return exportMIDI(f, path)
}

func (e *Engine) ChordToMIDI(c kaiku.Chord, durationBeats float64, path string) ([]byte, error) {
	f, t := e.newFile()
	t.AddChord(pitchBytes(c), smf.DefaultVelocity, 0, durationBeats, 0, f.TicksPerBeat)
	return exportMIDI(f, path)
}

func (e *Engine) ScaleToMIDI(s kaiku.Sequence, noteDurationBeats float64, path string) ([]byte, error) {
	f, t := e.newFile()
	t.AddScale(pitchBytes(kaiku.Chord(s)), smf.DefaultVelocity, noteDurationBeats, 0, f.TicksPerBeat)
	return exportMIDI(f, path)
}

func (e *Engine) ProgressionToMIDI(p kaiku.Progression, chordDurationBeats float64, path string) ([]byte, error) {
	chords := make([][]uint8, len(p))
	for i, c := range p {
		chords[i] = pitchBytes(c)
	}
	f, t := e.newFile()
	t.AddProgression(chords, smf.DefaultVelocity, chordDurationBeats, 0, f.TicksPerBeat)
	return exportMIDI(f, path)
}

// newFile starts a single-track file at the engine's resolution, carrying
// the engine's tempo and a 4/4 time signature at tick 0.
func (e *Engine) newFile() (*smf.File, *smf.Track) {
	f := smf.NewFile()
	f.TicksPerBeat = e.cfg.TicksPerBeat
	t := f.NewTrack()
	t.AddTempo(0, e.cfg.Tempo)
	t.AddTimeSignature(0, 4, 2)
	return f, t
}

func exportMIDI(f *smf.File, path string) ([]byte, error) {
	data := f.Bytes()
	if path != "" {
		if err := f.WriteFile(path); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func pitchBytes(c kaiku.Chord) []uint8 {
	ret := make([]uint8, len(c))
	for i, n := range c {
		ret[i] = uint8(n.MIDI())
	}
	return ret
}

// ---- control ----

func (e *Engine) Stop()           { e.player.Stop() }
func (e *Engine) Wait()           { e.player.Wait() }
func (e *Engine) IsPlaying() bool { return e.player.IsPlaying() }
func (e *Engine) Backend() string { return e.player.Backend() }

func (e *Engine) AvailableBackends() []string { return audio.AvailableBackends() }
