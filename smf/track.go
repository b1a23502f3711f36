package smf

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultTicksPerBeat is the tick resolution used unless overridden.
	DefaultTicksPerBeat = 480
	// DefaultVelocity is the NoteOn velocity used by the convenience
	// builders.
	DefaultVelocity = 100
)

var ErrNegativeBeats = errors.New("beat positions and durations must be non-negative")

// BeatsToTicks converts a position or duration in beats to ticks at the
// given resolution. Negative beats clamp to tick zero; ticks are unsigned
// and a negative float converted to uint32 would wrap to a huge value.
func BeatsToTicks(beats float64, ticksPerBeat uint16) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(math.Round(beats * float64(ticksPerBeat)))
}

// Track is an ordered list of events, mutable only by appending during
// construction. Events carry absolute ticks; serialization sorts them
// stably by tick (events at the same tick keep their insertion order, which
// is what keeps chord NoteOff ordering mirroring the NoteOn ordering) and
// emits delta-times. A track is owned by one render session and must not be
// appended to concurrently.
type Track struct {
	events []Event
}

// Append adds a message at an absolute tick position. Only the channel is
// validated; see Message for the field masking policy.
func (t *Track) Append(tick uint32, msg Message) error {
	if err := validateChannel(msg); err != nil {
		return err
	}
	switch msg.(type) {
	case EndOfTrack:
		return fmt.Errorf("EndOfTrack is emitted automatically at serialization")
	}
	t.events = append(t.events, Event{Tick: tick, Msg: msg})
	return nil
}

// AddNote appends a NoteOn at startBeat and the matching NoteOff at
// startBeat+durationBeats.
func (t *Track) AddNote(pitch, velocity uint8, startBeat, durationBeats float64, channel uint8, ticksPerBeat uint16) error {
	if err := validateBeats(startBeat, durationBeats); err != nil {
		return err
	}
	on := BeatsToTicks(startBeat, ticksPerBeat)
	off := BeatsToTicks(startBeat+durationBeats, ticksPerBeat)
	if err := t.Append(on, NoteOn{Channel: channel, Pitch: pitch, Velocity: velocity}); err != nil {
		return err
	}
	return t.Append(off, NoteOff{Channel: channel, Pitch: pitch})
}

// AddChord appends NoteOns for all pitches at one tick and NoteOffs for all
// of them at the release tick. On the wire, the first event of each group
// carries the real delta and the rest carry delta 0.
func (t *Track) AddChord(pitches []uint8, velocity uint8, startBeat, durationBeats float64, channel uint8, ticksPerBeat uint16) error {
	if err := validateBeats(startBeat, durationBeats); err != nil {
		return err
	}
	on := BeatsToTicks(startBeat, ticksPerBeat)
	off := BeatsToTicks(startBeat+durationBeats, ticksPerBeat)
	for _, p := range pitches {
		if err := t.Append(on, NoteOn{Channel: channel, Pitch: p, Velocity: velocity}); err != nil {
			return err
		}
	}
	for _, p := range pitches {
		if err := t.Append(off, NoteOff{Channel: channel, Pitch: p}); err != nil {
			return err
		}
	}
	return nil
}

// AddScale appends the pitches one after another, each noteDuration beats
// long.
func (t *Track) AddScale(pitches []uint8, velocity uint8, noteDuration float64, channel uint8, ticksPerBeat uint16) error {
	for i, p := range pitches {
		start := float64(i) * noteDuration
		if err := t.AddNote(p, velocity, start, noteDuration, channel, ticksPerBeat); err != nil {
			return err
		}
	}
	return nil
}

// AddProgression appends the chords one after another, each chordDuration
// beats long.
func (t *Track) AddProgression(chords [][]uint8, velocity uint8, chordDuration float64, channel uint8, ticksPerBeat uint16) error {
	for i, c := range chords {
		start := float64(i) * chordDuration
		if err := t.AddChord(c, velocity, start, chordDuration, channel, ticksPerBeat); err != nil {
			return err
		}
	}
	return nil
}

func validateBeats(startBeat, durationBeats float64) error {
	if startBeat < 0 || durationBeats < 0 {
		return fmt.Errorf("%w, got start %v and duration %v", ErrNegativeBeats, startBeat, durationBeats)
	}
	return nil
}

func (t *Track) AddTempo(tick uint32, microsPerBeat uint32) error {
	return t.Append(tick, Tempo{MicrosPerBeat: microsPerBeat})
}

func (t *Track) AddTimeSignature(tick uint32, numerator, denominator uint8) error {
	return t.Append(tick, TimeSignature{
		Numerator:      numerator,
		Denominator:    denominator,
		ClocksPerClick: 24,
		NotatedPer24:   8,
	})
}

func (t *Track) AddProgramChange(tick uint32, channel, program uint8) error {
	return t.Append(tick, ProgramChange{Channel: channel, Program: program})
}

func (t *Track) AddControlChange(tick uint32, channel, control, value uint8) error {
	return t.Append(tick, ControlChange{Channel: channel, Control: control, Value: value})
}

// Bytes serializes the track body: (delta, event) pairs followed by
// EndOfTrack. The track itself is not modified, so serializing twice gives
// identical bytes. An unmatched NoteOn or NoteOff panics: the track was
// constructed by buggy code and there is nothing sensible to emit.
func (t *Track) Bytes() []byte {
	events := make([]Event, len(t.events))
	copy(events, t.events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })
	checkNotePairing(events)
	var dst []byte
	prev := uint32(0)
	for _, e := range events {
		dst = AppendVLQ(dst, e.Tick-prev)
		dst = e.Msg.appendTo(dst)
		prev = e.Tick
	}
	dst = AppendVLQ(dst, 0)
	return EndOfTrack{}.appendTo(dst)
}

// checkNotePairing verifies that every NoteOn has exactly one later
// matching NoteOff on the same channel and pitch. events must already be in
// serialization order.
func checkNotePairing(events []Event) {
	type key struct{ channel, pitch uint8 }
	open := make(map[key]int)
	for _, e := range events {
		switch m := e.Msg.(type) {
		case NoteOn:
			open[key{m.Channel, m.Pitch}]++
		case NoteOff:
			k := key{m.Channel, m.Pitch}
			if open[k] == 0 {
				panic(fmt.Sprintf("smf: NoteOff without a preceding NoteOn (channel %v, pitch %v)", m.Channel, m.Pitch))
			}
			open[k]--
		}
	}
	for k, n := range open {
		if n != 0 {
			panic(fmt.Sprintf("smf: %v unmatched NoteOn events (channel %v, pitch %v)", n, k.channel, k.pitch))
		}
	}
}
