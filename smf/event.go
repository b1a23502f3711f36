package smf

import (
	"errors"
	"fmt"
)

var ErrChannelRange = errors.New("MIDI channel must be in the range 0-15")

// Message is one tagged MIDI event variant. Seven-bit data fields (pitch,
// velocity, program, control, value) are masked with &0x7F rather than
// rejected; only the channel is validated, since a channel above 15 would
// corrupt the status byte. This leniency is deliberate and matches common
// MIDI library behaviour.
type Message interface {
	// appendTo appends the wire encoding of the message, without the
	// preceding delta-time.
	appendTo(dst []byte) []byte
}

type channelMessage interface {
	Message
	channel() uint8
}

type (
	NoteOn struct {
		Channel  uint8
		Pitch    uint8
		Velocity uint8
	}
	NoteOff struct {
		Channel  uint8
		Pitch    uint8
		Velocity uint8
	}
	Tempo struct {
		MicrosPerBeat uint32 // 24-bit microseconds per quarter note
	}
	TimeSignature struct {
		Numerator      uint8
		Denominator    uint8 // as a power of two, e.g. 2 for x/4
		ClocksPerClick uint8
		NotatedPer24   uint8
	}
	ProgramChange struct {
		Channel uint8
		Program uint8
	}
	ControlChange struct {
		Channel uint8
		Control uint8
		Value   uint8
	}
	EndOfTrack struct{}
)

func (m NoteOn) appendTo(dst []byte) []byte {
	return append(dst, 0x90|m.Channel&0x0F, m.Pitch&0x7F, m.Velocity&0x7F)
}

func (m NoteOff) appendTo(dst []byte) []byte {
	return append(dst, 0x80|m.Channel&0x0F, m.Pitch&0x7F, m.Velocity&0x7F)
}

func (m Tempo) appendTo(dst []byte) []byte {
	return append(dst, 0xFF, 0x51, 0x03,
		byte(m.MicrosPerBeat>>16), byte(m.MicrosPerBeat>>8), byte(m.MicrosPerBeat))
}

func (m TimeSignature) appendTo(dst []byte) []byte {
	return append(dst, 0xFF, 0x58, 0x04, m.Numerator, m.Denominator, m.ClocksPerClick, m.NotatedPer24)
}

func (m ProgramChange) appendTo(dst []byte) []byte {
	return append(dst, 0xC0|m.Channel&0x0F, m.Program&0x7F)
}

func (m ControlChange) appendTo(dst []byte) []byte {
	return append(dst, 0xB0|m.Channel&0x0F, m.Control&0x7F, m.Value&0x7F)
}

func (m EndOfTrack) appendTo(dst []byte) []byte {
	return append(dst, 0xFF, 0x2F, 0x00)
}

func (m NoteOn) channel() uint8        { return m.Channel }
func (m NoteOff) channel() uint8       { return m.Channel }
func (m ProgramChange) channel() uint8 { return m.Channel }
func (m ControlChange) channel() uint8 { return m.Channel }

func validateChannel(m Message) error {
	cm, ok := m.(channelMessage)
	if !ok {
		return nil
	}
	if ch := cm.channel(); ch > 15 {
		return fmt.Errorf("%w, got %v", ErrChannelRange, ch)
	}
	return nil
}

// Event is a message stamped with its absolute position in the track, in
// ticks from the track start. Deltas are computed only at serialization
// time; storing absolute ticks makes event construction order-independent.
type Event struct {
	Tick uint32
	Msg  Message
}
