// Package music translates raw MIDI input into musical terms: note events,
// frequencies, diatonic staff positions and note names. It also keeps the set
// of notes currently held down.
package music

import (
	"errors"
	"fmt"
)

// ErrShortMessage is returned by DecodeBytes for input that is not a
// three-byte channel-voice message.
var ErrShortMessage = errors.New("midi message must be 3 bytes")

const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// EventKind classifies a decoded message.
type EventKind uint8

const (
	// Other covers every status the router does not act on (control change, pitch bend, ...).
	Other EventKind = iota
	// NoteOn starts a note.
	NoteOn
	// NoteOff releases a note.
	NoteOff
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "note on"
	case NoteOff:
		return "note off"
	default:
		return "unknown"
	}
}

// NoteEvent is the musical meaning of one MIDI message. Note and Velocity are
// only meaningful for NoteOn; NoteOff carries Note only.
type NoteEvent struct {
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

// String renders the event the way the message log shows it, e.g. "note on: 60".
func (e NoteEvent) String() string {
	if e.Kind == Other {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %d", e.Kind, e.Note)
}

// Decode classifies a channel-voice message. A note-on with velocity 0 is a
// note-off, as running-status keyboards send it that way.
func Decode(data [3]byte) NoteEvent {
	switch data[0] & 0xF0 {
	case statusNoteOn:
		if data[2] == 0 {
			return NoteEvent{Kind: NoteOff, Note: data[1]}
		}
		return NoteEvent{Kind: NoteOn, Note: data[1], Velocity: data[2]}
	case statusNoteOff:
		return NoteEvent{Kind: NoteOff, Note: data[1]}
	default:
		return NoteEvent{Kind: Other}
	}
}

// DecodeBytes is Decode for slices coming straight off a driver.
func DecodeBytes(data []byte) (NoteEvent, error) {
	if len(data) != 3 {
		return NoteEvent{}, fmt.Errorf("%w: got %d", ErrShortMessage, len(data))
	}
	return Decode([3]byte{data[0], data[1], data[2]}), nil
}
