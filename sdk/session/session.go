// Package session owns the live state of one practice session: the bound
// input device, the synth, the set of held notes and the message log.
package session

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"go.uber.org/multierr"
)

// ErrNilClient is returned by New when no MIDI client is supplied.
var ErrNilClient = errors.New("session requires a MIDI client")

// Session is passed by reference to the input side (Select) and to the
// renderer (ActiveNotes, Messages).
type Session struct {
	client   contracts.ClientMIDI
	synth    contracts.Synth
	router   *Router
	notes    *music.ActiveNoteSet
	messages *MessageLog
	logger   contracts.Logger

	closeOnce sync.Once
	closeErr  error
}

// New builds a session around client. A nil synth gives a silent session.
func New(client contracts.ClientMIDI, synth contracts.Synth, opts ...Option) (*Session, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if synth == nil {
		synth = silentSynth{}
	}

	options := applyDefaultOptions(opts...)
	notes := music.NewActiveNoteSet()
	messages := NewMessageLog(options.MessageLogSize)

	return &Session{
		client:   client,
		synth:    synth,
		router:   NewRouter(client, synth, notes, messages, opts...),
		notes:    notes,
		messages: messages,
		logger:   options.Logger,
	}, nil
}

// Devices re-enumerates the available input devices.
func (s *Session) Devices() ([]contracts.DeviceInfo, error) {
	return s.client.ListDevices()
}

// Select binds deviceID, detaching whatever was bound before.
func (s *Session) Select(deviceID int) error {
	return s.router.Bind(deviceID)
}

// Deselect detaches the bound device.
func (s *Session) Deselect() error {
	return s.router.Unbind()
}

// Bound returns the selected device ID, if any.
func (s *Session) Bound() (int, bool) {
	return s.router.Bound()
}

// ActiveNotes returns the held notes, lowest first.
func (s *Session) ActiveNotes() []uint8 {
	return s.notes.Snapshot()
}

// Notes exposes the live note set for renderers.
func (s *Session) Notes() *music.ActiveNoteSet {
	return s.notes
}

// Messages returns the newest n message-log lines, oldest first.
func (s *Session) Messages(n int) []string {
	return s.messages.Tail(n)
}

// Router returns the session's router.
func (s *Session) Router() *Router {
	return s.router
}

// Close detaches the device, stops the client and closes the synth if it
// implements io.Closer. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		err := s.router.Close()
		err = multierr.Append(err, s.client.Stop())
		if closer, ok := s.synth.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
		if err != nil {
			s.logger.Error("Session closed with errors", s.logger.Field().Error("error", err))
		}
		s.closeErr = err
	})
	return s.closeErr
}

type silentSynth struct{}

func (silentSynth) TriggerAttack(float64, time.Time)  {}
func (silentSynth) TriggerRelease(float64, time.Time) {}
