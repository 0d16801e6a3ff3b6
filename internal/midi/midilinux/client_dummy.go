//go:build !linux
// +build !linux

package midilinux

import (
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Linux systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-Linux system")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *dummyMIDIClient) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.logger.Warn("Listen called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *dummyMIDIClient) Stop() error {
	m.logger.Warn("Stop called on dummy MIDI client")
	return nil
}
