//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

// DummyMIDIClient stands in for CoreMIDI on other platforms.
type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-macOS system")
	return &DummyMIDIClient{
		logger: options.Logger,
	}, nil
}

func (m *DummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *DummyMIDIClient) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.logger.Warn("Listen called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *DummyMIDIClient) Stop() error {
	m.logger.Warn("Stop called on dummy MIDI client")
	return nil
}
