//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Windows systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-Windows system")
	return &dummyMIDIClient{
		logger: options.Logger,
	}, nil
}

// ListDevices reports that MIDI is unavailable on this platform.
func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

// Listen reports that MIDI is unavailable on this platform.
func (m *dummyMIDIClient) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.logger.Warn("Listen called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

// Stop logs a warning indicating that Stop was called on the dummy MIDI client.
func (m *dummyMIDIClient) Stop() error {
	m.logger.Warn("Stop called on dummy MIDI client")
	return nil
}
