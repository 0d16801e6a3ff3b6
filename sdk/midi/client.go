// Package midi builds the platform MIDI input client: CoreMIDI on macOS,
// winmm on Windows and rtmidi on Linux.
package midi

import (
	"fmt"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

// NewMIDIClient applies opts over the defaults and opens the input backend
// for the running OS. The returned client lists devices and hands out
// subscriptions; pass it to session.New to route its notes.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("midi options: %w", err)
	}

	client, err := NewClient(&options)
	if err != nil {
		options.Logger.Error("Failed to create MIDI client", options.Logger.Field().Error("error", err))
		return nil, err
	}
	return client, nil
}
