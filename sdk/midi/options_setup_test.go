package midi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/learnpiano/internal/logger"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}
	if options.Logger == nil {
		t.Error("default logger not set")
	}
	if options.CoreMIDIConfig == nil || options.CoreMIDIConfig.ClientName != DefaultClientName {
		t.Errorf("CoreMIDIConfig = %+v", options.CoreMIDIConfig)
	}
	if options.MIDIEventFilter != nil {
		t.Error("filter should default to nil")
	}
}

func TestApplyOptionsOverrides(t *testing.T) {
	log := logger.NewNopLogger()
	options, _ := applyDefaultOptions(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "studio"}),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
	)
	if options.Logger != log {
		t.Error("logger override ignored")
	}
	if options.LogLevel != contracts.DebugLevel {
		t.Errorf("LogLevel = %v", options.LogLevel)
	}
	if options.CoreMIDIConfig.ClientName != "studio" {
		t.Errorf("ClientName = %q", options.CoreMIDIConfig.ClientName)
	}
	if !options.MIDIEventFilter.Allows(0x93) || options.MIDIEventFilter.Allows(0xB0) {
		t.Error("filter does not match on the status nibble")
	}
}

func TestNewClientUnsupportedOS(t *testing.T) {
	options, _ := applyDefaultOptions(contracts.WithLogger(logger.NewNopLogger()))
	if _, err := newClientFor("plan9", &options); !errors.Is(err, ErrUnsupportedOS) {
		t.Fatalf("newClientFor(plan9) = %v, want ErrUnsupportedOS", err)
	}
}
