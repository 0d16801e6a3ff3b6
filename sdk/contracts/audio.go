package contracts

import "time"

// Synth is the audio engine driven by note events. Implementations must be
// safe for use from the MIDI delivery goroutine.
type Synth interface {
	// TriggerAttack starts a tone at frequencyHz, scheduled at the given time.
	TriggerAttack(frequencyHz float64, at time.Time)
	// TriggerRelease releases the tone at frequencyHz, scheduled at the given time.
	TriggerRelease(frequencyHz float64, at time.Time)
}
