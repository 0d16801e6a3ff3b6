package contracts

import "errors"

// Message is a raw MIDI channel-voice message as delivered by an input device.
type Message struct {
	Timestamp uint64  // Timestamp indicates the time the message arrived, in nanoseconds.
	Data      [3]byte // Status byte followed by the two data bytes.
}

// Status returns the status byte of the message.
func (m Message) Status() byte { return m.Data[0] }

// MessageHandler receives every message delivered by a bound input device.
// Handlers must not block; they run on the backend's delivery goroutine.
type MessageHandler func(msg Message)

// Subscription is the handle returned by ClientMIDI.Listen. Closing it detaches
// the handler from the device; no message is delivered after Close returns.
type Subscription interface {
	Close() error
}

// ClientMIDI defines an interface for MIDI input operations.
type ClientMIDI interface {
	Stop() error                                                     // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)                              // Lists all available MIDI input devices.
	Listen(deviceID int, handler MessageHandler) (Subscription, error) // Attaches handler to the device until the subscription is closed.
}

// SubscriptionFunc adapts an ordinary function to the Subscription interface.
type SubscriptionFunc func() error

// Close calls f.
func (f SubscriptionFunc) Close() error { return f() }

// ErrMIDIUnavailable is returned by backends compiled for a platform that has
// no MIDI support.
var ErrMIDIUnavailable = errors.New("MIDI functionality is not available on this platform")
