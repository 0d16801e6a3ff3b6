//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/learnpiano/internal/midi/packet"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices        = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI device")
	ErrMIDIConnectionError  = errors.New("error connecting to MIDI device")
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid manages MIDI input on Darwin (macOS) systems through CoreMIDI.
// Every Listen call opens its own input port; closing the returned
// subscription disconnects it.
type ClientMid struct {
	logger          contracts.Logger
	client          coremidi.Client            // CoreMIDI client instance for MIDI operations.
	midiEventFilter *contracts.MIDIEventFilter // Filter for specific MIDI events.
	coreMIDIConfig  *contracts.CoreMIDIConfig  // Configuration for MIDI client.
	mu              sync.Mutex                 // Guards subs.
	subs            map[*subscription]struct{} // Open subscriptions, closed on Stop.
	stopOnce        sync.Once                  // Ensures Stop() is executed only once.
}

// subscription is one connected input port.
type subscription struct {
	owner    *ClientMid
	handler  contracts.MessageHandler
	portConn internalPortConnection
	mu       sync.RWMutex // Read-held by packet callbacks, write-held by Close.
	closed   bool
	once     sync.Once
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("clientName", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger:          options.Logger,
		client:          client,
		midiEventFilter: options.MIDIEventFilter,
		coreMIDIConfig:  options.CoreMIDIConfig,
		subs:            make(map[*subscription]struct{}),
	}, nil
}

// ListDevices retrieves and returns available MIDI sources.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// Listen connects a new input port to the source at deviceID and delivers
// its messages to handler until the subscription is closed.
func (m *ClientMid) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return nil, ErrInvalidMIDIDevice
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	sub := &subscription{owner: m, handler: handler}

	inputPort, err := coremidi.NewInputPort(m.client, "Input Port", sub.handleMIDIMessage)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	sub.portConn, err = inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.subs[sub] = struct{}{}
	m.logger.Info("MIDI device successfully connected")
	return sub, nil
}

// handleMIDIMessage filters the packet's messages and passes them on.
func (s *subscription) handleMIDIMessage(source coremidi.Source, pkt coremidi.Packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}
	if len(pkt.Data) < 3 {
		s.owner.logger.Warn(ErrIncompleteMIDIPacket.Error())
		return
	}

	timestamp := uint64(time.Now().UTC().UnixNano())
	packet.Split(pkt.Data, func(data [3]byte) {
		if !s.owner.midiEventFilter.Allows(data[0]) {
			return
		}
		s.handler(contracts.Message{Timestamp: timestamp, Data: data})
	})
}

// Close waits for callbacks already running, then disconnects the port.
func (s *subscription) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.portConn.Disconnect()

		s.owner.mu.Lock()
		delete(s.owner.subs, s)
		s.owner.mu.Unlock()
		s.owner.logger.Info("MIDI device disconnected")
	})
	return nil
}

// Stop closes every open subscription. It only executes once.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI client")

		m.mu.Lock()
		subs := make([]*subscription, 0, len(m.subs))
		for sub := range m.subs {
			subs = append(subs, sub)
		}
		m.mu.Unlock()

		for _, sub := range subs {
			_ = sub.Close()
		}
		m.logger.Info("MIDI client stopped")
	})
	return nil
}
