//go:build linux
// +build linux

package midilinux

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/learnpiano/internal/midi/packet"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/multierr"
)

// Error definitions for device handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
)

// ClientMid manages MIDI input on Linux through rtmidi (ALSA sequencer).
type ClientMid struct {
	logger          contracts.Logger
	drv             *rtmididrv.Driver
	midiEventFilter *contracts.MIDIEventFilter
	mu              sync.Mutex
	subs            map[*subscription]struct{}
	stopOnce        sync.Once
}

type subscription struct {
	owner  *ClientMid
	inPort drivers.In
	stopFn func()
	once   sync.Once
}

// NewMIDIClient initializes the rtmidi driver.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Info("MIDI client created for Linux")

	return &ClientMid{
		logger:          options.Logger,
		drv:             drv,
		midiEventFilter: options.MIDIEventFilter,
		subs:            make(map[*subscription]struct{}),
	}, nil
}

// ListDevices lists the available MIDI input ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			ID:         i,
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// Listen opens the input port at deviceID and forwards its channel-voice
// messages to handler.
func (m *ClientMid) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI inputs: %w", err)
	}
	if deviceID < 0 || deviceID >= len(ins) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return nil, ErrInvalidMIDIDevice
	}

	in := ins[deviceID]
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", in.String(), err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		timestamp := uint64(time.Now().UTC().UnixNano())
		packet.Split(msg.Bytes(), func(data [3]byte) {
			if !m.midiEventFilter.Allows(data[0]) {
				return
			}
			handler(contracts.Message{Timestamp: timestamp, Data: data})
		})
	}, gomidi.HandleError(func(listenErr error) {
		m.logger.Warn("MIDI listener error",
			m.logger.Field().String("deviceName", in.String()),
			m.logger.Field().Error("error", listenErr))
	}))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("listen %q: %w", in.String(), err)
	}

	sub := &subscription{owner: m, inPort: in, stopFn: stop}
	m.subs[sub] = struct{}{}
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", in.String()))
	return sub, nil
}

// Close stops the listener and closes the port.
func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.stopFn()
		err = s.inPort.Close()

		s.owner.mu.Lock()
		delete(s.owner.subs, s)
		s.owner.mu.Unlock()
		s.owner.logger.Info("MIDI device disconnected", s.owner.logger.Field().String("deviceName", s.inPort.String()))
	})
	return err
}

// Stop closes all subscriptions and the rtmidi driver.
func (m *ClientMid) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		subs := make([]*subscription, 0, len(m.subs))
		for sub := range m.subs {
			subs = append(subs, sub)
		}
		m.mu.Unlock()

		for _, sub := range subs {
			err = multierr.Append(err, sub.Close())
		}
		err = multierr.Append(err, m.drv.Close())
		m.logger.Info("MIDI client stopped")
	})
	return err
}
