//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Error definitions for device handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// ClientMid manages MIDI input on Windows through winmm.
type ClientMid struct {
	logger          contracts.Logger
	mu              sync.Mutex
	open            map[*inputDevice]struct{}
	midiEventFilter *contracts.MIDIEventFilter
}

// inputDevice is one opened winmm input and the subscription returned by Listen.
type inputDevice struct {
	owner   *ClientMid
	handle  HMIDIIN
	handler atomic.Pointer[contracts.MessageHandler]
	once    sync.Once
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInReset      = winmm.NewProc("midiInReset")
	procMidiInClose      = winmm.NewProc("midiInClose")

	// callback is shared by every opened device; dwInstance identifies the device.
	callback = windows.NewCallback(midiInCallback)
)

// NewMIDIClient creates a MIDI client for Windows
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Windows")

	return &ClientMid{
		logger:          options.Logger,
		open:            make(map[*inputDevice]struct{}),
		midiEventFilter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the available MIDI input devices
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get information for MIDI device", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			ID:           int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// Listen opens the device, starts input and routes data to handler.
func (m *ClientMid) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r0, _, _ := procMidiInGetNumDevs.Call()
	if deviceID < 0 || deviceID >= int(r0) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return nil, ErrInvalidMIDIDevice
	}

	dev := &inputDevice{owner: m}
	dev.handler.Store(&handler)

	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&dev.handle)),
		uintptr(deviceID),
		callback,
		uintptr(unsafe.Pointer(dev)),
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		m.logger.Error("Failed to open MIDI device", m.logger.Field().Int("deviceID", deviceID), m.logger.Field().Error("error", err))
		return nil, fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(dev.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(dev.handle))
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
		return nil, fmt.Errorf("failed to start MIDI capture on device %d: %v", deviceID, err)
	}

	m.open[dev] = struct{}{}
	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return dev, nil
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	dev := (*inputDevice)(unsafe.Pointer(dwInstance))
	log := dev.owner.logger

	switch wMsg {
	case MIM_OPEN:
		log.Debug("MIDI device opened")
	case MIM_CLOSE:
		log.Debug("MIDI device closed")
	case MIM_DATA:
		handler := dev.handler.Load()
		if handler == nil {
			return 0
		}

		status := byte(dwParam1 & 0xFF)
		if !dev.owner.midiEventFilter.Allows(status) {
			log.Debug("MIDI command filtered out", log.Field().Uint8("status", status))
			return 0
		}

		(*handler)(contracts.Message{
			Timestamp: uint64(time.Now().UTC().UnixNano()),
			Data: [3]byte{
				status,
				byte((dwParam1 >> 8) & 0xFF),
				byte((dwParam1 >> 16) & 0xFF),
			},
		})
	case MIM_ERROR, MIM_LONGERROR:
		log.Error("MIDI error", log.Field().Int("msg", int(wMsg)))
	case MIM_MOREDATA:
		log.Debug("Received MIM_MOREDATA message; ignored")
	default:
		log.Warn("Unknown MIDI message", log.Field().Int("msg", int(wMsg)))
	}

	return 0
}

// Close stops input on the device and releases its handle.
func (d *inputDevice) Close() error {
	var err error
	d.once.Do(func() {
		d.handler.Store(nil)
		err = d.owner.closeDevice(d)
	})
	return err
}

func (m *ClientMid) closeDevice(d *inputDevice) error {
	m.mu.Lock()
	delete(m.open, d)
	m.mu.Unlock()

	if d.handle == 0 {
		return fmt.Errorf("invalid MIDI device handle")
	}

	if r1, _, err := procMidiInStop.Call(uintptr(d.handle)); r1 != 0 {
		m.logger.Error("Failed to stop MIDI capture", m.logger.Field().Error("error", err))
		return err
	}
	procMidiInReset.Call(uintptr(d.handle))
	if r1, _, err := procMidiInClose.Call(uintptr(d.handle)); r1 != 0 {
		m.logger.Error("Failed to close MIDI device", m.logger.Field().Error("error", err))
		return err
	}

	d.handle = 0
	m.logger.Info("MIDI capture stopped and device closed")
	return nil
}

// Stop closes every device opened through Listen.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	devices := make([]*inputDevice, 0, len(m.open))
	for d := range m.open {
		devices = append(devices, d)
	}
	m.mu.Unlock()

	var err error
	for _, d := range devices {
		err = multierr.Append(err, d.Close())
	}
	return err
}
