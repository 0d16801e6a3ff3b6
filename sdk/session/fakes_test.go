package session

import (
	"errors"
	"sync"
	"time"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

type synthCall struct {
	attack bool
	freq   float64
}

type fakeSynth struct {
	mu     sync.Mutex
	calls  []synthCall
	closed bool
}

func (f *fakeSynth) TriggerAttack(freq float64, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, synthCall{attack: true, freq: freq})
}

func (f *fakeSynth) TriggerRelease(freq float64, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, synthCall{attack: false, freq: freq})
}

func (f *fakeSynth) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSynth) count(attack bool, freq float64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.attack == attack && c.freq == freq {
			n++
		}
	}
	return n
}

// fakeClient hands out handlers per device and remembers which are attached.
// Detached handlers are kept so tests can simulate late deliveries.
type fakeClient struct {
	mu       sync.Mutex
	devices  []contracts.DeviceInfo
	handlers map[int]contracts.MessageHandler
	detached map[int]contracts.MessageHandler
	closeErr error
	stopErr  error
	stopped  bool
}

func newFakeClient(n int) *fakeClient {
	c := &fakeClient{
		handlers: map[int]contracts.MessageHandler{},
		detached: map[int]contracts.MessageHandler{},
	}
	for i := 0; i < n; i++ {
		c.devices = append(c.devices, contracts.DeviceInfo{ID: i, Name: "keyboard"})
	}
	return c
}

var errNoDevice = errors.New("no such device")

func (c *fakeClient) ListDevices() ([]contracts.DeviceInfo, error) {
	return c.devices, nil
}

func (c *fakeClient) Listen(deviceID int, handler contracts.MessageHandler) (contracts.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if deviceID < 0 || deviceID >= len(c.devices) {
		return nil, errNoDevice
	}
	c.handlers[deviceID] = handler
	return contracts.SubscriptionFunc(func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.detached[deviceID] = c.handlers[deviceID]
		delete(c.handlers, deviceID)
		return c.closeErr
	}), nil
}

func (c *fakeClient) Stop() error {
	c.stopped = true
	return c.stopErr
}

func (c *fakeClient) send(deviceID int, data ...byte) {
	c.mu.Lock()
	h := c.handlers[deviceID]
	c.mu.Unlock()
	if h != nil {
		h(contracts.Message{Data: [3]byte{data[0], data[1], data[2]}})
	}
}

func (c *fakeClient) sendDetached(deviceID int, data ...byte) {
	c.mu.Lock()
	h := c.detached[deviceID]
	c.mu.Unlock()
	if h != nil {
		h(contracts.Message{Data: [3]byte{data[0], data[1], data[2]}})
	}
}

func (c *fakeClient) attached() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}
