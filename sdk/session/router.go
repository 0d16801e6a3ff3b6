package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/music"
)

var (
	// ErrNotBound is returned by Unbind when no device is bound.
	ErrNotBound = errors.New("no input device bound")
	// ErrClosed is returned by operations on a closed Session.
	ErrClosed = errors.New("router closed")
)

// Router decodes messages from the bound input device and forwards them to
// the synth and the active note set. At most one device is bound at a time.
type Router struct {
	client        contracts.ClientMIDI
	synth         contracts.Synth
	notes         *music.ActiveNoteSet
	messages      *MessageLog
	logger        contracts.Logger
	clock         func() time.Time
	clearOnRebind bool

	mu     sync.Mutex // guards the binding fields below
	sub    contracts.Subscription
	device int
	bound  bool
	closed bool

	// dispatchMu makes the router the single writer of notes: deliveries and
	// rebind cleanup never interleave.
	dispatchMu sync.Mutex
	generation atomic.Uint64
	ignored    atomic.Uint64
	stale      atomic.Uint64
}

// NewRouter creates an unbound router.
func NewRouter(client contracts.ClientMIDI, synth contracts.Synth, notes *music.ActiveNoteSet, messages *MessageLog, opts ...Option) *Router {
	options := applyDefaultOptions(opts...)
	if messages == nil {
		messages = NewMessageLog(options.MessageLogSize)
	}
	return &Router{
		client:        client,
		synth:         synth,
		notes:         notes,
		messages:      messages,
		logger:        options.Logger,
		clock:         options.Clock,
		clearOnRebind: options.ClearOnRebind,
	}
}

// Bind attaches the router to deviceID. A previously bound device is
// detached first, so its handler can no longer reach the router.
func (r *Router) Bind(deviceID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if err := r.detachLocked(); err != nil {
		r.logger.Warn("Failed to detach previous device cleanly", r.logger.Field().Error("error", err))
	}

	gen := r.generation.Load()
	sub, err := r.client.Listen(deviceID, func(msg contracts.Message) {
		r.deliver(gen, msg)
	})
	if err != nil {
		return fmt.Errorf("bind device %d: %w", deviceID, err)
	}

	r.sub = sub
	r.device = deviceID
	r.bound = true
	r.logger.Info("MIDI device bound", r.logger.Field().Int("deviceID", deviceID))
	return nil
}

// Unbind detaches the current device.
func (r *Router) Unbind() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.bound {
		return ErrNotBound
	}
	return r.detachLocked()
}

// Close detaches the current device, if any, and makes every later Bind
// fail with ErrClosed.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return r.detachLocked()
}

// Bound returns the bound device ID, if any.
func (r *Router) Bound() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device, r.bound
}

// Handle decodes and dispatches one message outside of any binding. Input
// sources that are not ClientMIDI backends can feed the router this way.
func (r *Router) Handle(msg contracts.Message) music.NoteEvent {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	return r.dispatch(msg)
}

// Ignored returns how many messages decoded to music.Other.
func (r *Router) Ignored() uint64 { return r.ignored.Load() }

// Stale returns how many messages arrived from an already detached binding.
func (r *Router) Stale() uint64 { return r.stale.Load() }

func (r *Router) deliver(gen uint64, msg contracts.Message) {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	if r.generation.Load() != gen {
		r.stale.Add(1)
		r.logger.Warn("Dropping message from detached device",
			r.logger.Field().Uint8("status", msg.Status()))
		return
	}
	r.dispatch(msg)
}

func (r *Router) dispatch(msg contracts.Message) music.NoteEvent {
	ev := music.Decode(msg.Data)
	r.messages.Append(ev.String())

	switch ev.Kind {
	case music.NoteOn:
		r.synth.TriggerAttack(music.Frequency(ev.Note), r.clock())
		r.notes.Add(ev.Note)
		r.logger.Debug("Note on",
			r.logger.Field().Uint8("note", ev.Note),
			r.logger.Field().Uint8("velocity", ev.Velocity))
	case music.NoteOff:
		r.synth.TriggerRelease(music.Frequency(ev.Note), r.clock())
		r.notes.Remove(ev.Note)
		r.logger.Debug("Note off", r.logger.Field().Uint8("note", ev.Note))
	default:
		r.ignored.Add(1)
		r.logger.Debug("Ignoring MIDI message", r.logger.Field().Uint8("status", msg.Status()))
	}
	return ev
}

// detachLocked closes the current subscription and, when configured, releases
// every held note. Callers hold r.mu.
func (r *Router) detachLocked() error {
	if !r.bound {
		return nil
	}

	// Bump the generation before closing so late deliveries are dropped even
	// if the backend keeps calling the handler for a moment.
	r.generation.Add(1)
	err := r.sub.Close()
	device := r.device
	r.sub = nil
	r.bound = false

	r.dispatchMu.Lock()
	if r.clearOnRebind {
		now := r.clock()
		for _, note := range r.notes.Clear() {
			r.synth.TriggerRelease(music.Frequency(note), now)
		}
	}
	r.dispatchMu.Unlock()

	r.logger.Info("MIDI device unbound", r.logger.Field().Int("deviceID", device))
	if err != nil {
		return fmt.Errorf("detach device %d: %w", device, err)
	}
	return nil
}
