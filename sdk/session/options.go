package session

import (
	"time"

	"github.com/leandrodaf/learnpiano/internal/logger"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

// DefaultMessageLogSize is the number of message-log lines kept when no
// WithMessageLogSize option is given.
const DefaultMessageLogSize = 100

// Options configures a Session and its Router.
type Options struct {
	Logger         contracts.Logger // Logger for routing and binding events.
	ClearOnRebind  bool             // Release and forget held notes when the bound device changes.
	MessageLogSize int              // Capacity of the message log.
	Clock          func() time.Time // Source of the "now" passed to the synth.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the session logger.
func WithLogger(l contracts.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithClearOnRebind sets whether held notes are released when another device is bound.
func WithClearOnRebind(clear bool) Option {
	return func(o *Options) {
		o.ClearOnRebind = clear
	}
}

// WithMessageLogSize sets how many message-log lines are retained.
func WithMessageLogSize(n int) Option {
	return func(o *Options) {
		o.MessageLogSize = n
	}
}

// WithClock overrides the time source used for synth scheduling.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

func applyDefaultOptions(opts ...Option) Options {
	options := Options{ClearOnRebind: true}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewNopLogger()
	}
	if options.MessageLogSize <= 0 {
		options.MessageLogSize = DefaultMessageLogSize
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	return options
}
