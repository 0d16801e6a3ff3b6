// Package otosynth is a small polyphonic sine synth played through oto.
package otosynth

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
)

const (
	defaultSampleRate = 48000
	channelCount      = 2
	bitDepthInBytes   = 2
)

// Options configures the synth.
type Options struct {
	SampleRate int
	Attack     time.Duration
	Release    time.Duration
	Volume     float64
	Logger     contracts.Logger
}

// Synth implements contracts.Synth. Scheduling times are ignored: notes
// start and stop as soon as the next audio buffer is rendered.
type Synth struct {
	ctx    *oto.Context
	player oto.Player
	mix    *mixer
	logger contracts.Logger
}

// New opens the default audio device and starts playback.
func New(opts Options) (*Synth, error) {
	if opts.SampleRate == 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.Attack <= 0 {
		opts.Attack = 5 * time.Millisecond
	}
	if opts.Release <= 0 {
		opts.Release = 300 * time.Millisecond
	}
	if opts.Volume <= 0 {
		opts.Volume = 0.3
	}

	ctx, ready, err := oto.NewContext(opts.SampleRate, channelCount, bitDepthInBytes)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	<-ready

	mix := newMixer(opts.SampleRate, channelCount, opts.Attack.Seconds(), opts.Release.Seconds(), opts.Volume)
	player := ctx.NewPlayer(mix)
	if setter, ok := player.(oto.BufferSizeSetter); ok {
		// Small buffer keeps key-to-sound latency low.
		setter.SetBufferSize(512 * channelCount * bitDepthInBytes)
	}
	player.Play()

	if opts.Logger != nil {
		opts.Logger.Info("Audio output started", opts.Logger.Field().Int("sampleRate", opts.SampleRate))
	}
	return &Synth{ctx: ctx, player: player, mix: mix, logger: opts.Logger}, nil
}

// TriggerAttack starts or retriggers the voice at frequencyHz.
func (s *Synth) TriggerAttack(frequencyHz float64, _ time.Time) {
	s.mix.noteOn(frequencyHz)
}

// TriggerRelease fades out the voice at frequencyHz.
func (s *Synth) TriggerRelease(frequencyHz float64, _ time.Time) {
	s.mix.noteOff(frequencyHz)
}

// Close stops playback.
func (s *Synth) Close() error {
	return s.player.Close()
}
