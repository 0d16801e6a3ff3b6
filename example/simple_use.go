package main

import (
	"fmt"
	"time"

	"github.com/leandrodaf/learnpiano/internal/logger"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/midi"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"github.com/leandrodaf/learnpiano/sdk/session"
)

// printSynth stands in for an audio engine and prints what it would play.
type printSynth struct{}

func (printSynth) TriggerAttack(hz float64, at time.Time) {
	fmt.Printf("%s attack  %.2f Hz\n", at.Format("15:04:05.000"), hz)
}

func (printSynth) TriggerRelease(hz float64, at time.Time) {
	fmt.Printf("%s release %.2f Hz\n", at.Format("15:04:05.000"), hz)
}

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	sess, err := session.New(client, printSynth{}, session.WithLogger(log))
	if err != nil {
		log.Error("Failed to create session", log.Field().Error("error", err))
		return
	}
	defer sess.Close()

	devices, err := sess.Devices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = sess.Select(devices[0].ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	fmt.Println("Play something... Press Ctrl+C to exit.")
	for range time.Tick(250 * time.Millisecond) {
		for note := range sess.Notes().All() {
			fmt.Printf("%s at y=%d  ", music.Spelling(note), music.VerticalPosition(note))
		}
		if sess.Notes().Len() > 0 {
			fmt.Println()
		}
	}
}
