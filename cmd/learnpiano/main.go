package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leandrodaf/learnpiano/internal/audio/otosynth"
	"github.com/leandrodaf/learnpiano/internal/logger"
	"github.com/leandrodaf/learnpiano/internal/render"
	"github.com/leandrodaf/learnpiano/internal/tui"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/midi"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"github.com/leandrodaf/learnpiano/sdk/session"
)

var (
	deviceFlag = flag.Int("device", -1, "input device to bind without the picker (see -list)")
	listFlag   = flag.Bool("list", false, "list MIDI input devices and exit")
	frameFlag  = flag.String("frame", "", "write a PNG of the staff to this path whenever the held notes change")
	logFlag    = flag.String("log", "learnpiano.log", "log file used while the terminal UI is running")
	levelFlag  = flag.String("level", "info", "log level: debug, info, warn, error")
	muteFlag   = flag.Bool("mute", false, "do not open an audio device")
)

// config is the parsed command line.
type config struct {
	device int
	list   bool
	frame  string
	mute   bool
}

func main() {
	flag.Parse()

	level, err := contracts.ParseLogLevel(*levelFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config{device: *deviceFlag, list: *listFlag, frame: *frameFlag, mute: *muteFlag}

	log := logger.NewZapLogger()
	opts := []contracts.Option{contracts.WithLogger(log), contracts.WithLogLevel(level)}
	if !cfg.headless() {
		// Keep log lines off the terminal the UI draws on.
		opts = append(opts, contracts.WithLogFile(*logFlag))
	}

	client, err := midi.NewMIDIClient(opts...)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		os.Exit(1)
	}

	var synth contracts.Synth
	if !cfg.mute && !cfg.list {
		s, err := otosynth.New(otosynth.Options{Logger: log})
		if err != nil {
			log.Warn("Audio unavailable; continuing muted", log.Field().Error("error", err))
		} else {
			synth = s
		}
	}

	// run owns client and synth from here on and releases them before returning.
	if err := run(cfg, log, client, synth); err != nil {
		log.Error("learnpiano stopped with error", log.Field().Error("error", err))
		os.Exit(1)
	}
}

func (c config) headless() bool {
	return c.device >= 0 || c.list
}

// run drives one session to completion. The session, and with it the client
// and the synth, is closed on every return path.
func run(cfg config, log contracts.Logger, client contracts.ClientMIDI, synth contracts.Synth) error {
	sess, err := session.New(client, synth, session.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer sess.Close()

	if cfg.list {
		return listDevices(sess)
	}

	frame, err := frameWriter(cfg.frame)
	if err != nil {
		return fmt.Errorf("prepare staff renderer: %w", err)
	}

	if cfg.headless() {
		return runHeadless(sess, cfg.device, frame, log)
	}

	if _, err := tea.NewProgram(tui.New(sess, frame)).Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}

func listDevices(sess *session.Session) error {
	devices, err := sess.Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Println(d)
	}
	return nil
}

func frameWriter(path string) (tui.FrameWriter, error) {
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frame directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frame directory: %s is not a directory", dir)
	}
	staff, err := render.NewStaff(music.DefaultCalibration, 0, 0)
	if err != nil {
		return nil, err
	}
	return func(notes []uint8) error {
		return staff.SavePNG(path, notes)
	}, nil
}

// runHeadless binds deviceID and, until interrupted, logs note changes and
// writes staff frames at display rate.
func runHeadless(sess *session.Session, deviceID int, frame tui.FrameWriter, log contracts.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Select(deviceID); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			notes := sess.ActiveNotes()
			key := fmt.Sprint(notes)
			if key == last {
				continue
			}
			last = key
			log.Info("Held notes", log.Field().String("notes", noteNames(notes)))
			if frame != nil {
				if err := frame(notes); err != nil {
					log.Warn("Failed to write frame", log.Field().Error("error", err))
				}
			}
		}
	}
}

func noteNames(notes []uint8) string {
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += " "
		}
		out += music.Spelling(n)
	}
	return out
}
