package session

import (
	"errors"
	"slices"
	"testing"

	"github.com/leandrodaf/learnpiano/internal/logger"
	"github.com/leandrodaf/learnpiano/sdk/contracts"
	"github.com/leandrodaf/learnpiano/sdk/music"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(client *fakeClient, synth *fakeSynth, opts ...Option) (*Router, *music.ActiveNoteSet) {
	notes := music.NewActiveNoteSet()
	return NewRouter(client, synth, notes, nil, opts...), notes
}

func TestRouterNoteOnOff(t *testing.T) {
	client, synth := newFakeClient(1), &fakeSynth{}
	r, notes := newTestRouter(client, synth)

	if err := r.Bind(0); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	client.send(0, 0x90, 64, 80)
	if !notes.Contains(64) {
		t.Fatal("note 64 not held after note on")
	}
	client.send(0, 0x80, 64, 0)

	if notes.Len() != 0 {
		t.Fatalf("notes still held: %v", notes.Snapshot())
	}
	f := music.Frequency(64)
	if synth.count(true, f) != 1 || synth.count(false, f) != 1 {
		t.Fatalf("synth calls = %+v, want one attack and one release at %v", synth.calls, f)
	}
}

func TestRouterVelocityZeroReleases(t *testing.T) {
	client, synth := newFakeClient(1), &fakeSynth{}
	r, notes := newTestRouter(client, synth)
	_ = r.Bind(0)

	client.send(0, 0x90, 60, 100)
	client.send(0, 0x90, 60, 0)

	if notes.Contains(60) {
		t.Fatal("velocity-0 note on left the note held")
	}
	if synth.count(false, music.Frequency(60)) != 1 {
		t.Fatal("velocity-0 note on did not release the synth voice")
	}
}

func TestRouterDuplicateNoteOn(t *testing.T) {
	client, synth := newFakeClient(1), &fakeSynth{}
	r, notes := newTestRouter(client, synth)
	_ = r.Bind(0)

	client.send(0, 0x90, 60, 100)
	client.send(0, 0x90, 60, 90)
	client.send(0, 0x80, 60, 0)

	if notes.Len() != 0 {
		t.Fatalf("double note on needed more than one note off: %v", notes.Snapshot())
	}
}

func TestRouterIgnoresOther(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core)
	log.SetLevel(contracts.DebugLevel)

	client, synth := newFakeClient(1), &fakeSynth{}
	r, notes := newTestRouter(client, synth, WithLogger(log))
	_ = r.Bind(0)

	client.send(0, 0xB0, 7, 100)

	if notes.Len() != 0 || len(synth.calls) != 0 {
		t.Fatal("control change had an effect")
	}
	if r.Ignored() != 1 {
		t.Fatalf("Ignored() = %d, want 1", r.Ignored())
	}
	if logs.FilterMessage("Ignoring MIDI message").Len() != 1 {
		t.Fatalf("ignored message not logged: %v", logs.All())
	}
}

func TestRouterRebindDetachesFirst(t *testing.T) {
	client, synth := newFakeClient(2), &fakeSynth{}
	r, notes := newTestRouter(client, synth)

	_ = r.Bind(0)
	client.send(0, 0x90, 60, 100)

	if err := r.Bind(1); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if client.attached() != 1 {
		t.Fatalf("%d handlers attached after rebind, want 1", client.attached())
	}
	if notes.Len() != 0 {
		t.Fatalf("held notes survived rebind: %v", notes.Snapshot())
	}
	if synth.count(false, music.Frequency(60)) != 1 {
		t.Fatal("held note was not released on rebind")
	}

	// A delivery racing the detach must not reach the set.
	client.sendDetached(0, 0x90, 62, 100)
	if notes.Contains(62) {
		t.Fatal("stale binding delivered a note")
	}
	if r.Stale() != 1 {
		t.Fatalf("Stale() = %d, want 1", r.Stale())
	}

	client.send(1, 0x90, 67, 100)
	if !slices.Equal(notes.Snapshot(), []uint8{67}) {
		t.Fatalf("notes = %v, want [67]", notes.Snapshot())
	}
	if id, ok := r.Bound(); !ok || id != 1 {
		t.Fatalf("Bound() = %d, %v", id, ok)
	}
}

func TestRouterRebindKeepsNotesWhenConfigured(t *testing.T) {
	client, synth := newFakeClient(2), &fakeSynth{}
	r, notes := newTestRouter(client, synth, WithClearOnRebind(false))

	_ = r.Bind(0)
	client.send(0, 0x90, 60, 100)
	_ = r.Bind(1)

	if !notes.Contains(60) {
		t.Fatal("note cleared although ClearOnRebind is false")
	}
}

func TestRouterBindError(t *testing.T) {
	client, synth := newFakeClient(1), &fakeSynth{}
	r, _ := newTestRouter(client, synth)

	err := r.Bind(5)
	if !errors.Is(err, errNoDevice) {
		t.Fatalf("Bind(5) error = %v", err)
	}
	if _, ok := r.Bound(); ok {
		t.Fatal("router bound after failed Bind")
	}
	if err := r.Unbind(); !errors.Is(err, ErrNotBound) {
		t.Fatalf("Unbind() error = %v, want ErrNotBound", err)
	}
}

func TestRouterHandleLogsMessages(t *testing.T) {
	client, synth := newFakeClient(0), &fakeSynth{}
	messages := NewMessageLog(10)
	r := NewRouter(client, synth, music.NewActiveNoteSet(), messages)

	r.Handle(contracts.Message{Data: [3]byte{0x90, 60, 1}})
	r.Handle(contracts.Message{Data: [3]byte{0x80, 60, 0}})
	r.Handle(contracts.Message{Data: [3]byte{0xE0, 0, 0}})

	want := []string{"note on: 60", "note off: 60", "unknown"}
	if got := messages.Lines(); !slices.Equal(got, want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
}

func TestRouterBindAfterClose(t *testing.T) {
	client, synth := newFakeClient(2), &fakeSynth{}
	r, notes := newTestRouter(client, synth)

	_ = r.Bind(0)
	client.send(0, 0x90, 60, 100)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if client.attached() != 0 || notes.Len() != 0 {
		t.Fatal("Close left the device attached or notes held")
	}

	// A Select racing Close lands here: it must not reattach a device.
	if err := r.Bind(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("Bind after Close = %v, want ErrClosed", err)
	}
	if client.attached() != 0 {
		t.Fatal("Bind after Close attached a device")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
