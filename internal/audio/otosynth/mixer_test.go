package otosynth

import (
	"encoding/binary"
	"testing"
)

func render(m *mixer, frames int) []int16 {
	buf := make([]byte, frames*2*m.channels)
	n, _ := m.Read(buf)
	out := make([]int16, 0, n/2)
	for i := 0; i < n; i += 2 {
		out = append(out, int16(binary.LittleEndian.Uint16(buf[i:])))
	}
	return out
}

func peak(samples []int16) int {
	max := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

func TestMixerSilentWithoutVoices(t *testing.T) {
	m := newMixer(8000, 2, 0.001, 0.01, 0.5)
	if p := peak(render(m, 100)); p != 0 {
		t.Fatalf("peak = %d, want silence", p)
	}
}

func TestMixerAttackAndRelease(t *testing.T) {
	m := newMixer(8000, 2, 0.001, 0.01, 0.5)
	m.noteOn(440)
	if p := peak(render(m, 400)); p == 0 {
		t.Fatal("no signal after attack")
	}

	m.noteOff(440)
	render(m, 200) // 25ms, longer than the 10ms release
	if m.active() != 0 {
		t.Fatalf("%d voices left after release", m.active())
	}
	if p := peak(render(m, 100)); p != 0 {
		t.Fatalf("peak = %d after release", p)
	}
}

func TestMixerRetriggerKeepsOneVoice(t *testing.T) {
	m := newMixer(8000, 1, 0.001, 0.01, 0.5)
	m.noteOn(261.63)
	m.noteOn(261.63)
	if m.active() != 1 {
		t.Fatalf("active() = %d, want 1", m.active())
	}
	m.noteOff(100) // unknown voice
	if m.active() != 1 {
		t.Fatal("releasing an unknown frequency touched other voices")
	}
}

func TestMixerWholeFrames(t *testing.T) {
	m := newMixer(8000, 2, 0.001, 0.01, 0.5)
	n, err := m.Read(make([]byte, 10))
	if err != nil || n != 8 {
		t.Fatalf("Read = %d, %v; want 8 bytes", n, err)
	}
}
