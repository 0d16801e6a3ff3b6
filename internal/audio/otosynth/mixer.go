package otosynth

import (
	"math"
	"sync"
)

// voice is one sine oscillator with a linear attack/release envelope.
type voice struct {
	freq     float64
	phase    float64
	gain     float64
	target   float64
	releases bool
}

// mixer sums the active voices into interleaved signed 16-bit little-endian
// frames. It implements io.Reader for the oto player.
type mixer struct {
	mu         sync.Mutex
	voices     map[float64]*voice
	sampleRate int
	channels   int
	attackStep float64
	decayStep  float64
	volume     float64
}

func newMixer(sampleRate, channels int, attack, release, volume float64) *mixer {
	return &mixer{
		voices:     make(map[float64]*voice),
		sampleRate: sampleRate,
		channels:   channels,
		attackStep: 1 / (attack * float64(sampleRate)),
		decayStep:  1 / (release * float64(sampleRate)),
		volume:     volume,
	}
}

func (m *mixer) noteOn(freq float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voices[freq]
	if !ok {
		v = &voice{freq: freq}
		m.voices[freq] = v
	}
	v.target = 1
	v.releases = false
}

func (m *mixer) noteOff(freq float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.voices[freq]; ok {
		v.target = 0
		v.releases = true
	}
}

func (m *mixer) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read fills buf with whole frames.
func (m *mixer) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameSize := 2 * m.channels
	frames := len(buf) / frameSize
	dt := 1 / float64(m.sampleRate)

	for i := 0; i < frames; i++ {
		var sample float64
		for freq, v := range m.voices {
			switch {
			case v.gain < v.target:
				v.gain = math.Min(v.target, v.gain+m.attackStep)
			case v.gain > v.target:
				v.gain = math.Max(v.target, v.gain-m.decayStep)
			}
			if v.releases && v.gain == 0 {
				delete(m.voices, freq)
				continue
			}
			sample += math.Sin(2*math.Pi*v.phase) * v.gain
			v.phase += v.freq * dt
			if v.phase >= 1 {
				v.phase -= math.Floor(v.phase)
			}
		}

		// Soft clip so chords do not wrap around.
		s := int16(math.Tanh(sample*m.volume) * (math.MaxInt16 - 1))
		for c := 0; c < m.channels; c++ {
			idx := i*frameSize + c*2
			buf[idx] = byte(s)
			buf[idx+1] = byte(s >> 8)
		}
	}
	return frames * frameSize, nil
}
