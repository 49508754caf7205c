// Package synth renders short impact tones into an interleaved stereo
// float32 stream that an audio device can pull from.
package synth

import (
	"encoding/binary"
	"math"
	"sync"
)

const (
	SampleRate = 44100
	// MaxVoices bounds concurrent tones; the quietest is replaced when full
	MaxVoices = 16
	// MinStrength drops contacts too soft to hear, such as resting piles
	MinStrength = 0.05

	toneSeconds   = 0.12
	toneDecay     = 30.0
	bytesPerFrame = 8
)

type voice struct {
	freq   float64
	phase  float64
	gain   float64
	left   float64
	right  float64
	frame  int
	frames int
}

func (v *voice) level() float64 {
	return v.gain * math.Exp(-toneDecay*float64(v.frame)/SampleRate)
}

// Mixer is an io.Reader producing FormatFloat32LE stereo frames. Trigger
// may be called from the simulation goroutine while the device reads.
type Mixer struct {
	mu     sync.Mutex
	voices []voice
	muted  bool
	Volume float64
}

func NewMixer() *Mixer {
	return &Mixer{
		voices: make([]voice, 0, MaxVoices),
		Volume: 0.8,
	}
}

// Impact maps a contact at x in an arena of the given width with the given
// impact speed to a stereo pan in [-1, 1] and a strength in [0, 1].
func Impact(x, width, impact float64) (pan, strength float64) {
	if width > 0 {
		pan = clamp(x/width*2-1, -1, 1)
	}
	strength = clamp(impact/40, 0, 1)
	return pan, strength
}

// Trigger starts a tone. Stronger impacts are louder and lower. It returns
// false when the tone was dropped.
func (m *Mixer) Trigger(pan, strength float64) bool {
	if strength < MinStrength || math.IsNaN(strength) || math.IsNaN(pan) {
		return false
	}
	strength = clamp(strength, 0, 1)
	pan = clamp(pan, -1, 1)

	// equal-power pan
	theta := (pan + 1) * math.Pi / 4
	v := voice{
		freq:   880 - 440*strength,
		gain:   0.3 * strength,
		left:   math.Cos(theta),
		right:  math.Sin(theta),
		frames: int(toneSeconds * SampleRate),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return false
	}
	if len(m.voices) < MaxVoices {
		m.voices = append(m.voices, v)
		return true
	}
	quietest := 0
	for i := range m.voices {
		if m.voices[i].level() < m.voices[quietest].level() {
			quietest = i
		}
	}
	m.voices[quietest] = v
	return true
}

// SetMuted silences the mixer and drops every playing tone
func (m *Mixer) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	if muted {
		m.voices = m.voices[:0]
	}
}

func (m *Mixer) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Active returns the number of tones still sounding
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read implements io.Reader. It always fills whole frames and never ends.
func (m *Mixer) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	numFrames := len(buf) / bytesPerFrame
	for i := 0; i < numFrames; i++ {
		var l, r float64
		for vi := range m.voices {
			v := &m.voices[vi]
			if v.frame >= v.frames {
				continue
			}
			s := math.Sin(v.phase) * v.level()
			v.phase += 2 * math.Pi * v.freq / SampleRate
			v.frame++
			l += s * v.left
			r += s * v.right
		}
		writeFloat32LE(buf[i*bytesPerFrame:], float32(clamp(l*m.Volume, -1, 1)))
		writeFloat32LE(buf[i*bytesPerFrame+4:], float32(clamp(r*m.Volume, -1, 1)))
	}
	// trailing partial frame
	for j := numFrames * bytesPerFrame; j < len(buf); j++ {
		buf[j] = 0
	}

	live := m.voices[:0]
	for _, v := range m.voices {
		if v.frame < v.frames {
			live = append(live, v)
		}
	}
	m.voices = live

	return len(buf), nil
}

func writeFloat32LE(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
