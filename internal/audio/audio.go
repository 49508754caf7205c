package audio

import (
	"fmt"
	"sync"

	"springsim/internal/audio/synth"
	"springsim/internal/physics"

	"github.com/ebitengine/oto/v3"
)

// Manager owns the output device and the impact mixer feeding it
type Manager struct {
	mu      sync.Mutex
	context *oto.Context
	player  *oto.Player
	mixer   *synth.Mixer
}

var globalManager *Manager

// Init opens the output device and starts streaming. When it fails the
// simulation keeps running without sound.
func Init() error {
	op := &oto.NewContextOptions{
		SampleRate:   synth.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	m := &Manager{
		context: ctx,
		mixer:   synth.NewMixer(),
	}
	m.player = ctx.NewPlayer(m.mixer)
	m.player.Play()

	globalManager = m
	fmt.Println("Audio: impact sounds ready")
	return nil
}

// Close stops playback
func Close() {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	if globalManager.player != nil {
		globalManager.player.Close()
		globalManager.player = nil
	}
	globalManager = nil
}

// Available reports whether Init succeeded
func Available() bool {
	return globalManager != nil
}

func SetMuted(muted bool) {
	if globalManager == nil {
		return
	}
	globalManager.mixer.SetMuted(muted)
}

func Muted() bool {
	if globalManager == nil {
		return true
	}
	return globalManager.mixer.Muted()
}

// Trigger plays one impact tone; see synth.Mixer.Trigger
func Trigger(pan, strength float64) {
	if globalManager == nil {
		return
	}
	globalManager.mixer.Trigger(pan, strength)
}

// Attach plays a tone for every contact the environment resolves
func Attach(env *physics.Environment) {
	width := float64(env.Options().Width)
	env.OnContact.AddListener(func(c physics.Contact) {
		pan, strength := synth.Impact(c.X, width, c.Impact)
		Trigger(pan, strength)
	})
}
