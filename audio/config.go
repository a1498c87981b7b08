package audio

import (
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/persona-soundscape/constant"
)

// Backend selection names accepted by AudioConfig.Backend
const (
	BackendNameAuto    = "auto"
	BackendNameSpeaker = "speaker"
	BackendNamePipe    = "pipe"
	BackendNameDiscard = "discard"
)

// AudioConfig holds output settings
type AudioConfig struct {
	Backend      string  // auto, speaker, pipe, discard
	SampleRate   int     // Hz
	MasterVolume float64 // 0.0-1.0
}

// DefaultAudioConfig returns the default output settings
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Backend:      BackendNameAuto,
		SampleRate:   constant.AudioSampleRate,
		MasterVolume: 1.0,
	}
}

// LoadAudioConfig loads audio configuration from environment variables
// Invalid values are ignored and the default is kept
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if backend := os.Getenv("SOUNDSCAPE_BACKEND"); backend != "" {
		switch name := strings.ToLower(backend); name {
		case BackendNameAuto, BackendNameSpeaker, BackendNamePipe, BackendNameDiscard:
			cfg.Backend = name
		}
	}

	// Load master volume (0-100 converted to 0.0-1.0)
	if volume := os.Getenv("SOUNDSCAPE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("SOUNDSCAPE_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampVolume(vol float64) float64 {
	if vol < 0 {
		return 0
	}
	if vol > 1 {
		return 1
	}
	return vol
}
