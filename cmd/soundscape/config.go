package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/persona-soundscape/audio"
)

// resolveConfig loads the environment config and applies flag overrides
// Empty backend, negative volume and non-positive rate mean "not set"
func resolveConfig(backend string, volume, rate int) *audio.AudioConfig {
	cfg := audio.LoadAudioConfig()

	switch name := strings.ToLower(backend); name {
	case audio.BackendNameAuto, audio.BackendNameSpeaker, audio.BackendNamePipe, audio.BackendNameDiscard:
		cfg.Backend = name
	}

	if volume >= 0 {
		cfg.MasterVolume = min(float64(volume)/100.0, 1.0)
	}
	if rate > 0 {
		cfg.SampleRate = rate
	}
	return cfg
}

// resolveSeed picks the click generator seed: flag, then SOUNDSCAPE_SEED, then the time
func resolveSeed(flagSeed int64) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if env := os.Getenv("SOUNDSCAPE_SEED"); env != "" {
		if seed, err := strconv.ParseInt(env, 10, 64); err == nil && seed != 0 {
			return seed
		}
	}
	return time.Now().UnixNano()
}
