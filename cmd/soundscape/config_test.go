package main

import (
	"testing"

	"github.com/lixenwraith/persona-soundscape/audio"
)

func TestResolveConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SOUNDSCAPE_BACKEND", "pipe")
	t.Setenv("SOUNDSCAPE_MASTER_VOLUME", "30")
	t.Setenv("SOUNDSCAPE_SAMPLE_RATE", "22050")

	cfg := resolveConfig("discard", 80, 48000)
	if cfg.Backend != audio.BackendNameDiscard {
		t.Errorf("Expected flag backend, got %q", cfg.Backend)
	}
	if cfg.MasterVolume != 0.8 {
		t.Errorf("Expected flag volume 0.8, got %f", cfg.MasterVolume)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("Expected flag rate, got %d", cfg.SampleRate)
	}
}

func TestResolveConfigUnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("SOUNDSCAPE_BACKEND", "pipe")
	t.Setenv("SOUNDSCAPE_MASTER_VOLUME", "30")
	t.Setenv("SOUNDSCAPE_SAMPLE_RATE", "22050")

	cfg := resolveConfig("", -1, 0)
	if cfg.Backend != audio.BackendNamePipe {
		t.Errorf("Expected env backend, got %q", cfg.Backend)
	}
	if cfg.MasterVolume != 0.3 {
		t.Errorf("Expected env volume 0.3, got %f", cfg.MasterVolume)
	}
	if cfg.SampleRate != 22050 {
		t.Errorf("Expected env rate, got %d", cfg.SampleRate)
	}
}

func TestResolveConfigIgnoresBadFlags(t *testing.T) {
	t.Setenv("SOUNDSCAPE_BACKEND", "")
	cfg := resolveConfig("jack", 250, -5)
	if cfg.Backend != audio.BackendNameAuto {
		t.Errorf("Expected unknown backend to be ignored, got %q", cfg.Backend)
	}
	if cfg.MasterVolume != 1.0 {
		t.Errorf("Expected volume clamped to 1.0, got %f", cfg.MasterVolume)
	}
}

func TestResolveSeed(t *testing.T) {
	t.Setenv("SOUNDSCAPE_SEED", "42")

	if got := resolveSeed(7); got != 7 {
		t.Errorf("Expected flag seed, got %d", got)
	}
	if got := resolveSeed(0); got != 42 {
		t.Errorf("Expected env seed, got %d", got)
	}

	t.Setenv("SOUNDSCAPE_SEED", "not-a-number")
	if got := resolveSeed(0); got == 0 {
		t.Error("Expected a time-based seed")
	}
}
