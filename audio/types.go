package audio

import (
	"errors"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// FilterType selects the biquad response
type FilterType int

const (
	FilterLowpass FilterType = iota
	FilterBandpass
)

// BackendType identifies the audio backend
type BackendType int

const (
	BackendSpeaker BackendType = iota
	BackendPulse
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
	BackendDiscard
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend    = errors.New("no compatible audio backend found")
	ErrPipeClosed        = errors.New("audio pipe closed")
	ErrContextClosed     = errors.New("audio context closed")
	ErrAlreadyConnected  = errors.New("node output already connected")
	ErrAlreadyStarted    = errors.New("source already started")
	ErrInvalidRampTarget = errors.New("exponential ramp target must be non-zero")
)
