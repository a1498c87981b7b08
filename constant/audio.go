package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines output latency and the pipe writer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// SpeakerBufferDuration is the beep speaker buffer size
	SpeakerBufferDuration = 100 * time.Millisecond
)

// Node defaults, matching the usual audio-graph conventions
const (
	DefaultOscillatorFreq = 440.0 // Hz
	DefaultFilterFreq     = 350.0 // Hz
	DefaultFilterQ        = 1.0
	DefaultGain           = 1.0
)
