package constant

import "time"

// Soundscape timeline, seconds from t0
const (
	SoundscapeDuration = 55.0
	ClickCutoff        = SoundscapeDuration - 2 // 53
)

// SoundscapeTimeout arms the auto-stop timer
const SoundscapeTimeout = time.Duration(SoundscapeDuration * float64(time.Second))

// Status announcements
const (
	StatusPlaying  = "Playing emotional soundscape."
	StatusStopped  = "Emotional soundscape stopped."
	StatusFinished = "Emotional soundscape finished."
	StatusFailed   = "Emotional soundscape failed."
	StatusNoAudio  = "Audio is not supported on this device."
)

// Graph topology
const (
	FocusFreq      = 80.0  // sine
	ClarityFreq    = 440.0 // triangle
	ClarityEndFreq = 442.0
	UneaseFreq     = 221.0 // sawtooth
	UneaseCutoff   = 300.0 // low-pass
	HumFreq        = 50.0  // sine
	VoiceQ         = 20.0  // band-pass
	VoiceLFOFreq   = 8.0   // square, tremolo rate while gated on

	FrictionBufferDuration = 2 * time.Second
)

// Stage program levels
const (
	MainPeak     = 0.15
	HumLevel     = 0.1
	UneasePeak   = 0.05
	VoicePeak    = 0.08
	FrictionPeak = 0.05
)

// Stage program times, seconds from t0
const (
	MainAttackEnd     = 5.0
	HumAttackEnd      = 3.0
	HumReleaseStart   = SoundscapeDuration - 5 // 50
	UneaseStart       = 12.0
	UneasePeakTime    = 22.0
	UneaseEnd         = 45.0
	VoicePeakTime     = 15.0
	VoiceHoldEnd      = 45.0
	VoiceEnd          = 50.0
	TremoloOn         = 28.0
	TremoloOff        = 40.0
	FrictionStart     = 25.0
	FrictionPeakTime  = 40.0
	FrictionEnd       = 48.0
	ClarityDriftStart = SoundscapeDuration - 5 // 50
)

// Keyboard click stage windows, seconds from t0
const (
	FocusStart      = 2.0
	ConcernStart    = 14.0
	TensionStart    = 25.0
	ResolutionStart = 45.0
)

// Keyboard click policy
const (
	FocusClickVolume      = 0.07
	FocusClickProbability = 1.0
	FocusMinDelay         = 170 * time.Millisecond
	FocusMaxDelay         = 230 * time.Millisecond

	ConcernClickVolume      = 0.05
	ConcernClickProbability = 0.7
	ConcernMinDelay         = 250 * time.Millisecond
	ConcernMaxDelay         = 450 * time.Millisecond

	TensionClickVolume      = 0.04
	TensionClickProbability = 0.4
	TensionMinDelay         = 300 * time.Millisecond
	TensionMaxDelay         = 800 * time.Millisecond

	ResolutionClickVolume      = 0.08
	ResolutionClickProbability = 1.0
	ResolutionMinDelay         = 150 * time.Millisecond
	ResolutionMaxDelay         = 200 * time.Millisecond

	WarmupDelay = 200 * time.Millisecond
)

// Keyboard click burst
const (
	ClickMinFreq    = 1500.0
	ClickFreqSpread = 500.0
	ClickDuration   = 0.05  // seconds
	ClickFloor      = 0.001 // exponential decay target
)
