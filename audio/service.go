package audio

import (
	"sync/atomic"
)

// ServiceName identifies the audio service in a service hub
const ServiceName = "audio"

// AudioService owns the process-wide output device
// Playback services depend on it so they stop before the driver is released
type AudioService struct {
	device  *speakerDevice
	config  *AudioConfig
	stopped atomic.Bool
}

// NewService creates a new audio service
func NewService() *AudioService {
	return &AudioService{device: defaultSpeaker}
}

// Name implements Service
func (s *AudioService) Name() string {
	return ServiceName
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: *AudioConfig - output settings, default config otherwise
func (s *AudioService) Init(args ...any) error {
	s.config = DefaultAudioConfig()
	if len(args) > 0 {
		if cfg, ok := args[0].(*AudioConfig); ok && cfg != nil {
			s.config = cfg
		}
	}
	return nil
}

// Start implements Service
// The device is opened lazily by the first session
func (s *AudioService) Start() error {
	s.stopped.Store(false)
	return nil
}

// Stop implements Service
// Releases the speaker driver if a session ever opened it
func (s *AudioService) Stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	s.device.shutdown()
	return nil
}

// Config returns the settings from Init
func (s *AudioService) Config() *AudioConfig {
	return s.config
}
