package soundscape

import (
	"sync/atomic"

	"github.com/lixenwraith/persona-soundscape/audio"
)

// Service wraps Player as a service.Service
// Playback itself is user-triggered; the service only owns the player's lifetime
type Service struct {
	opts    Options
	player  *Player
	stopped atomic.Bool
}

// NewService creates a soundscape service; opts are applied on Init
func NewService(opts Options) *Service {
	return &Service{opts: opts}
}

// Name implements Service
func (s *Service) Name() string {
	return "soundscape"
}

// Dependencies implements Service
// Sessions run on the audio service's device and must stop before it closes
func (s *Service) Dependencies() []string {
	return []string{audio.ServiceName}
}

// Init implements Service
// args[0]: *audio.AudioConfig - output settings, used unless Options.Open is set
func (s *Service) Init(args ...any) error {
	opts := s.opts
	if len(args) > 0 {
		if cfg, ok := args[0].(*audio.AudioConfig); ok && cfg != nil {
			opts.Audio = cfg
		}
	}
	s.player = NewPlayer(opts)
	return nil
}

// Start implements Service
func (s *Service) Start() error {
	s.stopped.Store(false)
	return nil
}

// Stop implements Service
// Ends any live session so the output device is released on host exit
func (s *Service) Stop() error {
	if s.player == nil || !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	return s.player.Stop()
}

// Player returns the controller, nil before Init
func (s *Service) Player() *Player {
	return s.player
}
