package soundscape

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/lixenwraith/persona-soundscape/audio"
	"github.com/lixenwraith/persona-soundscape/clock"
	"github.com/lixenwraith/persona-soundscape/constant"
	"github.com/lixenwraith/persona-soundscape/status"
)

// ErrUnsupported reports that no audio output could be opened
var ErrUnsupported = errors.New("audio is not supported on this device")

// Opener acquires a fresh audio context for one session
type Opener func() (*audio.Context, error)

// Click describes one fired keyboard burst
type Click struct {
	Elapsed   time.Duration // since session start
	Stage     Stage
	Volume    float64
	Frequency float64
}

// Options configures a Player; zero values select the real clock, a
// time-seeded source, the default audio config and log.Default()
type Options struct {
	Clock  clock.Clock
	Rand   *rand.Rand
	Audio  *audio.AudioConfig
	Open   Opener
	Logger *log.Logger

	// Metrics receives playback counters; a private registry is used when nil
	Metrics *status.Registry

	// OnStatus receives every announcement, never with the player locked
	OnStatus func(string)

	// OnClick observes fired bursts. Called with the player locked; must not call back into it.
	OnClick func(Click)
}

// session is one live playback, owned by the Player
type session struct {
	ctx     *audio.Context
	graph   *Graph
	started time.Time

	clickTimer clock.Timer
	stopTimer  clock.Timer

	done chan struct{}
}

// Player runs at most one soundscape session at a time
// Idle -> Playing -> Idle; every transition is serialized by mu
type Player struct {
	mu      sync.Mutex
	session *session

	clock    clock.Clock
	rng      *rand.Rand
	open     Opener
	logger   *log.Logger
	onStatus func(string)
	onClick  func(Click)

	registry *status.Registry
	metrics  metrics
}

// NewPlayer creates an idle player
func NewPlayer(opts Options) *Player {
	p := &Player{
		clock:    opts.Clock,
		rng:      opts.Rand,
		open:     opts.Open,
		logger:   opts.Logger,
		onStatus: opts.OnStatus,
		onClick:  opts.OnClick,
		registry: opts.Metrics,
	}

	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.open == nil {
		cfg := opts.Audio
		p.open = func() (*audio.Context, error) {
			return audio.Open(cfg)
		}
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.registry == nil {
		p.registry = status.NewRegistry()
	}
	p.metrics = newMetrics(p.registry)
	return p
}

// Metrics returns the registry the player publishes to
func (p *Player) Metrics() *status.Registry {
	return p.registry
}

// IsPlaying reports whether a session is live
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Toggle stops a live session or starts a new one
func (p *Player) Toggle() error {
	if p.IsPlaying() {
		return p.Stop()
	}
	return p.Start()
}

// Start opens the audio output, builds and programs the graph, launches the
// click generator and arms the auto-stop. No-op while playing.
func (p *Player) Start() error {
	p.mu.Lock()

	if p.session != nil {
		p.mu.Unlock()
		return nil
	}

	ctx, err := p.open()
	if err != nil {
		p.mu.Unlock()
		p.logger.Printf("soundscape: audio unavailable: %v", err)
		p.emit(constant.StatusNoAudio)
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	graph, err := BuildGraph(ctx, p.rng.Float64)
	if err == nil {
		err = graph.ScheduleEnvelopes(Program)
	}
	if err != nil {
		ctx.Close()
		p.metrics.failures.Add(1)
		p.mu.Unlock()
		p.logger.Printf("soundscape: build failed: %v", err)
		p.emit(constant.StatusFailed)
		return err
	}

	s := &session{
		ctx:     ctx,
		graph:   graph,
		started: p.clock.Now(),
		done:    make(chan struct{}),
	}
	p.session = s
	p.metrics.playing.Store(true)
	p.metrics.sessions.Add(1)

	if err := p.tickLocked(s); err != nil {
		p.teardownLocked()
		p.metrics.failures.Add(1)
		p.mu.Unlock()
		p.logger.Printf("soundscape: first click tick failed: %v", err)
		p.emit(constant.StatusFailed)
		return err
	}
	s.stopTimer = p.clock.AfterFunc(constant.SoundscapeTimeout, func() { p.onTimeout(s) })

	go p.watch(s)

	p.mu.Unlock()

	p.logger.Printf("soundscape: started at audio time %.3f", graph.T0())
	p.emit(constant.StatusPlaying)
	return nil
}

// Stop tears down the live session. Idempotent; announces only when a session ended.
func (p *Player) Stop() error {
	p.mu.Lock()
	live := p.session != nil
	err := p.teardownLocked()
	p.mu.Unlock()

	if live {
		p.logger.Printf("soundscape: stopped")
		p.emit(constant.StatusStopped)
	}
	return err
}

// teardownLocked cancels both timers, releases the graph and closes the context
func (p *Player) teardownLocked() error {
	s := p.session
	if s == nil {
		return nil
	}
	p.session = nil
	p.metrics.playing.Store(false)

	if s.clickTimer != nil {
		s.clickTimer.Stop()
		s.clickTimer = nil
	}
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}
	s.graph.Release()
	close(s.done)

	if err := s.ctx.Close(); err != nil {
		p.logger.Printf("soundscape: closing audio context: %v", err)
		return err
	}
	return nil
}

// onTimeout is the auto-stop at the end of the timeline
func (p *Player) onTimeout(s *session) {
	status := p.guarded(s, func() string {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.session != s {
			return ""
		}
		p.teardownLocked()
		p.logger.Printf("soundscape: finished")
		return constant.StatusFinished
	})
	p.emit(status)
}

// onClickTimer runs one click generator tick for s
func (p *Player) onClickTimer(s *session) {
	status := p.guarded(s, func() string {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.session != s {
			return ""
		}
		if err := p.tickLocked(s); err != nil {
			p.logger.Printf("soundscape: click tick failed: %v", err)
			p.teardownLocked()
			p.metrics.failures.Add(1)
			return constant.StatusFailed
		}
		return ""
	})
	p.emit(status)
}

// watch ends the session when the output reports a failure
func (p *Player) watch(s *session) {
	select {
	case err := <-s.ctx.Errors():
		p.logger.Printf("soundscape: audio output failed: %v", err)
		p.emit(p.abort(s))
	case <-s.done:
	}
}

// guarded runs fn, converting a panic into a session failure
func (p *Player) guarded(s *session, fn func() string) (status string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("soundscape: callback panic: %v", r)
			status = p.abort(s)
		}
	}()
	return fn()
}

// abort tears s down if it is still live and returns the failure announcement
func (p *Player) abort(s *session) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != s {
		return ""
	}
	p.teardownLocked()
	p.metrics.failures.Add(1)
	return constant.StatusFailed
}

func (p *Player) emit(status string) {
	if status == "" || p.onStatus == nil {
		return
	}
	p.onStatus(status)
}
