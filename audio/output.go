package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/persona-soundscape/constant"
)

// Output pulls a rendered stream to a device
type Output interface {
	// Play begins pulling src; called once by NewContext
	Play(src beep.Streamer)
	// Errors reports failures that end playback
	Errors() <-chan error
	// Close halts playback and releases the device
	Close() error
}

// OpenOutput acquires the output named by cfg.Backend
// auto tries the beep speaker first, then a pipe to a CLI player
func OpenOutput(cfg *AudioConfig) (Output, error) {
	switch cfg.Backend {
	case BackendNameSpeaker:
		return NewSpeakerOutput(cfg.SampleRate)
	case BackendNamePipe:
		return NewPipeOutput(cfg.SampleRate)
	case BackendNameDiscard:
		return NewDiscardOutput(), nil
	default:
		out, speakerErr := NewSpeakerOutput(cfg.SampleRate)
		if speakerErr == nil {
			return out, nil
		}
		pipe, pipeErr := NewPipeOutput(cfg.SampleRate)
		if pipeErr == nil {
			return pipe, nil
		}
		return nil, fmt.Errorf("%w: speaker: %v; pipe: %v", ErrNoAudioBackend, speakerErr, pipeErr)
	}
}

// --- Speaker ---

// speakerDevice owns the process-wide beep speaker
// The driver can be initialized only once per process, so sessions share it
// and detach by clearing their streamer
type speakerDevice struct {
	mu          sync.Mutex
	initialized bool
	rate        beep.SampleRate

	init  func(beep.SampleRate, int) error
	play  func(...beep.Streamer)
	clear func()
	close func()
}

func newSpeakerDevice() *speakerDevice {
	return &speakerDevice{
		init:  speaker.Init,
		play:  speaker.Play,
		clear: speaker.Clear,
		close: speaker.Close,
	}
}

var defaultSpeaker = newSpeakerDevice()

// open initializes the driver on first use and returns its rate
func (d *speakerDevice) open(rate beep.SampleRate) (beep.SampleRate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return d.rate, nil
	}
	if err := d.init(rate, rate.N(constant.SpeakerBufferDuration)); err != nil {
		return 0, err
	}
	d.initialized = true
	d.rate = rate
	return rate, nil
}

func (d *speakerDevice) shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return
	}
	d.clear()
	d.close()
	d.initialized = false
}

// SpeakerOutput plays through the default device via beep/speaker
type SpeakerOutput struct {
	device     *speakerDevice
	rate       beep.SampleRate // context rate
	deviceRate beep.SampleRate

	closed atomic.Bool
	errs   chan error
}

// NewSpeakerOutput attaches to the speaker, initializing it at rate on first use
func NewSpeakerOutput(rate int) (*SpeakerOutput, error) {
	return newSpeakerOutput(defaultSpeaker, rate)
}

func newSpeakerOutput(d *speakerDevice, rate int) (*SpeakerOutput, error) {
	sr := beep.SampleRate(rate)
	deviceRate, err := d.open(sr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
	}
	return &SpeakerOutput{
		device:     d,
		rate:       sr,
		deviceRate: deviceRate,
		errs:       make(chan error, 1),
	}, nil
}

// Play resamples when the driver was opened at another rate
func (s *SpeakerOutput) Play(src beep.Streamer) {
	if s.deviceRate != s.rate {
		src = beep.Resample(4, s.rate, s.deviceRate, src)
	}
	s.device.play(src)
}

func (s *SpeakerOutput) Errors() <-chan error {
	return s.errs
}

// Close detaches this session; the driver stays up for the next one
func (s *SpeakerOutput) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.device.clear()
	return nil
}

// --- Pipe ---

// PipeOutput streams s16le stereo to a CLI player's stdin, or to /dev/dsp on FreeBSD
type PipeOutput struct {
	backend *BackendConfig
	rate    beep.SampleRate
	cmd     *exec.Cmd
	writer  io.WriteCloser

	stopChan chan struct{}
	stopped  atomic.Bool
	errChan  chan error
	wg       sync.WaitGroup
}

// NewPipeOutput detects a backend and launches it
func NewPipeOutput(rate int) (*PipeOutput, error) {
	backend, err := DetectBackend(rate)
	if err != nil {
		return nil, err
	}

	p := &PipeOutput{
		backend:  backend,
		rate:     beep.SampleRate(rate),
		stopChan: make(chan struct{}),
		errChan:  make(chan error, 1),
	}

	if backend.Type == BackendOSS {
		// Direct file write for OSS
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
		}
		p.writer = f
		return p, nil
	}

	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioBackend, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrNoAudioBackend, backend.Name, err)
	}
	p.cmd = cmd
	p.writer = stdin

	// Monitor process
	p.wg.Add(1)
	go p.monitorProcess()

	return p, nil
}

// Backend returns the detected player
func (p *PipeOutput) Backend() *BackendConfig {
	return p.backend
}

func (p *PipeOutput) Play(src beep.Streamer) {
	p.wg.Add(1)
	go p.loop(src)
}

func (p *PipeOutput) Errors() <-chan error {
	return p.errChan
}

func (p *PipeOutput) Close() error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	close(p.stopChan)

	err := p.writer.Close()
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.wg.Wait()
	return err
}

// monitorProcess reports an unexpected player exit
func (p *PipeOutput) monitorProcess() {
	defer p.wg.Done()

	err := p.cmd.Wait()
	if p.stopped.Load() {
		return
	}
	if err == nil {
		err = fmt.Errorf("%s exited", p.backend.Name)
	}
	p.report(fmt.Errorf("%w: %v", ErrPipeClosed, err))
}

func (p *PipeOutput) report(err error) {
	select {
	case p.errChan <- err:
	default:
	}
}

// loop pulls one buffer per tick and writes it to the player
func (p *PipeOutput) loop(src beep.Streamer) {
	defer p.wg.Done()

	ticker := time.NewTicker(constant.AudioBufferDuration)
	defer ticker.Stop()

	samplesPerTick := p.rate.N(constant.AudioBufferDuration)
	mixBuf := make([][2]float64, samplesPerTick)
	outBytes := make([]byte, samplesPerTick*constant.AudioBytesPerFrame)

	for {
		select {
		case <-p.stopChan:
			return

		case <-ticker.C:
			n, ok := src.Stream(mixBuf)
			for i := n; i < len(mixBuf); i++ {
				mixBuf[i] = [2]float64{}
			}
			floatToBytes(mixBuf, outBytes)

			if _, err := p.writer.Write(outBytes); err != nil {
				if !p.stopped.Load() {
					p.report(fmt.Errorf("%w: %v", ErrPipeClosed, err))
				}
				return
			}
			if !ok {
				return
			}
		}
	}
}

// floatToBytes converts stereo float frames to interleaved int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in [][2]float64, out []byte) {
	for i, frame := range in {
		for ch, v := range frame {
			// Soft limiter (tanh-style)
			if v > 0.8 {
				v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
			} else if v < -0.8 {
				v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
			}

			// Hard clip
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}

			i16 := int16(v * 32767)
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(i16))
		}
	}
}

// --- Discard ---

// DiscardOutput never pulls; the owner drives Context.Stream directly
// Used for headless runs and offline rendering in tests
type DiscardOutput struct {
	errs chan error
}

// NewDiscardOutput creates an output with no device
func NewDiscardOutput() *DiscardOutput {
	return &DiscardOutput{errs: make(chan error, 1)}
}

func (d *DiscardOutput) Play(beep.Streamer) {}

func (d *DiscardOutput) Errors() <-chan error { return d.errs }

func (d *DiscardOutput) Close() error { return nil }

// Fail injects a playback failure, as a broken device would
func (d *DiscardOutput) Fail(err error) {
	select {
	case d.errs <- err:
	default:
	}
}
