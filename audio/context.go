package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/lixenwraith/persona-soundscape/constant"
)

// renderQuantum bounds every pull through the graph so that all nodes
// observe the same block start frame; beep.Mixer never splits a block this size
const renderQuantum = 128

// Context owns one signal graph and its render clock
// The clock advances only as frames are pulled by the output
type Context struct {
	mu sync.Mutex

	rate   beep.SampleRate
	frame  int64
	master *beep.Mixer
	volume beep.Streamer
	out    Output

	nodes  map[uint64]Node
	nextID uint64
	closed bool
}

// Open acquires an output per cfg and starts a context on it
// Nothing is allocated when the output is unavailable
func Open(cfg *AudioConfig) (*Context, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	out, err := OpenOutput(cfg)
	if err != nil {
		return nil, err
	}
	return NewContext(out, cfg), nil
}

// NewContext creates a context and hands it to out for playback
func NewContext(out Output, cfg *AudioConfig) *Context {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}

	c := &Context{
		rate:   beep.SampleRate(cfg.SampleRate),
		master: &beep.Mixer{},
		out:    out,
		nodes:  make(map[uint64]Node),
	}
	c.volume = newVolume(c.master, cfg.MasterVolume)

	out.Play(c)
	return c
}

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// SampleRate returns the render rate
func (c *Context) SampleRate() beep.SampleRate {
	return c.rate
}

// CurrentTime returns seconds rendered so far
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.frame) / float64(c.rate)
}

// Destination is the summing output of the graph
func (c *Context) Destination() Input {
	return destination{c}
}

type destination struct{ c *Context }

func (d destination) connectInput(s beep.Streamer) {
	d.c.master.Add(s)
}

// register assigns an id and tracks the node until released. Caller holds mu.
func (c *Context) register(n Node) {
	c.nextID++
	b := n.base()
	b.ctx = c
	b.id = c.nextID
	if c.closed {
		b.released = true
		return
	}
	c.nodes[b.id] = n
}

// NewOscillator creates an unstarted oscillator at the default frequency
func (c *Context) NewOscillator(wave WaveType) *Oscillator {
	c.mu.Lock()
	defer c.mu.Unlock()

	o := &Oscillator{
		Frequency: newParam(c, constant.DefaultOscillatorFreq),
		wave:      wave,
		stopTime:  math.Inf(1),
	}
	c.register(o)
	return o
}

// NewGain creates a unity gain stage
func (c *Context) NewGain() *Gain {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := &Gain{
		Gain:  newParam(c, constant.DefaultGain),
		input: &beep.Mixer{},
	}
	c.register(g)
	return g
}

// NewBiquadFilter creates a filter with default frequency and Q
func (c *Context) NewBiquadFilter(filterType FilterType) *BiquadFilter {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := &BiquadFilter{
		Frequency:  newParam(c, constant.DefaultFilterFreq),
		Q:          newParam(c, constant.DefaultFilterQ),
		filterType: filterType,
		input:      &beep.Mixer{},
	}
	c.register(f)
	return f
}

// NewBufferSource creates an unstarted source over buf
func (c *Context) NewBufferSource(buf *beep.Buffer, loop bool) *BufferSource {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}

	b := &BufferSource{
		streamer: s,
		stopTime: math.Inf(1),
	}
	c.register(b)
	return b
}

// Connect routes src's output into dst
// A node output feeds exactly one input
func (c *Context) Connect(src Node, dst Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrContextClosed
	}
	b := src.base()
	if b.connected {
		return ErrAlreadyConnected
	}
	if b.released {
		return ErrContextClosed
	}
	b.connected = true
	dst.connectInput(src)
	return nil
}

// Release stops n and drops it from the graph
func (c *Context) Release(n Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n.base().release()
}

// LiveNodes returns the number of nodes not yet released
func (c *Context) LiveNodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// Closed reports whether Close has run
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Stream implements beep.Streamer, rendering the graph quantum by quantum
func (c *Context) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, false
	}

	for off := 0; off < len(samples); off += renderQuantum {
		end := off + renderQuantum
		if end > len(samples) {
			end = len(samples)
		}
		chunk := samples[off:end]
		for i := range chunk {
			chunk[i] = [2]float64{}
		}
		c.volume.Stream(chunk)
		c.frame += int64(len(chunk))
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (c *Context) Err() error { return nil }

// Errors reports fatal output failures
func (c *Context) Errors() <-chan error {
	return c.out.Errors()
}

// Close releases every node and the output. Safe to call multiple times.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, n := range c.nodes {
		n.base().release()
	}
	c.master.Clear()
	c.mu.Unlock()

	// Output teardown may wait on its render goroutine, which takes mu
	return c.out.Close()
}
