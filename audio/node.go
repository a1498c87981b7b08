package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/persona-soundscape/constant"
)

// Node is a unit of the signal graph
// Every node is a beep.Streamer pulled once per render quantum by its single consumer
type Node interface {
	beep.Streamer
	base() *nodeBase
}

// Input accepts a connected node's signal: a gain stage, a filter, a param, or the destination
type Input interface {
	connectInput(s beep.Streamer)
}

// nodeBase carries the registry and lifetime state shared by all nodes
type nodeBase struct {
	ctx       *Context
	id        uint64
	connected bool
	released  bool
}

func (n *nodeBase) base() *nodeBase { return n }

// Err implements beep.Streamer
func (n *nodeBase) Err() error { return nil }

// release drops the node from the registry. Caller holds ctx.mu.
func (n *nodeBase) release() {
	if n.released {
		return
	}
	n.released = true
	delete(n.ctx.nodes, n.id)
}

// --- Oscillator ---

// Oscillator is a periodic source with an automatable frequency
type Oscillator struct {
	nodeBase
	Frequency *Param

	wave      WaveType
	phase     float64 // 0-1
	started   bool
	startTime float64
	stopTime  float64
}

// Start begins output at context time when
func (o *Oscillator) Start(when float64) error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if o.started {
		return ErrAlreadyStarted
	}
	o.started = true
	o.startTime = when
	return nil
}

// Stop ends output at context time when; the node then leaves the graph
func (o *Oscillator) Stop(when float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.stopTime = when
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.released {
		return 0, false
	}

	frame := o.ctx.frame
	rate := float64(o.ctx.rate)
	freqs := o.Frequency.render(frame, len(samples))

	for i := range samples {
		t := float64(frame+int64(i)) / rate
		if t >= o.stopTime {
			o.release()
			return i, false
		}
		if !o.started || t < o.startTime {
			samples[i] = [2]float64{}
			continue
		}

		// A stopped frequency gates the output off instead of holding mid-cycle
		if freqs[i] == 0 {
			o.phase = 0
		}

		val := waveSample(o.wave, o.phase)
		samples[i][0] = val
		samples[i][1] = val

		// Advance phase
		o.phase += freqs[i] / rate
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
	}
	return len(samples), true
}

// waveSample evaluates a unit waveform; every shape is 0 at phase 0
// so a 0 Hz oscillator is silent
func waveSample(wave WaveType, phase float64) float64 {
	switch wave {
	case WaveSquare:
		s := math.Sin(2 * math.Pi * phase)
		switch {
		case s > 1e-12:
			return 1.0
		case s < -1e-12:
			return -1.0
		default:
			return 0
		}
	case WaveSawtooth:
		if phase < 0.5 {
			return 2.0 * phase
		}
		return 2.0*phase - 2.0
	case WaveTriangle:
		switch {
		case phase < 0.25:
			return 4.0 * phase
		case phase < 0.75:
			return 2.0 - 4.0*phase
		default:
			return 4.0*phase - 4.0
		}
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// --- Gain ---

// Gain sums its inputs and scales them by an automatable gain
type Gain struct {
	nodeBase
	Gain *Param

	input       *beep.Mixer
	autoRelease bool
}

// ReleaseWhenIdle makes the stage leave the graph once every input has finished
func (g *Gain) ReleaseWhenIdle() {
	g.ctx.mu.Lock()
	g.autoRelease = true
	g.ctx.mu.Unlock()
}

func (g *Gain) connectInput(s beep.Streamer) {
	g.input.Add(s)
}

func (g *Gain) Stream(samples [][2]float64) (n int, ok bool) {
	if g.released {
		return 0, false
	}

	for i := range samples {
		samples[i] = [2]float64{}
	}
	g.input.Stream(samples)

	gains := g.Gain.render(g.ctx.frame, len(samples))
	for i := range samples {
		samples[i][0] *= gains[i]
		samples[i][1] *= gains[i]
	}

	if g.autoRelease && g.input.Len() == 0 {
		g.release()
		return len(samples), false
	}
	return len(samples), true
}

// --- BiquadFilter ---

// BiquadFilter is a second-order IIR filter (RBJ cookbook responses)
type BiquadFilter struct {
	nodeBase
	Frequency *Param
	Q         *Param

	filterType FilterType
	input      *beep.Mixer

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

func (f *BiquadFilter) connectInput(s beep.Streamer) {
	f.input.Add(s)
}

func (f *BiquadFilter) Stream(samples [][2]float64) (n int, ok bool) {
	if f.released {
		return 0, false
	}

	for i := range samples {
		samples[i] = [2]float64{}
	}
	f.input.Stream(samples)

	// Coefficients are evaluated once per render quantum
	t := float64(f.ctx.frame) / float64(f.ctx.rate)
	f.updateCoefficients(f.Frequency.valueAt(t), f.Q.valueAt(t))

	for i := range samples {
		for ch := 0; ch < 2; ch++ {
			x := samples[i][ch]
			y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
			f.x2[ch], f.x1[ch] = f.x1[ch], x
			f.y2[ch], f.y1[ch] = f.y1[ch], y
			samples[i][ch] = y
		}
	}
	return len(samples), true
}

func (f *BiquadFilter) updateCoefficients(freq, q float64) {
	nyquist := float64(f.ctx.rate) / 2
	if freq <= 0 {
		freq = 1
	} else if freq >= nyquist {
		freq = nyquist * 0.999
	}

	w0 := 2 * math.Pi * freq / float64(f.ctx.rate)
	cosW0 := math.Cos(w0)

	var b0, b1, b2, alpha float64
	switch f.filterType {
	case FilterBandpass:
		if q <= 0 {
			q = 1e-4
		}
		alpha = math.Sin(w0) / (2 * q)
		b0, b1, b2 = alpha, 0, -alpha
	default:
		// Low-pass resonance is given in dB
		qLin := math.Pow(10, q/20)
		alpha = math.Sin(w0) / (2 * qLin)
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
	}

	a0 := 1 + alpha
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1 = -2 * cosW0 / a0
	f.a2 = (1 - alpha) / a0
}

// --- BufferSource ---

// BufferSource plays a pre-rendered beep.Buffer, optionally looped
type BufferSource struct {
	nodeBase

	streamer  beep.Streamer
	started   bool
	startTime float64
	stopTime  float64
}

// Start begins playback at context time when
func (b *BufferSource) Start(when float64) error {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	if b.started {
		return ErrAlreadyStarted
	}
	b.started = true
	b.startTime = when
	return nil
}

// Stop ends playback at context time when
func (b *BufferSource) Stop(when float64) {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	b.stopTime = when
}

func (b *BufferSource) Stream(samples [][2]float64) (n int, ok bool) {
	if b.released {
		return 0, false
	}

	frame := b.ctx.frame
	rate := float64(b.ctx.rate)

	// Leading silence until the start time falls inside this quantum
	lead := 0
	for lead < len(samples) {
		t := float64(frame+int64(lead)) / rate
		if t >= b.stopTime {
			b.release()
			return lead, false
		}
		if b.started && t >= b.startTime {
			break
		}
		samples[lead] = [2]float64{}
		lead++
	}
	if lead == len(samples) {
		return len(samples), true
	}

	// Trailing cut at the stop time
	end := len(samples)
	if !math.IsInf(b.stopTime, 1) {
		stopFrame := int64(math.Ceil(b.stopTime * rate))
		if stopFrame-frame < int64(end) {
			end = int(stopFrame - frame)
		}
	}

	got, sok := b.streamer.Stream(samples[lead:end])
	if !sok || lead+got < len(samples) {
		b.release()
		return lead + got, false
	}
	return len(samples), true
}

func (b *BufferSource) Err() error { return b.streamer.Err() }

// NoiseBuffer renders d of independent uniform samples in [-1, 1]
func NoiseBuffer(rate beep.SampleRate, d float64, rnd func() float64) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{
		SampleRate:  rate,
		NumChannels: constant.AudioChannels,
		Precision:   constant.AudioBitDepth / 8,
	})

	noise := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			val := rnd()*2 - 1
			samples[i][0] = val
			samples[i][1] = val
		}
		return len(samples), true
	})

	buf.Append(beep.Take(int(d*float64(rate)), noise))
	return buf
}
