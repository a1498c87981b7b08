package audio

import (
	"math"
	"math/rand"
	"testing"
)

// constSource emits a fixed value on both channels
type constSource struct {
	nodeBase
	value float64
}

func (s *constSource) Stream(samples [][2]float64) (n int, ok bool) {
	if s.released {
		return 0, false
	}
	for i := range samples {
		samples[i] = [2]float64{s.value, s.value}
	}
	return len(samples), true
}

func newConstSource(ctx *Context, v float64) *constSource {
	s := &constSource{value: v}
	ctx.mu.Lock()
	ctx.register(s)
	ctx.mu.Unlock()
	return s
}

func render(ctx *Context, frames int) [][2]float64 {
	buf := make([][2]float64, frames)
	ctx.Stream(buf)
	return buf
}

func rms(buf [][2]float64) float64 {
	var sum float64
	for _, s := range buf {
		sum += s[0] * s[0]
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestWaveSample(t *testing.T) {
	tests := []struct {
		name  string
		wave  WaveType
		phase float64
		want  float64
	}{
		{"sine zero", WaveSine, 0, 0},
		{"sine quarter", WaveSine, 0.25, 1},
		{"square zero", WaveSquare, 0, 0},
		{"square high", WaveSquare, 0.25, 1},
		{"square low", WaveSquare, 0.75, -1},
		{"saw zero", WaveSawtooth, 0, 0},
		{"saw rising", WaveSawtooth, 0.25, 0.5},
		{"saw wrapped", WaveSawtooth, 0.75, -0.5},
		{"triangle zero", WaveTriangle, 0, 0},
		{"triangle peak", WaveTriangle, 0.25, 1},
		{"triangle middle", WaveTriangle, 0.5, 0},
		{"triangle trough", WaveTriangle, 0.75, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := waveSample(tt.wave, tt.phase); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("waveSample(%v, %v) = %f, want %f", tt.wave, tt.phase, got, tt.want)
			}
		})
	}
}

func TestOscillatorSine(t *testing.T) {
	ctx := newTestContext(8000)

	osc := ctx.NewOscillator(WaveSine)
	osc.Frequency.SetValueAtTime(1000, 0)
	if err := ctx.Connect(osc, ctx.Destination()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := osc.Start(0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	buf := render(ctx, 8)
	want := []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1, -math.Sqrt2 / 2}
	for i, w := range want {
		if !approxEqual(buf[i][0], w, 1e-9) || !approxEqual(buf[i][1], w, 1e-9) {
			t.Errorf("Sample %d = %v, want %f", i, buf[i], w)
		}
	}

	if err := osc.Start(1); err != ErrAlreadyStarted {
		t.Errorf("Expected ErrAlreadyStarted on second Start, got %v", err)
	}
}

func TestOscillatorStartAndStop(t *testing.T) {
	ctx := newTestContext(8000)

	osc := ctx.NewOscillator(WaveSquare)
	osc.Frequency.SetValueAtTime(1000, 0)
	ctx.Connect(osc, ctx.Destination())
	osc.Start(0.01) // frame 80
	osc.Stop(0.02)  // frame 160

	buf := render(ctx, 256)

	for i := 0; i < 80; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("Expected silence before start, sample %d = %f", i, buf[i][0])
		}
	}
	if buf[82][0] != 1 {
		t.Errorf("Expected square high shortly after start, got %f", buf[82][0])
	}
	for i := 160; i < 256; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("Expected silence after stop, sample %d = %f", i, buf[i][0])
		}
	}

	if n := ctx.LiveNodes(); n != 0 {
		t.Errorf("Expected stopped oscillator to leave the graph, %d nodes live", n)
	}
}

func TestZeroHertzSquareIsSilent(t *testing.T) {
	ctx := newTestContext(8000)

	lfo := ctx.NewOscillator(WaveSquare)
	lfo.Frequency.SetValueAtTime(0, 0)
	ctx.Connect(lfo, ctx.Destination())
	lfo.Start(0)

	for i, s := range render(ctx, 512) {
		if s[0] != 0 {
			t.Fatalf("Expected 0 Hz square to stay at 0, sample %d = %f", i, s[0])
		}
	}
}

func TestSquareGatedOffMidCycle(t *testing.T) {
	ctx := newTestContext(8000)

	lfo := ctx.NewOscillator(WaveSquare)
	lfo.Frequency.SetValueAtTime(3, 0)
	lfo.Frequency.SetValueAtTime(0, 0.1)
	ctx.Connect(lfo, ctx.Destination())
	lfo.Start(0)

	out := render(ctx, 1600)
	if out[100][0] == 0 {
		t.Fatal("Expected the square to run before the gate closes")
	}
	for i := 800; i < len(out); i++ {
		if out[i][0] != 0 {
			t.Fatalf("Expected silence once frequency is 0, sample %d = %f", i, out[i][0])
		}
	}
}

func TestGainScalesInputs(t *testing.T) {
	ctx := newTestContext(8000)

	g := ctx.NewGain()
	g.Gain.SetValueAtTime(0.5, 0)
	ctx.Connect(g, ctx.Destination())

	a := newConstSource(ctx, 0.2)
	b := newConstSource(ctx, 0.4)
	ctx.Connect(a, g)
	ctx.Connect(b, g)

	for i, s := range render(ctx, 300) {
		if !approxEqual(s[0], 0.3, 1e-12) {
			t.Fatalf("Sample %d = %f, want 0.3", i, s[0])
		}
	}
}

func TestGainParamModulation(t *testing.T) {
	ctx := newTestContext(8000)

	g := ctx.NewGain()
	g.Gain.SetValueAtTime(0.5, 0)
	ctx.Connect(g, ctx.Destination())
	ctx.Connect(newConstSource(ctx, 1.0), g)

	lfo := ctx.NewOscillator(WaveSquare)
	lfo.Frequency.SetValueAtTime(1000, 0)
	lfo.Start(0)
	if err := ctx.Connect(lfo, g.Gain); err != nil {
		t.Fatalf("Connect to param failed: %v", err)
	}

	buf := render(ctx, 8)
	want := []float64{0.5, 1.5, 1.5, 1.5, 0.5, -0.5, -0.5, -0.5}
	for i, w := range want {
		if !approxEqual(buf[i][0], w, 1e-9) {
			t.Errorf("Sample %d = %f, want %f", i, buf[i][0], w)
		}
	}
}

func TestGainReleaseWhenIdle(t *testing.T) {
	ctx := newTestContext(8000)

	env := ctx.NewGain()
	osc := ctx.NewOscillator(WaveSquare)
	osc.Start(0)
	osc.Stop(0.05)
	ctx.Connect(osc, env)
	ctx.Connect(env, ctx.Destination())
	env.ReleaseWhenIdle()

	if n := ctx.LiveNodes(); n != 2 {
		t.Fatalf("Expected 2 live nodes, got %d", n)
	}

	render(ctx, 800) // 0.1 s

	if n := ctx.LiveNodes(); n != 0 {
		t.Errorf("Expected burst nodes to leave the graph, %d live", n)
	}
}

func TestLowpassFilter(t *testing.T) {
	const rate = 44100

	measure := func(freq float64) float64 {
		ctx := newTestContext(rate)
		osc := ctx.NewOscillator(WaveSine)
		osc.Frequency.SetValueAtTime(freq, 0)
		lp := ctx.NewBiquadFilter(FilterLowpass)
		lp.Frequency.SetValueAtTime(300, 0)
		ctx.Connect(osc, lp)
		ctx.Connect(lp, ctx.Destination())
		osc.Start(0)

		render(ctx, rate/4) // settle
		return rms(render(ctx, rate/4))
	}

	sineRMS := 1 / math.Sqrt2

	if low := measure(50); low < 0.8*sineRMS {
		t.Errorf("Expected 50 Hz to pass a 300 Hz low-pass, rms %f", low)
	}
	if high := measure(5000); high > 0.05*sineRMS {
		t.Errorf("Expected 5 kHz to be attenuated by a 300 Hz low-pass, rms %f", high)
	}
}

func TestBandpassFilter(t *testing.T) {
	const rate = 44100

	measure := func(freq float64) float64 {
		ctx := newTestContext(rate)
		osc := ctx.NewOscillator(WaveSine)
		osc.Frequency.SetValueAtTime(freq, 0)
		bp := ctx.NewBiquadFilter(FilterBandpass)
		bp.Q.SetValueAtTime(20, 0)
		ctx.Connect(osc, bp)
		ctx.Connect(bp, ctx.Destination())
		osc.Start(0)

		render(ctx, rate/2)
		return rms(render(ctx, rate/4))
	}

	sineRMS := 1 / math.Sqrt2

	if center := measure(350); center < 0.9*sineRMS {
		t.Errorf("Expected the 350 Hz centre to pass, rms %f", center)
	}
	if off := measure(3000); off > 0.05*sineRMS {
		t.Errorf("Expected 3 kHz to be rejected by a Q=20 band-pass, rms %f", off)
	}
}

func TestNoiseBufferLoops(t *testing.T) {
	ctx := newTestContext(8000)
	rng := rand.New(rand.NewSource(1))

	buf := NoiseBuffer(ctx.SampleRate(), 0.1, rng.Float64)
	if buf.Len() != 800 {
		t.Fatalf("Expected 800 frames, got %d", buf.Len())
	}

	src := ctx.NewBufferSource(buf, true)
	ctx.Connect(src, ctx.Destination())
	src.Start(0)

	out := render(ctx, 2400) // three passes
	nonZero := 0
	for i, s := range out {
		if s[0] < -1 || s[0] > 1 {
			t.Fatalf("Sample %d out of range: %f", i, s[0])
		}
		if s[0] != 0 {
			nonZero++
		}
	}
	if nonZero < 2000 {
		t.Errorf("Expected looped noise throughout, only %d non-zero samples", nonZero)
	}
	if !approxEqual(out[5][0], out[805][0], 1e-12) {
		t.Errorf("Expected loop to repeat the buffer: %f vs %f", out[5][0], out[805][0])
	}
	if ctx.LiveNodes() != 1 {
		t.Errorf("Expected looped source to stay live")
	}
}
