package audio

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// newTestContext creates an offline context rendered by calling Stream directly
func newTestContext(rate int) *Context {
	return NewContext(NewDiscardOutput(), &AudioConfig{
		Backend:      BackendNameDiscard,
		SampleRate:   rate,
		MasterVolume: 1.0,
	})
}

func TestParamDefaultValue(t *testing.T) {
	ctx := newTestContext(8000)
	g := ctx.NewGain()

	if v := g.Gain.ValueAt(3); v != 1.0 {
		t.Errorf("Expected default gain 1.0, got %f", v)
	}

	osc := ctx.NewOscillator(WaveSine)
	if v := osc.Frequency.ValueAt(0); v != 440.0 {
		t.Errorf("Expected default frequency 440, got %f", v)
	}
}

func TestParamLinearRamps(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewGain().Gain

	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(0.15, 5)
	p.LinearRampToValueAtTime(0, 55)

	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{2.5, 0.075},
		{5, 0.15},
		{30, 0.075},
		{55, 0},
		{80, 0},
	}

	for _, tt := range tests {
		if got := p.ValueAt(tt.at); !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("ValueAt(%v) = %f, want %f", tt.at, got, tt.want)
		}
	}
}

func TestParamSetHoldsUntilRamp(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewGain().Gain

	p.SetValueAtTime(0, 0)
	p.SetValueAtTime(0, 12)
	p.LinearRampToValueAtTime(0.05, 22)
	p.LinearRampToValueAtTime(0, 45)

	if v := p.ValueAt(6); v != 0 {
		t.Errorf("Expected hold at 0 before t=12, got %f", v)
	}
	if v := p.ValueAt(17); !approxEqual(v, 0.025, 1e-9) {
		t.Errorf("Expected 0.025 midway through the attack, got %f", v)
	}
	if v := p.ValueAt(22); !approxEqual(v, 0.05, 1e-9) {
		t.Errorf("Expected peak 0.05 at t=22, got %f", v)
	}
}

func TestParamSteps(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewOscillator(WaveSquare).Frequency

	p.SetValueAtTime(0, 0)
	p.SetValueAtTime(8, 28)
	p.SetValueAtTime(0, 40)

	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{27.99, 0},
		{28, 8},
		{39.99, 8},
		{40, 0},
		{54, 0},
	}

	for _, tt := range tests {
		if got := p.ValueAt(tt.at); got != tt.want {
			t.Errorf("ValueAt(%v) = %f, want %f", tt.at, got, tt.want)
		}
	}
}

func TestParamRampWithoutPriorEvent(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewOscillator(WaveTriangle).Frequency

	p.LinearRampToValueAtTime(442, 10)

	if v := p.ValueAt(5); !approxEqual(v, 441, 1e-9) {
		t.Errorf("Expected ramp from default 440 to pass 441 at t=5, got %f", v)
	}
}

func TestParamExponentialRamp(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewGain().Gain

	p.SetValueAtTime(0.07, 1)
	if err := p.ExponentialRampToValueAtTime(0.001, 1.05); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if v := p.ValueAt(1); !approxEqual(v, 0.07, 1e-12) {
		t.Errorf("Expected 0.07 at ramp start, got %f", v)
	}
	mid := math.Sqrt(0.07 * 0.001)
	if v := p.ValueAt(1.025); !approxEqual(v, mid, 1e-9) {
		t.Errorf("Expected geometric midpoint %f, got %f", mid, v)
	}
	if v := p.ValueAt(1.05); !approxEqual(v, 0.001, 1e-12) {
		t.Errorf("Expected 0.001 at ramp end, got %f", v)
	}

	if err := p.ExponentialRampToValueAtTime(0, 2); !errors.Is(err, ErrInvalidRampTarget) {
		t.Errorf("Expected ErrInvalidRampTarget for zero target, got %v", err)
	}
}

func TestParamEventsOrdered(t *testing.T) {
	ctx := newTestContext(8000)
	p := ctx.NewGain().Gain

	p.LinearRampToValueAtTime(0, 50)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(0.08, 15)
	p.LinearRampToValueAtTime(0.08, 45)

	events := p.Events()
	if len(events) != 4 {
		t.Fatalf("Expected 4 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Errorf("Events out of order at %d: %v", i, events)
		}
	}
	if events[0].Kind != EventSet {
		t.Errorf("Expected first event to be a set, got %v", events[0].Kind)
	}
}
