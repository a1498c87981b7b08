package soundscape

import (
	"math/rand"
	"testing"
	"time"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		at   float64
		want Stage
	}{
		{0, StageSilence},
		{1.999, StageSilence},
		{2, StageFocus},
		{13.999, StageFocus},
		{14, StageConcern},
		{24.999, StageConcern},
		{25, StageTension},
		{44.999, StageTension},
		{45, StageResolution},
		{53, StageResolution},
		{54.999, StageResolution},
	}

	for _, tt := range tests {
		if got := Classify(tt.at).Stage; got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestClassifyTotal(t *testing.T) {
	for ms := 0; ms < 55000; ms++ {
		at := float64(ms) / 1000
		p := Classify(at)

		if p.Stage < StageSilence || p.Stage > StageResolution {
			t.Fatalf("t=%v: unknown stage %d", at, p.Stage)
		}
		if p.MinDelay <= 0 || p.MaxDelay < p.MinDelay {
			t.Fatalf("t=%v: invalid delay range [%v,%v]", at, p.MinDelay, p.MaxDelay)
		}
		if p.Stage == StageSilence && (p.Probability != 0 || p.MinDelay != 200*time.Millisecond) {
			t.Fatalf("t=%v: warm-up must be silent with a 200ms delay, got %+v", at, p)
		}
		if p.Stage != StageSilence && p.Volume <= 0 {
			t.Fatalf("t=%v: stage %v has no volume", at, p.Stage)
		}
	}
}

func TestClickPolicyValues(t *testing.T) {
	tests := []struct {
		at          float64
		probability float64
		volume      float64
		minDelay    time.Duration
		maxDelay    time.Duration
	}{
		{5, 1.0, 0.07, 170 * time.Millisecond, 230 * time.Millisecond},
		{20, 0.7, 0.05, 250 * time.Millisecond, 450 * time.Millisecond},
		{30, 0.4, 0.04, 300 * time.Millisecond, 800 * time.Millisecond},
		{50, 1.0, 0.08, 150 * time.Millisecond, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		p := Classify(tt.at)
		if p.Probability != tt.probability || p.Volume != tt.volume ||
			p.MinDelay != tt.minDelay || p.MaxDelay != tt.maxDelay {
			t.Errorf("Classify(%v) = %+v", tt.at, p)
		}
	}
}

func TestClickPolicyFires(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		if !Classify(5).Fires(rng) {
			t.Fatal("Expected focus clicks to always fire")
		}
		if Classify(1).Fires(rng) {
			t.Fatal("Expected warm-up to never fire")
		}
	}

	const draws = 20000
	fired := 0
	concern := Classify(20)
	for i := 0; i < draws; i++ {
		if concern.Fires(rng) {
			fired++
		}
	}
	if ratio := float64(fired) / draws; ratio < 0.67 || ratio > 0.73 {
		t.Errorf("Expected concern fire ratio near 0.7, got %f", ratio)
	}
}

func TestClickPolicyNextDelay(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, at := range []float64{0, 5, 20, 30, 50} {
		p := Classify(at)
		for i := 0; i < 1000; i++ {
			d := p.NextDelay(rng)
			if d < p.MinDelay || d > p.MaxDelay {
				t.Fatalf("%v: delay %v outside [%v,%v]", p.Stage, d, p.MinDelay, p.MaxDelay)
			}
		}
	}
}
