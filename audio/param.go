package audio

import (
	"math"
	"sort"

	"github.com/gopxl/beep"
)

// EventKind identifies how a param reaches an automation event's value
type EventKind int

const (
	EventSet         EventKind = iota // Step at Time
	EventLinear                       // Linear ramp ending at Time
	EventExponential                  // Exponential ramp ending at Time
)

// Event is one scheduled automation point, immutable once issued
type Event struct {
	Kind  EventKind
	Time  float64 // Context seconds
	Value float64
}

// Param is an automatable node parameter
// Its rendered value is the automation timeline plus any connected modulators
type Param struct {
	ctx          *Context
	defaultValue float64
	events       []Event

	// Control-rate modulators summed into the value, sample by sample
	mods   []beep.Streamer
	modBuf [][2]float64
	values []float64
}

func newParam(ctx *Context, value float64) *Param {
	return &Param{
		ctx:          ctx,
		defaultValue: value,
	}
}

// SetValueAtTime steps the param to value at time t
func (p *Param) SetValueAtTime(value, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(Event{Kind: EventSet, Time: t, Value: value})
}

// LinearRampToValueAtTime ramps linearly from the previous event to value at t
func (p *Param) LinearRampToValueAtTime(value, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(Event{Kind: EventLinear, Time: t, Value: value})
}

// ExponentialRampToValueAtTime ramps exponentially from the previous event to value at t
func (p *Param) ExponentialRampToValueAtTime(value, t float64) error {
	if value == 0 {
		return ErrInvalidRampTarget
	}
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(Event{Kind: EventExponential, Time: t, Value: value})
	return nil
}

// Events returns a copy of the automation timeline
func (p *Param) Events() []Event {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ValueAt returns the automated value at context time t, excluding modulators
func (p *Param) ValueAt(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.valueAt(t)
}

// insert keeps events ordered by time; equal times keep issue order
func (p *Param) insert(e Event) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].Time > e.Time
	})
	p.events = append(p.events, Event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *Param) valueAt(t float64) float64 {
	// First event strictly after t
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].Time > t
	})

	startTime, startValue := 0.0, p.defaultValue
	if i > 0 {
		prev := p.events[i-1]
		startTime, startValue = prev.Time, prev.Value
	}
	if i == len(p.events) {
		return startValue
	}

	next := p.events[i]
	span := next.Time - startTime
	if span <= 0 {
		return startValue
	}
	frac := (t - startTime) / span

	switch next.Kind {
	case EventLinear:
		return startValue + (next.Value-startValue)*frac
	case EventExponential:
		// Ramps between values of differing sign or from zero hold the start value
		if startValue == 0 || startValue*next.Value < 0 {
			return startValue
		}
		return startValue * math.Pow(next.Value/startValue, frac)
	default:
		return startValue
	}
}

// connectInput attaches a modulator
func (p *Param) connectInput(s beep.Streamer) {
	p.mods = append(p.mods, s)
}

// render computes n per-sample values starting at context frame. Caller holds ctx.mu.
func (p *Param) render(frame int64, n int) []float64 {
	if cap(p.values) < n {
		p.values = make([]float64, n)
		p.modBuf = make([][2]float64, n)
	}
	values := p.values[:n]

	rate := float64(p.ctx.rate)
	for i := range values {
		values[i] = p.valueAt(float64(frame+int64(i)) / rate)
	}

	if len(p.mods) == 0 {
		return values
	}

	live := p.mods[:0]
	for _, mod := range p.mods {
		buf := p.modBuf[:n]
		got, ok := mod.Stream(buf)
		for i := 0; i < got; i++ {
			values[i] += buf[i][0]
		}
		if ok && got == n {
			live = append(live, mod)
		}
	}
	p.mods = live

	return values
}
