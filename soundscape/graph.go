package soundscape

import (
	"fmt"

	"github.com/lixenwraith/persona-soundscape/audio"
	"github.com/lixenwraith/persona-soundscape/constant"
)

// Logical node names
const (
	NodeFocus        = "focus"
	NodeClarity      = "clarity"
	NodeMain         = "main"
	NodeUnease       = "unease"
	NodeUneaseFilter = "uneaseFilter"
	NodeUneaseGain   = "uneaseGain"
	NodeHum          = "hum"
	NodeHumGain      = "humGain"
	NodeVoice        = "voice"
	NodeVoiceFilter  = "voiceFilter"
	NodeVoiceGain    = "voiceGain"
	NodeVoiceLFO     = "voiceLFO"
	NodeFriction     = "friction"
	NodeFrictionGain = "frictionGain"
	NodeKeyboard     = "keyboard"
)

// Graph is the fixed synthesis topology of one session
type Graph struct {
	ctx *audio.Context
	t0  float64

	Focus   *audio.Oscillator
	Clarity *audio.Oscillator
	Main    *audio.Gain

	Unease       *audio.Oscillator
	UneaseFilter *audio.BiquadFilter
	UneaseGain   *audio.Gain

	Hum     *audio.Oscillator
	HumGain *audio.Gain

	Voice       *audio.Oscillator
	VoiceFilter *audio.BiquadFilter
	VoiceGain   *audio.Gain
	VoiceLFO    *audio.Oscillator

	Friction     *audio.BufferSource
	FrictionGain *audio.Gain

	Keyboard *audio.Gain
}

type link struct {
	src audio.Node
	dst audio.Input
}

// BuildGraph allocates, wires and starts every generator at the context's current time
// noise supplies uniform samples in [0,1) for the friction buffer
func BuildGraph(ctx *audio.Context, noise func() float64) (*Graph, error) {
	g := &Graph{
		ctx: ctx,
		t0:  ctx.CurrentTime(),

		Focus:   ctx.NewOscillator(audio.WaveSine),
		Clarity: ctx.NewOscillator(audio.WaveTriangle),
		Main:    ctx.NewGain(),

		Unease:       ctx.NewOscillator(audio.WaveSawtooth),
		UneaseFilter: ctx.NewBiquadFilter(audio.FilterLowpass),
		UneaseGain:   ctx.NewGain(),

		Hum:     ctx.NewOscillator(audio.WaveSine),
		HumGain: ctx.NewGain(),

		Voice:       ctx.NewOscillator(audio.WaveSawtooth),
		VoiceFilter: ctx.NewBiquadFilter(audio.FilterBandpass),
		VoiceGain:   ctx.NewGain(),
		VoiceLFO:    ctx.NewOscillator(audio.WaveSquare),

		FrictionGain: ctx.NewGain(),
		Keyboard:     ctx.NewGain(),
	}

	buf := audio.NoiseBuffer(ctx.SampleRate(), constant.FrictionBufferDuration.Seconds(), noise)
	g.Friction = ctx.NewBufferSource(buf, true)

	g.Focus.Frequency.SetValueAtTime(constant.FocusFreq, g.t0)
	g.Clarity.Frequency.SetValueAtTime(constant.ClarityFreq, g.t0)
	g.Unease.Frequency.SetValueAtTime(constant.UneaseFreq, g.t0)
	g.UneaseFilter.Frequency.SetValueAtTime(constant.UneaseCutoff, g.t0)
	g.Hum.Frequency.SetValueAtTime(constant.HumFreq, g.t0)
	g.VoiceFilter.Q.SetValueAtTime(constant.VoiceQ, g.t0)

	dst := ctx.Destination()
	links := []link{
		{g.Focus, g.Main},
		{g.Clarity, g.Main},
		{g.Main, dst},

		{g.Unease, g.UneaseFilter},
		{g.UneaseFilter, g.UneaseGain},
		{g.UneaseGain, dst},

		{g.Hum, g.HumGain},
		{g.HumGain, dst},

		{g.Voice, g.VoiceFilter},
		{g.VoiceFilter, g.VoiceGain},
		{g.VoiceGain, dst},
		// Tremolo: summed into the gain param, not mixed as audio
		{g.VoiceLFO, g.VoiceGain.Gain},

		{g.Friction, g.FrictionGain},
		{g.FrictionGain, dst},

		{g.Keyboard, dst},
	}
	for _, l := range links {
		if err := ctx.Connect(l.src, l.dst); err != nil {
			g.Release()
			return nil, fmt.Errorf("connect soundscape graph: %w", err)
		}
	}

	sources := []interface{ Start(float64) error }{
		g.Focus, g.Clarity, g.Unease, g.Hum, g.Voice, g.VoiceLFO, g.Friction,
	}
	for _, s := range sources {
		if err := s.Start(g.t0); err != nil {
			g.Release()
			return nil, fmt.Errorf("start soundscape graph: %w", err)
		}
	}

	return g, nil
}

// T0 is the audio time at which the graph started
func (g *Graph) T0() float64 {
	return g.t0
}

// Nodes maps logical names to live nodes
func (g *Graph) Nodes() map[string]audio.Node {
	return map[string]audio.Node{
		NodeFocus:        g.Focus,
		NodeClarity:      g.Clarity,
		NodeMain:         g.Main,
		NodeUnease:       g.Unease,
		NodeUneaseFilter: g.UneaseFilter,
		NodeUneaseGain:   g.UneaseGain,
		NodeHum:          g.Hum,
		NodeHumGain:      g.HumGain,
		NodeVoice:        g.Voice,
		NodeVoiceFilter:  g.VoiceFilter,
		NodeVoiceGain:    g.VoiceGain,
		NodeVoiceLFO:     g.VoiceLFO,
		NodeFriction:     g.Friction,
		NodeFrictionGain: g.FrictionGain,
		NodeKeyboard:     g.Keyboard,
	}
}

// Release stops and drops every node of the topology
func (g *Graph) Release() {
	for _, n := range g.Nodes() {
		g.ctx.Release(n)
	}
}

// Click schedules one square burst at audio time at through the keyboard stage
// The burst leaves the graph on its own once it has stopped
// A time the output has already rendered past is moved up to the render head
func (g *Graph) Click(at, volume, freq float64) error {
	if now := g.ctx.CurrentTime(); at < now {
		at = now
	}

	env := g.ctx.NewGain()
	osc := g.ctx.NewOscillator(audio.WaveSquare)

	env.Gain.SetValueAtTime(volume, at)
	if err := env.Gain.ExponentialRampToValueAtTime(constant.ClickFloor, at+constant.ClickDuration); err != nil {
		return err
	}
	osc.Frequency.SetValueAtTime(freq, at)

	if err := osc.Start(at); err != nil {
		return err
	}
	osc.Stop(at + constant.ClickDuration)

	// Source first: an idle envelope with no input would leave on the next render
	if err := g.ctx.Connect(osc, env); err != nil {
		return fmt.Errorf("connect click: %w", err)
	}
	if err := g.ctx.Connect(env, g.Keyboard); err != nil {
		return fmt.Errorf("connect click: %w", err)
	}
	env.ReleaseWhenIdle()
	return nil
}
