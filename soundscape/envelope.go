package soundscape

import (
	"fmt"

	"github.com/lixenwraith/persona-soundscape/audio"
	"github.com/lixenwraith/persona-soundscape/constant"
)

// Automated parameter names
const (
	ParamGain      = "gain"
	ParamFrequency = "frequency"
)

// Ramp is one automation event, At in seconds from t0
type Ramp struct {
	Node  string
	Param string
	Kind  audio.EventKind
	Value float64
	At    float64
}

func set(node, param string, v, at float64) Ramp {
	return Ramp{node, param, audio.EventSet, v, at}
}

func linear(node, param string, v, at float64) Ramp {
	return Ramp{node, param, audio.EventLinear, v, at}
}

// Program is the emotional arc, issued in full at session start
var Program = []Ramp{
	// Intro
	set(NodeMain, ParamGain, 0, 0),
	linear(NodeMain, ParamGain, constant.MainPeak, constant.MainAttackEnd),
	linear(NodeMain, ParamGain, 0, constant.SoundscapeDuration),

	set(NodeHumGain, ParamGain, 0, 0),
	linear(NodeHumGain, ParamGain, constant.HumLevel, constant.HumAttackEnd),
	linear(NodeHumGain, ParamGain, constant.HumLevel, constant.HumReleaseStart),
	linear(NodeHumGain, ParamGain, 0, constant.SoundscapeDuration),

	// Concern
	set(NodeUneaseGain, ParamGain, 0, 0),
	set(NodeUneaseGain, ParamGain, 0, constant.UneaseStart),
	linear(NodeUneaseGain, ParamGain, constant.UneasePeak, constant.UneasePeakTime),
	linear(NodeUneaseGain, ParamGain, 0, constant.UneaseEnd),

	set(NodeVoiceGain, ParamGain, 0, 0),
	linear(NodeVoiceGain, ParamGain, constant.VoicePeak, constant.VoicePeakTime),
	linear(NodeVoiceGain, ParamGain, constant.VoicePeak, constant.VoiceHoldEnd),
	linear(NodeVoiceGain, ParamGain, 0, constant.VoiceEnd),

	// Tremolo gate
	set(NodeVoiceLFO, ParamFrequency, 0, 0),
	set(NodeVoiceLFO, ParamFrequency, constant.VoiceLFOFreq, constant.TremoloOn),
	set(NodeVoiceLFO, ParamFrequency, 0, constant.TremoloOff),

	// Tension
	set(NodeFrictionGain, ParamGain, 0, 0),
	set(NodeFrictionGain, ParamGain, 0, constant.FrictionStart),
	linear(NodeFrictionGain, ParamGain, constant.FrictionPeak, constant.FrictionPeakTime),
	linear(NodeFrictionGain, ParamGain, 0, constant.FrictionEnd),

	// Resolution
	set(NodeClarity, ParamFrequency, constant.ClarityFreq, 0),
	set(NodeClarity, ParamFrequency, constant.ClarityFreq, constant.ClarityDriftStart),
	linear(NodeClarity, ParamFrequency, constant.ClarityEndFreq, constant.SoundscapeDuration),
}

// Param resolves a logical node and parameter name
func (g *Graph) Param(node, param string) (*audio.Param, error) {
	n, ok := g.Nodes()[node]
	if !ok {
		return nil, fmt.Errorf("unknown node %q", node)
	}

	switch v := n.(type) {
	case *audio.Gain:
		if param == ParamGain {
			return v.Gain, nil
		}
	case *audio.Oscillator:
		if param == ParamFrequency {
			return v.Frequency, nil
		}
	case *audio.BiquadFilter:
		if param == ParamFrequency {
			return v.Frequency, nil
		}
	}
	return nil, fmt.Errorf("node %q has no %q param", node, param)
}

// ScheduleEnvelopes issues every ramp of program relative to the graph's t0
func (g *Graph) ScheduleEnvelopes(program []Ramp) error {
	for _, r := range program {
		p, err := g.Param(r.Node, r.Param)
		if err != nil {
			return err
		}

		at := g.t0 + r.At
		switch r.Kind {
		case audio.EventSet:
			p.SetValueAtTime(r.Value, at)
		case audio.EventLinear:
			p.LinearRampToValueAtTime(r.Value, at)
		case audio.EventExponential:
			if err := p.ExponentialRampToValueAtTime(r.Value, at); err != nil {
				return fmt.Errorf("%s.%s: %w", r.Node, r.Param, err)
			}
		}
	}
	return nil
}
