package soundscape

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/persona-soundscape/constant"
)

// Stage is a named window of the timeline governing click density
type Stage int

const (
	StageSilence Stage = iota // warm-up before the first window
	StageFocus
	StageConcern
	StageTension
	StageResolution
)

func (s Stage) String() string {
	switch s {
	case StageFocus:
		return "focus"
	case StageConcern:
		return "concern"
	case StageTension:
		return "tension"
	case StageResolution:
		return "resolution"
	default:
		return "silence"
	}
}

// ClickPolicy is the fire probability, volume and re-arm delay range of one stage
type ClickPolicy struct {
	Stage       Stage
	Probability float64
	Volume      float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

var (
	silencePolicy = ClickPolicy{
		Stage:    StageSilence,
		MinDelay: constant.WarmupDelay,
		MaxDelay: constant.WarmupDelay,
	}
	focusPolicy = ClickPolicy{
		Stage:       StageFocus,
		Probability: constant.FocusClickProbability,
		Volume:      constant.FocusClickVolume,
		MinDelay:    constant.FocusMinDelay,
		MaxDelay:    constant.FocusMaxDelay,
	}
	concernPolicy = ClickPolicy{
		Stage:       StageConcern,
		Probability: constant.ConcernClickProbability,
		Volume:      constant.ConcernClickVolume,
		MinDelay:    constant.ConcernMinDelay,
		MaxDelay:    constant.ConcernMaxDelay,
	}
	tensionPolicy = ClickPolicy{
		Stage:       StageTension,
		Probability: constant.TensionClickProbability,
		Volume:      constant.TensionClickVolume,
		MinDelay:    constant.TensionMinDelay,
		MaxDelay:    constant.TensionMaxDelay,
	}
	resolutionPolicy = ClickPolicy{
		Stage:       StageResolution,
		Probability: constant.ResolutionClickProbability,
		Volume:      constant.ResolutionClickVolume,
		MinDelay:    constant.ResolutionMinDelay,
		MaxDelay:    constant.ResolutionMaxDelay,
	}
)

// Classify returns the click policy for elapsed seconds t
// Every t maps to exactly one policy; the cutoff near the end is enforced by the generator
func Classify(t float64) ClickPolicy {
	switch {
	case t < constant.FocusStart:
		return silencePolicy
	case t < constant.ConcernStart:
		return focusPolicy
	case t < constant.TensionStart:
		return concernPolicy
	case t < constant.ResolutionStart:
		return tensionPolicy
	default:
		return resolutionPolicy
	}
}

// Fires draws whether a click sounds on this tick
// Certain outcomes consume no draw
func (p ClickPolicy) Fires(rng *rand.Rand) bool {
	switch {
	case p.Probability <= 0:
		return false
	case p.Probability >= 1:
		return true
	default:
		return rng.Float64() < p.Probability
	}
}

// NextDelay draws the re-arm delay uniformly from [MinDelay, MaxDelay]
func (p ClickPolicy) NextDelay(rng *rand.Rand) time.Duration {
	if p.MaxDelay <= p.MinDelay {
		return p.MinDelay
	}
	span := float64(p.MaxDelay - p.MinDelay)
	return p.MinDelay + time.Duration(rng.Float64()*span)
}
