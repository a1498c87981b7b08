package soundscape

import (
	"github.com/lixenwraith/persona-soundscape/constant"
)

// tickLocked runs one step of the keyboard click generator and re-arms it
// Elapsed time is read fresh from the clock so late timers never misclassify the stage
func (p *Player) tickLocked(s *session) error {
	s.clickTimer = nil

	elapsed := p.clock.Now().Sub(s.started)
	t := elapsed.Seconds()
	if t > constant.ClickCutoff {
		return nil
	}

	policy := Classify(t)
	p.metrics.elapsed.Set(t)
	p.metrics.stage.Store(policy.Stage.String())

	if policy.Fires(p.rng) {
		freq := constant.ClickMinFreq + p.rng.Float64()*constant.ClickFreqSpread
		if err := s.graph.Click(s.graph.T0()+t, policy.Volume, freq); err != nil {
			return err
		}
		p.metrics.clicks.Add(1)
		if p.onClick != nil {
			p.onClick(Click{
				Elapsed:   elapsed,
				Stage:     policy.Stage,
				Volume:    policy.Volume,
				Frequency: freq,
			})
		}
	}

	delay := policy.NextDelay(p.rng)
	s.clickTimer = p.clock.AfterFunc(delay, func() { p.onClickTimer(s) })
	return nil
}
