package soundscape

import (
	"sync/atomic"

	"github.com/lixenwraith/persona-soundscape/status"
)

// Metric keys published by the player
const (
	MetricPlaying  = "soundscape.playing"
	MetricSessions = "soundscape.sessions"
	MetricClicks   = "soundscape.clicks"
	MetricFailures = "soundscape.failures"
	MetricElapsed  = "soundscape.elapsed"
	MetricStage    = "soundscape.stage"
)

// metrics caches registry pointers; written under the player lock, read lock-free
type metrics struct {
	playing  *atomic.Bool
	sessions *atomic.Int64
	clicks   *atomic.Int64
	failures *atomic.Int64
	elapsed  *status.AtomicFloat
	stage    *status.AtomicString
}

func newMetrics(r *status.Registry) metrics {
	return metrics{
		playing:  r.Bools.Get(MetricPlaying),
		sessions: r.Ints.Get(MetricSessions),
		clicks:   r.Ints.Get(MetricClicks),
		failures: r.Ints.Get(MetricFailures),
		elapsed:  r.Floats.Get(MetricElapsed),
		stage:    r.Strings.Get(MetricStage),
	}
}
