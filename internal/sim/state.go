package sim

import (
	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
)

// Startup is the mutable company record. Metrics only change through
// ApplyDeltas, which keeps every value inside its configured range.
type Startup struct {
	metrics models.Metrics
	bounds  map[models.Metric]config.Range
}

// NewStartup creates a company from the config baseline overlaid with profile stats
func NewStartup(cfg *config.Config, profile *models.Profile) *Startup {
	s := &Startup{
		metrics: cfg.Baseline,
		bounds:  make(map[models.Metric]config.Range, len(models.AllMetrics())),
	}
	for _, m := range models.AllMetrics() {
		s.bounds[m] = cfg.Bound(m)
	}
	if profile != nil {
		for m, v := range profile.Stats {
			s.metrics.Set(m, v)
		}
	}
	s.ClampAll()
	return s
}

// RestoreStartup rebuilds a company from saved metrics
func RestoreStartup(cfg *config.Config, metrics models.Metrics) *Startup {
	s := NewStartup(cfg, nil)
	s.metrics = metrics
	s.ClampAll()
	return s
}

// Get returns the current value of a metric
func (s *Startup) Get(m models.Metric) float64 {
	return s.metrics.Get(m)
}

// Metrics returns a copy of every metric
func (s *Startup) Metrics() models.Metrics {
	return s.metrics
}

// Bound returns the clamp range of a metric
func (s *Startup) Bound(m models.Metric) config.Range {
	return s.bounds[m]
}

// ApplyDeltas adds each delta, clamps the touched metrics, and returns
// the change that actually landed
func (s *Startup) ApplyDeltas(d models.Deltas) models.Deltas {
	applied := make(models.Deltas, len(d))
	d.Each(func(m models.Metric, v float64) {
		before := s.metrics.Get(m)
		after := s.bounds[m].Clamp(before + v)
		s.metrics.Set(m, after)
		if after != before {
			applied[m] = after - before
		}
	})
	return applied
}

// ClampAll forces every metric back inside its range
func (s *Startup) ClampAll() {
	for _, m := range models.AllMetrics() {
		s.metrics.Set(m, s.bounds[m].Clamp(s.metrics.Get(m)))
	}
}

// CanAfford reports whether paying costs keeps every metric at or above its floor
func (s *Startup) CanAfford(costs models.Deltas) bool {
	for m, v := range costs {
		if v > 0 && s.metrics.Get(m)-v < s.bounds[m].Min {
			return false
		}
	}
	return true
}

// Normalized maps a metric into [0,1] over its range.
// Unbounded metrics are scaled over [Min, Min+100].
func (s *Startup) Normalized(m models.Metric) float64 {
	r := s.bounds[m]
	hi := r.Min + 100
	if r.Bounded() {
		hi = *r.Max
	}
	if hi <= r.Min {
		return 0
	}
	return clamp01((s.metrics.Get(m) - r.Min) / (hi - r.Min))
}

// Clone returns an independent copy
func (s *Startup) Clone() *Startup {
	c := &Startup{
		metrics: s.metrics,
		bounds:  make(map[models.Metric]config.Range, len(s.bounds)),
	}
	for m, r := range s.bounds {
		c.bounds[m] = r
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
