package sim

import (
	"math"

	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
)

// InfiniteRunway is returned by Runway when the company is not burning cash
const InfiniteRunway = -1

// Burn returns the monthly cash loss, zero when profitable
func Burn(m models.Metrics) float64 {
	return math.Max(0, m.Expenses-m.Revenue)
}

// NetIncome returns monthly revenue minus expenses
func NetIncome(m models.Metrics) float64 {
	return m.Revenue - m.Expenses
}

// Runway returns whole turns until cash runs out, or InfiniteRunway
func Runway(m models.Metrics) int {
	burn := Burn(m)
	if burn <= 0 {
		return InfiniteRunway
	}
	return int(math.Floor(m.Cash / burn))
}

// ValuationTarget is the heuristic value the company's valuation drifts toward
func ValuationTarget(m models.Metrics, eco config.Economy) float64 {
	return m.Revenue*12*eco.RevenueMultiple +
		m.Users*eco.ValuePerUser +
		m.Reputation*eco.ValuePerReputation
}

// Settlement records one month of bookkeeping
type Settlement struct {
	Net            float64
	RevenueJitter  float64
	ExpenseJitter  float64
	ValuationDrift float64
	Applied        models.Deltas
}

// settle books revenue and expenses into cash, jitters the economy when
// variance is on, and drifts valuation toward its target
func settle(s *Startup, eco config.Economy, rng Rand) Settlement {
	var out Settlement
	if !eco.Enabled {
		return out
	}

	m := s.Metrics()
	out.Net = NetIncome(m)
	d := models.Deltas{models.Cash: out.Net}

	if eco.Variance && rng != nil {
		out.RevenueJitter = m.Revenue * uniform(rng, eco.RevenueVariance)
		out.ExpenseJitter = m.Expenses * uniform(rng, eco.ExpenseVariance)
		d[models.Revenue] = out.RevenueJitter
		d[models.Expenses] = out.ExpenseJitter
	}
	applied := s.ApplyDeltas(d)

	m = s.Metrics()
	out.ValuationDrift = eco.ValuationDrift * (ValuationTarget(m, eco) - m.Valuation)
	for k, v := range s.ApplyDeltas(models.Deltas{models.Valuation: out.ValuationDrift}) {
		applied[k] += v
	}
	out.Applied = applied
	return out
}

func uniform(rng Rand, iv config.Interval) float64 {
	return iv.Low + rng.Float64()*(iv.High-iv.Low)
}
