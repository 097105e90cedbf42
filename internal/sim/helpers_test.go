package sim

import (
	"testing"

	"github.com/napolitain/startup-sim/data"
	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/loader"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/platform/logger"
)

// scriptedRand replays fixed draws and never reorders on Shuffle
type scriptedRand struct {
	draws []float64
	i     int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[r.i%len(r.draws)]
	r.i++
	return v
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

func scripted(draws ...float64) RandSource {
	return func(int64, int) Rand { return &scriptedRand{draws: draws} }
}

// quietConfig disables events and the economy so actions can be measured alone
func quietConfig() config.Config {
	cfg := config.Default()
	cfg.Events.MaxPerTurn = 0
	cfg.Economy.Enabled = false
	cfg.EndConditions.MaxTurns = 0
	return cfg
}

func testActions() []*models.Action {
	return []*models.Action{
		{
			ID:      "ship",
			Name:    "Ship",
			Costs:   models.Deltas{models.Cash: 1000},
			Effects: models.Deltas{models.Product: 5, models.Users: 100},
		},
		{
			ID:         "hire",
			Name:       "Hire",
			Costs:      models.Deltas{models.Cash: 5000},
			Effects:    models.Deltas{models.Expenses: 2000, models.Morale: 3},
			MaxPerTurn: 2,
		},
		{
			ID:        "gamble",
			Name:      "Gamble",
			Narrative: "You roll the dice.",
			Costs:     models.Deltas{models.Cash: 100},
			Risk: &models.Risk{
				SuccessChance: 0.5,
				Success:       models.RiskBranch{Effects: models.Deltas{models.Cash: 1000}, Narrative: "won"},
				Failure:       models.RiskBranch{Effects: models.Deltas{models.Morale: -10}, Narrative: "lost"},
			},
		},
	}
}

func testEvents() []*models.Event {
	return []*models.Event{
		{
			ID:       "outage",
			Chance:   1,
			Duration: 1,
			Cooldown: 2,
			Effects:  models.Deltas{models.Users: -50},
		},
		{
			ID:       "slump",
			Chance:   1,
			Duration: 3,
			Effects:  models.Deltas{models.Revenue: -1000},
			Ongoing:  models.Deltas{models.Users: -10},
			Revert:   models.Deltas{models.Revenue: 1000},
		},
	}
}

func newCatalog(t testing.TB, actions []*models.Action, events []*models.Event, profiles ...*models.Profile) *models.Catalog {
	t.Helper()
	c, err := models.NewCatalog(actions, events, profiles)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func embeddedCatalog(t testing.TB) *models.Catalog {
	t.Helper()
	c, err := loader.NewFS(nil, data.FS(), logger.Discard()).LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}
	return c
}
