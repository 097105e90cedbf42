package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

func TestFormatter(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "$1,234,567", f.Money(1_234_567.4))
	assert.Equal(t, "-$500", f.Money(-500))
	assert.Equal(t, "1,500", f.Value(models.Users, 1500))
	assert.Equal(t, "$3,000,000", f.Value(models.Valuation, 3e6))
	assert.Equal(t, "Team Collapse", f.Label("team_collapse"))
	assert.Equal(t, "Cash -$500, Morale +5", f.Deltas(models.Deltas{models.Cash: -500, models.Morale: 5}))
	assert.Equal(t, "no change", f.Deltas(nil))
}

func TestFormatRunway(t *testing.T) {
	f := DefaultFormatter()
	assert.Contains(t, f.Runway(sim.InfiniteRunway), "∞")
	assert.Equal(t, "1 turn", f.Runway(1))
	assert.Equal(t, "12 turns", f.Runway(12))
}

func TestFormatOutcome(t *testing.T) {
	f := DefaultFormatter()
	assert.Equal(t, "in progress", f.Outcome(models.Outcome{}))
	assert.Equal(t, "Win (Ipo)", f.Outcome(models.Outcome{Kind: models.OutcomeWin, Reason: models.ReasonIPO}))
}
