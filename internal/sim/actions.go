package sim

import (
	"errors"
	"fmt"

	"github.com/napolitain/startup-sim/internal/models"
)

// Selection errors. None of them change game state.
var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrActionLimit       = errors.New("action limit reached")
	ErrActionRepeat      = errors.New("action already taken this turn")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGameOver          = errors.New("game is over")
	ErrTurnNotStarted    = errors.New("turn not started")
	ErrTurnInProgress    = errors.New("turn already in progress")
)

// ActionResult records what taking an action changed
type ActionResult struct {
	Action    *models.Action
	Applied   models.Deltas
	Risky     bool
	Succeeded bool
	Narrative string
}

// applyAction pays the action's costs, applies its effects, then resolves
// its risk roll if it has one
func applyAction(s *Startup, a *models.Action, rng Rand) ActionResult {
	res := ActionResult{Action: a, Narrative: a.Narrative}

	applied := s.ApplyDeltas(a.Costs.Negate())
	for m, v := range s.ApplyDeltas(a.Effects) {
		applied[m] += v
	}

	if a.Risk != nil {
		res.Risky = true
		branch := a.Risk.Failure
		if rng.Float64() < a.Risk.SuccessChance {
			res.Succeeded = true
			branch = a.Risk.Success
		}
		for m, v := range s.ApplyDeltas(branch.Effects) {
			applied[m] += v
		}
		if branch.Narrative != "" {
			res.Narrative = branch.Narrative
		}
	}

	for m, v := range applied {
		if v == 0 {
			delete(applied, m)
		}
	}
	res.Applied = applied
	return res
}

// selectionError wraps a sentinel with the offending action id
func selectionError(err error, id string) error {
	return fmt.Errorf("%w: %s", err, id)
}
