package sim

import (
	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
)

// evaluate checks the end conditions after a turn. streak is the number of
// consecutive plateau turns before this one; the updated streak is returned.
func evaluate(m models.Metrics, ec config.EndConditions, turn, streak int) (models.Outcome, int) {
	if m.Morale >= ec.PlateauMorale && m.Valuation >= ec.PlateauValuation {
		streak++
	} else {
		streak = 0
	}

	switch {
	case m.Cash <= ec.CashFloor:
		return models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonBankrupt}, streak
	case m.Morale <= ec.MoraleFloor:
		return models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonTeamCollapse}, streak
	case m.Valuation >= ec.IPOValuation:
		return models.Outcome{Kind: models.OutcomeWin, Reason: models.ReasonIPO}, streak
	case m.Reputation >= ec.AcquisitionReputation && m.Users >= ec.AcquisitionUsers:
		return models.Outcome{Kind: models.OutcomeWin, Reason: models.ReasonAcquisition}, streak
	case streak >= ec.PlateauTurns:
		return models.Outcome{Kind: models.OutcomeNeutral, Reason: models.ReasonPlateau}, streak
	case ec.MaxTurns > 0 && turn >= ec.MaxTurns:
		return models.Outcome{Kind: models.OutcomeNeutral, Reason: models.ReasonTimeUp}, streak
	}
	return models.Outcome{}, streak
}
