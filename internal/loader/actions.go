package loader

import (
	"fmt"

	"github.com/napolitain/startup-sim/internal/models"
)

// actionJSON represents the JSON structure for an action.
// Older documents use key, description, impact and a single numeric cost.
type actionJSON struct {
	ID          string             `json:"id"`
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Narrative   string             `json:"narrative"`
	Description string             `json:"description"`
	Costs       map[string]float64 `json:"costs"`
	Cost        *float64           `json:"cost"`
	Effects     map[string]float64 `json:"effects"`
	Impact      map[string]float64 `json:"impact"`
	MaxPerTurn  int                `json:"max_per_turn"`
	Risk        *riskJSON          `json:"risk"`
}

type riskJSON struct {
	SuccessChance    float64            `json:"success_chance"`
	Success          *branchJSON        `json:"success"`
	Failure          *branchJSON        `json:"failure"`
	SuccessEffects   map[string]float64 `json:"success_effects"`
	FailureEffects   map[string]float64 `json:"failure_effects"`
	SuccessNarrative string             `json:"success_narrative"`
	FailureNarrative string             `json:"failure_narrative"`
}

type branchJSON struct {
	Effects   map[string]float64 `json:"effects"`
	Narrative string             `json:"narrative"`
}

// LoadActions loads the action catalog from actions.json
func (l *Loader) LoadActions() ([]*models.Action, error) {
	var raw []actionJSON
	if err := l.decode(ActionsFile, &raw); err != nil {
		return nil, err
	}

	actions := make([]*models.Action, 0, len(raw))
	for i, aj := range raw {
		a, err := aj.toModel()
		if err != nil {
			return nil, fmt.Errorf("action at index %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (aj actionJSON) toModel() (*models.Action, error) {
	id := firstNonEmpty(aj.ID, aj.Key)
	if id == "" {
		return nil, fmt.Errorf("missing id")
	}
	owner := fmt.Sprintf("action %q", id)

	costs, err := parseDeltas(aj.Costs, owner)
	if err != nil {
		return nil, err
	}
	if aj.Cost != nil {
		if costs == nil {
			costs = models.Deltas{}
		}
		costs[models.Cash] += *aj.Cost
	}
	for m, v := range costs {
		if v < 0 {
			costs[m] = 0
		}
	}

	effectsRaw := aj.Effects
	if effectsRaw == nil {
		effectsRaw = aj.Impact
	}
	effects, err := parseDeltas(effectsRaw, owner)
	if err != nil {
		return nil, err
	}

	a := &models.Action{
		ID:         id,
		Name:       firstNonEmpty(aj.Name, id),
		Narrative:  firstNonEmpty(aj.Narrative, aj.Description),
		Costs:      costs,
		Effects:    effects,
		MaxPerTurn: max(0, aj.MaxPerTurn),
	}

	if aj.Risk != nil {
		risk, err := aj.Risk.toModel(owner)
		if err != nil {
			return nil, err
		}
		a.Risk = risk
	}
	return a, nil
}

func (rj *riskJSON) toModel(owner string) (*models.Risk, error) {
	successRaw, failureRaw := rj.SuccessEffects, rj.FailureEffects
	successText, failureText := rj.SuccessNarrative, rj.FailureNarrative
	if rj.Success != nil {
		successRaw = rj.Success.Effects
		successText = firstNonEmpty(rj.Success.Narrative, successText)
	}
	if rj.Failure != nil {
		failureRaw = rj.Failure.Effects
		failureText = firstNonEmpty(rj.Failure.Narrative, failureText)
	}

	success, err := parseDeltas(successRaw, owner+" success")
	if err != nil {
		return nil, err
	}
	failure, err := parseDeltas(failureRaw, owner+" failure")
	if err != nil {
		return nil, err
	}
	return &models.Risk{
		SuccessChance: clamp01(rj.SuccessChance),
		Success:       models.RiskBranch{Effects: success, Narrative: successText},
		Failure:       models.RiskBranch{Effects: failure, Narrative: failureText},
	}, nil
}
