package loader

import (
	"fmt"

	"github.com/napolitain/startup-sim/internal/models"
)

// eventJSON represents the JSON structure for an event.
// chance, duration, effects and revert each accept their older spellings.
type eventJSON struct {
	ID            string             `json:"id"`
	Key           string             `json:"key"`
	Name          string             `json:"name"`
	Narrative     string             `json:"narrative"`
	Description   string             `json:"description"`
	Chance        *float64           `json:"chance"`
	TriggerChance *float64           `json:"trigger_chance"`
	Probability   *float64           `json:"probability"`
	Duration      *int               `json:"duration"`
	DurationTurns *int               `json:"duration_turns"`
	Turns         *int               `json:"turns"`
	Cooldown      int                `json:"cooldown"`
	Effects       map[string]float64 `json:"effects"`
	Deltas        map[string]float64 `json:"deltas"`
	Impact        map[string]float64 `json:"impact"`
	Ongoing       map[string]float64 `json:"ongoing"`
	Revert        map[string]float64 `json:"revert"`
	RevertDeltas  map[string]float64 `json:"revert_deltas"`
	Persistent    bool               `json:"persistent"`
	Modifiers     []modifierJSON     `json:"modifiers"`
}

type modifierJSON struct {
	Metric string  `json:"metric"`
	Weight float64 `json:"weight"`
	Invert bool    `json:"invert"`
	Pivot  float64 `json:"pivot"`
}

// LoadEvents loads the event catalog from events.json
func (l *Loader) LoadEvents() ([]*models.Event, error) {
	var raw []eventJSON
	if err := l.decode(EventsFile, &raw); err != nil {
		return nil, err
	}

	events := make([]*models.Event, 0, len(raw))
	for i, ej := range raw {
		e, err := ej.toModel()
		if err != nil {
			return nil, fmt.Errorf("event at index %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (ej eventJSON) toModel() (*models.Event, error) {
	id := firstNonEmpty(ej.ID, ej.Key)
	if id == "" {
		return nil, fmt.Errorf("missing id")
	}
	owner := fmt.Sprintf("event %q", id)

	chance := 0.0
	for _, c := range []*float64{ej.Chance, ej.TriggerChance, ej.Probability} {
		if c != nil {
			chance = *c
			break
		}
	}
	duration := 1
	for _, d := range []*int{ej.Duration, ej.DurationTurns, ej.Turns} {
		if d != nil {
			duration = *d
			break
		}
	}

	effectsRaw := ej.Effects
	if effectsRaw == nil {
		effectsRaw = ej.Deltas
	}
	if effectsRaw == nil {
		effectsRaw = ej.Impact
	}
	effects, err := parseDeltas(effectsRaw, owner)
	if err != nil {
		return nil, err
	}
	ongoing, err := parseDeltas(ej.Ongoing, owner+" ongoing")
	if err != nil {
		return nil, err
	}

	revertRaw := ej.Revert
	if revertRaw == nil {
		revertRaw = ej.RevertDeltas
	}
	revert, err := parseDeltas(revertRaw, owner+" revert")
	if err != nil {
		return nil, err
	}

	e := &models.Event{
		ID:         id,
		Name:       firstNonEmpty(ej.Name, id),
		Narrative:  firstNonEmpty(ej.Narrative, ej.Description),
		Chance:     clamp01(chance),
		Duration:   max(1, duration),
		Cooldown:   max(0, ej.Cooldown),
		Effects:    effects,
		Ongoing:    ongoing,
		Revert:     revert,
		Persistent: ej.Persistent,
	}
	// temporary events undo their trigger effects on expiry unless told otherwise
	if revertRaw == nil && e.Duration > 1 && !e.Persistent {
		e.Revert = effects.Negate()
	}

	for _, mj := range ej.Modifiers {
		m, err := models.ParseMetric(mj.Metric)
		if err != nil {
			return nil, fmt.Errorf("%s modifier: %w", owner, err)
		}
		e.Modifiers = append(e.Modifiers, models.ChanceModifier{
			Metric: m,
			Weight: mj.Weight,
			Invert: mj.Invert,
			Pivot:  clamp01(mj.Pivot),
		})
	}
	return e, nil
}
