package sim

import (
	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
)

// EventPhase says what happened to an event during a turn
type EventPhase string

const (
	EventTriggered EventPhase = "triggered"
	EventOngoing   EventPhase = "ongoing"
	EventExpired   EventPhase = "expired"
)

// EventResult describes one event change within a turn
type EventResult struct {
	Event     *models.Event
	Phase     EventPhase
	Remaining int
	Applied   models.Deltas
}

// EventEngine tracks triggered events through their duration and cooldown
type EventEngine struct {
	catalog   *models.Catalog
	rules     config.EventRules
	instances []models.EventInstance
}

// NewEventEngine creates an engine with no active events
func NewEventEngine(catalog *models.Catalog, rules config.EventRules) *EventEngine {
	return &EventEngine{catalog: catalog, rules: rules}
}

// Restore replaces tracked instances, dropping ids the catalog does not know.
// It returns the dropped ids.
func (e *EventEngine) Restore(instances []models.EventInstance) []string {
	e.instances = nil
	var dropped []string
	for _, inst := range instances {
		if _, ok := e.catalog.Event(inst.EventID); !ok {
			dropped = append(dropped, inst.EventID)
			continue
		}
		inst.RemainingDuration = max(0, inst.RemainingDuration)
		inst.RemainingCooldown = max(0, inst.RemainingCooldown)
		if inst.RemainingDuration == 0 && inst.RemainingCooldown == 0 {
			continue
		}
		e.instances = append(e.instances, inst)
	}
	return dropped
}

// Instances returns a copy of every tracked instance
func (e *EventEngine) Instances() []models.EventInstance {
	out := make([]models.EventInstance, len(e.instances))
	copy(out, e.instances)
	return out
}

// Active returns the instances still in effect
func (e *EventEngine) Active() []models.EventInstance {
	var out []models.EventInstance
	for _, inst := range e.instances {
		if inst.Active() {
			out = append(out, inst)
		}
	}
	return out
}

func (e *EventEngine) tracked(id string) bool {
	for _, inst := range e.instances {
		if inst.EventID == id {
			return true
		}
	}
	return false
}

// Tick advances every instance by one turn. Expiring events apply their
// revert and start cooling down; the rest apply their ongoing effects.
func (e *EventEngine) Tick(s *Startup) []EventResult {
	var results []EventResult
	kept := e.instances[:0]

	for _, inst := range e.instances {
		ev, ok := e.catalog.Event(inst.EventID)
		if !ok {
			continue
		}

		switch {
		case inst.RemainingDuration > 0:
			inst.RemainingDuration--
			if inst.RemainingDuration == 0 {
				inst.RemainingCooldown = ev.Cooldown
				results = append(results, EventResult{
					Event:   ev,
					Phase:   EventExpired,
					Applied: s.ApplyDeltas(ev.Revert),
				})
			} else {
				results = append(results, EventResult{
					Event:     ev,
					Phase:     EventOngoing,
					Remaining: inst.RemainingDuration,
					Applied:   s.ApplyDeltas(ev.Ongoing),
				})
			}
		case inst.RemainingCooldown > 0:
			inst.RemainingCooldown--
		}

		if inst.RemainingDuration > 0 || inst.RemainingCooldown > 0 {
			kept = append(kept, inst)
		}
	}

	e.instances = kept
	return results
}

// Chance returns the trigger probability of ev for the current company state
func (e *EventEngine) Chance(ev *models.Event, s *Startup) float64 {
	chance := ev.Chance * e.rules.ChanceWeight
	for _, mod := range ev.Modifiers {
		v := s.Normalized(mod.Metric)
		if mod.Invert {
			v = 1 - v
		}
		if v > mod.Pivot {
			chance += (v - mod.Pivot) * mod.Weight
		}
	}
	return clamp01(chance)
}

// Roll tries untracked events in a shuffled order and triggers at most
// MaxPerTurn of them
func (e *EventEngine) Roll(s *Startup, rng Rand) []EventResult {
	if e.rules.MaxPerTurn <= 0 {
		return nil
	}

	ids := e.catalog.EventIDs()
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	var results []EventResult
	for _, id := range ids {
		if e.tracked(id) {
			continue
		}
		ev, _ := e.catalog.Event(id)
		if rng.Float64() >= e.Chance(ev, s) {
			continue
		}
		results = append(results, e.trigger(ev, s))
		if len(results) >= e.rules.MaxPerTurn {
			break
		}
	}
	return results
}

func (e *EventEngine) trigger(ev *models.Event, s *Startup) EventResult {
	duration := max(1, ev.Duration)
	e.instances = append(e.instances, models.EventInstance{
		EventID:           ev.ID,
		RemainingDuration: duration,
	})
	return EventResult{
		Event:     ev,
		Phase:     EventTriggered,
		Remaining: duration,
		Applied:   s.ApplyDeltas(ev.Effects),
	}
}
