package models

import (
	"fmt"
	"sort"
)

// Action is a player choice that costs and yields metric changes for one turn
type Action struct {
	ID         string
	Name       string
	Narrative  string
	Costs      Deltas // positive amounts, subtracted when taken
	Effects    Deltas
	Risk       *Risk
	MaxPerTurn int // 0 means once per turn
}

// Risk splits an action outcome into success and failure branches
type Risk struct {
	SuccessChance float64
	Success       RiskBranch
	Failure       RiskBranch
}

// RiskBranch is the result applied for one side of a risk roll
type RiskBranch struct {
	Effects   Deltas
	Narrative string
}

// NetDelta returns what taking the action changes before any risk roll
func (a *Action) NetDelta() Deltas {
	return a.Effects.Merge(a.Costs.Negate())
}

// Limit returns how many times the action may be taken in one turn
func (a *Action) Limit() int {
	if a.MaxPerTurn < 1 {
		return 1
	}
	return a.MaxPerTurn
}

// ChanceModifier raises an event's chance based on a metric's normalized value.
// Contribution is max(0, v - Pivot) * Weight where v is the normalized metric
// (or 1 - v when Invert is set).
type ChanceModifier struct {
	Metric Metric
	Weight float64
	Invert bool
	Pivot  float64
}

// Event is a random or persistent modifier with duration and cooldown
type Event struct {
	ID         string
	Name       string
	Narrative  string
	Chance     float64
	Duration   int
	Cooldown   int
	Effects    Deltas // applied once on trigger
	Ongoing    Deltas // applied every tick while active
	Revert     Deltas // applied on expiry
	Persistent bool
	Modifiers  []ChanceModifier
}

// EventInstance tracks the counters of an event that has triggered
type EventInstance struct {
	EventID           string `json:"id"`
	RemainingDuration int    `json:"remaining_duration"`
	RemainingCooldown int    `json:"remaining_cooldown"`
}

// Active reports whether the event is still in effect
func (e EventInstance) Active() bool {
	return e.RemainingDuration > 0
}

// Profile is a starting preset for a new company
type Profile struct {
	ID          string
	Name        string
	Description string
	Stats       map[Metric]float64
}

// Catalog holds every action, event and profile available to a game
type Catalog struct {
	Actions  []*Action
	Events   []*Event
	Profiles []*Profile

	actionsByID  map[string]*Action
	eventsByID   map[string]*Event
	profilesByID map[string]*Profile
}

// NewCatalog indexes the given entries, rejecting duplicate ids
func NewCatalog(actions []*Action, events []*Event, profiles []*Profile) (*Catalog, error) {
	c := &Catalog{
		Actions:      actions,
		Events:       events,
		Profiles:     profiles,
		actionsByID:  make(map[string]*Action, len(actions)),
		eventsByID:   make(map[string]*Event, len(events)),
		profilesByID: make(map[string]*Profile, len(profiles)),
	}
	for _, a := range actions {
		if _, dup := c.actionsByID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate action id %q", a.ID)
		}
		c.actionsByID[a.ID] = a
	}
	for _, e := range events {
		if _, dup := c.eventsByID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", e.ID)
		}
		c.eventsByID[e.ID] = e
	}
	for _, p := range profiles {
		if _, dup := c.profilesByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		c.profilesByID[p.ID] = p
	}
	return c, nil
}

// Action looks up an action by id
func (c *Catalog) Action(id string) (*Action, bool) {
	a, ok := c.actionsByID[id]
	return a, ok
}

// Event looks up an event by id
func (c *Catalog) Event(id string) (*Event, bool) {
	e, ok := c.eventsByID[id]
	return e, ok
}

// Profile looks up a profile by id
func (c *Catalog) Profile(id string) (*Profile, bool) {
	p, ok := c.profilesByID[id]
	return p, ok
}

// EventIDs returns event ids sorted for deterministic iteration
func (c *Catalog) EventIDs() []string {
	ids := make([]string, 0, len(c.eventsByID))
	for id := range c.eventsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
