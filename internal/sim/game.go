package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/platform/logger"
)

// ErrUnknownProfile is returned when a profile id is not in the catalog
var ErrUnknownProfile = errors.New("unknown profile")

// Rejection is an action that could not be taken during PlayTurn
type Rejection struct {
	ActionID string
	Err      error
}

// TurnReport collects everything that happened during one turn
type TurnReport struct {
	Turn       int
	Events     []EventResult
	Actions    []ActionResult
	Rejected   []Rejection
	Settlement Settlement
	Outcome    models.Outcome
}

// Game sequences turns: event tick and roll, player actions, settlement,
// end-condition check
type Game struct {
	cfg        config.Config
	catalog    *models.Catalog
	profile    string
	seed       int64
	turn       int
	startup    *Startup
	events     *EventEngine
	streak     int
	outcome    models.Outcome
	randSource RandSource
	log        *logger.Logger

	inTurn bool
	rng    Rand
	taken  map[string]int
	report *TurnReport
}

// Option customizes a Game
type Option func(*Game)

// WithRandSource replaces the per-turn generator factory
func WithRandSource(src RandSource) Option {
	return func(g *Game) { g.randSource = src }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *logger.Logger) Option {
	return func(g *Game) { g.log = l }
}

// NewGame starts a company on turn 1. An empty profileID uses the config baseline.
func NewGame(cfg config.Config, catalog *models.Catalog, profileID string, seed int64, opts ...Option) (*Game, error) {
	cfg.Normalize()

	var profile *models.Profile
	if profileID != "" {
		p, ok := catalog.Profile(profileID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profileID)
		}
		profile = p
	}

	g := newGame(cfg, catalog, seed, opts)
	g.profile = profileID
	g.turn = 1
	g.startup = NewStartup(&g.cfg, profile)
	g.log.Infof("new game: profile=%q seed=%d actions/turn=%d", profileID, seed, g.MaxActions())
	return g, nil
}

// Restore rebuilds a game from a save record. Event ids missing from the
// catalog are dropped with a warning.
func Restore(cfg config.Config, catalog *models.Catalog, save models.SaveState, opts ...Option) (*Game, error) {
	cfg.Normalize()
	if save.Turn < 0 || save.RNGSeed < 0 {
		return nil, fmt.Errorf("invalid save: turn %d seed %d", save.Turn, save.RNGSeed)
	}

	g := newGame(cfg, catalog, save.RNGSeed, opts)
	g.profile = save.Startup.Profile
	g.turn = max(1, save.Turn)
	g.startup = RestoreStartup(&g.cfg, save.Startup.Metrics)
	g.streak = max(0, save.Startup.PlateauStreak)
	g.outcome = save.Startup.Outcome
	for _, id := range g.events.Restore(save.Startup.ActiveEvents) {
		g.log.Warnf("dropping unknown event %q from save", id)
	}
	g.log.Infof("restored game: turn=%d seed=%d", g.turn, g.seed)
	return g, nil
}

func newGame(cfg config.Config, catalog *models.Catalog, seed int64, opts []Option) *Game {
	g := &Game{
		cfg:        cfg,
		catalog:    catalog,
		seed:       seed,
		events:     NewEventEngine(catalog, cfg.Events),
		randSource: TurnRand,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Discard()
	}
	return g
}

// Turn returns the number of the turn being played or about to be played
func (g *Game) Turn() int { return g.turn }

// Seed returns the game seed
func (g *Game) Seed() int64 { return g.seed }

// Profile returns the starting profile id
func (g *Game) Profile() string { return g.profile }

// Config returns the normalized configuration
func (g *Game) Config() config.Config { return g.cfg }

// Catalog returns the content catalog
func (g *Game) Catalog() *models.Catalog { return g.catalog }

// Metrics returns a copy of the company metrics
func (g *Game) Metrics() models.Metrics { return g.startup.Metrics() }

// Outcome returns the end result, if any
func (g *Game) Outcome() models.Outcome { return g.outcome }

// Over reports whether the game has ended
func (g *Game) Over() bool { return g.outcome.Over() }

// InTurn reports whether a turn has begun and not yet ended
func (g *Game) InTurn() bool { return g.inTurn }

// ActiveEvents returns the events currently in effect
func (g *Game) ActiveEvents() []models.EventInstance { return g.events.Active() }

// Runway returns turns of cash left at the current burn
func (g *Game) Runway() int { return Runway(g.startup.Metrics()) }

// MaxActions returns how many actions may be taken per turn
func (g *Game) MaxActions() int { return g.cfg.ActionsPerTurn() }

// RemainingActions returns how many actions are left this turn
func (g *Game) RemainingActions() int {
	if !g.inTurn {
		return g.MaxActions()
	}
	return g.MaxActions() - len(g.report.Actions)
}

// AvailableActions lists catalog actions that can be taken right now
func (g *Game) AvailableActions() []*models.Action {
	var out []*models.Action
	for _, a := range g.catalog.Actions {
		if g.validate(a.ID, g.startup, g.taken, g.takenCount()) == nil {
			out = append(out, a)
		}
	}
	return out
}

func (g *Game) takenCount() int {
	if g.report == nil || !g.inTurn {
		return 0
	}
	return len(g.report.Actions)
}

// BeginTurn ticks active events and rolls new ones
func (g *Game) BeginTurn() (*TurnReport, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if g.inTurn {
		return nil, ErrTurnInProgress
	}

	g.rng = g.randSource(g.seed, g.turn)
	g.taken = make(map[string]int)
	g.report = &TurnReport{Turn: g.turn}
	g.inTurn = true

	g.report.Events = append(g.report.Events, g.events.Tick(g.startup)...)
	g.report.Events = append(g.report.Events, g.events.Roll(g.startup, g.rng)...)
	for _, ev := range g.report.Events {
		g.log.Event(string(ev.Phase), g.turn, ev.Event.ID)
	}
	return g.report, nil
}

func (g *Game) validate(id string, s *Startup, taken map[string]int, count int) error {
	a, ok := g.catalog.Action(id)
	if !ok {
		return selectionError(ErrUnknownAction, id)
	}
	if count >= g.MaxActions() {
		return selectionError(ErrActionLimit, id)
	}
	if taken[id] >= a.Limit() {
		return selectionError(ErrActionRepeat, id)
	}
	if !s.CanAfford(a.Costs) {
		return selectionError(ErrInsufficientFunds, id)
	}
	return nil
}

// CheckSelection validates a whole selection against a scratch copy of the
// company without touching game state. Risk outcomes are not rolled.
func (g *Game) CheckSelection(ids []string) error {
	if g.Over() {
		return ErrGameOver
	}
	if !g.inTurn {
		return ErrTurnNotStarted
	}

	scratch := g.startup.Clone()
	taken := make(map[string]int, len(g.taken))
	for id, n := range g.taken {
		taken[id] = n
	}
	count := g.takenCount()

	for _, id := range ids {
		if err := g.validate(id, scratch, taken, count); err != nil {
			return err
		}
		a, _ := g.catalog.Action(id)
		scratch.ApplyDeltas(a.Costs.Negate())
		scratch.ApplyDeltas(a.Effects)
		taken[id]++
		count++
	}
	return nil
}

// TakeAction applies one action. A rejected action leaves state untouched.
func (g *Game) TakeAction(id string) (ActionResult, error) {
	if g.Over() {
		return ActionResult{}, ErrGameOver
	}
	if !g.inTurn {
		return ActionResult{}, ErrTurnNotStarted
	}
	if err := g.validate(id, g.startup, g.taken, g.takenCount()); err != nil {
		return ActionResult{}, err
	}

	a, _ := g.catalog.Action(id)
	res := applyAction(g.startup, a, g.rng)
	g.taken[id]++
	g.report.Actions = append(g.report.Actions, res)
	g.log.Debugf("turn %d: took %s -> %s", g.turn, id, res.Applied)
	return res, nil
}

// EndTurn settles the month, clamps metrics, checks end conditions and
// advances the turn counter
func (g *Game) EndTurn() (*TurnReport, error) {
	if !g.inTurn {
		return nil, ErrTurnNotStarted
	}

	g.report.Settlement = settle(g.startup, g.cfg.Economy, g.rng)
	g.startup.ClampAll()
	g.outcome, g.streak = evaluate(g.startup.Metrics(), g.cfg.EndConditions, g.turn, g.streak)
	g.report.Outcome = g.outcome
	if g.outcome.Over() {
		g.log.Event("game_over", g.turn, string(g.outcome.Kind)+"/"+g.outcome.Reason)
	}

	report := g.report
	g.turn++
	g.inTurn = false
	g.rng = nil
	g.taken = nil
	return report, nil
}

// PlayTurn runs a whole turn with the given selection. Actions that fail
// validation are recorded in the report and skipped.
func (g *Game) PlayTurn(ids []string) (*TurnReport, error) {
	if _, err := g.BeginTurn(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := g.TakeAction(id); err != nil {
			g.report.Rejected = append(g.report.Rejected, Rejection{ActionID: id, Err: err})
		}
	}
	return g.EndTurn()
}

// Snapshot captures the game between turns for saving
func (g *Game) Snapshot(now time.Time) (models.SaveState, error) {
	if g.inTurn {
		return models.SaveState{}, ErrTurnInProgress
	}
	return models.SaveState{
		Version:   models.SaveSchemaVersion,
		Timestamp: now.UTC(),
		Turn:      g.turn,
		RNGSeed:   g.seed,
		Startup: models.StartupSnapshot{
			Profile:       g.profile,
			Metrics:       g.startup.Metrics(),
			ActiveEvents:  g.events.Instances(),
			PlateauStreak: g.streak,
			Outcome:       g.outcome,
		},
	}, nil
}
