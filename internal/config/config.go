package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/startup-sim/internal/models"
)

// Hard limits applied by Normalize regardless of file or flag input
const (
	ActionLimitFloor   = 1
	ActionLimitCeiling = 5
	DefaultSeed        = 42
	DefaultSavePath    = "save.json"
)

// Config is the explicit game configuration passed to the simulator
type Config struct {
	Seed          int64                   `yaml:"seed" json:"seed"`
	Profile       string                  `yaml:"profile" json:"profile"`
	SavePath      string                  `yaml:"save_path" json:"save_path"`
	Autosave      bool                    `yaml:"autosave" json:"autosave"`
	Actions       ActionLimits            `yaml:"actions" json:"actions"`
	Events        EventRules              `yaml:"events" json:"events"`
	Bounds        map[models.Metric]Range `yaml:"bounds" json:"bounds"`
	Baseline      models.Metrics          `yaml:"baseline" json:"baseline"`
	EndConditions EndConditions           `yaml:"end_conditions" json:"end_conditions"`
	Economy       Economy                 `yaml:"economy" json:"economy"`
}

// ActionLimits bounds how many actions a player takes per turn
type ActionLimits struct {
	PerTurn int `yaml:"per_turn" json:"per_turn"`
	Min     int `yaml:"min" json:"min"`
	Max     int `yaml:"max" json:"max"`
}

// EventRules tunes the random event roll
type EventRules struct {
	ChanceWeight float64 `yaml:"chance_weight" json:"chance_weight"`
	MaxPerTurn   int     `yaml:"max_per_turn" json:"max_per_turn"`
}

// Range is an inclusive clamp interval. A nil Max is unbounded.
type Range struct {
	Min float64  `yaml:"min" json:"min"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Clamp returns v limited to the range
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if v < r.Min {
		return r.Min
	}
	if r.Max != nil && v > *r.Max {
		return *r.Max
	}
	return v
}

// Bounded reports whether the range has an upper limit
func (r Range) Bounded() bool {
	return r.Max != nil
}

// EndConditions holds the thresholds checked after every turn
type EndConditions struct {
	IPOValuation          float64 `yaml:"ipo_valuation" json:"ipo_valuation"`
	AcquisitionReputation float64 `yaml:"acquisition_reputation" json:"acquisition_reputation"`
	AcquisitionUsers      float64 `yaml:"acquisition_users" json:"acquisition_users"`
	CashFloor             float64 `yaml:"cash_floor" json:"cash_floor"`
	MoraleFloor           float64 `yaml:"morale_floor" json:"morale_floor"`
	PlateauMorale         float64 `yaml:"plateau_morale" json:"plateau_morale"`
	PlateauValuation      float64 `yaml:"plateau_valuation" json:"plateau_valuation"`
	PlateauTurns          int     `yaml:"plateau_turns" json:"plateau_turns"`
	MaxTurns              int     `yaml:"max_turns" json:"max_turns"`
}

// Economy controls the monthly settlement step
type Economy struct {
	Enabled            bool     `yaml:"enabled" json:"enabled"`
	Variance           bool     `yaml:"variance" json:"variance"`
	RevenueVariance    Interval `yaml:"revenue_variance" json:"revenue_variance"`
	ExpenseVariance    Interval `yaml:"expense_variance" json:"expense_variance"`
	RevenueMultiple    float64  `yaml:"revenue_multiple" json:"revenue_multiple"`
	ValuePerUser       float64  `yaml:"value_per_user" json:"value_per_user"`
	ValuePerReputation float64  `yaml:"value_per_reputation" json:"value_per_reputation"`
	ValuationDrift     float64  `yaml:"valuation_drift" json:"valuation_drift"`
}

// Interval is a [Low, High] fraction used for multiplicative jitter
type Interval struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

func ptr(v float64) *float64 { return &v }

// DefaultBounds returns the clamp range of every metric
func DefaultBounds() map[models.Metric]Range {
	return map[models.Metric]Range{
		models.Cash:       {Min: 0},
		models.Revenue:    {Min: 0},
		models.Expenses:   {Min: 0},
		models.Users:      {Min: 0},
		models.Morale:     {Min: 0, Max: ptr(100)},
		models.Reputation: {Min: 0, Max: ptr(100)},
		models.Product:    {Min: 0, Max: ptr(100)},
		models.Valuation:  {Min: 0},
	}
}

// Default returns the standard game configuration
func Default() Config {
	return Config{
		Seed:     DefaultSeed,
		Profile:  "bootstrapped",
		SavePath: DefaultSavePath,
		Actions:  ActionLimits{PerTurn: 2, Min: 1, Max: 3},
		Events:   EventRules{ChanceWeight: 0.35, MaxPerTurn: 1},
		Bounds:   DefaultBounds(),
		Baseline: models.Metrics{
			Cash:       500_000,
			Revenue:    45_000,
			Expenses:   110_000,
			Users:      1_500,
			Morale:     70,
			Reputation: 40,
			Product:    60,
			Valuation:  3_000_000,
		},
		EndConditions: EndConditions{
			IPOValuation:          25_000_000,
			AcquisitionReputation: 85,
			AcquisitionUsers:      250_000,
			CashFloor:             0,
			MoraleFloor:           10,
			PlateauMorale:         80,
			PlateauValuation:      5_000_000,
			PlateauTurns:          3,
			MaxTurns:              60,
		},
		Economy: Economy{
			Enabled:            true,
			Variance:           false,
			RevenueVariance:    Interval{Low: -0.01, High: 0.015},
			ExpenseVariance:    Interval{Low: -0.008, High: 0.012},
			RevenueMultiple:    5,
			ValuePerUser:       50,
			ValuePerReputation: 10_000,
			ValuationDrift:     0.25,
		},
	}
}

// Casual returns a forgiving preset with more actions and fewer events
func Casual() Config {
	c := Default()
	c.Actions.PerTurn = 3
	c.Events.ChanceWeight = 0.25
	c.EndConditions.MoraleFloor = 5
	c.EndConditions.IPOValuation = 15_000_000
	return c
}

// Hard returns a punishing preset with one action and frequent events
func Hard() Config {
	c := Default()
	c.Actions.PerTurn = 1
	c.Events.ChanceWeight = 0.5
	c.Events.MaxPerTurn = 2
	c.EndConditions.MoraleFloor = 20
	c.Economy.Variance = true
	return c
}

// Preset returns a named preset
func Preset(name string) (Config, error) {
	switch name {
	case "", "default", "normal":
		return Default(), nil
	case "casual":
		return Casual(), nil
	case "hard":
		return Hard(), nil
	}
	return Config{}, fmt.Errorf("unknown preset %q", name)
}

// Load reads a YAML config file layered over the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Bound returns the clamp range for a metric
func (c *Config) Bound(m models.Metric) Range {
	if r, ok := c.Bounds[m]; ok {
		return r
	}
	return DefaultBounds()[m]
}

// ActionsPerTurn returns the per-turn action count after clamping
func (c *Config) ActionsPerTurn() int {
	return clampInt(c.Actions.PerTurn, c.Actions.Min, c.Actions.Max)
}

// Normalize clamps every out-of-range value into a playable range
func (c *Config) Normalize() {
	c.Actions.Min = clampInt(c.Actions.Min, ActionLimitFloor, ActionLimitCeiling)
	c.Actions.Max = clampInt(c.Actions.Max, c.Actions.Min, ActionLimitCeiling)
	c.Actions.PerTurn = clampInt(c.Actions.PerTurn, c.Actions.Min, c.Actions.Max)

	c.Events.ChanceWeight = clampFloat(c.Events.ChanceWeight, 0, 1)
	if c.Events.MaxPerTurn < 0 {
		c.Events.MaxPerTurn = 0
	}

	if c.Seed < 0 {
		c.Seed = 0
	}
	if c.SavePath == "" {
		c.SavePath = DefaultSavePath
	}

	defaults := DefaultBounds()
	if c.Bounds == nil {
		c.Bounds = defaults
	}
	for m, r := range defaults {
		if _, ok := c.Bounds[m]; !ok {
			c.Bounds[m] = r
		}
	}
	for m, r := range c.Bounds {
		if r.Max != nil && *r.Max < r.Min {
			r.Max = ptr(r.Min)
			c.Bounds[m] = r
		}
	}
	for _, m := range models.AllMetrics() {
		c.Baseline.Set(m, c.Bound(m).Clamp(c.Baseline.Get(m)))
	}

	e := &c.EndConditions
	e.IPOValuation = math.Max(0, e.IPOValuation)
	e.PlateauTurns = max(1, e.PlateauTurns)
	e.MaxTurns = max(0, e.MaxTurns)
	e.MoraleFloor = c.Bound(models.Morale).Clamp(e.MoraleFloor)
	e.PlateauMorale = c.Bound(models.Morale).Clamp(e.PlateauMorale)
	e.AcquisitionReputation = c.Bound(models.Reputation).Clamp(e.AcquisitionReputation)

	eco := &c.Economy
	eco.RevenueVariance = eco.RevenueVariance.normalize()
	eco.ExpenseVariance = eco.ExpenseVariance.normalize()
	eco.ValuationDrift = clampFloat(eco.ValuationDrift, 0, 1)
	eco.RevenueMultiple = math.Max(0, eco.RevenueMultiple)
	eco.ValuePerUser = math.Max(0, eco.ValuePerUser)
	eco.ValuePerReputation = math.Max(0, eco.ValuePerReputation)
}

func (i Interval) normalize() Interval {
	i.Low = clampFloat(i.Low, -0.5, 0.5)
	i.High = clampFloat(i.High, -0.5, 0.5)
	if i.High < i.Low {
		i.Low, i.High = i.High, i.Low
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
