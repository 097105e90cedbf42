package models

import "time"

// SaveSchemaVersion is the save format version this build reads and writes
const SaveSchemaVersion = "1.0"

// OutcomeKind classifies how a game ended
type OutcomeKind string

const (
	OutcomeNone    OutcomeKind = ""
	OutcomeWin     OutcomeKind = "win"
	OutcomeLoss    OutcomeKind = "loss"
	OutcomeNeutral OutcomeKind = "neutral"
)

// Outcome reasons
const (
	ReasonIPO          = "ipo"
	ReasonAcquisition  = "acquisition"
	ReasonBankrupt     = "bankrupt"
	ReasonTeamCollapse = "team_collapse"
	ReasonPlateau      = "plateau"
	ReasonTimeUp       = "time_up"
)

// Outcome is the terminal result of a game
type Outcome struct {
	Kind   OutcomeKind `json:"kind,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// Over reports whether the game has ended
func (o Outcome) Over() bool {
	return o.Kind != OutcomeNone
}

// StartupSnapshot is the persisted form of a company mid-game
type StartupSnapshot struct {
	Profile       string          `json:"profile"`
	Metrics       Metrics         `json:"metrics"`
	ActiveEvents  []EventInstance `json:"active_events"`
	PlateauStreak int             `json:"plateau_streak"`
	Outcome       Outcome         `json:"outcome"`
}

// SaveState is the on-disk save record
type SaveState struct {
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Turn      int             `json:"turn"`
	RNGSeed   int64           `json:"rng_seed"`
	Startup   StartupSnapshot `json:"startup"`
}
