package sim

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// rotatingPolicy picks up to MaxActions affordable actions, starting at an
// offset that moves each turn so the whole catalog gets exercised
func rotatingPolicy(g *Game) []string {
	avail := g.AvailableActions()
	if len(avail) == 0 {
		return nil
	}
	var ids []string
	for i := 0; i < g.MaxActions() && i < len(avail); i++ {
		ids = append(ids, avail[(g.Turn()+i)%len(avail)].ID)
	}
	return ids
}

type turnDigest struct {
	Turn     int
	Events   []string
	Actions  []string
	Rejected []string
	Metrics  models.Metrics
	Outcome  models.Outcome
}

func digest(r *TurnReport, m models.Metrics) turnDigest {
	d := turnDigest{Turn: r.Turn, Metrics: m, Outcome: r.Outcome}
	for _, ev := range r.Events {
		d.Events = append(d.Events, string(ev.Phase)+":"+ev.Event.ID)
	}
	for _, a := range r.Actions {
		d.Actions = append(d.Actions, a.Action.ID+":"+a.Narrative)
	}
	for _, rej := range r.Rejected {
		d.Rejected = append(d.Rejected, rej.ActionID)
	}
	return d
}

func variedConfig() config.Config {
	cfg := config.Default()
	cfg.Economy.Variance = true
	cfg.Events.MaxPerTurn = 2
	cfg.EndConditions.MaxTurns = 40
	return cfg
}

func playTranscript(t testing.TB, catalog *models.Catalog, cfg config.Config, seed int64, turns int) []turnDigest {
	g, err := NewGame(cfg, catalog, "bootstrapped", seed)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	var out []turnDigest
	for i := 0; i < turns && !g.Over(); i++ {
		report, err := g.PlayTurn(rotatingPolicy(g))
		if err != nil {
			t.Fatalf("PlayTurn: %v", err)
		}
		out = append(out, digest(report, g.Metrics()))
	}
	return out
}

func hashTranscript(t testing.TB, transcript []turnDigest) string {
	b, err := json.Marshal(transcript)
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// TestGameDeterminism verifies that a fixed seed reproduces the same run
// turn for turn, including event rolls, risk outcomes and economy jitter
func TestGameDeterminism(t *testing.T) {
	catalog := embeddedCatalog(t)
	cfg := variedConfig()

	const iterations = 25
	baseline := playTranscript(t, catalog, cfg, 42, 40)
	if len(baseline) == 0 {
		t.Fatal("baseline played no turns")
	}
	baseHash := hashTranscript(t, baseline)
	t.Logf("Baseline: %d turns, outcome=%+v, hash=%s", len(baseline), baseline[len(baseline)-1].Outcome, baseHash[:12])

	for i := 1; i < iterations; i++ {
		got := hashTranscript(t, playTranscript(t, catalog, cfg, 42, 40))
		if got != baseHash {
			t.Fatalf("Iteration %d: transcript hash mismatch: got %s, want %s", i, got, baseHash)
		}
	}

	other := hashTranscript(t, playTranscript(t, catalog, cfg, 43, 40))
	if other == baseHash {
		t.Error("different seeds produced identical runs")
	}
}

// TestResumeMatchesUninterruptedRun saves mid-game, restores from the JSON
// record and checks the rest of the run is unchanged
func TestResumeMatchesUninterruptedRun(t *testing.T) {
	catalog := embeddedCatalog(t)
	cfg := variedConfig()
	cfg.EndConditions.MaxTurns = 0
	const split, total = 5, 12

	full := playTranscript(t, catalog, cfg, 9, total)

	g, err := NewGame(cfg, catalog, "bootstrapped", 9)
	require.NoError(t, err)
	var resumed []turnDigest
	for i := 0; i < split && !g.Over(); i++ {
		report, err := g.PlayTurn(rotatingPolicy(g))
		require.NoError(t, err)
		resumed = append(resumed, digest(report, g.Metrics()))
	}

	snap, err := g.Snapshot(fixedNow)
	require.NoError(t, err)
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded models.SaveState
	require.NoError(t, json.Unmarshal(b, &decoded))

	g2, err := Restore(cfg, catalog, decoded)
	require.NoError(t, err)
	assert.Equal(t, g.Turn(), g2.Turn())
	assert.Equal(t, g.Metrics(), g2.Metrics())

	for len(resumed) < total && !g2.Over() {
		report, err := g2.PlayTurn(rotatingPolicy(g2))
		require.NoError(t, err)
		resumed = append(resumed, digest(report, g2.Metrics()))
	}

	assert.Equal(t, full, resumed)
}

func TestSnapshotFields(t *testing.T) {
	g, err := NewGame(quietConfig(), newCatalog(t, testActions(), testEvents()), "", 11)
	require.NoError(t, err)
	_, err = g.PlayTurn([]string{"ship"})
	require.NoError(t, err)

	snap, err := g.Snapshot(fixedNow.In(time.FixedZone("X", 3600)))
	require.NoError(t, err)
	assert.Equal(t, models.SaveSchemaVersion, snap.Version)
	assert.Equal(t, 2, snap.Turn)
	assert.Equal(t, int64(11), snap.RNGSeed)
	assert.Equal(t, time.UTC, snap.Timestamp.Location())
	assert.Equal(t, g.Metrics(), snap.Startup.Metrics)
}

func TestPlayTurnRecordsRejections(t *testing.T) {
	g, err := NewGame(quietConfig(), newCatalog(t, testActions(), nil), "", 1)
	require.NoError(t, err)

	report, err := g.PlayTurn([]string{"ship", "ship", "bogus"})
	require.NoError(t, err)
	assert.Len(t, report.Actions, 1)
	require.Len(t, report.Rejected, 2)
	assert.ErrorIs(t, report.Rejected[0].Err, ErrActionRepeat)
	assert.ErrorIs(t, report.Rejected[1].Err, ErrUnknownAction)
	assert.Equal(t, 2, g.Turn())
}

func TestGameEndsAndRefusesMoreTurns(t *testing.T) {
	cfg := quietConfig()
	cfg.Economy.Enabled = true
	catalog := newCatalog(t, testActions(), nil, &models.Profile{
		ID:    "doomed",
		Stats: map[models.Metric]float64{models.Cash: 10_000, models.Revenue: 0, models.Expenses: 50_000},
	})
	g, err := NewGame(cfg, catalog, "doomed", 1)
	require.NoError(t, err)

	report, err := g.PlayTurn(nil)
	require.NoError(t, err)
	assert.Equal(t, models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonBankrupt}, report.Outcome)
	assert.True(t, g.Over())

	_, err = g.BeginTurn()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestEvaluate(t *testing.T) {
	ec := config.Default().EndConditions
	healthy := models.Metrics{Cash: 100_000, Morale: 60, Valuation: 1_000_000, Reputation: 40, Users: 1000}

	with := func(fn func(*models.Metrics)) models.Metrics {
		m := healthy
		fn(&m)
		return m
	}

	tests := []struct {
		name   string
		m      models.Metrics
		turn   int
		streak int
		want   models.Outcome
	}{
		{"ongoing", healthy, 3, 0, models.Outcome{}},
		{"bankrupt", with(func(m *models.Metrics) { m.Cash = 0 }), 3, 0,
			models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonBankrupt}},
		{"team collapse", with(func(m *models.Metrics) { m.Morale = ec.MoraleFloor }), 3, 0,
			models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonTeamCollapse}},
		{"bankrupt beats ipo", with(func(m *models.Metrics) { m.Cash = 0; m.Valuation = 1e9 }), 3, 0,
			models.Outcome{Kind: models.OutcomeLoss, Reason: models.ReasonBankrupt}},
		{"ipo", with(func(m *models.Metrics) { m.Valuation = ec.IPOValuation }), 3, 0,
			models.Outcome{Kind: models.OutcomeWin, Reason: models.ReasonIPO}},
		{"acquisition", with(func(m *models.Metrics) { m.Reputation = 90; m.Users = ec.AcquisitionUsers }), 3, 0,
			models.Outcome{Kind: models.OutcomeWin, Reason: models.ReasonAcquisition}},
		{"plateau building", with(func(m *models.Metrics) { m.Morale = 85; m.Valuation = 6e6 }), 3, ec.PlateauTurns - 2,
			models.Outcome{}},
		{"plateau reached", with(func(m *models.Metrics) { m.Morale = 85; m.Valuation = 6e6 }), 3, ec.PlateauTurns - 1,
			models.Outcome{Kind: models.OutcomeNeutral, Reason: models.ReasonPlateau}},
		{"time up", healthy, ec.MaxTurns, 0,
			models.Outcome{Kind: models.OutcomeNeutral, Reason: models.ReasonTimeUp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := evaluate(tt.m, ec, tt.turn, tt.streak)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlateauStreakResets(t *testing.T) {
	ec := config.Default().EndConditions
	high := models.Metrics{Cash: 1, Morale: 90, Valuation: 6e6}
	low := models.Metrics{Cash: 1, Morale: 50, Valuation: 6e6}

	_, streak := evaluate(high, ec, 1, 0)
	assert.Equal(t, 1, streak)
	_, streak = evaluate(high, ec, 2, streak)
	assert.Equal(t, 2, streak)
	_, streak = evaluate(low, ec, 3, streak)
	assert.Equal(t, 0, streak)
}
