package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/napolitain/startup-sim/data"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/platform/logger"
)

func TestEmbeddedCatalogLoads(t *testing.T) {
	catalog, err := NewFS(nil, data.FS(), logger.Discard()).LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}

	if len(catalog.Actions) == 0 || len(catalog.Events) == 0 || len(catalog.Profiles) == 0 {
		t.Fatalf("Empty catalog: %d actions, %d events, %d profiles",
			len(catalog.Actions), len(catalog.Events), len(catalog.Profiles))
	}

	for _, id := range []string{"bootstrapped", "vc_backed", "viral_app"} {
		if _, ok := catalog.Profile(id); !ok {
			t.Errorf("Profile %s missing", id)
		}
	}

	fundraise, ok := catalog.Action("fundraise")
	if !ok || fundraise.Risk == nil {
		t.Fatal("fundraise should be a risky action")
	}
	if fundraise.Risk.Success.Narrative == "" || fundraise.Risk.Failure.Narrative == "" {
		t.Error("risk branches should carry narratives")
	}

	competitor, ok := catalog.Event("competitor_launch")
	if !ok {
		t.Fatal("competitor_launch missing")
	}
	if competitor.Revert[models.Revenue] != 6000 {
		t.Errorf("competitor_launch should auto-revert revenue, got %v", competitor.Revert)
	}

	burnout, _ := catalog.Event("burnout_wave")
	if len(burnout.Revert) != 0 {
		t.Errorf("persistent event should not auto-revert, got %v", burnout.Revert)
	}
}

func TestLegacyKeys(t *testing.T) {
	fsys := fstest.MapFS{
		ActionsFile: {Data: []byte(`[
			{"key": "launch", "name": "Launch", "description": "Ship it", "cost": 2500,
			 "impact": {"users": 100, "team_morale": -2}},
			{"id": "gamble", "cost": 100, "risk": {
				"success_chance": 1.7,
				"success_effects": {"balance": 1000}, "success_narrative": "won",
				"failure_effects": {"balance": -10}, "failure_narrative": "lost"}}
		]`)},
		EventsFile: {Data: []byte(`[
			{"id": "slump", "probability": 1.5, "turns": 3, "deltas": {"monthly_revenue": -500}},
			{"id": "blip", "trigger_chance": -0.2, "duration_turns": 0, "impact": {"brand_awareness": 1}},
			{"id": "grant", "chance": 0.1, "duration": 2, "effects": {"cash": 10}, "revert_deltas": {"cash": -1}}
		]`)},
		ProfilesFile: {Data: []byte(`[{"id": "solo", "stats": {"balance": 10, "product_quality": 20}}]`)},
	}

	catalog, err := NewFS(fsys, nil, logger.Discard()).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	launch, ok := catalog.Action("launch")
	if !ok {
		t.Fatal("key should alias id")
	}
	if launch.Narrative != "Ship it" {
		t.Errorf("description should alias narrative, got %q", launch.Narrative)
	}
	if launch.Costs[models.Cash] != 2500 {
		t.Errorf("cost should target cash, got %v", launch.Costs)
	}
	if launch.Effects[models.Morale] != -2 || launch.Effects[models.Users] != 100 {
		t.Errorf("impact should alias effects, got %v", launch.Effects)
	}

	gamble, _ := catalog.Action("gamble")
	if gamble.Risk.SuccessChance != 1 {
		t.Errorf("success chance should clamp to 1, got %v", gamble.Risk.SuccessChance)
	}
	if gamble.Risk.Failure.Effects[models.Cash] != -10 || gamble.Risk.Failure.Narrative != "lost" {
		t.Errorf("flat risk keys not read: %+v", gamble.Risk.Failure)
	}

	slump, _ := catalog.Event("slump")
	if slump.Chance != 1 || slump.Duration != 3 {
		t.Errorf("slump chance/duration = %v/%d, want 1/3", slump.Chance, slump.Duration)
	}
	if slump.Revert[models.Revenue] != 500 {
		t.Errorf("slump should auto-revert, got %v", slump.Revert)
	}

	blip, _ := catalog.Event("blip")
	if blip.Chance != 0 || blip.Duration != 1 {
		t.Errorf("blip chance/duration = %v/%d, want 0/1", blip.Chance, blip.Duration)
	}
	if len(blip.Revert) != 0 {
		t.Errorf("single-turn event should not auto-revert, got %v", blip.Revert)
	}

	grant, _ := catalog.Event("grant")
	if grant.Revert[models.Cash] != -1 {
		t.Errorf("explicit revert should win, got %v", grant.Revert)
	}

	solo, _ := catalog.Profile("solo")
	if solo.Name != "solo" || solo.Stats[models.Cash] != 10 || solo.Stats[models.Product] != 20 {
		t.Errorf("profile not converted: %+v", solo)
	}
}

func TestFallbackPerFile(t *testing.T) {
	primary := fstest.MapFS{
		ActionsFile: {Data: []byte(`[{"id": "only_action", "effects": {"cash": 1}}]`)},
	}
	var logs strings.Builder
	l := NewFS(primary, data.FS(), logger.New(&logs, false))

	catalog, err := l.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(catalog.Actions) != 1 {
		t.Errorf("actions should come from the data path, got %d", len(catalog.Actions))
	}
	if len(catalog.Events) == 0 {
		t.Error("events should fall back to the built-in catalog")
	}
	if !strings.Contains(logs.String(), "events.json not found") {
		t.Errorf("expected fallback warning, got %q", logs.String())
	}
}

func TestMissingWithoutFallback(t *testing.T) {
	_, err := NewFS(fstest.MapFS{}, nil, logger.Discard()).LoadActions()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestUnknownMetricIsAnError(t *testing.T) {
	fsys := fstest.MapFS{
		ActionsFile: {Data: []byte(`[{"id": "hype", "effects": {"vibes": 10}}]`)},
	}
	_, err := NewFS(fsys, nil, logger.Discard()).LoadActions()
	if err == nil || !strings.Contains(err.Error(), `unknown metric "vibes"`) {
		t.Fatalf("expected unknown metric error, got %v", err)
	}
}

func TestDuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		ActionsFile:  {Data: []byte(`[{"id": "a"}, {"key": "a"}]`)},
		EventsFile:   {Data: []byte(`[]`)},
		ProfilesFile: {Data: []byte(`[]`)},
	}
	if _, err := NewFS(fsys, nil, logger.Discard()).LoadCatalog(); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestMalformedJSON(t *testing.T) {
	fsys := fstest.MapFS{EventsFile: {Data: []byte(`{not json`)}}
	_, err := NewFS(fsys, nil, logger.Discard()).LoadEvents()
	if err == nil || !strings.Contains(err.Error(), "failed to parse events.json") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
