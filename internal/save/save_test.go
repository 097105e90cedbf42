package save

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/startup-sim/internal/models"
)

func sampleSave() models.SaveState {
	return models.SaveState{
		Version:   models.SaveSchemaVersion,
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Turn:      7,
		RNGSeed:   42,
		Startup: models.StartupSnapshot{
			Profile: "bootstrapped",
			Metrics: models.Metrics{Cash: 123_456.5, Morale: 64, Valuation: 2e6},
			ActiveEvents: []models.EventInstance{
				{EventID: "market_boom", RemainingDuration: 2},
				{EventID: "tax_audit", RemainingCooldown: 5},
			},
			PlateauStreak: 1,
		},
	}
}

// rewrite decodes the sample into a generic map, lets fn edit it, and re-encodes
func rewrite(t *testing.T, fn func(map[string]any)) []byte {
	t.Helper()
	b, err := Encode(sampleSave())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	fn(m)
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "save.json")
	want := sampleSave()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	assert.True(t, want.Timestamp.Equal(got.Timestamp))
	got.Timestamp = want.Timestamp
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up")
}

func TestEncodedKeys(t *testing.T) {
	b, err := Encode(sampleSave())
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range RequiredKeys {
		assert.Contains(t, m, k)
	}
	assert.Contains(t, string(b), `"rng_seed": 42`)
}

func TestVersionMismatchFails(t *testing.T) {
	b := rewrite(t, func(m map[string]any) { m["version"] = "0.9" })

	_, err := Decode(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.Contains(t, err.Error(), `"0.9"`)
	assert.Contains(t, err.Error(), `"1.0"`)
}

func TestDecodeVersionHonoursExpected(t *testing.T) {
	b, err := Encode(sampleSave())
	require.NoError(t, err)

	_, err = DecodeVersion(b, "2.0")
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestMissingKeysFail(t *testing.T) {
	b := rewrite(t, func(m map[string]any) {
		delete(m, "rng_seed")
		delete(m, "startup")
	})

	_, err := Decode(b)
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "rng_seed")
	assert.Contains(t, err.Error(), "startup")
}

func TestNullRequiredValuesFail(t *testing.T) {
	doc := `{"version":"1.0","timestamp":"2025-03-01T12:00:00Z","turn":null,"rng_seed":null,"startup":null}`

	_, err := Decode([]byte(doc))
	require.ErrorIs(t, err, ErrInvalidField)
	assert.Contains(t, err.Error(), "turn is null")
}

func TestStartupWithoutMetricsFails(t *testing.T) {
	b := rewrite(t, func(m map[string]any) { m["startup"] = map[string]any{} })

	_, err := Decode(b)
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "startup.metrics")
}

func TestInvalidFields(t *testing.T) {
	tests := []struct {
		name string
		edit func(map[string]any)
		want string
	}{
		{"negative turn", func(m map[string]any) { m["turn"] = -1 }, "turn"},
		{"fractional turn", func(m map[string]any) { m["turn"] = 2.5 }, "turn"},
		{"negative seed", func(m map[string]any) { m["rng_seed"] = -4 }, "rng_seed"},
		{"bad timestamp", func(m map[string]any) { m["timestamp"] = "yesterday" }, "timestamp"},
		{"numeric version", func(m map[string]any) { m["version"] = 1 }, "version"},
		{"null turn", func(m map[string]any) { m["turn"] = nil }, "turn"},
		{"null seed", func(m map[string]any) { m["rng_seed"] = nil }, "rng_seed"},
		{"null startup", func(m map[string]any) { m["startup"] = nil }, "startup"},
		{"null version", func(m map[string]any) { m["version"] = nil }, "version"},
		{"startup not an object", func(m map[string]any) { m["startup"] = []any{} }, "startup"},
		{"null metrics", func(m map[string]any) {
			m["startup"].(map[string]any)["metrics"] = nil
		}, "metrics"},
		{"negative event counter", func(m map[string]any) {
			startup := m["startup"].(map[string]any)
			events := startup["active_events"].([]any)
			events[0].(map[string]any)["remaining_duration"] = -2
		}, "market_boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(rewrite(t, tt.edit))
			require.ErrorIs(t, err, ErrInvalidField)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{"), 0o644))
	_, err = Load(garbage)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid save"))
}
