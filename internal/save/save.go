// Package save reads and writes the JSON save record.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/napolitain/startup-sim/internal/models"
)

var (
	ErrMissingKey      = errors.New("missing required key")
	ErrVersionMismatch = errors.New("save version mismatch")
	ErrInvalidField    = errors.New("invalid field")
)

// RequiredKeys are the top-level keys every save must carry
var RequiredKeys = []string{"version", "timestamp", "turn", "rng_seed", "startup"}

// Encode renders a save record as indented JSON
func Encode(s models.SaveState) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses and validates a save record against the current schema version
func Decode(b []byte) (models.SaveState, error) {
	return DecodeVersion(b, models.SaveSchemaVersion)
}

// DecodeVersion parses a save record, requiring the given schema version.
// Checks run in order: keys present and non-null, startup shape, version,
// field values.
func DecodeVersion(b []byte, want string) (models.SaveState, error) {
	var s models.SaveState

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return s, fmt.Errorf("failed to parse save: %w", err)
	}

	var missing []string
	for _, k := range RequiredKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return s, fmt.Errorf("%w: %v", ErrMissingKey, missing)
	}
	for _, k := range RequiredKeys {
		if isNull(raw[k]) {
			return s, fmt.Errorf("%w: %s is null", ErrInvalidField, k)
		}
	}

	var startup map[string]json.RawMessage
	if err := json.Unmarshal(raw["startup"], &startup); err != nil {
		return s, fmt.Errorf("%w: startup must be an object", ErrInvalidField)
	}
	metrics, ok := startup["metrics"]
	if !ok {
		return s, fmt.Errorf("%w: startup.metrics", ErrMissingKey)
	}
	if isNull(metrics) {
		return s, fmt.Errorf("%w: startup.metrics is null", ErrInvalidField)
	}

	var version string
	if err := json.Unmarshal(raw["version"], &version); err != nil {
		return s, fmt.Errorf("%w: version must be a string", ErrInvalidField)
	}
	if version != want {
		return s, fmt.Errorf("%w: file has %q, expected %q", ErrVersionMismatch, version, want)
	}

	var ts string
	if err := json.Unmarshal(raw["timestamp"], &ts); err != nil {
		return s, fmt.Errorf("%w: timestamp must be a string", ErrInvalidField)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		return s, fmt.Errorf("%w: timestamp %q is not RFC 3339", ErrInvalidField, ts)
	}

	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	if err := validate(s); err != nil {
		return s, err
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func validate(s models.SaveState) error {
	if s.Turn < 0 {
		return fmt.Errorf("%w: turn %d is negative", ErrInvalidField, s.Turn)
	}
	if s.RNGSeed < 0 {
		return fmt.Errorf("%w: rng_seed %d is negative", ErrInvalidField, s.RNGSeed)
	}
	for _, inst := range s.Startup.ActiveEvents {
		if inst.EventID == "" {
			return fmt.Errorf("%w: active event without id", ErrInvalidField)
		}
		if inst.RemainingDuration < 0 || inst.RemainingCooldown < 0 {
			return fmt.Errorf("%w: event %q has negative counters", ErrInvalidField, inst.EventID)
		}
	}
	if s.Startup.PlateauStreak < 0 {
		return fmt.Errorf("%w: plateau_streak is negative", ErrInvalidField)
	}
	return nil
}

// Save writes the record to path through a temp file and rename
func Save(path string, s models.SaveState) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp save: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace save: %w", err)
	}
	return nil
}

// Load reads and validates the save at path
func Load(path string) (models.SaveState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.SaveState{}, fmt.Errorf("failed to read save %s: %w", path, err)
	}
	s, err := Decode(b)
	if err != nil {
		return s, fmt.Errorf("invalid save %s: %w", path, err)
	}
	return s, nil
}
