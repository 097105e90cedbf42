package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/napolitain/startup-sim/data"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/platform/logger"
)

// Catalog file names
const (
	ActionsFile  = "actions.json"
	EventsFile   = "events.json"
	ProfilesFile = "profiles.json"
)

// Loader reads catalog documents from a directory, falling back to a
// second filesystem per file when the first one lacks it
type Loader struct {
	primary  fs.FS
	fallback fs.FS
	log      *logger.Logger
}

// New returns a loader for dataPath backed by the embedded catalogs.
// An empty dataPath reads only the embedded files.
func New(dataPath string, log *logger.Logger) *Loader {
	var primary fs.FS
	if dataPath != "" {
		primary = os.DirFS(dataPath)
	}
	return NewFS(primary, data.FS(), log)
}

// NewFS returns a loader over arbitrary filesystems; either may be nil
func NewFS(primary, fallback fs.FS, log *logger.Logger) *Loader {
	return &Loader{primary: primary, fallback: fallback, log: log}
}

func (l *Loader) readFile(name string) ([]byte, error) {
	if l.primary != nil {
		b, err := fs.ReadFile(l.primary, name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || l.fallback == nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		l.log.Warnf("%s not found in data path, using built-in catalog", name)
	}
	if l.fallback == nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, fs.ErrNotExist)
	}
	b, err := fs.ReadFile(l.fallback, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return b, nil
}

func (l *Loader) decode(name string, v any) error {
	b, err := l.readFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadCatalog loads and indexes actions, events and profiles
func (l *Loader) LoadCatalog() (*models.Catalog, error) {
	actions, err := l.LoadActions()
	if err != nil {
		return nil, err
	}
	events, err := l.LoadEvents()
	if err != nil {
		return nil, err
	}
	profiles, err := l.LoadProfiles()
	if err != nil {
		return nil, err
	}
	catalog, err := models.NewCatalog(actions, events, profiles)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	l.log.Infof("loaded %d actions, %d events, %d profiles", len(actions), len(events), len(profiles))
	return catalog, nil
}

// LoadProfiles loads starting profiles from profiles.json
func (l *Loader) LoadProfiles() ([]*models.Profile, error) {
	var raw []profileJSON
	if err := l.decode(ProfilesFile, &raw); err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, len(raw))
	for i, pj := range raw {
		if pj.ID == "" {
			return nil, fmt.Errorf("profile at index %d has no id", i)
		}
		stats := make(map[models.Metric]float64, len(pj.Stats))
		for name, v := range pj.Stats {
			m, err := models.ParseMetric(name)
			if err != nil {
				return nil, fmt.Errorf("profile %q: %w", pj.ID, err)
			}
			stats[m] = v
		}
		profiles = append(profiles, &models.Profile{
			ID:          pj.ID,
			Name:        firstNonEmpty(pj.Name, pj.ID),
			Description: pj.Description,
			Stats:       stats,
		})
	}
	return profiles, nil
}

// profileJSON represents the JSON structure for a profile
type profileJSON struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Stats       map[string]float64 `json:"stats"`
}

// parseDeltas resolves metric names in a raw mapping
func parseDeltas(raw map[string]float64, owner string) (models.Deltas, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(models.Deltas, len(raw))
	for name, v := range raw {
		m, err := models.ParseMetric(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
		out[m] += v
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
