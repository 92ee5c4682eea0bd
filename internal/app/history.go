package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	historyMaxAge     = 30 * 24 * time.Hour
	historyMaxEntries = 10
)

// Visit is one repository browsed in an earlier session
type Visit struct {
	Repo     string    `json:"repo"`
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"opened_at"`
}

// HistoryPath is where recent visits are persisted
func HistoryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitweb-history.json"), nil
}

// LoadHistory loads visits newest first and prunes ones older than 30 days
func LoadHistory(path string, now time.Time) []Visit {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []Visit
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	cutoff := now.Add(-historyMaxAge)
	var valid []Visit
	for _, e := range entries {
		if e.OpenedAt.After(cutoff) {
			valid = append(valid, e)
		}
	}

	// Rewrite file if we pruned anything
	if len(valid) != len(entries) {
		_ = saveHistory(path, valid)
	}
	return valid
}

// RecordVisit moves v to the front of the history, replacing an older
// visit of the same repository
func RecordVisit(path string, v Visit) ([]Visit, error) {
	visits := []Visit{v}
	for _, e := range LoadHistory(path, v.OpenedAt) {
		if e.Repo == v.Repo {
			continue
		}
		visits = append(visits, e)
	}
	if len(visits) > historyMaxEntries {
		visits = visits[:historyMaxEntries]
	}
	return visits, saveHistory(path, visits)
}

func saveHistory(path string, visits []Visit) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(visits, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
