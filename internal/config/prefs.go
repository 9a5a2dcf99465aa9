package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the viewer preferences file, relative to the process working directory.
const PrefsPath = "config/viewer.json"

// Prefs holds viewer-only preferences (grid, spin, colors). Persisted across runs.
type Prefs struct {
	GridVisible bool    `json:"grid_visible"`
	AutoRotate  bool    `json:"auto_rotate"`
	RotateSpeed float32 `json:"rotate_speed"` // radians per frame
	Background  string  `json:"background"`   // hex, e.g. "#0F172A"
	LogPath     string  `json:"log_path,omitempty"`
	Platform    string  `json:"platform,omitempty"`
}

// DefaultPrefs returns the default viewer preferences (grid off, slow spin, dark slate).
func DefaultPrefs() Prefs {
	return Prefs{
		GridVisible: false,
		AutoRotate:  true,
		RotateSpeed: 0.01,
		Background:  "#0F172A",
		LogPath:     "logs/burger.txt",
		Platform:    "desktop",
	}
}

// LoadPrefs reads preferences from path. A missing or invalid file yields DefaultPrefs and
// no error; the file is not created.
func LoadPrefs(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPrefs(), nil
	}
	p := DefaultPrefs()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs(), nil
	}
	return p, nil
}

// SavePrefs writes preferences to path, creating the directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
