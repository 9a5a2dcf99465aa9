package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"burgerstack/internal/stack"
)

// StackPath is the stacking configuration file, relative to the process working directory.
const StackPath = "config/burger.yaml"

// Stack is the tunable data behind a burger rebuild. The advance factors were tuned by eye;
// they live here rather than in code so they can be adjusted while the viewer runs.
type Stack struct {
	// Assets maps ingredient type to a GLB path under AssetDir (or under AssetBaseURL).
	Assets       map[string]string `yaml:"assets"`
	AssetDir     string            `yaml:"asset_dir"`
	AssetBaseURL string            `yaml:"asset_base_url,omitempty"`
	AssetCache   string            `yaml:"asset_cache,omitempty"`

	Advance        map[string]float32 `yaml:"advance"`
	DefaultAdvance float32            `yaml:"default_advance"`
	MinAdvance     float32            `yaml:"min_advance"`
	LayerGap       float32            `yaml:"layer_gap"`
	MinGap         float32            `yaml:"min_gap"`

	TargetHeight   float32  `yaml:"target_height"`
	Zoom           float32  `yaml:"zoom"`
	CameraOffsetY  float32  `yaml:"camera_offset_y"`
	FOV            float32  `yaml:"fov"`
	HideDecoration bool     `yaml:"hide_decoration"`
	HideNames      []string `yaml:"hide_names"`
}

// DefaultStack returns the shipped tuning.
func DefaultStack() Stack {
	t := stack.DefaultAdvanceTable()
	return Stack{
		Assets: map[string]string{
			"panarriba": "models/burger/panarriba.glb",
			"lechuga":   "models/burger/lechuga.glb",
			"queso":     "models/burger/queso.glb",
			"carne":     "models/burger/carne.glb",
			"tomates":   "models/burger/tomates.glb",
			"panabajo":  "models/burger/panabajo.glb",
		},
		AssetDir:       "assets",
		Advance:        t.Factors,
		DefaultAdvance: t.Default,
		MinAdvance:     t.MinAdvance,
		LayerGap:       0,
		MinGap:         0,
		TargetHeight:   4.5,
		Zoom:           1.8,
		CameraOffsetY:  0.5,
		FOV:            45,
		HideDecoration: true,
		HideNames:      []string{"seed", "semilla", "sesame"},
	}
}

// AdvanceTable converts the configured factors.
func (s Stack) AdvanceTable() stack.AdvanceTable {
	return stack.AdvanceTable{Factors: s.Advance, Default: s.DefaultAdvance, MinAdvance: s.MinAdvance}
}

// Gap is the space added between layers: the larger of LayerGap and MinGap.
// MinGap defaults to 0, so the default config stacks layers with no gap.
func (s Stack) Gap() float32 {
	return max(s.LayerGap, s.MinGap)
}

// NormalizeOptions returns the decoration filter, empty when hiding is off.
func (s Stack) NormalizeOptions() stack.NormalizeOptions {
	if !s.HideDecoration {
		return stack.NormalizeOptions{}
	}
	return stack.NormalizeOptions{HideSubstrings: s.HideNames}
}

// Validate reports values that would break a rebuild.
func (s Stack) Validate() error {
	var errs []error
	if s.TargetHeight <= 0 {
		errs = append(errs, fmt.Errorf("target_height must be > 0, got %v", s.TargetHeight))
	}
	if s.FOV <= 0 || s.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180), got %v", s.FOV))
	}
	if s.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("zoom must be > 0, got %v", s.Zoom))
	}
	for typ, f := range s.Advance {
		if f < 0 {
			errs = append(errs, fmt.Errorf("advance[%s] must be >= 0, got %v", typ, f))
		}
	}
	return errors.Join(errs...)
}

// LoadStack reads path over DefaultStack, so the file only needs the keys it changes.
// A missing file yields the defaults; a malformed or invalid file is an error.
func LoadStack(path string) (Stack, error) {
	s := DefaultStack()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultStack(), fmt.Errorf("config: %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return DefaultStack(), fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}
