// Package config loads the JSON settings file shared by the command line
// tools. Missing files and missing fields fall back to defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Kernel backends.
const (
	KernelBSP  = "bsp"
	KernelSDFX = "sdfx"
)

// Settings is the top-level settings document.
type Settings struct {
	Kernel KernelSettings `json:"kernel"`
	Engine EngineSettings `json:"engine"`
	Export ExportSettings `json:"export"`
}

// KernelSettings selects and tunes the geometry backend.
type KernelSettings struct {
	Backend         string  `json:"backend"`
	Segments        int     `json:"segments"`
	SphereSlices    int     `json:"sphereSlices"`
	SphereStacks    int     `json:"sphereStacks"`
	MeshCells       int     `json:"meshCells"`
	BoundsTolerance float64 `json:"boundsTolerance"`
}

// EngineSettings tunes script evaluation.
type EngineSettings struct {
	EvalTimeoutMs int `json:"evalTimeoutMs"`
}

// ExportSettings tunes file output.
type ExportSettings struct {
	ASCII bool `json:"ascii"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Kernel: KernelSettings{
			Backend:         KernelBSP,
			Segments:        32,
			SphereSlices:    24,
			SphereStacks:    12,
			MeshCells:       200,
			BoundsTolerance: 1e-5,
		},
		Engine: EngineSettings{
			EvalTimeoutMs: 5000,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error: the defaults are returned and found is false.
func Load(path string) (s Settings, found bool, err error) {
	s = Default()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, false, nil
		}
		return s, false, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return s, true, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, true, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, true, nil
}

// Save writes s to path as indented JSON.
func (s Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate reports the first setting that is out of range.
func (s Settings) Validate() error {
	k := s.Kernel
	switch k.Backend {
	case KernelBSP, KernelSDFX:
	default:
		return fmt.Errorf("unknown kernel backend %q, expected %q or %q", k.Backend, KernelBSP, KernelSDFX)
	}
	if k.Segments < 3 {
		return fmt.Errorf("segments is %d, must be at least 3", k.Segments)
	}
	if k.SphereSlices < 3 || k.SphereStacks < 2 {
		return fmt.Errorf("sphere resolution %dx%d, need at least 3x2", k.SphereSlices, k.SphereStacks)
	}
	if k.MeshCells < 1 {
		return fmt.Errorf("meshCells is %d, must be positive", k.MeshCells)
	}
	if !(k.BoundsTolerance > 0) {
		return fmt.Errorf("boundsTolerance is %g, must be positive", k.BoundsTolerance)
	}
	if s.Engine.EvalTimeoutMs < 1 {
		return fmt.Errorf("evalTimeoutMs is %d, must be positive", s.Engine.EvalTimeoutMs)
	}
	return nil
}

// EvalTimeout returns the evaluation limit as a duration.
func (s Settings) EvalTimeout() time.Duration {
	return time.Duration(s.Engine.EvalTimeoutMs) * time.Millisecond
}

// MeshTolerance returns the relative bounds tolerance to check meshes
// with. The sdfx backend samples on a grid, so its meshes may stray by
// up to a cell.
func (s Settings) MeshTolerance() float64 {
	tol := s.Kernel.BoundsTolerance
	if s.Kernel.Backend == KernelSDFX {
		tol = max(tol, 2/float64(s.Kernel.MeshCells))
	}
	return tol
}
