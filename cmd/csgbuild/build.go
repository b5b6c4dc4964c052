package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/argp"

	"github.com/printingin3d/javascad-sub000/internal/logging"
	"github.com/printingin3d/javascad-sub000/pkg/config"
	"github.com/printingin3d/javascad-sub000/pkg/engine"
	"github.com/printingin3d/javascad-sub000/pkg/export"
	"github.com/printingin3d/javascad-sub000/pkg/graph"
	"github.com/printingin3d/javascad-sub000/pkg/kernel"
	"github.com/printingin3d/javascad-sub000/pkg/kernel/bsp"
	"github.com/printingin3d/javascad-sub000/pkg/kernel/sdfx"
	"github.com/printingin3d/javascad-sub000/pkg/tessellate"
)

// errInvalidScript is returned when evaluation or validation reported errors.
var errInvalidScript = errors.New("script has errors")

type Build struct {
	Verbose bool   `short:"v" desc:"Log debug output"`
	Config  string `short:"c" default:"settings.json" desc:"Settings file"`
	Kernel  string `short:"k" default:"" desc:"Kernel backend, bsp or sdfx (overrides settings)"`
	Output  string `short:"o" default:"" desc:"Output STL file, defaults to the input name"`
	ASCII   bool   `desc:"Write ASCII instead of binary STL"`
	Graph   string `default:"" desc:"Also write the design graph as JSON to this file"`
	Scene   string `default:"" desc:"Also write the meshes as a JSON scene to this file"`
	Input   string `index:"0" desc:"Input script"`
}

type Check struct {
	Verbose bool   `short:"v" desc:"Log debug output"`
	Config  string `short:"c" default:"settings.json" desc:"Settings file"`
	Input   string `index:"0" desc:"Input script"`
}

func (cmd *Build) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	settings, err := loadSettings(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Kernel != "" {
		settings.Kernel.Backend = cmd.Kernel
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	res, err := evaluate(cmd.Input, settings, os.Stderr)
	if err != nil {
		return err
	}
	g := res.Graph
	if cmd.Graph != "" {
		if err := writeGraph(cmd.Graph, g); err != nil {
			return err
		}
	}

	k := newKernel(settings.Kernel)
	meshes, err := tessellate.Tessellate(g, k, tessellate.WithBoundsTolerance(settings.MeshTolerance()))
	if err != nil {
		return err
	}

	output := cmd.Output
	if output == "" {
		output = strings.TrimSuffix(cmd.Input, filepath.Ext(cmd.Input)) + ".stl"
	}
	name := strings.TrimSuffix(filepath.Base(cmd.Input), filepath.Ext(cmd.Input))
	if err := writeSTL(output, name, cmd.ASCII || settings.Export.ASCII, meshes); err != nil {
		return err
	}

	if cmd.Scene != "" {
		if err := writeScene(cmd.Scene, meshes, res.Warnings); err != nil {
			return err
		}
	}

	triangles := 0
	for _, m := range meshes {
		triangles += m.TriangleCount()
	}
	logging.Logger().Info("wrote",
		"file", output,
		"kernel", settings.Kernel.Backend,
		"parts", len(meshes),
		"triangles", triangles)
	return nil
}

func (cmd *Check) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setupLogging(cmd.Verbose)

	settings, err := loadSettings(cmd.Config)
	if err != nil {
		return err
	}
	res, err := evaluate(cmd.Input, settings, os.Stderr)
	if err != nil {
		return err
	}
	for _, p := range res.Graph.Parts() {
		fmt.Printf("%s %s\n", p.ID.Short(), p.Name)
	}
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(logging.NewText(os.Stderr, level))
}

func loadSettings(path string) (config.Settings, error) {
	settings, found, err := config.Load(path)
	if err != nil {
		return settings, err
	}
	if !found {
		logging.Logger().Debug("no settings file, using defaults", "path", path)
	}
	return settings, nil
}

// evaluate runs the script at path and prints its findings to w. It fails
// with errInvalidScript if any finding is an error.
func evaluate(path string, settings config.Settings, w io.Writer) (engine.EvalResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return engine.EvalResult{}, err
	}

	eng := engine.NewEngine(engine.WithTimeout(settings.EvalTimeout()))
	res, err := eng.EvaluateResult(string(source))
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "%s: %s\n", path, e.Error())
	}
	if !res.OK() {
		return res, fmt.Errorf("%s: %w", path, errInvalidScript)
	}
	if len(res.Graph.Roots) == 0 {
		logging.Logger().Warn("script defines no parts", "file", path)
	}
	return res, nil
}

func newKernel(s config.KernelSettings) kernel.Kernel {
	if s.Backend == config.KernelSDFX {
		return sdfx.New(s.MeshCells)
	}
	return bsp.New(
		bsp.WithSegments(s.Segments),
		bsp.WithSphereResolution(s.SphereSlices, s.SphereStacks),
		bsp.WithTolerance(s.BoundsTolerance),
	)
}

func writeGraph(path string, g *graph.DesignGraph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeScene(path string, meshes []*kernel.Mesh, warnings []engine.EvalWarning) error {
	scene := export.NewScene(meshes)
	for _, w := range warnings {
		scene.Warnings = append(scene.Warnings, export.Message{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = export.WriteScene(f, scene)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeSTL(path, name string, ascii bool, meshes []*kernel.Mesh) error {
	if !ascii {
		return export.SaveSTL(path, meshes...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = export.WriteASCIISTL(f, name, meshes...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
