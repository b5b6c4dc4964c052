package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

// palette assigns distinct display colors to parts, in order.
var palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON form of one part for viewers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// Message is a located diagnostic.
type Message struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Scene is everything a viewer needs to show one evaluation.
type Scene struct {
	Meshes   []MeshData `json:"meshes"`
	Errors   []Message  `json:"errors"`
	Warnings []Message  `json:"warnings"`
}

// NewScene wraps meshes for viewers, coloring parts from a fixed palette.
// Empty lists are kept non-nil so they encode as [].
func NewScene(meshes []*kernel.Mesh) Scene {
	s := Scene{
		Meshes:   []MeshData{},
		Errors:   []Message{},
		Warnings: []Message{},
	}
	for i, m := range meshes {
		s.Meshes = append(s.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    palette[i%len(palette)],
		})
	}
	return s
}

// WriteScene encodes s as JSON.
func WriteScene(w io.Writer, s Scene) error {
	if err := json.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("export: scene: %w", err)
	}
	return nil
}
