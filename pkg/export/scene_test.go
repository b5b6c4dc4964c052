package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

func TestSceneColors(t *testing.T) {
	meshes := make([]*kernel.Mesh, len(palette)+1)
	for i := range meshes {
		meshes[i] = square()
	}
	s := NewScene(meshes)
	if len(s.Meshes) != len(meshes) {
		t.Fatalf("scene has %d meshes, want %d", len(s.Meshes), len(meshes))
	}
	if s.Meshes[0].Color == s.Meshes[1].Color {
		t.Error("neighbouring parts should get different colors")
	}
	if s.Meshes[len(palette)].Color != s.Meshes[0].Color {
		t.Error("colors should cycle through the palette")
	}
	if s.Meshes[0].PartName != "square" {
		t.Errorf("PartName = %q", s.Meshes[0].PartName)
	}
}

func TestWriteSceneEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScene(&buf, NewScene(nil)); err != nil {
		t.Fatalf("WriteScene: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"meshes", "errors", "warnings"} {
		if string(doc[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, doc[key])
		}
	}
}

func TestWriteSceneRoundTrip(t *testing.T) {
	s := NewScene([]*kernel.Mesh{square()})
	s.Warnings = append(s.Warnings, Message{Message: "orphan"})

	var buf bytes.Buffer
	if err := WriteScene(&buf, s); err != nil {
		t.Fatalf("WriteScene: %v", err)
	}
	var got Scene
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.Meshes) != 1 || len(got.Meshes[0].Indices) != 6 {
		t.Errorf("mesh lost in encoding: %+v", got.Meshes)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Message != "orphan" {
		t.Errorf("warnings = %+v", got.Warnings)
	}
}
