package graph

import (
	"encoding/json"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func box(x, y, z float64) *Node {
	return NewNode(NodePrimitive, "", BoxData{Size: v3.Vec{X: x, Y: y, Z: z}})
}

func TestNewDesignGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
}

func TestContentID(t *testing.T) {
	a, b := box(1, 2, 3), box(1, 2, 3)
	if a.ID != b.ID {
		t.Error("equal boxes should share an ID")
	}
	if a.ID == box(1, 2, 4).ID {
		t.Error("different boxes should not share an ID")
	}
	if a.ID.IsZero() {
		t.Error("content ID should not be zero")
	}

	sphere := NewNode(NodePrimitive, "", SphereData{Radius: 1})
	u1 := NewNode(NodeBoolean, "", BooleanData{Op: OpUnion}, a.ID, sphere.ID)
	u2 := NewNode(NodeBoolean, "", BooleanData{Op: OpUnion}, sphere.ID, a.ID)
	d := NewNode(NodeBoolean, "", BooleanData{Op: OpDifference}, a.ID, sphere.ID)
	if u1.ID == u2.ID {
		t.Error("operand order should change the ID")
	}
	if u1.ID == d.ID {
		t.Error("operation should change the ID")
	}
	if named := NewNode(NodeGroup, "lid", GroupData{}, a.ID); named.ID == NewNode(NodeGroup, "base", GroupData{}, a.ID).ID {
		t.Error("name should change the ID")
	}
}

func TestNodeIDText(t *testing.T) {
	id := NewNodeID("part/lid")
	if got := len(id.String()); got != 64 {
		t.Errorf("String() length = %d, want 64", got)
	}
	if id.Short() != id.String()[:8] {
		t.Errorf("Short() = %q", id.Short())
	}

	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back NodeID
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != id {
		t.Error("text round trip changed the ID")
	}
	if err := back.UnmarshalText([]byte("abcd")); err == nil {
		t.Error("UnmarshalText should reject short IDs")
	}
	if err := back.UnmarshalText([]byte("zz")); err == nil {
		t.Error("UnmarshalText should reject non-hex IDs")
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()
	body := box(40, 20, 10)
	part := NewNode(NodeGroup, "body", GroupData{}, body.ID)
	g.AddNode(body)
	g.AddNode(part)
	g.AddNode(box(40, 20, 10)) // same content, ignored
	g.AddRoot(part.ID)

	if g.NodeCount() != 2 {
		t.Errorf("node count = %d, want 2", g.NodeCount())
	}
	if found := g.Lookup("body"); found == nil || found.ID != part.ID {
		t.Fatal("Lookup('body') returned the wrong node")
	}
	if g.MustLookup("body").ID != part.ID {
		t.Errorf("MustLookup returned wrong node")
	}
	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}
	if got := g.Get(body.ID); got == nil || got.Kind != NodePrimitive {
		t.Errorf("Get by ID failed")
	}

	parts := g.Parts()
	if len(parts) != 1 || parts[0].ID != part.ID {
		t.Errorf("Parts() = %v", parts)
	}
	if prims := g.Primitives(); len(prims) != 1 {
		t.Errorf("Primitives() count = %d, want 1", len(prims))
	}
	children := g.Children(part)
	if len(children) != 1 || children[0].ID != body.ID {
		t.Errorf("Children() = %v", children)
	}
}

func TestRemoveRoot(t *testing.T) {
	g := New()
	a, b, c := box(1, 1, 1), box(2, 2, 2), box(3, 3, 3)
	for _, n := range []*Node{a, b, c} {
		g.AddNode(n)
		g.AddRoot(n.ID)
	}
	if !g.RemoveRoot(b.ID) {
		t.Fatal("RemoveRoot should report an existing root")
	}
	if g.RemoveRoot(b.ID) {
		t.Error("RemoveRoot should report false the second time")
	}
	if len(g.Roots) != 2 || g.Roots[0] != a.ID || g.Roots[1] != c.ID {
		t.Errorf("roots out of order after removal: %v", g.Roots)
	}
	if g.Get(b.ID) == nil {
		t.Error("removing a root must keep the node")
	}
}

func TestMustLookupPanics(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	g.MustLookup("missing")
}

func TestChildrenSkipsMissing(t *testing.T) {
	g := New()
	b := box(1, 1, 1)
	g.AddNode(b)
	u := NewNode(NodeBoolean, "", BooleanData{Op: OpUnion}, b.ID, NewNodeID("missing"))
	g.AddNode(u)
	if got := len(g.Children(u)); got != 1 {
		t.Errorf("Children() count = %d, want 1", got)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodePrimitive.String(), "primitive"},
		{NodeTransform.String(), "transform"},
		{NodeBoolean.String(), "boolean"},
		{NodeGroup.String(), "group"},
		{NodeKind(99).String(), "unknown"},
		{PrimBox.String(), "box"},
		{PrimCylinder.String(), "cylinder"},
		{PrimSphere.String(), "sphere"},
		{OpUnion.String(), "union"},
		{OpDifference.String(), "difference"},
		{OpIntersection.String(), "intersection"},
		{BooleanOp(7).String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParseBooleanOp(t *testing.T) {
	for _, op := range []BooleanOp{OpUnion, OpDifference, OpIntersection} {
		got, err := ParseBooleanOp(op.String())
		if err != nil || got != op {
			t.Errorf("ParseBooleanOp(%q) = %v, %v", op, got, err)
		}
	}
	if _, err := ParseBooleanOp("xor"); err == nil {
		t.Error("ParseBooleanOp should reject unknown operations")
	}
}

func TestGraphJSON(t *testing.T) {
	g := New()
	b := box(1, 2, 3)
	part := NewNode(NodeGroup, "part", GroupData{}, b.ID)
	g.AddNode(b)
	g.AddNode(part)
	g.AddRoot(part.ID)

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Roots     []NodeID          `json:"roots"`
		NameIndex map[string]NodeID `json:"name_index"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Roots) != 1 || decoded.Roots[0] != part.ID {
		t.Errorf("roots = %v", decoded.Roots)
	}
	if decoded.NameIndex["part"] != part.ID {
		t.Errorf("name index = %v", decoded.NameIndex)
	}
}
