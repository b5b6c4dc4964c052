package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NodeID is a content-addressed identifier for graph nodes: two nodes
// describing the same geometry built from the same children share an ID.
type NodeID [sha256.Size]byte

// NewNodeID derives an ID from an arbitrary path string.
func NewNodeID(path string) NodeID {
	return sha256.Sum256([]byte(path))
}

// ContentID derives the ID of a node from everything that determines its
// geometry: kind, name, payload and ordered children.
func ContentID(kind NodeKind, name string, data NodeData, children []NodeID) NodeID {
	payload, err := json.Marshal(data)
	if err != nil {
		// Node payloads are plain structs; this only fails on NaN or Inf.
		payload = []byte(fmt.Sprintf("%v", data))
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%T\x00", kind, name, data)
	h.Write(payload)
	for _, c := range children {
		h.Write(c[:])
	}
	var id NodeID
	copy(id[:], h.Sum(nil))
	return id
}

// String returns the full hex form.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 8 hex characters, for messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}

// IsZero reports whether id is the zero value.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

// MarshalText encodes the ID as hex so it can key JSON objects.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex ID.
func (id *NodeID) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("graph: node id: %w", err)
	}
	if len(b) != len(id) {
		return fmt.Errorf("graph: node id has %d bytes, want %d", len(b), len(id))
	}
	copy(id[:], b)
	return nil
}
