package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, cylinder, sphere
	NodeTransform                 // translate / rotate / scale of one child
	NodeBoolean                   // union, difference, intersection
	NodeGroup                     // named part or plain grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NewNode builds a node and assigns its content ID.
func NewNode(kind NodeKind, name string, data NodeData, children ...NodeID) *Node {
	return &Node{
		ID:       ContentID(kind, name, data, children),
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	}
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
