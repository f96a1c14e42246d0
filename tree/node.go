package tree

import "slices"

// Node is a single directory (or, for degenerate reports, file) in a size
// tree. Nodes are owned by their parent's children map; the parent field is a
// back reference only. A node is never modified once its tree is finished.
type Node struct {
	name     string
	path     string
	modified string
	reported bool

	ownSize       uint64
	aggregateSize uint64
	weight        int
	descendants   int

	parent   *Node
	children map[string]*Node
	sorted   []*Node
}

func newNode(parent *Node, name, fullPath string) *Node {
	return &Node{
		name:   name,
		path:   fullPath,
		parent: parent,
	}
}

// Name returns the final path component of the node, or "/" for the root.
func (n *Node) Name() string {
	return n.name
}

// Path returns the canonical absolute path of the node.
func (n *Node) Path() string {
	return n.path
}

// OwnSize returns the size reported for this path alone. Synthesized
// ancestors have an own size of zero.
func (n *Node) OwnSize() uint64 {
	return n.ownSize
}

// AggregateSize returns the own size plus the aggregate sizes of all
// children.
func (n *Node) AggregateSize() uint64 {
	return n.aggregateSize
}

// Weight returns the display weight of the node relative to its siblings, in
// the range [0, MaxWeight].
func (n *Node) Weight() int {
	return n.weight
}

// Modified returns the timestamp metadata attached to the node's record, if
// any.
func (n *Node) Modified() string {
	return n.modified
}

// Reported returns true if the report contained a record for this path.
func (n *Node) Reported() bool {
	return n.reported
}

// Parent returns the parent of the node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children ordered by aggregate size descending,
// then by name.
func (n *Node) Children() []*Node {
	return slices.Clone(n.sorted)
}

// Child returns the named child.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.children)
}

// Descendants returns the number of nodes below this one.
func (n *Node) Descendants() int {
	return n.descendants
}

// String returns a compact representation of the node.
func (n *Node) String() string {
	return n.path
}
