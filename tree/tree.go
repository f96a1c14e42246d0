package tree

import (
	"errors"
	"slices"
)

/*
Package tree holds the in-memory size model built from a disk usage report.
A Tree is produced once by a Builder and is read-only afterwards, so any number
of goroutines may query it concurrently without locking. Replacing the data
means building a new Tree.

Every node is registered in a path index when the tree is finished, making
Lookup a single map access; Children and Ancestors follow pointers from the
indexed node.
*/

////////////////////////////////////////////////////////////////////////////////

// Tree is a finished, immutable size tree rooted at "/".
type Tree struct {
	root    *Node
	top     *Node
	index   map[string]*Node
	records int
}

// Root returns the root node, "/".
func (t *Tree) Root() *Node {
	return t.root
}

// Top returns the deepest node that is an ancestor of, or equal to, every
// reported path.
func (t *Tree) Top() *Node {
	return t.top
}

// Len returns the number of nodes in the tree, including synthesized ones.
func (t *Tree) Len() int {
	return len(t.index)
}

// Records returns the number of records the tree was built from.
func (t *Tree) Records() int {
	return t.records
}

// Lookup returns the node at path p.
func (t *Tree) Lookup(p string) (*Node, error) {
	n, ok := t.index[Normalize(p)]
	if !ok {
		return nil, NotFoundError{Path: p}
	}
	return n, nil
}

// Children returns the children of the node at p, largest first, with ties
// broken by name.
func (t *Tree) Children(p string) ([]*Node, error) {
	n, err := t.Lookup(p)
	if err != nil {
		return nil, err
	}
	return n.Children(), nil
}

// Ancestors returns the ancestors of the node at p, from the root down to
// its parent.
func (t *Tree) Ancestors(p string) ([]*Node, error) {
	n, err := t.Lookup(p)
	if err != nil {
		return nil, err
	}
	ancestors := []*Node{}
	for a := n.parent; a != nil; a = a.parent {
		ancestors = append(ancestors, a)
	}
	slices.Reverse(ancestors)
	return ancestors, nil
}

// Walk calls f for every node in depth-first pre-order, visiting children
// largest first. If f returns SkipChildren the node's subtree is skipped; any
// other error stops the walk and is returned.
func (t *Tree) Walk(f func(*Node) error) error {
	if err := walk(t.root, f); err != nil && !errors.Is(err, SkipChildren) {
		return err
	}
	return nil
}

// SkipChildren may be returned by a Walk callback to skip a node's subtree.
var SkipChildren = errors.New("skip children")

func walk(n *Node, f func(*Node) error) error {
	if err := f(n); err != nil {
		return err
	}
	for _, c := range n.sorted {
		if err := walk(c, f); err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
	}
	return nil
}

// buildIndex registers every node by path, verifying the size invariants on
// the way.
func buildIndex(root *Node) (map[string]*Node, error) {
	index := make(map[string]*Node, root.descendants+1)
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := verify(n); err != nil {
			return nil, err
		}
		index[n.path] = n
		stack = append(stack, n.sorted...)
	}
	return index, nil
}
