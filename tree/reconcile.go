package tree

import (
	"cmp"
	"math/bits"
	"slices"

	"golang.org/x/exp/maps"
)

// reconcile computes aggregate sizes, descendant counts, sibling order and
// weights in a single post-order traversal.
func reconcile(n *Node) error {
	total := n.ownSize
	descendants := 0
	for _, c := range n.children {
		if err := reconcile(c); err != nil {
			return err
		}
		sum, carry := bits.Add64(total, c.aggregateSize, 0)
		if carry != 0 {
			return InvariantViolationError{Path: n.path, Detail: "aggregate size overflows uint64"}
		}
		total = sum
		descendants += 1 + c.descendants
	}
	n.aggregateSize = total
	n.descendants = descendants

	n.sorted = maps.Values(n.children)
	slices.SortFunc(n.sorted, compareNodes)
	if len(n.sorted) > 0 {
		largest := n.sorted[0].aggregateSize
		for _, c := range n.sorted {
			c.weight = Weight(c.aggregateSize, largest)
		}
	}
	return nil
}

// compareNodes orders by aggregate size descending, then name ascending.
func compareNodes(a, b *Node) int {
	if c := cmp.Compare(b.aggregateSize, a.aggregateSize); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}

// verify checks the aggregate invariants of a single node.
func verify(n *Node) error {
	var sum uint64
	for _, c := range n.sorted {
		if c.parent != n {
			return InvariantViolationError{Path: c.path, Detail: "child does not point back to its parent"}
		}
		if c.aggregateSize > n.aggregateSize {
			return InvariantViolationError{Path: n.path, Detail: "child " + c.name + " exceeds its parent"}
		}
		sum += c.aggregateSize
	}
	if n.ownSize+sum != n.aggregateSize {
		return InvariantViolationError{Path: n.path, Detail: "aggregate size is not own size plus children"}
	}
	return nil
}
