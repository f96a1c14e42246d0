package tree

import (
	"path"
	"strings"

	"github.com/wkalt/dircloud/report"
)

/*
The builder turns a stream of report records into a tree. Records may arrive
in any order; parent/child relationships are inferred purely from path
prefixes. Ancestors that never appear in the report are synthesized with an
own size of zero, and a path reported twice keeps the last size seen.

du emits a directory's children before the directory itself and siblings next
to each other, so the builder remembers the directory of the previous record
and attaches consecutive siblings without going back through the path map.
*/

////////////////////////////////////////////////////////////////////////////////

// Builder constructs a Tree from records. A Builder is single-use: once
// Finish has been called it must not be reused.
type Builder struct {
	root    *Node
	nodes   map[string]*Node
	lastDir *Node
	common  string
	records int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	root := newNode(nil, "/", "/")
	return &Builder{
		root:  root,
		nodes: map[string]*Node{"/": root},
	}
}

// Add inserts a record into the tree under construction.
func (b *Builder) Add(rec report.Record) {
	p := Normalize(rec.Path)
	n := b.root
	if p != "/" {
		dir, name := path.Split(p)
		dir = path.Clean(dir)
		parent := b.lastDir
		if parent == nil || parent.path != dir {
			parent = b.ensure(dir)
		}
		n = b.child(parent, name)
		b.lastDir = parent
	}
	n.ownSize = rec.Size
	n.modified = rec.Modified
	n.reported = true

	if b.records == 0 {
		b.common = p
	} else {
		b.common = commonAncestor(b.common, p)
	}
	b.records++
}

// Records returns the number of records added so far, including duplicates.
func (b *Builder) Records() int {
	return b.records
}

// Finish reconciles sizes, verifies the size invariants, and indexes the
// tree. It returns EmptyInputError if no records were added.
func (b *Builder) Finish() (*Tree, error) {
	if b.records == 0 {
		return nil, EmptyInputError{}
	}
	if err := reconcile(b.root); err != nil {
		return nil, err
	}
	b.root.weight = Weight(b.root.aggregateSize, b.root.aggregateSize)
	index, err := buildIndex(b.root)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		root:    b.root,
		top:     index[b.common],
		index:   index,
		records: b.records,
	}
	b.nodes = nil
	b.lastDir = nil
	return t, nil
}

// ensure returns the node for p, creating it and any missing ancestors.
func (b *Builder) ensure(p string) *Node {
	if n, ok := b.nodes[p]; ok {
		return n
	}
	dir, name := path.Split(p)
	parent := b.ensure(path.Clean(dir))
	return b.child(parent, name)
}

func (b *Builder) child(parent *Node, name string) *Node {
	if c, ok := parent.children[name]; ok {
		return c
	}
	if parent.children == nil {
		parent.children = make(map[string]*Node)
	}
	c := newNode(parent, name, path.Join(parent.path, name))
	parent.children[name] = c
	b.nodes[c.path] = c
	return c
}

// Normalize returns the canonical form of an absolute path. Relative paths
// are treated as rooted at "/".
func Normalize(p string) string {
	return path.Clean("/" + p)
}

func commonAncestor(a, b string) string {
	for !isAncestorOrSelf(a, b) {
		a = path.Dir(a)
	}
	return a
}

func isAncestorOrSelf(a, b string) bool {
	return a == "/" || a == b || strings.HasPrefix(b, a+"/")
}
