package search

import (
	"context"
	"slices"
	"strings"

	"github.com/wkalt/dircloud/tree"
	"github.com/wkalt/dircloud/util/trigram"
)

/*
TreeLocator searches the paths of a loaded size tree, for deployments without
a locate database. Each node carries a trigram signature summarizing the
folded paths of its whole subtree; a subtree whose signature does not contain
the query's trigrams cannot hold a match and is skipped without visiting it.
*/

////////////////////////////////////////////////////////////////////////////////

// signatureBytes is the size of each subtree signature.
const signatureBytes = 32

// TreeLocator is a Locator over the paths of a size tree.
type TreeLocator struct {
	tree       *tree.Tree
	signatures map[*tree.Node]trigram.Signature
}

// NewTreeLocator indexes the paths of t.
func NewTreeLocator(t *tree.Tree) *TreeLocator {
	l := &TreeLocator{
		tree:       t,
		signatures: make(map[*tree.Node]trigram.Signature, t.Len()),
	}
	l.sign(t.Root())
	return l
}

func (l *TreeLocator) sign(n *tree.Node) trigram.Signature {
	sig := trigram.NewSignature(signatureBytes)
	sig.AddString(Fold(n.Path()))
	for _, c := range n.Children() {
		sig.Add(l.sign(c))
	}
	l.signatures[n] = sig
	return sig
}

// Locate returns the paths of the tree containing query, sorted. Without
// Match the comparison is an exact substring match; with Match both sides are
// folded first.
func (l *TreeLocator) Locate(ctx context.Context, query string, opts Options) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	folded := Fold(query)
	var filter trigram.Signature
	prune := opts.Match || isASCII(query)
	if prune {
		filter = trigram.NewSignature(signatureBytes)
		filter.AddString(folded)
	}
	matches := func(p string) bool {
		if opts.Match {
			return strings.Contains(Fold(p), folded)
		}
		return strings.Contains(p, query)
	}

	paths := []string{}
	err := l.tree.Walk(func(n *tree.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prune && !l.signatures[n].Contains(filter) {
			return tree.SkipChildren
		}
		if matches(n.Path()) {
			paths = append(paths, n.Path())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	if limit := opts.limit(); len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}

func (l *TreeLocator) String() string {
	return "tree"
}
