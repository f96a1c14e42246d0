package treemgr

import (
	"context"
	"fmt"
	"path"

	"github.com/wkalt/dircloud/search"
	"github.com/wkalt/dircloud/tree"
	"github.com/wkalt/dircloud/util/log"
)

type cacheKey struct {
	generation uint64
	query      string
	match      bool
}

// SearchHit is one search result. Candidate is the path the locator returned
// and Path the directory it resolved to. ViaParent is set when the candidate
// is not a directory of the report but its parent is, as for files. InTree is
// false for candidates that resolve to nothing in the active report; such hits
// carry no node.
type SearchHit struct {
	Candidate string       `json:"candidate"`
	Path      string       `json:"path"`
	InTree    bool         `json:"inTree"`
	ViaParent bool         `json:"viaParent,omitempty"`
	Node      *NodeSummary `json:"node,omitempty"`
}

// SearchResult holds the hits for a query against the active report.
type SearchResult struct {
	Report string      `json:"report"`
	Query  string      `json:"query"`
	Match  bool        `json:"match"`
	Hits   []SearchHit `json:"hits"`
}

// Search looks up query with the configured locator and resolves the
// candidates against the active report. A candidate that is not a directory
// in the report but whose parent is resolves to the parent and is flagged
// ViaParent. Candidates resolving to the same directory are reported once.
func (tm *TreeManager) Search(ctx context.Context, query string, match bool) (*SearchResult, error) {
	snap, err := tm.current()
	if err != nil {
		return nil, err
	}
	candidates, err := tm.locate(ctx, snap, query, match)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{
		Report: snap.report,
		Query:  query,
		Match:  match,
		Hits:   []SearchHit{},
	}
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		hit := resolveHit(snap.tree, candidate)
		if seen[hit.Path] {
			continue
		}
		seen[hit.Path] = true
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

func (tm *TreeManager) locate(ctx context.Context, snap *snapshot, query string, match bool) ([]string, error) {
	key := cacheKey{generation: snap.generation, query: query, match: match}
	if candidates, ok := tm.cache.Get(key); ok {
		return candidates, nil
	}
	var locator search.Locator = snap.locator
	if tm.locator != nil {
		locator = tm.locator
	}
	candidates, err := locator.Locate(ctx, query, search.Options{Match: match, Limit: tm.searchLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to locate %q: %w", query, err)
	}
	log.Debugw(ctx, "Located candidates", "query", query, "match", match, "count", len(candidates))
	tm.cache.Put(key, candidates)
	return candidates, nil
}

// Resolve returns the node at exactly p in the active report. A path that is
// not part of the tree, for instance one from a stale locator index, is a
// NotFoundError.
func (tm *TreeManager) Resolve(_ context.Context, p string) (*NodeSummary, error) {
	snap, err := tm.current()
	if err != nil {
		return nil, err
	}
	n, err := snap.tree.Lookup(p)
	if err != nil {
		return nil, err
	}
	summary := summarize(n)
	return &summary, nil
}

func resolveHit(t *tree.Tree, candidate string) SearchHit {
	p := tree.Normalize(candidate)
	hit := SearchHit{Candidate: candidate, Path: p}
	n, err := t.Lookup(p)
	if err != nil && p != "/" {
		if n, err = t.Lookup(path.Dir(p)); err == nil {
			hit.ViaParent = true
		}
	}
	if err != nil {
		return hit
	}
	summary := summarize(n)
	hit.Path = n.Path()
	hit.InTree = true
	hit.Node = &summary
	return hit
}
