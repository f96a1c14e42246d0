package treemgr

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wkalt/dircloud/tree"
)

// NodeSummary is the rendering-ready description of one node.
type NodeSummary struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	OwnSize       uint64 `json:"ownSize"`
	AggregateSize uint64 `json:"aggregateSize"`
	Weight        int    `json:"weight"`
	Human         string `json:"human"`
	Modified      string `json:"modified,omitempty"`
	HasChildren   bool   `json:"hasChildren"`
}

func summarize(n *tree.Node) NodeSummary {
	return NodeSummary{
		Name:          n.Name(),
		Path:          n.Path(),
		OwnSize:       n.OwnSize(),
		AggregateSize: n.AggregateSize(),
		Weight:        n.Weight(),
		Human:         humanize.IBytes(n.AggregateSize()),
		Modified:      n.Modified(),
		HasChildren:   n.Len() > 0,
	}
}

func summarizeAll(nodes []*tree.Node) []NodeSummary {
	result := make([]NodeSummary, len(nodes))
	for i, n := range nodes {
		result[i] = summarize(n)
	}
	return result
}

// View is everything needed to render one level of the cloud: the node, its
// children largest first, and the path from the root down to its parent.
type View struct {
	Report      string        `json:"report"`
	Node        NodeSummary   `json:"node"`
	Children    []NodeSummary `json:"children"`
	Breadcrumbs []NodeSummary `json:"breadcrumbs"`
}

// View returns the view of the node at p in the active report. An empty path
// selects the top of the tree.
func (tm *TreeManager) View(_ context.Context, p string) (*View, error) {
	snap, err := tm.current()
	if err != nil {
		return nil, err
	}
	t := snap.tree
	n := t.Top()
	if p != "" {
		if n, err = t.Lookup(p); err != nil {
			return nil, err
		}
	}
	ancestors, err := t.Ancestors(n.Path())
	if err != nil {
		return nil, err
	}
	return &View{
		Report:      snap.report,
		Node:        summarize(n),
		Children:    summarizeAll(n.Children()),
		Breadcrumbs: summarizeAll(ancestors),
	}, nil
}

// Stats describes the active report.
type Stats struct {
	Report      string    `json:"report"`
	Generation  uint64    `json:"generation"`
	Records     int       `json:"records"`
	Malformed   int       `json:"malformed"`
	Directories int       `json:"directories"`
	TotalSize   uint64    `json:"totalSize"`
	Human       string    `json:"human"`
	Modified    time.Time `json:"modified"`
	LoadedAt    time.Time `json:"loadedAt"`
	LoadTime    string    `json:"loadTime"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Stats returns statistics for the active report.
func (tm *TreeManager) Stats(_ context.Context) (*Stats, error) {
	snap, err := tm.current()
	if err != nil {
		return nil, err
	}
	total := snap.tree.Root().AggregateSize()
	stats := &Stats{
		Report:      snap.report,
		Generation:  snap.generation,
		Records:     snap.stats.Records,
		Malformed:   snap.stats.Malformed,
		Directories: snap.tree.Len(),
		TotalSize:   total,
		Human:       humanize.IBytes(total),
		Modified:    snap.modTime,
		LoadedAt:    snap.loadedAt,
		LoadTime:    snap.elapsed.String(),
	}
	for _, w := range snap.stats.Warnings {
		stats.Warnings = append(stats.Warnings, w.Error())
	}
	return stats, nil
}
