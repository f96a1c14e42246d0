package search

import "context"

/*
Package search provides name lookup collaborators. A Locator turns a free-text
query into candidate absolute paths; it knows nothing about the size tree, and
its results may be stale relative to the loaded report. Callers resolve the
candidates against the tree themselves.
*/

////////////////////////////////////////////////////////////////////////////////

// DefaultLimit is the number of results returned when Options.Limit is zero.
const DefaultLimit = 1000

// Options controls a lookup.
type Options struct {
	// Match widens the search to alternative results: a regular expression
	// for locate, accent and case folding for the tree, a substring match
	// for the catalog.
	Match bool
	Limit int
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Locator finds paths matching a query.
type Locator interface {
	Locate(ctx context.Context, query string, opts Options) ([]string, error)
}
