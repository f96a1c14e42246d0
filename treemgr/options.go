package treemgr

import (
	"github.com/wkalt/dircloud/search"
)

type config struct {
	units       uint64
	locator     search.Locator
	cacheSize   int
	searchLimit int
	loadWorkers int
}

// Option is an option for the tree manager.
type Option func(*config)

// WithUnits sets the multiplier applied to every reported size. Reports
// produced by "du -k" need 1024.
func WithUnits(units uint64) Option {
	return func(c *config) {
		c.units = units
	}
}

// WithLocator sets the name lookup used by Search. When unset, each loaded
// report is searched through a TreeLocator over its own paths.
func WithLocator(l search.Locator) Option {
	return func(c *config) {
		c.locator = l
	}
}

// WithCacheSize sets the number of search results retained in the search
// cache.
func WithCacheSize(n int) Option {
	return func(c *config) {
		c.cacheSize = n
	}
}

// WithSearchLimit caps the number of candidates requested from the locator.
func WithSearchLimit(n int) Option {
	return func(c *config) {
		c.searchLimit = n
	}
}

// WithLoadWorkers sets the number of reports parsed concurrently by Load. A
// value below one removes the limit.
func WithLoadWorkers(n int) Option {
	return func(c *config) {
		c.loadWorkers = n
	}
}
