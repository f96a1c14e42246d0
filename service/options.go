package service

import (
	"log/slog"
	"time"

	"github.com/wkalt/dircloud/search"
	"github.com/wkalt/dircloud/storage"
)

// DircloudOption is a functional option for the dircloud service.
type DircloudOption func(*DircloudOptions)

// DircloudOptions contains options for the dircloud service.
type DircloudOptions struct {
	Port            int
	LogLevel        slog.Level
	StorageProvider storage.Provider
	Reports         []string
	Units           uint64
	Locator         search.Locator
	SearchLimit     int
	CacheSize       int
	LoadWorkers     int
	AllowedOrigins  []string
	Robots          string
	ShutdownTimeout time.Duration
	ReloadInterval  time.Duration
}

// WithPort sets the port to listen on.
func WithPort(port int) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.Port = port
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level slog.Level) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.LogLevel = level
	}
}

// WithStorageProvider sets the storage provider reports are read from.
func WithStorageProvider(provider storage.Provider) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.StorageProvider = provider
	}
}

// WithReports sets the reports loaded at startup. The first one is served
// initially. When no reports are named, every report in storage is loaded.
func WithReports(names ...string) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.Reports = append(opts.Reports, names...)
	}
}

// WithUnits sets the multiplier applied to reported sizes.
func WithUnits(units uint64) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.Units = units
	}
}

// WithLocator sets the name lookup used for searches.
func WithLocator(locator search.Locator) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.Locator = locator
	}
}

// WithSearchLimit caps the number of search results.
func WithSearchLimit(limit int) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.SearchLimit = limit
	}
}

// WithCacheSize sets the number of cached search results.
func WithCacheSize(size int) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.CacheSize = size
	}
}

// WithLoadWorkers sets the number of reports parsed concurrently at startup.
func WithLoadWorkers(n int) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.LoadWorkers = n
	}
}

// WithAllowedOrigins sets the origins allowed by CORS.
func WithAllowedOrigins(origins []string) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.AllowedOrigins = origins
	}
}

// WithRobots sets the contents of robots.txt.
func WithRobots(robots string) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.Robots = robots
	}
}

// WithShutdownTimeout sets how long open connections are given to finish
// on shutdown.
func WithShutdownTimeout(timeout time.Duration) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.ShutdownTimeout = timeout
	}
}

// WithReloadInterval sets how often the active report's modification time is
// checked. A changed report is reloaded. Zero disables the check.
func WithReloadInterval(interval time.Duration) DircloudOption {
	return func(opts *DircloudOptions) {
		opts.ReloadInterval = interval
	}
}
