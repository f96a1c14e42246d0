package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wkalt/dircloud/routes"
	"github.com/wkalt/dircloud/search"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/log"
)

/*
This file is the main entrypoint for dircloud server startup. The server loads
its reports before it starts listening, reloads the active report on SIGHUP or
when its modification time changes, and shuts down gracefully on SIGINT or
SIGTERM.
*/

////////////////////////////////////////////////////////////////////////////////

// Dircloud is the dircloud service.
type Dircloud struct{}

// NewDircloudService creates a new dircloud service.
func NewDircloudService() *Dircloud {
	return &Dircloud{}
}

// Start starts the dircloud service and blocks until it is stopped.
func (dc *Dircloud) Start(ctx context.Context, options ...DircloudOption) error { //nolint:funlen
	opts, err := readOpts(options...)
	if err != nil {
		return fmt.Errorf("failed to read options: %w", err)
	}

	slog.SetLogLoggerLevel(opts.LogLevel)
	log.Debugf(ctx, "Debug logging enabled")
	store := opts.StorageProvider

	tmgr, err := newTreeManager(ctx, opts)
	if err != nil {
		return err
	}

	log.Infof(ctx, "Building routes with allowed origins %+v", opts.AllowedOrigins)
	r := routes.MakeRoutes(tmgr, opts.AllowedOrigins, opts.Robots)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sighup := make(chan os.Signal, 1)
	sigint := make(chan os.Signal, 1)
	sigterm := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	signal.Notify(sigint, syscall.SIGINT)
	signal.Notify(sigterm, syscall.SIGTERM)

	var poll <-chan time.Time
	if opts.ReloadInterval > 0 {
		ticker := time.NewTicker(opts.ReloadInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	startErr := make(chan error)
	go func() {
		log.Infow(ctx, "Starting server", "port", opts.Port, "storage", store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startErr <- err
		}
	}()

wait:
	for {
		select {
		case <-sighup:
			log.Infof(ctx, "Received SIGHUP, reloading active report")
			if err := tmgr.Reload(ctx); err != nil {
				log.Errorw(ctx, "Failed to reload report", "error", err)
			}
		case <-poll:
			if _, err := tmgr.ReloadIfChanged(ctx); err != nil {
				log.Errorw(ctx, "Failed to check report for changes", "error", err)
			}
		case <-sigint:
			log.Infof(ctx, "Received SIGINT")
			break wait
		case <-sigterm:
			log.Infof(ctx, "Received SIGTERM")
			break wait
		case err := <-startErr:
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	log.Infof(ctx, "Allowing %s for existing connections to close", opts.ShutdownTimeout)
	ctx, cancel := context.WithTimeout(ctx, opts.ShutdownTimeout)
	defer cancel()

	errs := make(chan error)
	success := make(chan bool)

	go func() {
		if err := srv.Shutdown(ctx); err != nil {
			errs <- err
		} else {
			log.Infof(ctx, "Server stopped")
			success <- true
		}
	}()

	select {
	case <-sigint:
		return errors.New("forceful shutdown on second interrupt")
	case err := <-errs:
		return fmt.Errorf("server shutdown failed: %w", err)
	case <-success:
		return nil
	}
}

// newTreeManager creates the tree manager and loads the configured reports,
// or every report in storage when none are configured.
func newTreeManager(ctx context.Context, opts *DircloudOptions) (*treemgr.TreeManager, error) {
	tmopts := []treemgr.Option{
		treemgr.WithUnits(opts.Units),
		treemgr.WithCacheSize(opts.CacheSize),
		treemgr.WithSearchLimit(opts.SearchLimit),
		treemgr.WithLoadWorkers(opts.LoadWorkers),
	}
	if opts.Locator != nil {
		log.Infow(ctx, "Using external locator", "locator", opts.Locator)
		tmopts = append(tmopts, treemgr.WithLocator(opts.Locator))
	}
	tmgr := treemgr.NewTreeManager(opts.StorageProvider, tmopts...)

	names := opts.Reports
	if len(names) == 0 {
		available, err := opts.StorageProvider.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		names = available
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no reports found in %s", opts.StorageProvider)
	}
	log.Infow(ctx, "Loading reports", "reports", names)
	if err := tmgr.Load(ctx, names...); err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return tmgr, nil
}

func readOpts(opts ...DircloudOption) (*DircloudOptions, error) {
	options := DircloudOptions{
		Port:        8080,
		LogLevel:    slog.LevelInfo,
		Units:       1,
		SearchLimit: search.DefaultLimit,
		CacheSize:   256,
		LoadWorkers: 4,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:8080",
		},
		Robots:          "User-agent: *\nDisallow: /\n",
		ShutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.StorageProvider == nil {
		return nil, errors.New("storage provider is required")
	}
	if options.Units == 0 {
		return nil, errors.New("units must be positive")
	}
	if options.ReloadInterval < 0 {
		return nil, errors.New("reload interval must not be negative")
	}
	return &options, nil
}
