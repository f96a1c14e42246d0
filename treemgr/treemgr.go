package treemgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wkalt/dircloud/report"
	"github.com/wkalt/dircloud/search"
	"github.com/wkalt/dircloud/storage"
	"github.com/wkalt/dircloud/tree"
	"github.com/wkalt/dircloud/util"
	"github.com/wkalt/dircloud/util/log"
	"golang.org/x/sync/errgroup"
)

/*
The tree manager holds the size trees built from the reports in a storage
provider. Any number of reports may be loaded at once; one of them is active
and answers View, Stats and Search.

The active tree is published through an atomic pointer, so requests never
take a lock. Loads, reloads and switches are serialized by a mutex so that two
of them cannot race to publish. A failed reload leaves the previous tree in
place.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrNoTree is returned when no report has been loaded.
var ErrNoTree = errors.New("no report loaded")

// snapshot is one loaded report. Snapshots are immutable once published.
type snapshot struct {
	report     string
	tree       *tree.Tree
	stats      tree.LoadStats
	locator    *search.TreeLocator
	modTime    time.Time
	loadedAt   time.Time
	elapsed    time.Duration
	generation uint64
}

// TreeManager is the main interface to the treemgr package.
type TreeManager struct {
	store       storage.Provider
	units       uint64
	locator     search.Locator
	searchLimit int
	loadWorkers int

	active     atomic.Pointer[snapshot]
	generation atomic.Uint64

	loadMtx *sync.Mutex
	mtx     *sync.RWMutex
	loaded  map[string]*snapshot

	cache *util.LRU[cacheKey, []string]
}

// NewTreeManager returns a new TreeManager reading reports from store. No
// report is loaded until Load is called.
func NewTreeManager(store storage.Provider, opts ...Option) *TreeManager {
	conf := config{
		units:       1,
		cacheSize:   256,
		searchLimit: search.DefaultLimit,
		loadWorkers: 4,
	}
	for _, opt := range opts {
		opt(&conf)
	}
	return &TreeManager{
		store:       store,
		units:       conf.units,
		locator:     conf.locator,
		searchLimit: conf.searchLimit,
		loadWorkers: conf.loadWorkers,
		loadMtx:     &sync.Mutex{},
		mtx:         &sync.RWMutex{},
		loaded:      make(map[string]*snapshot),
		cache:       util.NewLRU[cacheKey, []string](conf.cacheSize),
	}
}

// Load reads the named reports from storage and builds their trees
// concurrently. If no report is active, the first name becomes active. A
// report that is already active is replaced by its new tree. Nothing is
// published unless every report loads.
func (tm *TreeManager) Load(ctx context.Context, names ...string) error {
	tm.loadMtx.Lock()
	defer tm.loadMtx.Unlock()
	snaps := make([]*snapshot, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if tm.loadWorkers > 0 {
		g.SetLimit(tm.loadWorkers)
	}
	for i, name := range names {
		g.Go(func() error {
			snap, err := tm.build(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to load report %s: %w", name, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, snap := range snaps {
		tm.publish(ctx, snap, false)
	}
	return nil
}

// Upload validates a report by building its tree, writes it to storage under
// name, and registers the tree. The upload is decompressed by name exactly as
// Load would, and the raw bytes are stored. The upload becomes active if no report is
// active or if it replaces the active report.
func (tm *TreeManager) Upload(ctx context.Context, name string, r io.Reader) error {
	tm.loadMtx.Lock()
	defer tm.loadMtx.Unlock()
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	rc, err := report.NewReader(name, io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", name, err)
	}
	snap, err := tm.parse(ctx, name, rc)
	if err != nil {
		return fmt.Errorf("failed to parse upload %s: %w", name, err)
	}
	if err := tm.store.Put(ctx, name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store upload %s: %w", name, err)
	}
	if snap.modTime, err = tm.store.ModTime(ctx, name); err != nil {
		return fmt.Errorf("failed to stat upload %s: %w", name, err)
	}
	tm.publish(ctx, snap, false)
	return nil
}

// Switch makes the named report active, loading it first if necessary.
func (tm *TreeManager) Switch(ctx context.Context, name string) error {
	tm.loadMtx.Lock()
	defer tm.loadMtx.Unlock()
	tm.mtx.RLock()
	snap, ok := tm.loaded[name]
	tm.mtx.RUnlock()
	if !ok {
		var err error
		snap, err = tm.build(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load report %s: %w", name, err)
		}
	}
	tm.publish(ctx, snap, true)
	return nil
}

// Reload rebuilds the active report from storage and swaps it in. On failure
// the current tree keeps serving.
func (tm *TreeManager) Reload(ctx context.Context) error {
	tm.loadMtx.Lock()
	defer tm.loadMtx.Unlock()
	cur := tm.active.Load()
	if cur == nil {
		return ErrNoTree
	}
	snap, err := tm.build(ctx, cur.report)
	if err != nil {
		log.Errorw(ctx, "Reload failed, keeping current tree", "report", cur.report, "error", err)
		return fmt.Errorf("failed to reload report %s: %w", cur.report, err)
	}
	tm.publish(ctx, snap, true)
	return nil
}

// ReloadIfChanged reloads the active report when its modification time in
// storage differs from the one it was built from. It reports whether a new
// tree was published.
func (tm *TreeManager) ReloadIfChanged(ctx context.Context) (bool, error) {
	tm.loadMtx.Lock()
	defer tm.loadMtx.Unlock()
	cur := tm.active.Load()
	if cur == nil {
		return false, ErrNoTree
	}
	modTime, err := tm.store.ModTime(ctx, cur.report)
	if err != nil {
		return false, fmt.Errorf("failed to stat report %s: %w", cur.report, err)
	}
	if modTime.Equal(cur.modTime) {
		return false, nil
	}
	log.Infow(ctx, "Report changed, reloading", "report", cur.report, "modified", modTime)
	snap, err := tm.build(ctx, cur.report)
	if err != nil {
		log.Errorw(ctx, "Reload failed, keeping current tree", "report", cur.report, "error", err)
		return false, fmt.Errorf("failed to reload report %s: %w", cur.report, err)
	}
	tm.publish(ctx, snap, true)
	return true, nil
}

// publish registers snap and makes it active when activate is set, when
// nothing is active, or when it replaces the active report. Callers hold
// loadMtx.
func (tm *TreeManager) publish(ctx context.Context, snap *snapshot, activate bool) {
	tm.mtx.Lock()
	tm.loaded[snap.report] = snap
	tm.mtx.Unlock()
	cur := tm.active.Load()
	if activate || cur == nil || cur.report == snap.report {
		tm.active.Store(snap)
		log.Infow(ctx, "Activated report",
			"report", snap.report,
			"generation", snap.generation,
			"directories", snap.tree.Len(),
		)
	}
}

func (tm *TreeManager) build(ctx context.Context, name string) (*snapshot, error) {
	modTime, err := tm.store.ModTime(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat report: %w", err)
	}
	rc, err := tm.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	r, err := report.NewReader(name, rc)
	if err != nil {
		return nil, err
	}
	snap, err := tm.parse(ctx, name, r)
	if err != nil {
		return nil, err
	}
	snap.modTime = modTime
	return snap, nil
}

func (tm *TreeManager) parse(ctx context.Context, name string, r io.ReadCloser) (*snapshot, error) {
	defer r.Close()
	ctx = log.AddTags(ctx, "report", name)
	start := time.Now()
	t, stats, err := tree.Load(ctx, report.NewScanner(r, tm.units))
	if err != nil {
		return nil, err
	}
	snap := &snapshot{
		report:     name,
		tree:       t,
		stats:      stats,
		loadedAt:   time.Now(),
		elapsed:    time.Since(start),
		generation: tm.generation.Add(1),
	}
	if tm.locator == nil {
		snap.locator = search.NewTreeLocator(t)
	}
	log.Infow(ctx, "Loaded report",
		"records", stats.Records,
		"malformed", stats.Malformed,
		"directories", t.Len(),
		"elapsed", snap.elapsed,
	)
	return snap, nil
}

func (tm *TreeManager) current() (*snapshot, error) {
	snap := tm.active.Load()
	if snap == nil {
		return nil, ErrNoTree
	}
	return snap, nil
}

// Tree returns the active tree.
func (tm *TreeManager) Tree() (*tree.Tree, error) {
	snap, err := tm.current()
	if err != nil {
		return nil, err
	}
	return snap.tree, nil
}

// ReportList describes the reports known to the manager.
type ReportList struct {
	Active    string   `json:"active"`
	Loaded    []string `json:"loaded"`
	Available []string `json:"available"`
}

// Reports lists the active report, the loaded reports, and the reports
// present in storage.
func (tm *TreeManager) Reports(ctx context.Context) (*ReportList, error) {
	available, err := tm.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	list := &ReportList{
		Loaded:    tm.loadedNames(),
		Available: available,
	}
	if snap := tm.active.Load(); snap != nil {
		list.Active = snap.report
	}
	return list, nil
}

func (tm *TreeManager) loadedNames() []string {
	tm.mtx.RLock()
	defer tm.mtx.RUnlock()
	return util.Okeys(tm.loaded)
}
