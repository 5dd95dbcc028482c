package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/dixieflatline76/UnsplashedPaper/util"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"golang.org/x/sync/errgroup"
)

// Fetcher downloads one image for a request.
type Fetcher interface {
	Fetch(ctx context.Context, req unsplash.FetchRequest) (unsplash.Asset, error)
}

// ApplyResult is what happened to one display during a cycle.
type ApplyResult struct {
	MonitorID int
	Request   unsplash.FetchRequest
	Asset     unsplash.Asset
	FetchErr  error
	ApplyErr  error
}

// Err returns the fetch or apply error, whichever occurred.
func (r ApplyResult) Err() error {
	if r.FetchErr != nil {
		return r.FetchErr
	}
	return r.ApplyErr
}

// CycleOutcome summarises one refresh cycle.
type CycleOutcome struct {
	Mode     string
	Started  time.Time
	Finished time.Time
	Results  []ApplyResult // one per display, in monitor order
}

// Applied counts displays whose background changed.
func (o CycleOutcome) Applied() int {
	n := 0
	for _, r := range o.Results {
		if r.Err() == nil {
			n++
		}
	}
	return n
}

// Failed counts displays left unchanged.
func (o CycleOutcome) Failed() int {
	return len(o.Results) - o.Applied()
}

// Err joins every per-display error, or returns nil.
func (o CycleOutcome) Err() error {
	var errs []error
	for _, r := range o.Results {
		if err := r.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (o CycleOutcome) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s cycle: %d applied, %d failed in %v",
		o.Mode, o.Applied(), o.Failed(), o.Finished.Sub(o.Started).Round(time.Millisecond))
	return sb.String()
}

// Orchestrator runs refresh cycles: enumerate displays, fetch, apply.
type Orchestrator struct {
	fetcher  Fetcher
	applier  WallpaperApplier
	cfg      ConfigProvider
	monitors MonitorEnumerator

	inFlight *util.SafeCounter

	mu          sync.Mutex
	last        *CycleOutcome
	subscribers []func(CycleOutcome)
}

// NewOrchestrator wires the cycle collaborators together.
func NewOrchestrator(fetcher Fetcher, applier WallpaperApplier, cfg ConfigProvider, monitors MonitorEnumerator) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		applier:  applier,
		cfg:      cfg,
		monitors: monitors,
		inFlight: util.NewSafeCounter(),
	}
}

// Subscribe registers fn to receive every finished cycle outcome.
func (o *Orchestrator) Subscribe(fn func(CycleOutcome)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers = append(o.subscribers, fn)
}

// LastOutcome returns the most recent finished cycle, if any.
func (o *Orchestrator) LastOutcome() (CycleOutcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return CycleOutcome{}, false
	}
	return *o.last, true
}

// InFlight returns how many cycles are currently running.
func (o *Orchestrator) InFlight() int {
	return o.inFlight.Value()
}

// Refresh snapshots the settings, lists the displays and runs one cycle.
// It implements Refresher. A failed enumeration yields an empty outcome.
func (o *Orchestrator) Refresh(ctx context.Context) CycleOutcome {
	cfg := o.cfg.Snapshot()
	monitors, err := o.monitors.GetMonitors()
	if err != nil {
		log.Printf("[Refresh] Failed to enumerate monitors: %v", err)
		monitors = nil
	}
	return o.RunCycle(ctx, cfg, monitors)
}

// RefreshDisplay runs one cycle for the display with the given ID only.
// An unknown ID yields an empty outcome.
func (o *Orchestrator) RefreshDisplay(ctx context.Context, monitorID int) CycleOutcome {
	cfg := o.cfg.Snapshot()
	monitors, err := o.monitors.GetMonitors()
	if err != nil {
		log.Printf("[Refresh] Failed to enumerate monitors: %v", err)
	}
	var target []Monitor
	for _, m := range monitors {
		if m.ID == monitorID {
			target = append(target, m)
		}
	}
	if len(target) == 0 {
		log.Printf("[Refresh] Monitor %d not found among %d monitor(s)", monitorID, len(monitors))
	}
	return o.RunCycle(ctx, cfg, target)
}

// RunCycle refreshes every display in monitors using one settings snapshot.
// A failure on one display never blocks or cancels another.
func (o *Orchestrator) RunCycle(ctx context.Context, cfg RefreshConfig, monitors []Monitor) CycleOutcome {
	if n := o.inFlight.Increment(); n > 1 {
		log.Printf("[Refresh] Starting a cycle while %d other(s) still running", n-1)
	}
	defer o.inFlight.Decrement()

	outcome := CycleOutcome{Mode: modePerDisplay, Started: time.Now()}
	if !cfg.PerDisplayImage {
		outcome.Mode = modeShared
	}

	if len(monitors) == 0 {
		log.Print("[Refresh] No monitors found, nothing to do")
		outcome.Finished = time.Now()
		o.publish(outcome)
		return outcome
	}

	log.Printf("[Refresh] %s cycle over %d monitor(s): %s", outcome.Mode, len(monitors), cfg)
	if cfg.PerDisplayImage {
		outcome.Results = o.perDisplay(ctx, cfg, monitors)
	} else {
		outcome.Results = o.shared(ctx, cfg, monitors)
	}
	outcome.Finished = time.Now()

	for _, r := range outcome.Results {
		if err := r.Err(); err != nil {
			log.Printf("[Refresh] Monitor %d: %v", r.MonitorID, err)
		}
	}
	log.Print("[Refresh] ", outcome)
	o.publish(outcome)
	return outcome
}

// perDisplay fetches one image per display at that display's own size.
// Tasks never return an error to the group, so one failure does not cancel
// its siblings; the group only bounds how many displays run at once.
func (o *Orchestrator) perDisplay(ctx context.Context, cfg RefreshConfig, monitors []Monitor) []ApplyResult {
	results := make([]ApplyResult, len(monitors))
	var g errgroup.Group
	g.SetLimit(maxParallelApply)
	for i, m := range monitors {
		g.Go(func() error {
			req := cfg.Request(m.Size())
			res := ApplyResult{MonitorID: m.ID, Request: req}
			res.Asset, res.FetchErr = o.fetch(ctx, req)
			if res.FetchErr == nil {
				res.ApplyErr = o.apply(res.Asset, m, cfg.ScaleImages)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() // tasks report through results
	return results
}

// shared fetches one image sized to cover every display and applies it to
// all of them.
func (o *Orchestrator) shared(ctx context.Context, cfg RefreshConfig, monitors []Monitor) []ApplyResult {
	req := cfg.Request(SharedSize(monitors))
	results := make([]ApplyResult, len(monitors))

	asset, err := o.fetch(ctx, req)
	if err != nil {
		for i, m := range monitors {
			results[i] = ApplyResult{MonitorID: m.ID, Request: req, FetchErr: err}
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(maxParallelApply)
	for i, m := range monitors {
		g.Go(func() error {
			results[i] = ApplyResult{
				MonitorID: m.ID,
				Request:   req,
				Asset:     asset,
				ApplyErr:  o.apply(asset, m, cfg.ScaleImages),
			}
			return nil
		})
	}
	_ = g.Wait() // tasks report through results
	return results
}

// fetch calls the fetcher, turning a panic into an error.
func (o *Orchestrator) fetch(ctx context.Context, req unsplash.FetchRequest) (asset unsplash.Asset, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Refresh] Fetch for %s panicked: %v", req.Size, r)
			asset, err = unsplash.Asset{}, fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return o.fetcher.Fetch(ctx, req)
}

// apply calls the applier, turning a panic into an ApplyError.
func (o *Orchestrator) apply(asset unsplash.Asset, m Monitor, scale bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Refresh] Apply on monitor %d panicked: %v", m.ID, r)
			err = &ApplyError{MonitorID: m.ID, Path: asset.Path, Kind: ErrOSRejected, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.applier.Apply(asset, m, scale)
}

func (o *Orchestrator) publish(outcome CycleOutcome) {
	o.mu.Lock()
	o.last = &outcome
	subs := slices.Clone(o.subscribers)
	o.mu.Unlock()

	for _, fn := range subs {
		fn(outcome)
	}
}
