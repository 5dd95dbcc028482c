package wallpaper

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/dixieflatline76/UnsplashedPaper/util"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// Service wires settings, the orchestrator and the scheduler into the
// operations the tray, hotkeys, CLI and local API expose.
type Service struct {
	config       *Config
	client       *unsplash.Client
	orchestrator *Orchestrator
	scheduler    *Scheduler

	running *util.SafeFlag
	ctx     context.Context
	cancel  context.CancelFunc

	debounceMu sync.Mutex
	debounce   *time.Timer
	watching   *util.SafeFlag
}

// NewService builds a service over the given preferences store, desktop
// collaborator and fetch client.
func NewService(prefs fyne.Preferences, os OS, client *unsplash.Client, opts ...SchedulerOption) *Service {
	cfg := NewConfig(prefs)
	orch := NewOrchestrator(client, NewApplier(os, client.Fs()), cfg, os)
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		config:       cfg,
		client:       client,
		orchestrator: orch,
		scheduler:    NewScheduler(cfg, orch, opts...),
		running:      util.NewSafeFlag(false),
		watching:     util.NewSafeFlag(false),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Config returns the settings accessor.
func (s *Service) Config() *Config {
	return s.config
}

// Run arms the timer and starts an immediate refresh in the background.
// Calling it again is a no-op.
func (s *Service) Run() {
	if !s.running.CompareAndSwap(false, true) {
		log.Print("[Service] Already running")
		return
	}
	log.Printf("[Service] Starting with %s", s.config.Snapshot())
	s.scheduler.Start()
	go s.scheduler.FireNow(s.ctx, false)
}

// RefreshNow runs one cycle and leaves the pending timer alone.
func (s *Service) RefreshNow() CycleOutcome {
	return s.scheduler.FireNow(s.ctx, false)
}

// RefreshDisplay refreshes a single display and leaves the timer alone.
func (s *Service) RefreshDisplay(monitorID int) CycleOutcome {
	return s.orchestrator.RefreshDisplay(s.ctx, monitorID)
}

// ApplySettings runs one cycle with the current settings. Like RefreshNow it
// leaves the pending timer alone; a changed interval is picked up when the
// timer next arms.
func (s *Service) ApplySettings() CycleOutcome {
	return s.scheduler.FireNow(s.ctx, false)
}

// Status returns the scheduler state and the next deadline.
func (s *Service) Status() (SchedulerState, time.Time) {
	return s.scheduler.Status()
}

// LastOutcome returns the most recent finished cycle, if any.
func (s *Service) LastOutcome() (CycleOutcome, bool) {
	return s.orchestrator.LastOutcome()
}

// Subscribe registers fn to receive every per-display result.
func (s *Service) Subscribe(fn func(ApplyResult)) {
	s.orchestrator.Subscribe(func(o CycleOutcome) {
		for _, r := range o.Results {
			fn(r)
		}
	})
}

// OnCycle registers fn to receive every finished cycle.
func (s *Service) OnCycle(fn func(CycleOutcome)) {
	s.orchestrator.Subscribe(fn)
}

// CacheDir returns the directory downloaded images are kept in.
func (s *Service) CacheDir() string {
	return s.client.Dir()
}

// Client returns the fetch client.
func (s *Service) Client() *unsplash.Client {
	return s.client
}

// Close stops the timer and cancels in-flight downloads.
func (s *Service) Close() {
	s.debounceMu.Lock()
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounceMu.Unlock()

	s.cancel()
	s.scheduler.Close()
	s.running.Set(false)
	log.Print("[Service] Stopped")
}
