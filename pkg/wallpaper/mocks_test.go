package wallpaper

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/stretchr/testify/mock"
)

// MockOS is a mock implementation of the OS interface.
type MockOS struct {
	mock.Mock
}

func (m *MockOS) GetMonitors() ([]Monitor, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Monitor), args.Error(1)
}

func (m *MockOS) GetDesktopOptions(monitorID int) (DesktopOptions, error) {
	args := m.Called(monitorID)
	return args.Get(0).(DesktopOptions), args.Error(1)
}

func (m *MockOS) SetWallpaper(path string, monitorID int, opts DesktopOptions) error {
	args := m.Called(path, monitorID, opts)
	return args.Error(0)
}

// MockApplier records Apply calls.
type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Apply(asset unsplash.Asset, mon Monitor, scale bool) error {
	args := m.Called(asset, mon, scale)
	return args.Error(0)
}

// fakeFetcher returns a deterministic asset per request, or the error
// registered for that request size.
type fakeFetcher struct {
	mu       sync.Mutex
	requests []unsplash.FetchRequest
	fail     map[unsplash.Size]error
	panics   map[unsplash.Size]any
	block    chan struct{} // when non-nil, Fetch waits on it
	active   int
	peak     int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{fail: make(map[unsplash.Size]error), panics: make(map[unsplash.Size]any)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, req unsplash.FetchRequest) (unsplash.Asset, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	err := f.fail[req.Size]
	p, panics := f.panics[req.Size]
	block := f.block
	f.active++
	f.peak = max(f.peak, f.active)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if panics {
		panic(p)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return unsplash.Asset{}, ctx.Err()
		}
	}
	if err != nil {
		return unsplash.Asset{}, err
	}
	return unsplash.Asset{Path: "/cache/" + req.Size.String(), StatusCode: 200, Bytes: 1}, nil
}

// Peak returns the most Fetch calls that were running at once.
func (f *fakeFetcher) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

func (f *fakeFetcher) Requests() []unsplash.FetchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]unsplash.FetchRequest(nil), f.requests...)
}

// fakeRefresher counts Refresh calls and signals each one.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	fired chan struct{}
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{fired: make(chan struct{}, 16)}
}

func (r *fakeRefresher) Refresh(ctx context.Context) CycleOutcome {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.fired <- struct{}{}
	return CycleOutcome{Mode: modePerDisplay}
}

func (r *fakeRefresher) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeTimer is a manually fired Timer.
type fakeTimer struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers a tick. A fired timer counts as no longer active.
func (t *fakeTimer) Fire(now time.Time) {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.c <- now
}

// fakeTimers is a TimerFunc that records every timer it creates.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeTimers) New(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{d: d, c: make(chan time.Time, 1)}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) All() []*fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeTimer(nil), f.timers...)
}

// Active returns the timers that have not been stopped or fired.
func (f *fakeTimers) Active() []*fakeTimer {
	var active []*fakeTimer
	for _, t := range f.All() {
		if !t.Stopped() {
			active = append(active, t)
		}
	}
	return active
}

func monitor(id, w, h int) Monitor {
	return Monitor{ID: id, Rect: image.Rect(0, 0, w, h)}
}
