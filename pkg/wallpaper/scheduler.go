package wallpaper

import (
	"context"
	"sync"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// SchedulerState is Idle (no timer) or Armed (exactly one timer pending).
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StateArmed
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	default:
		return "unknown"
	}
}

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) CycleOutcome
}

// Timer is the subset of *time.Timer the scheduler uses.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// TimerFunc creates a one-shot timer.
type TimerFunc func(d time.Duration) Timer

type stdTimer struct{ t *time.Timer }

func (s stdTimer) C() <-chan time.Time { return s.t.C }
func (s stdTimer) Stop() bool          { return s.t.Stop() }

func newStdTimer(d time.Duration) Timer {
	return stdTimer{t: time.NewTimer(d)}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTimerFunc replaces the timer factory.
func WithTimerFunc(fn TimerFunc) SchedulerOption {
	return func(s *Scheduler) { s.newTimer = fn }
}

// WithClock replaces the clock used to compute deadlines.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

type schedulerOp int

const (
	opStart schedulerOp = iota
	opStop
	opStatus
)

type schedulerCmd struct {
	op    schedulerOp
	reply chan schedulerStatus
}

type schedulerStatus struct {
	state    SchedulerState
	deadline time.Time
}

// Scheduler owns the single refresh timer. All timer state lives in one
// actor goroutine; callers talk to it through synchronous commands, so at
// most one timer is ever armed.
type Scheduler struct {
	cfg       ConfigProvider
	refresher Refresher
	newTimer  TimerFunc
	now       func() time.Time

	cmds      chan schedulerCmd
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// owned by run
	timer    Timer
	deadline time.Time
}

// NewScheduler creates an idle scheduler and starts its actor loop.
func NewScheduler(cfg ConfigProvider, refresher Refresher, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:       cfg,
		refresher: refresher,
		newTimer:  newStdTimer,
		now:       time.Now,
		cmds:      make(chan schedulerCmd),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Start cancels any armed timer, then arms one for now + interval, reading
// the interval fresh from the settings. Safe to call from any state.
func (s *Scheduler) Start() {
	s.send(opStart)
}

// Stop cancels the armed timer, if any.
func (s *Scheduler) Stop() {
	s.send(opStop)
}

// Status returns the current state and, when armed, the deadline.
func (s *Scheduler) Status() (SchedulerState, time.Time) {
	st := s.send(opStatus)
	return st.state, st.deadline
}

// FireNow runs one cycle on the caller's goroutine without touching the
// pending timer. When reschedule is true it calls Start afterwards, which
// replaces the pending timer with a fresh full interval.
func (s *Scheduler) FireNow(ctx context.Context, reschedule bool) CycleOutcome {
	log.Printf("[Scheduler] Manual refresh (reschedule=%v)", reschedule)
	outcome := s.refresher.Refresh(ctx)
	if reschedule {
		s.Start()
	}
	return outcome
}

// Close stops the timer and the actor loop. Later calls are no-ops.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *Scheduler) send(op schedulerOp) schedulerStatus {
	cmd := schedulerCmd{op: op, reply: make(chan schedulerStatus, 1)}
	select {
	case s.cmds <- cmd:
		return <-cmd.reply
	case <-s.done:
		return schedulerStatus{state: StateIdle}
	}
}

func (s *Scheduler) run() {
	defer close(s.done)
	log.Debug("[Scheduler] Actor loop started")

	for {
		var fire <-chan time.Time
		if s.timer != nil {
			fire = s.timer.C()
		}

		select {
		case <-s.ctx.Done():
			s.disarm()
			log.Debug("[Scheduler] Actor loop stopped")
			return

		case cmd := <-s.cmds:
			switch cmd.op {
			case opStart:
				s.arm()
			case opStop:
				s.disarm()
				log.Print("[Scheduler] Stopped")
			}
			cmd.reply <- s.status()

		case <-fire:
			s.timer = nil
			log.Print("[Scheduler] Timer fired")
			// Re-arm before the cycle so a slow cycle never delays the next one.
			s.arm()
			go s.refresher.Refresh(s.ctx)
		}
	}
}

func (s *Scheduler) arm() {
	s.disarm()
	interval := s.cfg.Snapshot().Interval()
	s.timer = s.newTimer(interval)
	s.deadline = s.now().Add(interval)
	log.Printf("[Scheduler] Next refresh in %v at %s", interval, s.deadline.Format(time.Kitchen))
}

func (s *Scheduler) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.deadline = time.Time{}
}

func (s *Scheduler) status() schedulerStatus {
	if s.timer == nil {
		return schedulerStatus{state: StateIdle}
	}
	return schedulerStatus{state: StateArmed, deadline: s.deadline}
}
