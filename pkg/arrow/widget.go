package arrow

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/curvearrow/pkg/dom"
	"github.com/matzehuels/curvearrow/pkg/observability"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

// Pass describes one completed render pass of a [Widget].
type Pass struct {
	Seq      int      `json:"seq"`
	Outcome  Outcome  `json:"outcome"`
	Geometry Geometry `json:"geometry"`
	// Scheduled reports whether a retry or poll was scheduled after the pass.
	Scheduled bool `json:"scheduled"`
}

// Observer is called after every render pass. No other pass of the same
// widget starts until all observers have returned, so an observer may read
// the widget's surface. Observers must not call Mount, Update or Refresh.
type Observer func(Pass)

// Option configures a [Widget].
type Option func(*Widget)

// WithScheduler sets the scheduler used for retries and polling. The default
// is [ClockScheduler].
func WithScheduler(s Scheduler) Option { return func(w *Widget) { w.sched = s } }

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option { return func(w *Widget) { w.logger = l } }

// WithObserver adds a callback invoked after every render pass.
func WithObserver(o Observer) Option {
	return func(w *Widget) { w.observers = append(w.observers, o) }
}

// WithID overrides the generated instance id.
func WithID(id string) Option { return func(w *Widget) { w.id = id } }

// Widget hosts one arrow over a document and a surface. It renders on mount
// and update, retries while an anchor is missing and, with DynamicUpdate,
// keeps re-rendering on a fixed interval. A widget owns at most one pending
// timer.
//
// Widget is safe for concurrent use; timer callbacks from [ClockScheduler]
// run on their own goroutines.
type Widget struct {
	id        string
	doc       dom.Document
	surf      surface.Surface
	sched     Scheduler
	logger    *log.Logger
	observers []Observer
	renderer  Renderer

	// passMu serializes passes together with their observer calls. It is
	// taken before mu.
	passMu sync.Mutex

	mu      sync.Mutex
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
	pending Timer
	gen     uint64
	seq     int
	last    Pass
}

// NewWidget returns an unmounted widget. A nil surface makes every pass
// [Headless].
func NewWidget(doc dom.Document, surf surface.Surface, cfg Config, opts ...Option) *Widget {
	w := &Widget{
		id:   uuid.NewString(),
		doc:  doc,
		surf: surf,
		cfg:  cfg.WithDefaults(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.sched == nil {
		w.sched = ClockScheduler{}
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	w.logger = w.logger.With("widget", shortID(w.id))
	return w
}

// ID returns the widget's instance id.
func (w *Widget) ID() string { return w.id }

// Config returns the current, defaulted configuration.
func (w *Widget) Config() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// Mounted reports whether the widget is mounted.
func (w *Widget) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attachedLocked()
}

// Mount attaches the widget and runs the first pass. The widget stays
// mounted until [Widget.Unmount] is called or ctx is canceled; after a
// cancel it behaves as unmounted and can be mounted again. Mounting a
// mounted widget just re-renders.
func (w *Widget) Mount(ctx context.Context) Pass {
	w.passMu.Lock()
	defer w.passMu.Unlock()
	w.mu.Lock()
	if !w.attachedLocked() {
		w.ctx, w.cancel = context.WithCancel(ctx)
		w.logger.Debug("mounted", "from", w.cfg.FromSelector, "to", w.cfg.ToSelector)
	}
	return w.passLocked()
}

// Update replaces the configuration and re-renders. On an unmounted widget
// it only stores the configuration.
func (w *Widget) Update(cfg Config) Pass {
	w.passMu.Lock()
	defer w.passMu.Unlock()
	w.mu.Lock()
	w.cfg = cfg.WithDefaults()
	if !w.attachedLocked() {
		last := w.last
		w.mu.Unlock()
		return last
	}
	return w.passLocked()
}

// Refresh runs a pass immediately, replacing any pending timer.
func (w *Widget) Refresh() Pass {
	w.passMu.Lock()
	defer w.passMu.Unlock()
	w.mu.Lock()
	if !w.attachedLocked() {
		last := w.last
		w.mu.Unlock()
		return last
	}
	return w.passLocked()
}

// Unmount cancels the pending timer and detaches the widget. A timer that
// fires after Unmount never renders.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return
	}
	w.detachLocked()
	w.logger.Debug("unmounted")
}

// attachedLocked reports whether the widget is mounted under a live
// context. A widget whose mount context was canceled is detached here.
func (w *Widget) attachedLocked() bool {
	if w.ctx == nil {
		return false
	}
	if w.ctx.Err() != nil {
		w.detachLocked()
		w.logger.Debug("unmounted", "reason", "context canceled")
		return false
	}
	return true
}

func (w *Widget) detachLocked() {
	w.stopPendingLocked()
	w.gen++
	w.cancel()
	w.ctx, w.cancel = nil, nil
}

// Last returns the most recent pass.
func (w *Widget) Last() Pass {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// passLocked renders once, schedules the follow-up pass if needed and
// notifies observers. It is entered with w.passMu and w.mu held and
// releases w.mu. A timer armed here cannot start its pass before the
// observers return because it needs w.passMu.
func (w *Widget) passLocked() Pass {
	ctx, cfg := w.ctx, w.cfg
	w.stopPendingLocked()
	w.gen++

	start := time.Now()
	observability.Render().OnRenderStart(ctx, w.id)
	g, out := w.renderer.Render(cfg, w.doc, w.surf)
	elapsed := time.Since(start)
	observability.Render().OnRenderComplete(ctx, w.id, out.String(), elapsed)

	w.seq++
	p := Pass{Seq: w.seq, Outcome: out, Geometry: g}
	if ctx.Err() == nil && (out == AnchorsMissing || (cfg.DynamicUpdate && out != Headless)) {
		w.scheduleLocked(ctx, cfg.RetryDelay.Std())
		p.Scheduled = true
	}
	w.last = p
	w.log(p)

	observers := w.observers
	w.mu.Unlock()

	for _, o := range observers {
		o(p)
	}
	return p
}

func (w *Widget) log(p Pass) {
	switch p.Outcome {
	case Drawn:
		w.logger.Debug("drawn", "pass", p.Seq, "box", p.Geometry.Box, "scheduled", p.Scheduled)
	default:
		w.logger.Debug("skipped", "pass", p.Seq, "outcome", p.Outcome, "scheduled", p.Scheduled)
	}
}

// scheduleLocked arms the single pending timer. Callers hold w.mu and have
// already stopped the previous timer.
func (w *Widget) scheduleLocked(ctx context.Context, delay time.Duration) {
	gen := w.gen
	w.pending = w.sched.AfterFunc(delay, func() { w.fire(gen) })
	observability.Schedule().OnScheduled(ctx, w.id, delay)
}

func (w *Widget) stopPendingLocked() {
	if w.pending == nil {
		return
	}
	if w.pending.Stop() {
		observability.Schedule().OnCanceled(w.ctx, w.id)
	}
	w.pending = nil
}

// fire runs a timer-driven pass unless the timer is stale: the widget was
// unmounted, its context canceled, or another pass ran since scheduling.
func (w *Widget) fire(gen uint64) {
	w.passMu.Lock()
	defer w.passMu.Unlock()
	w.mu.Lock()
	if gen != w.gen || !w.attachedLocked() {
		w.mu.Unlock()
		return
	}
	w.pending = nil
	w.passLocked()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
