// Package observability lets a host watch curvearrow without linking a
// metrics or tracing backend into the library.
//
// Three event families exist: render passes and retry timers, both emitted
// by arrow widgets, and requests handled by the preview server. Each family
// has an interface, a no-op default and a process-wide setter. Hooks are
// registered by main before any widget mounts:
//
//	observability.SetRenderHooks(promRenderHooks{})
//	observability.SetScheduleHooks(promScheduleHooks{})
//
// and read back by emitters on every event:
//
//	observability.Render().OnRenderStart(ctx, widgetID)
//	observability.Render().OnRenderComplete(ctx, widgetID, "drawn", elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// RenderHooks observes arrow render passes. outcome is one of "drawn",
// "headless", "anchors-missing" or "suppressed".
type RenderHooks interface {
	OnRenderStart(ctx context.Context, widgetID string)
	OnRenderComplete(ctx context.Context, widgetID, outcome string, duration time.Duration)
}

// ScheduleHooks observes a widget's single pending retry/poll timer.
type ScheduleHooks interface {
	OnScheduled(ctx context.Context, widgetID string, delay time.Duration)
	// OnCanceled fires when a pending timer is dropped by unmount or by a
	// fresh pass, never after the timer has fired.
	OnCanceled(ctx context.Context, widgetID string)
}

// HTTPHooks observes requests served by the preview server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string)                           {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, time.Duration) {}

type NoopScheduleHooks struct{}

func (NoopScheduleHooks) OnScheduled(context.Context, string, time.Duration) {}
func (NoopScheduleHooks) OnCanceled(context.Context, string)                 {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu       sync.RWMutex
	render   RenderHooks
	schedule ScheduleHooks
	http     HTTPHooks
}

var global = newRegistry()

func newRegistry() *registry {
	return &registry{
		render:   NoopRenderHooks{},
		schedule: NoopScheduleHooks{},
		http:     NoopHTTPHooks{},
	}
}

// set runs fn under the write lock.
func (r *registry) set(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// SetRenderHooks replaces the render hooks. A nil h is ignored.
func SetRenderHooks(h RenderHooks) {
	if h != nil {
		global.set(func() { global.render = h })
	}
}

// SetScheduleHooks replaces the schedule hooks. A nil h is ignored.
func SetScheduleHooks(h ScheduleHooks) {
	if h != nil {
		global.set(func() { global.schedule = h })
	}
}

// SetHTTPHooks replaces the HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		global.set(func() { global.http = h })
	}
}

func Render() RenderHooks {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.render
}

func Schedule() ScheduleHooks {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.schedule
}

func HTTP() HTTPHooks {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.http
}

// Reset puts every family back to its no-op default. Tests that install
// recording hooks defer it.
func Reset() {
	fresh := newRegistry()
	global.set(func() {
		global.render = fresh.render
		global.schedule = fresh.schedule
		global.http = fresh.http
	})
}
