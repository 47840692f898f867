package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingRenderHooks struct {
	NoopRenderHooks
	mu       sync.Mutex
	outcomes []string
}

func (h *countingRenderHooks) OnRenderComplete(_ context.Context, _, outcome string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes = append(h.outcomes, outcome)
}

type countingScheduleHooks struct{ NoopScheduleHooks }
type countingHTTPHooks struct{ NoopHTTPHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Errorf("Render() = %T, want NoopRenderHooks", Render())
	}
	if _, ok := Schedule().(NoopScheduleHooks); !ok {
		t.Errorf("Schedule() = %T, want NoopScheduleHooks", Schedule())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	Render().OnRenderStart(ctx, "arrow-1")
	Render().OnRenderComplete(ctx, "arrow-1", "drawn", time.Millisecond)
	Schedule().OnScheduled(ctx, "arrow-1", 200*time.Millisecond)
	Schedule().OnCanceled(ctx, "arrow-1")
	HTTP().OnRequest(ctx, "GET", "/arrow.svg")
	HTTP().OnResponse(ctx, "GET", "/arrow.svg", 200, time.Millisecond)
}

func TestSetAndReset(t *testing.T) {
	defer Reset()

	render := &countingRenderHooks{}
	schedule := &countingScheduleHooks{}
	httpHooks := &countingHTTPHooks{}
	SetRenderHooks(render)
	SetScheduleHooks(schedule)
	SetHTTPHooks(httpHooks)

	if Render() != render || Schedule() != schedule || HTTP() != httpHooks {
		t.Fatal("setters did not install the given hooks")
	}

	Render().OnRenderComplete(context.Background(), "arrow-1", "anchors-missing", 0)
	if len(render.outcomes) != 1 || render.outcomes[0] != "anchors-missing" {
		t.Errorf("outcomes = %v", render.outcomes)
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() did not restore render hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() did not restore HTTP hooks")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	defer Reset()

	render := &countingRenderHooks{}
	SetRenderHooks(render)
	SetRenderHooks(nil)
	SetScheduleHooks(nil)
	SetHTTPHooks(nil)

	if Render() != render {
		t.Error("SetRenderHooks(nil) replaced the installed hooks")
	}
	if _, ok := Schedule().(NoopScheduleHooks); !ok {
		t.Error("SetScheduleHooks(nil) replaced the default")
	}
}
