package arrow

import (
	"slices"
	"testing"
	"time"
)

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	if n := s.Advance(99 * time.Millisecond); n != 0 {
		t.Fatalf("Advance(99ms) ran %d callbacks", n)
	}
	if n := s.Advance(time.Millisecond); n != 2 {
		t.Fatalf("Advance(1ms) ran %d callbacks, want 2", n)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
	s.Advance(time.Second)
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if s.Now() != 1100*time.Millisecond {
		t.Errorf("Now() = %v", s.Now())
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	tm := s.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("first Stop() = false")
	}
	if tm.Stop() {
		t.Error("second Stop() = true")
	}
	s.Advance(2 * time.Second)
	if fired || s.Pending() != 0 {
		t.Errorf("stopped timer fired=%v pending=%d", fired, s.Pending())
	}

	done := s.AfterFunc(0, func() {})
	s.Advance(0)
	if done.Stop() {
		t.Error("Stop() after firing = true")
	}
}

func TestManualSchedulerNested(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	var tick func()
	tick = func() {
		count++
		s.AfterFunc(100*time.Millisecond, tick)
	}
	s.AfterFunc(100*time.Millisecond, tick)

	if n := s.Advance(350 * time.Millisecond); n != 3 {
		t.Errorf("Advance ran %d callbacks, want 3", n)
	}
	if count != 3 || s.Pending() != 1 {
		t.Errorf("count=%d pending=%d", count, s.Pending())
	}
}

func TestClockScheduler(t *testing.T) {
	done := make(chan struct{})
	ClockScheduler{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not run")
	}

	tm := ClockScheduler{}.AfterFunc(time.Hour, func() { t.Error("stopped timer fired") })
	if !tm.Stop() {
		t.Error("Stop() = false for pending timer")
	}
}
