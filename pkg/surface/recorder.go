package surface

import (
	"encoding/json"
	"sync"
)

// Command is one recorded drawing call.
type Command struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Color string    `json:"color,omitempty"`
	Join  string    `json:"join,omitempty"`
	Cap   string    `json:"cap,omitempty"`
}

// Recorder is a [Surface] that records what would have been drawn.
// It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	visible   bool
	placed    bool
	placement Placement
	commands  []Command
	places    int
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty, hidden recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Place implements [Surface].
func (r *Recorder) Place(p Placement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible, r.placed = true, true
	r.placement = p
	r.commands = nil
	r.places++
}

// Hide implements [Surface].
func (r *Recorder) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
	r.commands = nil
}

// Visible implements [Surface].
func (r *Recorder) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

func (r *Recorder) record(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.visible {
		return
	}
	r.commands = append(r.commands, c)
}

func (r *Recorder) BeginPath()          { r.record(Command{Op: "begin_path"}) }
func (r *Recorder) MoveTo(x, y float64) { r.record(Command{Op: "move_to", Args: []float64{x, y}}) }
func (r *Recorder) LineTo(x, y float64) { r.record(Command{Op: "line_to", Args: []float64{x, y}}) }
func (r *Recorder) Stroke()             { r.record(Command{Op: "stroke"}) }

func (r *Recorder) QuadraticTo(cx, cy, x, y float64) {
	r.record(Command{Op: "quadratic_to", Args: []float64{cx, cy, x, y}})
}

func (r *Recorder) Arc(x, y, radius, a0, a1 float64) {
	r.record(Command{Op: "arc", Args: []float64{x, y, radius, a0, a1}})
}

func (r *Recorder) SetStroke(s StrokeStyle) {
	hex, _ := CSSColor(s.Color)
	r.record(Command{
		Op:    "set_stroke",
		Args:  []float64{s.Width},
		Color: hex,
		Join:  s.Join.String(),
		Cap:   s.Cap.String(),
	})
}

// Placement returns the last placement and whether the surface was ever
// placed.
func (r *Recorder) Placement() (Placement, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placement, r.placed
}

// Commands returns a copy of the commands recorded since the last Place.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Ops returns the operation names recorded since the last Place.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]string, len(r.commands))
	for i, c := range r.commands {
		ops[i] = c.Op
	}
	return ops
}

// Places returns how many times the surface was placed.
func (r *Recorder) Places() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.places
}

type recorderJSON struct {
	Visible   bool       `json:"visible"`
	Placement *Placement `json:"placement,omitempty"`
	Commands  []Command  `json:"commands"`
}

// MarshalJSON exports the visible state, placement and command log.
func (r *Recorder) MarshalJSON() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := recorderJSON{Visible: r.visible, Commands: r.commands}
	if r.visible {
		p := r.placement
		out.Placement = &p
	}
	if out.Commands == nil {
		out.Commands = []Command{}
	}
	return json.Marshal(out)
}
