package arrow

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

// Defaults applied by [Config.WithDefaults].
const (
	DefaultWidth         = 8.0
	DefaultColor         = "black"
	DefaultRetryDelay    = 200 * time.Millisecond
	DefaultArrowheadSize = 30.0

	// DebugRadius is the radius of the markers drawn at the control points
	// when DebugLine is set.
	DebugRadius = 10.0
)

// Config describes one arrow. Zero values are replaced by defaults in
// [Config.WithDefaults].
type Config struct {
	// FromSelector and ToSelector locate the anchor elements. ToSelector
	// defaults to FromSelector.
	FromSelector string `toml:"from_selector" json:"from_selector"`
	ToSelector   string `toml:"to_selector" json:"to_selector,omitempty"`

	// Offsets move each anchor away from its element's center. Positive Y
	// offsets move the anchor up the screen.
	FromOffsetX float64 `toml:"from_offset_x" json:"from_offset_x,omitempty"`
	FromOffsetY float64 `toml:"from_offset_y" json:"from_offset_y,omitempty"`
	ToOffsetX   float64 `toml:"to_offset_x" json:"to_offset_x,omitempty"`
	ToOffsetY   float64 `toml:"to_offset_y" json:"to_offset_y,omitempty"`

	// MiddleX and MiddleY displace the control point from the midpoint of
	// the anchors. Positive MiddleY bends the curve up the screen.
	MiddleX float64 `toml:"middle_x" json:"middle_x,omitempty"`
	MiddleY float64 `toml:"middle_y" json:"middle_y,omitempty"`

	Width float64 `toml:"width" json:"width,omitempty"`
	Color string  `toml:"color" json:"color,omitempty"`

	// HideIfFoundSelector suppresses the arrow while it matches an element.
	HideIfFoundSelector string `toml:"hide_if_found_selector" json:"hide_if_found_selector,omitempty"`

	DebugLine     bool              `toml:"debug_line" json:"debug_line,omitempty"`
	DynamicUpdate bool              `toml:"dynamic_update" json:"dynamic_update,omitempty"`
	ZIndex        int               `toml:"z_index" json:"z_index,omitempty"`
	Style         map[string]string `toml:"style" json:"style,omitempty"`

	// RetryDelay is the wait before re-rendering when an anchor is missing,
	// and the polling interval when DynamicUpdate is set.
	RetryDelay Duration `toml:"retry_delay" json:"retry_delay,omitempty"`

	ArrowheadSize float64 `toml:"arrowhead_size" json:"arrowhead_size,omitempty"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.ToSelector == "" {
		c.ToSelector = c.FromSelector
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = Duration(DefaultRetryDelay)
	}
	if c.ArrowheadSize == 0 {
		c.ArrowheadSize = DefaultArrowheadSize
	}
	return c
}

// Validate checks a defaulted configuration.
func (c Config) Validate() error {
	if c.FromSelector == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "from_selector is required")
	}
	selectors := []struct{ name, value string }{
		{"from_selector", c.FromSelector},
		{"to_selector", c.ToSelector},
		{"hide_if_found_selector", c.HideIfFoundSelector},
	}
	for _, sel := range selectors {
		if sel.value == "" {
			continue
		}
		if err := errs.ValidateSelector(sel.value); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", sel.name)
		}
	}
	if c.Width <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "width must be positive, got %g", c.Width)
	}
	if c.ArrowheadSize <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "arrowhead_size must be positive, got %g", c.ArrowheadSize)
	}
	if c.RetryDelay <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "retry_delay must be positive, got %s", c.RetryDelay)
	}
	if _, err := surface.ParseColor(c.Color); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "color")
	}
	return nil
}

// Padding returns the margin added around the curve's bounding box: the
// arrowhead size minus the stroke width, but never less than half the stroke
// width so the stroke itself cannot clip.
//
// The width/2 floor deviates from the plain arrowheadSize-width margin. The
// two agree while width <= 2*arrowheadSize/3 (20 with default settings). Above
// that, the plain margin shrinks below half the stroke, or goes negative, and
// would cut the stroke off at the surface edge.
func (c Config) Padding() float64 {
	return max(c.ArrowheadSize-c.Width, c.Width/2)
}

// Duration is a time.Duration that decodes from strings such as "200ms" in
// TOML and JSON.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// File is the on-disk form of an arrow configuration file: one [[arrow]]
// table per arrow.
type File struct {
	Arrows []Config `toml:"arrow"`
}

// LoadConfigs reads arrow configurations from a TOML file, applies defaults
// and validates each one.
func LoadConfigs(path string) ([]Config, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "arrow file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return ParseConfigs(data)
}

// ParseConfigs decodes and validates arrow configurations from TOML.
func ParseConfigs(data []byte) ([]Config, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode arrow file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown arrow keys: %v", undecoded)
	}
	if len(f.Arrows) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "no [[arrow]] tables found")
	}

	out := make([]Config, len(f.Arrows))
	for i, c := range f.Arrows {
		c = c.WithDefaults()
		if err := c.Validate(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "arrow %d", i+1)
		}
		out[i] = c
	}
	return out, nil
}
