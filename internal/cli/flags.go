package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/curvearrow/pkg/arrow"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// arrowFlags describes the arrows a command draws: either a TOML file of
// [[arrow]] tables or a single arrow given inline.
type arrowFlags struct {
	file    string  // arrow TOML file
	from    string  // inline from selector
	to      string  // inline to selector (defaults to from)
	middleX float64 // inline control point displacement
	middleY float64
	width   float64
	color   string
	hide    string
	debug   bool
}

func (f *arrowFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "arrow", "a", "", "arrow file with one [[arrow]] table per arrow")
	fs.StringVar(&f.from, "from", "", "from selector (inline arrow)")
	fs.StringVar(&f.to, "to", "", "to selector (inline arrow, defaults to --from)")
	fs.Float64Var(&f.middleX, "middle-x", 0, "horizontal control point displacement")
	fs.Float64Var(&f.middleY, "middle-y", 0, "vertical control point displacement (positive bends up)")
	fs.Float64Var(&f.width, "width", arrow.DefaultWidth, "stroke width")
	fs.StringVar(&f.color, "color", arrow.DefaultColor, "stroke color")
	fs.StringVar(&f.hide, "hide-if-found", "", "suppress the arrow while this selector matches")
	fs.BoolVar(&f.debug, "debug-line", false, "draw markers at the control points")
	cmd.MarkFlagsMutuallyExclusive("arrow", "from")
}

// configs returns the validated arrow configurations.
func (f *arrowFlags) configs() ([]arrow.Config, error) {
	if f.file != "" {
		return arrow.LoadConfigs(f.file)
	}
	if f.from == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "either --arrow or --from is required")
	}
	cfg := arrow.Config{
		FromSelector:        f.from,
		ToSelector:          f.to,
		MiddleX:             f.middleX,
		MiddleY:             f.middleY,
		Width:               f.width,
		Color:               f.color,
		HideIfFoundSelector: f.hide,
		DebugLine:           f.debug,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []arrow.Config{cfg}, nil
}
