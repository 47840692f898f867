package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curvearrow/pkg/arrow"
	"github.com/matzehuels/curvearrow/pkg/dom"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	arrows   arrowFlags
	output   string        // output file; the extension picks the format
	interval time.Duration // poll interval, overrides retry_delay
	plain    bool          // log passes instead of showing the status view
}

// watchCommand creates the watch command, which keeps arrows in sync with a
// page file that changes on disk.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [page]",
		Short: "Keep arrows in sync with a changing page file",
		Long: `Watch mounts one widget per arrow over the page file and polls it.

Whenever the file changes, anchors are resolved again and every drawn pass
rewrites the output. Arrows whose anchors are missing are retried until the
elements appear. Press q to stop.`,
		Example: `  curvearrow watch page.toml --from "#a" --to "#b" -o arrow.svg
  curvearrow watch page.json --arrow arrows.toml -o out.png --interval 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], &opts)
		},
	}

	opts.arrows.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file: .png, .svg or .json (default: <page>.svg)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "poll interval (default: each arrow's retry_delay)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "log each pass instead of showing the status view")

	return cmd
}

// watchPassMsg reports a completed widget pass to the status view.
type watchPassMsg struct {
	Index int
	Pass  arrow.Pass
	Path  string
	Err   error
}

// watcher owns the widgets of one watch session and writes their output.
type watcher struct {
	doc     *dom.FileDocument
	format  string
	output  string
	logger  *log.Logger
	widgets []*arrow.Widget
	notify  func(watchPassMsg)
}

func newWatcher(doc *dom.FileDocument, cfgs []arrow.Config, output, format string, logger *log.Logger, sched arrow.Scheduler) *watcher {
	w := &watcher{doc: doc, format: format, output: output, logger: logger, notify: func(watchPassMsg) {}}
	for i, cfg := range cfgs {
		cfg.DynamicUpdate = true
		surf := newWatchSurface(format)
		path := indexedPath(output, format, i, len(cfgs))
		opts := []arrow.Option{
			arrow.WithLogger(logger),
			arrow.WithObserver(func(p arrow.Pass) { w.onPass(i, cfg, surf, path, p) }),
		}
		if sched != nil {
			opts = append(opts, arrow.WithScheduler(sched))
		}
		w.widgets = append(w.widgets, arrow.NewWidget(doc, surf, cfg, opts...))
	}
	return w
}

func newWatchSurface(format string) surface.Surface {
	switch format {
	case formatPNG:
		return surface.NewRaster()
	case formatJSON:
		return surface.NewRecorder()
	default:
		return surface.NewSVG()
	}
}

// onPass writes the surface of a drawn pass and notifies the status view.
func (w *watcher) onPass(i int, cfg arrow.Config, surf surface.Surface, path string, p arrow.Pass) {
	msg := watchPassMsg{Index: i, Pass: p}
	if p.Outcome == arrow.Drawn {
		data, err := encodeSurface(surf, cfg, p)
		if err == nil {
			err = writeOutput(path, data)
		}
		msg.Path, msg.Err = path, err
		if err != nil {
			w.logger.Error("write failed", "arrow", i+1, "err", err)
		}
	}
	if err := w.doc.Err(); err != nil && msg.Err == nil {
		msg.Err = err
	}
	w.notify(msg)
}

// encodeSurface serializes the current content of a watch surface.
func encodeSurface(surf surface.Surface, cfg arrow.Config, p arrow.Pass) ([]byte, error) {
	switch s := surf.(type) {
	case *surface.SVG:
		return s.Bytes(), nil
	case *surface.Raster:
		var buf bytes.Buffer
		if err := s.EncodePNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case *surface.Recorder:
		data, err := json.MarshalIndent(jsonArtifact{
			Outcome:  p.Outcome,
			Config:   cfg.WithDefaults(),
			Geometry: &p.Geometry,
			Surface:  s,
		}, "", "  ")
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode json")
		}
		return append(data, '\n'), nil
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "surface %T", surf)
	}
}

func (w *watcher) mount(ctx context.Context) {
	for _, wd := range w.widgets {
		wd.Mount(ctx)
	}
}

func (w *watcher) unmount() {
	for _, wd := range w.widgets {
		wd.Unmount()
	}
}

// runWatch mounts the widgets and blocks until ctx is canceled or the user
// quits the status view.
func runWatch(ctx context.Context, pagePath string, opts *watchOpts) error {
	logger := commandLogger(ctx, "watch")

	if err := errs.ValidatePath(pagePath); err != nil {
		return err
	}
	cfgs, err := opts.arrows.configs()
	if err != nil {
		return err
	}
	if opts.interval < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "--interval must not be negative")
	}
	if opts.interval > 0 {
		for i := range cfgs {
			cfgs[i].RetryDelay = arrow.Duration(opts.interval)
		}
	}

	output := opts.output
	if output == "" {
		output = basePath("", pagePath) + "." + formatSVG
	}
	format, err := formatFromPath(output)
	if err != nil {
		return err
	}

	logger = watchLogger(logger, opts.plain)
	doc := dom.NewFileDocument(pagePath)
	w := newWatcher(doc, cfgs, output, format, logger, nil)

	if opts.plain {
		w.notify = func(m watchPassMsg) { logPass(logger, m) }
		w.mount(ctx)
		defer w.unmount()
		printInfo("Watching %s (%d arrows)", pagePath, len(cfgs))
		<-ctx.Done()
		return ctx.Err()
	}

	model := newWatchModel(pagePath, len(cfgs))
	prog := tea.NewProgram(model, tea.WithContext(ctx))
	w.notify = func(m watchPassMsg) { prog.Send(m) }

	// Send blocks until the program's event loop runs, so the first passes
	// are started alongside Run. Once Run returns, Send no longer blocks.
	mounted := make(chan struct{})
	go func() {
		defer close(mounted)
		w.mount(ctx)
	}()
	_, err = prog.Run()
	<-mounted
	w.unmount()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// watchLogger returns the logger widgets and passes log through. The status
// view owns the terminal, so outside plain mode only warnings get through.
// Widgets copy the logger when created, which fixes the level for their
// lifetime.
func watchLogger(base *log.Logger, plain bool) *log.Logger {
	if plain {
		return base
	}
	l := base.With()
	l.SetLevel(max(base.GetLevel(), log.WarnLevel))
	return l
}

func logPass(logger *log.Logger, m watchPassMsg) {
	fields := []any{"arrow", m.Index + 1, "pass", m.Pass.Seq, "outcome", m.Pass.Outcome}
	if m.Pass.Outcome == arrow.Drawn {
		fields = append(fields, "box", m.Pass.Geometry.Box)
	}
	if m.Err != nil {
		logger.Warn("pass", append(fields, "err", m.Err)...)
		return
	}
	logger.Info("pass", fields...)
}
