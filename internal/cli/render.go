package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/curvearrow/pkg/arrow"
	"github.com/matzehuels/curvearrow/pkg/dom"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	arrows    arrowFlags
	output    string // output file; the extension picks the format
	composite bool   // draw the page and every arrow into one PNG
}

// renderCommand creates the render command for drawing arrows once.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [page]",
		Short: "Render arrows over a page to PNG, SVG or JSON",
		Long: `Render draws each arrow over the page description once.

The page is a TOML or JSON file listing element rectangles. Arrows come from
an --arrow file or from inline flags. Each arrow is written to its own file
(out.svg, or out_1.svg, out_2.svg, ... for several arrows) unless
--composite is set, in which case the page and all arrows are drawn into a
single PNG.`,
		Example: `  curvearrow render page.toml --from "#a" --to "#b" --middle-y 60 -o arrow.svg
  curvearrow render page.toml --arrow arrows.toml -o preview.png --composite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.arrows.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file: .png, .svg or .json (default: <page>.svg)")
	cmd.Flags().BoolVar(&opts.composite, "composite", false, "draw the page and all arrows into one PNG")

	return cmd
}

// runRender loads the page and arrows, renders every arrow independently and
// writes the results.
func runRender(ctx context.Context, pagePath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	page, err := dom.LoadPage(pagePath)
	if err != nil {
		return err
	}
	cfgs, err := opts.arrows.configs()
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d elements, %d arrows", pagePath, len(page.Elements), len(cfgs))

	output := opts.output
	if output == "" {
		output = basePath("", pagePath) + "." + formatSVG
	}
	format, err := formatFromPath(output)
	if err != nil {
		return err
	}
	if opts.composite && format != formatPNG {
		return errs.New(errs.ErrCodeInvalidInput, "--composite requires a .png output, got %s", output)
	}

	arts, err := renderAll(ctx, page, cfgs, format)
	if err != nil {
		return err
	}

	drawn := 0
	for _, a := range arts {
		if a.drawn() {
			drawn++
			logger.Debug("arrow drawn", "arrow", a.Index+1, "box", a.Geometry.Box)
			continue
		}
		printWarning("arrow %d not drawn: %s", a.Index+1, a.Outcome)
	}

	if opts.composite {
		data, err := compositePNG(page, arts)
		if err != nil {
			return err
		}
		if err := writeOutput(output, data); err != nil {
			return err
		}
		printSuccess("Rendered %d of %d arrows over %s", drawn, len(arts), pagePath)
		printFile(output)
		prog.done("Render complete", "arrows", len(arts), "format", format)
		return nil
	}

	var written []string
	for _, a := range arts {
		// json documents record why an arrow was skipped, so they are always written.
		if !a.drawn() && format != formatJSON {
			continue
		}
		path := indexedPath(output, format, a.Index, len(arts))
		if err := writeOutput(path, a.Data); err != nil {
			return err
		}
		written = append(written, path)
	}

	if len(written) == 0 {
		return errs.New(errs.ErrCodeNotFound, "no arrow was drawn")
	}
	printSuccess("Rendered %d of %d arrows", drawn, len(arts))
	for _, p := range written {
		printFile(p)
	}
	prog.done("Render complete", "arrows", len(arts), "format", format)
	return nil
}

// renderAll renders each configuration onto its own surface concurrently.
// Arrows are independent; the page is only read.
func renderAll(ctx context.Context, doc dom.Document, cfgs []arrow.Config, format string) ([]artifact, error) {
	arts := make([]artifact, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := renderArtifact(cfg, doc, format)
			if err != nil {
				return fmt.Errorf("arrow %d: %w", i+1, err)
			}
			a.Index = i
			arts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return arts, nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
