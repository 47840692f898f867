// Package cli implements the curvearrow command-line interface.
//
// The CLI draws curved arrows between the elements of a page description.
// It is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: draw arrows once to PNG, SVG or JSON (optionally composited
//     over the page)
//   - watch: keep arrows in sync with a page file as it changes
//   - serve: serve arrows over HTTP for previews
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curvearrow/pkg/buildinfo"
)

// appName is the application name used for display.
const appName = "curvearrow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The CLI's logger is attached to every command's context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Curvearrow draws curved arrows between page elements",
		Long:         `Curvearrow draws a quadratic Bézier arrow between two elements of a page, sizing a minimal drawing surface to the curve and rendering it as PNG, SVG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
