package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	want := map[string]bool{"render": false, "watch": false, "serve": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), appName+" version ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRootCommandRender(t *testing.T) {
	dir := t.TempDir()
	page := writeTestFile(t, dir, "page.toml", testPage)
	out := filepath.Join(dir, "arrow.json")

	var logs bytes.Buffer
	root := New(&logs, log.DebugLevel).RootCommand()
	root.SetArgs([]string{"render", page, "--from", "#a", "--to", "#b", "--middle-y", "30", "-o", out})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`"outcome": "drawn"`)) {
		t.Errorf("output missing drawn outcome: %s", data)
	}
	// The CLI logger reaches commands through the context.
	if !strings.Contains(logs.String(), "Render complete") {
		t.Errorf("logs = %q, want completion message", logs.String())
	}
}

func TestRootCommandArrowFlagsExclusive(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render", "page.toml", "--arrow", "arrows.toml", "--from", "#a"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() with --arrow and --from should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}
