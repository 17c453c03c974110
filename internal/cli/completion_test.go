package cli

import (
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
		skip       []string
	}{
		{"", pipeline.Formats, nil},
		{"svg,", []string{"svg,png", "svg,json"}, []string{"svg,svg"}},
		{"json,png,", []string{"json,png,svg"}, []string{"json,png,json", "json,png,png"}},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.toComplete)
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("completeFormats(%q) = %v, missing %q", tt.toComplete, got, w)
				}
			}
			for _, s := range tt.skip {
				if slices.Contains(got, s) {
					t.Errorf("completeFormats(%q) repeats a format: %q", tt.toComplete, s)
				}
			}
		})
	}
}

func TestCompleteSettings(t *testing.T) {
	isolateConfig(t)
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()
	render, _, err := root.Find([]string{"render"})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range layout.Names() {
		t.Run(name, func(t *testing.T) {
			if err := render.Flags().Set("layout", name); err != nil {
				t.Fatal(err)
			}
			got, _ := completeSettings(render, nil, "")
			l, _ := layout.Get(name)
			if len(got) != len(l.Schema()) {
				t.Fatalf("got %d completions, want one per field (%d)", len(got), len(l.Schema()))
			}
			for i, f := range l.Schema() {
				if !strings.HasPrefix(got[i], f.Name+"=") {
					t.Errorf("completion %q does not assign %s", got[i], f.Name)
				}
			}
		})
	}

	if err := render.Flags().Set("layout", "radial"); err != nil {
		t.Fatal(err)
	}
	if _, dir := completeSettings(render, nil, ""); dir != cobra.ShellCompDirectiveError {
		t.Errorf("unknown layout directive = %v, want error", dir)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolateConfig(t)
	buf := captureStdout(t)
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"completion", "fish"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion fish: %v", err)
	}
	if !strings.Contains(buf.String(), "treeviz") {
		t.Error("fish completion script does not mention treeviz")
	}
}
