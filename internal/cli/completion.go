package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script.

Layout names, output formats, palettes and the --set fields of the chosen
layout are completed. For example:

  source <(treeviz completion bash)
  treeviz completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}

// registerLayoutCompletions wires completion for the flags render and view
// share.
func registerLayoutCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("layout", completeLayouts)
	_ = cmd.RegisterFlagCompletionFunc("set", completeSettings)
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
	if cmd.Flags().Lookup("palette") != nil {
		_ = cmd.RegisterFlagCompletionFunc("palette", completePalettes)
	}
}

func completeLayouts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return layout.Names(), cobra.ShellCompDirectiveNoFileComp
}

func completePalettes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return palette.Names(), cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	head := ""
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		head = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.Formats))
	for _, f := range pipeline.Formats {
		if !strings.Contains(","+head, ","+f+",") {
			out = append(out, head+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeSettings offers "field=" for every setting of the selected layout.
func completeSettings(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	name := pipeline.DefaultLayout
	if f := cmd.Flags().Lookup("layout"); f != nil {
		name = f.Value.String()
	}
	l, err := layout.Get(name)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	schema := l.Schema()
	out := make([]string, 0, len(schema))
	for _, f := range schema {
		out = append(out, f.Name+"=\t"+f.Label)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
