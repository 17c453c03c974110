package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// Zero values and unchanged flags fall back to the configuration file.
type renderOpts struct {
	output      string   // output file (single format) or base path (multiple)
	layout      string   // layout name
	sets        []string // name=value settings overrides
	formats     string   // comma-separated output formats
	selected    []string // node ids to highlight
	palette     string   // palette name
	gradient    string   // hsv or rgb
	invertHSV   bool     // walk the hue wheel the long way
	global      bool     // one gradient for the whole tree instead of per subtree
	greyscale   bool     // disable color mode
	width       int      // artifact width in pixels
	height      int      // artifact height in pixels
	scale       float64  // PNG pixel density
	background  string   // background color, empty for transparent
	detailed    bool     // SVG outlines, detailed labels in dot/nodelink output
	refresh     bool     // bypass cached draw lists and artifacts
	interactive bool     // pick the layout from a list
}

// renderCommand creates the render command: tree.json → layout → artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Lay out a tree and render it",
		Long: `Lay out a tree and render it.

The tree is a nested JSON document ({"id", "label", "children": [...]}). The
chosen layout turns it into a draw list which is written as JSON or rendered
to SVG or PNG. The dot and nodelink formats draw the tree itself as a
node-link diagram.

Draw lists and artifacts are cached; use --refresh to recompute.`,
		Example: `  treeviz render tree.json
  treeviz render tree.json -l treemap -f svg,png --set padding=10
  treeviz render tree.json --select src/cli --palette alt -o out/tree
  treeviz render tree.json -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				name, err := pickLayout()
				if err != nil {
					return err
				}
				if name == "" {
					printInfo("No layout selected")
					return nil
				}
				opts.layout = name
			}
			popts, err := c.renderPipelineOptions(cmd, args[0], &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, opts.output)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.layout, "layout", "l", pipeline.DefaultLayout, "layout: "+strings.Join(layout.Names(), ", "))
	f.StringArrayVar(&opts.sets, "set", nil, "layout setting as name=value (repeatable)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	f.StringSliceVar(&opts.selected, "select", nil, "node ids to highlight (comma-separated)")
	f.StringVar(&opts.palette, "palette", "", "palette: "+strings.Join(palette.Names(), ", "))
	f.StringVar(&opts.gradient, "gradient", "", "gradient interpolation: hsv, rgb")
	f.BoolVar(&opts.invertHSV, "invert-hsv", false, "interpolate hue the long way round")
	f.BoolVar(&opts.global, "global-gradient", false, "color every depth against the deepest leaf instead of per subtree")
	f.BoolVar(&opts.greyscale, "greyscale", false, "render in shades of grey")
	f.IntVar(&opts.width, "width", 0, "output width in pixels")
	f.IntVar(&opts.height, "height", 0, "output height in pixels")
	f.Float64Var(&opts.scale, "scale", 0, "PNG pixel density")
	f.StringVar(&opts.background, "background", "", "background color (hex for PNG), transparent if empty")
	f.BoolVar(&opts.detailed, "detailed", false, "outline SVG shapes; show depth, size and metadata in dot/nodelink output")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "choose the layout interactively")

	registerLayoutCompletions(cmd)

	return cmd
}

// renderPipelineOptions merges flags over the configuration. Only flags the
// user actually set override config values.
func (c *CLI) renderPipelineOptions(cmd *cobra.Command, input string, o *renderOpts) (pipeline.Options, error) {
	if err := pipeline.ValidateLayout(o.layout); err != nil {
		return pipeline.Options{}, err
	}
	l, _ := layout.Get(o.layout)
	overrides, err := l.Schema().ParseAssignments(o.sets)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := c.pipelineOptions(o.layout, overrides)
	opts.Input = input
	opts.Select = o.selected
	opts.Formats = parseFormats(o.formats)
	opts.Background = o.background
	opts.Detailed = o.detailed
	opts.Refresh = o.refresh

	changed := cmd.Flags().Changed
	if changed("palette") {
		opts.Palette.Name = o.palette
	}
	if changed("gradient") {
		opts.Palette.Gradient = palette.Gradient(o.gradient)
	}
	if changed("invert-hsv") {
		opts.Palette.InvertHSV = o.invertHSV
	}
	if changed("global-gradient") {
		opts.Palette.PerSubtree = !o.global
	}
	if changed("greyscale") {
		opts.Palette.ColorMode = !o.greyscale
	}
	if changed("width") {
		opts.Width = o.width
	}
	if changed("height") {
		opts.Height = o.height
	}
	if changed("scale") {
		opts.Scale = o.scale
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, stageParse)
	detach := spin.attach()
	spin.Start()

	result, err := runner.Execute(ctx, opts)
	detach()
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
		} else {
			spin.StopWithError("Render failed")
		}
		return err
	}
	spin.Stop()
	prog.record("parse", result.Stats.ParseTime)
	prog.record("layout", result.Stats.LayoutTime)
	prog.record("render", result.Stats.RenderTime)
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output)
	if err != nil || output == "-" {
		return err
	}

	printSuccess("Rendered %s with %s", filepath.Base(opts.Input), opts.Layout)
	printStats(result.Stats, cacheStages(result.CacheInfo)...)
	// writeArtifacts keeps format order and skips formats without output.
	i := 0
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok || i >= len(paths) {
			continue
		}
		printArtifact(paths[i], format, len(data))
		i++
	}
	if len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatJSON {
		printNewline()
		printNextStep("View it", fmt.Sprintf("%s view %s -l %s", appName, opts.Input, opts.Layout))
	}
	return nil
}

// =============================================================================
// Output
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest extensions first so "x.nodelink.svg" is not cut at ".svg".
	for i := len(pipeline.Formats) - 1; i >= 0; i-- {
		f := pipeline.Formats[i]
		if ext := "." + pipeline.FormatExtension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath returns the file for one format. A single format written to an
// explicit output path uses that path verbatim.
func outputPath(format, input, output string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + pipeline.FormatExtension(format)
}

// writeArtifacts writes artifacts in format order and returns the paths.
// An output of "-" writes a single artifact to stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	single := len(formats) == 1
	if output == "-" {
		if !single {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(format, input, output, single)
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Interactive
// =============================================================================

// pickLayout shows the layout picker and returns the chosen name, or "" if
// the user quit.
func pickLayout() (string, error) {
	return runLayoutPicker(os.Stdin, os.Stdout)
}

func runLayoutPicker(in io.Reader, out io.Writer) (string, error) {
	m, err := tea.NewProgram(NewLayoutListModel(layout.All()), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("layout picker: %w", err)
	}
	if sel := m.(LayoutListModel).Selected; sel != nil {
		return sel.Name(), nil
	}
	return "", nil
}
