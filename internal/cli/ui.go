package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// stdout receives command results. Logs and the spinner go to stderr so
// `render -o -` output stays clean.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared with the layout tables and the picker.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
)

var (
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning     = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printStatus(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(stdout, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printStatus(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(styleWarning, iconWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// printArtifact prints one written file with its format and size. An empty
// format is left out, as for the view fallback canvas.
func printArtifact(path, format string, size int) {
	line := "  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path)
	var meta []string
	if format != "" {
		meta = append(meta, format)
	}
	if size > 0 {
		meta = append(meta, humanBytes(size))
	}
	if len(meta) > 0 {
		line += "  " + StyleDim.Render(strings.Join(meta, " · "))
	}
	fmt.Fprintln(stdout, line)
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// stageCache is whether one pipeline stage was served from cache.
type stageCache struct {
	stage string
	hit   bool
}

// cacheStages lists the stages a render touched.
func cacheStages(ci pipeline.CacheInfo) []stageCache {
	return []stageCache{{"layout", ci.LayoutHit}, {"render", ci.RenderHit}}
}

func printStats(stats pipeline.Stats, stages ...stageCache) {
	fmt.Fprintln(stdout, statsLine(stats, stages...))
}

// statsLine summarises a run:
//
//	12 nodes · 14 commands · layout cached · render fresh
func statsLine(stats pipeline.Stats, stages ...stageCache) string {
	var parts []string
	if stats.NodeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", stats.NodeCount)))
	}
	if stats.CommandCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d commands", stats.CommandCount)))
	}
	for _, s := range stages {
		if s.hit {
			parts = append(parts, StyleDim.Render(s.stage)+" "+StyleSuccess.Render("cached"))
		} else {
			parts = append(parts, StyleDim.Render(s.stage+" fresh"))
		}
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
