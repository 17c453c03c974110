// Package cli implements the treeviz command-line interface.
//
// This package provides commands for rendering trees with the registered
// layouts, browsing layout schemas, viewing draw lists in an OpenGL window,
// serving the pipeline over HTTP, and managing the draw-list cache. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Lay out a tree and write JSON, SVG, PNG, DOT or nodelink output
//   - layouts: List layouts and show their settings schema
//   - view: Open an interactive GPU window for a layout
//   - serve: Run the HTTP API
//   - cache: Manage the draw-list cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The HTTP
// server passes request-scoped loggers through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/treeviz/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    err := c.RootCommand().Execute()
//	    cli.PrintError(os.Stderr, err)
//	    os.Exit(cli.ExitCode(err))
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with centisecond timestamps ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the stages of one command and logs them together when
// the command finishes. It is used by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
	stages []stageTime
}

type stageTime struct {
	name string
	d    time.Duration
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// mark ends the named stage at the current time.
func (p *progress) mark(name string) {
	now := time.Now()
	p.record(name, now.Sub(p.last))
	p.last = now
}

// record adds a stage measured elsewhere, such as the pipeline's own stage timings.
func (p *progress) record(name string, d time.Duration) {
	p.stages = append(p.stages, stageTime{name, d})
}

// done logs msg with the total elapsed time and every stage, e.g.
//
//	INFO Rendered 2 artifacts elapsed=41ms parse=1ms layout=32ms render=8ms
func (p *progress) done(msg string) {
	kv := make([]any, 0, 2+2*len(p.stages))
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	for _, s := range p.stages {
		kv = append(kv, s.name, s.d.Round(time.Millisecond))
	}
	p.logger.Info(msg, kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches a request-scoped logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
