package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/treeviz/pkg/observability"
)

// Stages shown before the pipeline reports its own.
const (
	stageParse  = "Parsing tree..."
	stageWindow = "Opening window..."
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner shows the current pipeline stage on one terminal line. Attached
// as pipeline and cache hooks it follows a run from parsing through layout
// and rendering, skipping stages the cache answers.
type spinner struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	out    io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stage   string
	frame   int
	started bool
	once    sync.Once
}

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, out io.Writer, stage string) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	inner, cancel := context.WithCancel(ctx)
	return &spinner{out: out, parent: ctx, ctx: inner, cancel: cancel, done: make(chan struct{}), stage: stage}
}

// Start draws the first frame and animates until Stop or cancellation.
func (s *spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.drawLocked()
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				s.frame++
				s.drawLocked()
				s.mu.Unlock()
			}
		}
	}()
}

// SetStage replaces the stage text and redraws at once.
func (s *spinner) SetStage(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = fmt.Sprintf(format, args...)
	if s.started && s.ctx.Err() == nil {
		s.drawLocked()
	}
}

// Stage returns the current stage text.
func (s *spinner) Stage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *spinner) drawLocked() {
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	fmt.Fprintf(s.out, "\r\033[K%s %s", styleIconSpinner.Render(frame), s.stage)
}

// Stop clears the line. It is safe to call more than once and before Start.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
			fmt.Fprint(s.out, "\r\033[K")
		}
	})
}

// StopWithError stops and leaves the failed stage on screen.
func (s *spinner) StopWithError(msg string) {
	stage := strings.TrimSuffix(s.Stage(), "...")
	s.Stop()
	fmt.Fprintf(s.out, "%s %s: %s\n", styleIconError.Render(iconError), msg, stage)
}

// Cancelled reports whether the run was cancelled from outside rather than
// stopped by the caller.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// attach routes pipeline and cache events to the spinner until the returned
// func restores the previous hooks.
func (s *spinner) attach() (detach func()) {
	prevPipeline, prevCache := observability.Pipeline(), observability.Cache()
	observability.SetPipelineHooks(s)
	observability.SetCacheHooks(s)
	return func() {
		observability.SetPipelineHooks(prevPipeline)
		observability.SetCacheHooks(prevCache)
	}
}

func (s *spinner) OnLayoutStart(_ context.Context, layout string, nodeCount int) {
	s.SetStage("Computing %s layout for %d nodes...", layout, nodeCount)
}

func (s *spinner) OnRenderStart(_ context.Context, formats []string) {
	s.SetStage("Rendering %s...", strings.Join(formats, ", "))
}

func (s *spinner) OnCacheHit(_ context.Context, kind string) {
	switch kind {
	case "draw":
		s.SetStage("Using cached draw list...")
	case "artifact":
		s.SetStage("Using cached artifacts...")
	}
}
