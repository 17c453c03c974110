package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// lockedBuffer is written by the spinner goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerFollowsPipeline(t *testing.T) {
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, log.New(io.Discard))
	opts := pipeline.Options{Tree: []byte(sampleTree), Layout: "treemap", Formats: []string{"svg", "png"}}

	tests := []struct {
		name   string
		want   []string
		absent []string
	}{
		{
			name:   "cold cache",
			want:   []string{stageParse, "Computing treemap layout for 5 nodes...", "Rendering svg, png..."},
			absent: []string{"Using cached"},
		},
		{
			name:   "warm cache",
			want:   []string{"Using cached draw list...", "Using cached artifacts..."},
			absent: []string{"Computing", "Rendering"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out lockedBuffer
			s := newSpinner(context.Background(), &out, stageParse)
			detach := s.attach()
			s.Start()
			_, err := runner.Execute(context.Background(), opts)
			detach()
			s.Stop()
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("spinner output lacks %q:\n%q", w, got)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("spinner output should not contain %q:\n%q", a, got)
				}
			}
		})
	}
}

func TestSpinnerDetachRestoresHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	prev := observability.Pipeline()

	s := newSpinner(context.Background(), io.Discard, stageParse)
	detach := s.attach()
	if observability.Pipeline() != observability.PipelineHooks(s) {
		t.Fatal("attach did not install the spinner as pipeline hooks")
	}
	detach()
	if observability.Pipeline() != prev {
		t.Error("detach did not restore the previous pipeline hooks")
	}
	s.OnLayoutStart(context.Background(), "sunburst", 3)
	if got := s.Stage(); got != "Computing sunburst layout for 3 nodes..." {
		t.Errorf("Stage() = %q", got)
	}
}

func TestSpinnerViewStages(t *testing.T) {
	var out lockedBuffer
	s := newSpinner(context.Background(), &out, stageParse)
	s.Start()
	s.OnCacheHit(context.Background(), "draw")
	s.SetStage(stageWindow)
	s.StopWithError("View failed")

	got := out.String()
	for _, w := range []string{stageParse, "Using cached draw list...", stageWindow, "View failed: Opening window\n"} {
		if !strings.Contains(got, w) {
			t.Errorf("output lacks %q:\n%q", w, got)
		}
	}
}

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name       string
		start      bool
		cancel     bool
		wantCancel bool
	}{
		{"stop after start", true, false, false},
		{"stop without start", false, false, false},
		{"interrupted render", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			var out lockedBuffer
			s := newSpinner(ctx, &out, "Rendering svg...")
			if tt.start {
				s.Start()
			}
			if tt.cancel {
				cancel()
				time.Sleep(20 * time.Millisecond)
			}

			stopped := make(chan struct{})
			go func() {
				s.Stop()
				s.Stop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-time.After(time.Second):
				t.Fatal("Stop blocked")
			}

			if got := s.Cancelled(); got != tt.wantCancel {
				t.Errorf("Cancelled() = %v, want %v", got, tt.wantCancel)
			}
			if !tt.start && out.String() != "" {
				t.Errorf("unstarted spinner wrote %q", out.String())
			}
		})
	}
}

func TestNewSpinnerNilContext(t *testing.T) {
	s := newSpinner(nil, io.Discard, stageParse)
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("spinner with nil parent should not report cancellation")
	}
}
