package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("rendered") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("using redis cache") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("using redis cache") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressStages(t *testing.T) {
	tests := []struct {
		name   string
		run    func(p *progress)
		msg    string
		want   []string
		absent []string
	}{
		{
			name: "render records pipeline timings",
			run: func(p *progress) {
				p.record("parse", time.Millisecond)
				p.record("layout", 32*time.Millisecond)
				p.record("render", 8*time.Millisecond)
			},
			msg:  "Rendered 2 artifacts",
			want: []string{"Rendered 2 artifacts", "elapsed=", "parse=1ms", "layout=32ms", "render=8ms"},
		},
		{
			name: "view marks its own stages",
			run: func(p *progress) {
				p.mark("parse")
				time.Sleep(5 * time.Millisecond)
				p.mark("layout")
				p.mark("window")
			},
			msg:    "Opened sunburst view of 5 commands",
			want:   []string{"Opened sunburst view", "parse=", "layout=", "window="},
			absent: []string{"render="},
		},
		{
			name:   "no stages",
			run:    func(*progress) {},
			msg:    "Rendered 0 artifacts",
			want:   []string{"elapsed="},
			absent: []string{"layout="},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newProgress(newLogger(&buf, log.InfoLevel))
			tt.run(p)
			p.done(tt.msg)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q lacks %q", out, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("output %q should not contain %q", out, a)
				}
			}
		})
	}
}

func TestProgressMarkOrder(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	p.mark("parse")
	p.mark("layout")
	if len(p.stages) != 2 || p.stages[0].name != "parse" || p.stages[1].name != "layout" {
		t.Fatalf("stages = %+v, want parse then layout", p.stages)
	}
	if p.stages[0].d < 10*time.Millisecond {
		t.Errorf("parse = %v, want at least 10ms", p.stages[0].d)
	}
	if p.stages[1].d > p.stages[0].d {
		t.Errorf("layout %v measured from start instead of the parse mark", p.stages[1].d)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := newLogger(&buf, log.InfoLevel).With("request_id", "7f3c")

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"request scoped", withLogger(context.Background(), reqLogger), reqLogger},
		{"falls back to default", context.Background(), log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}

	loggerFromContext(withLogger(context.Background(), reqLogger)).Info("render", "layout", "treemap")
	if out := buf.String(); !strings.Contains(out, "request_id=7f3c") || !strings.Contains(out, "layout=treemap") {
		t.Errorf("request logger output = %q", out)
	}
}
