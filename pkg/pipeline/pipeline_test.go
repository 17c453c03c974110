package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
)

const sampleTree = `{"id": "root", "children": [
	{"id": "a"},
	{"id": "b", "children": [{"id": "c"}]}
]}`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"nodelink", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateLayout(t *testing.T) {
	for _, name := range layout.Names() {
		if err := ValidateLayout(name); err != nil {
			t.Errorf("ValidateLayout(%q) error: %v", name, err)
		}
	}
	if err := ValidateLayout("spiral"); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("ValidateLayout(spiral) error = %v, want INVALID_LAYOUT", err)
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForParse(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Missing input should fail with INVALID_INPUT, got %v", err)
	}

	opts = Options{Input: "tree.json"}
	if err := opts.ValidateForParse(); err != nil {
		t.Errorf("Input path should pass: %v", err)
	}

	opts = Options{Tree: []byte(sampleTree)}
	if err := opts.ValidateForParse(); err != nil {
		t.Errorf("Raw tree should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Layout != DefaultLayout {
		t.Errorf("Layout should be %s, got %s", DefaultLayout, opts.Layout)
	}
	if opts.Palette != palette.DefaultOptions() {
		t.Errorf("Palette should be default, got %+v", opts.Palette)
	}

	// A partially set palette keeps its fields.
	opts = Options{Palette: palette.Options{Gradient: palette.GradientRGB}}
	opts.SetLayoutDefaults()
	if opts.Palette.Name != "default" || opts.Palette.Gradient != palette.GradientRGB {
		t.Errorf("Palette = %+v", opts.Palette)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("Size should be %dx%d, got %dx%d", DefaultWidth, DefaultHeight, opts.Width, opts.Height)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Tree: []byte(sampleTree)}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	layoutName, formats := opts.Layout, opts.Formats

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Layout != layoutName || len(opts.Formats) != len(formats) {
		t.Error("Options changed on second call")
	}
}

func TestValidateForLayoutSettings(t *testing.T) {
	opts := Options{Layout: "sunburst", Settings: layout.Settings{"baseRadius": 500.0}}
	if err := opts.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidSettings) {
		t.Errorf("out-of-range setting error = %v, want INVALID_SETTINGS", err)
	}
}

func TestParseSelect(t *testing.T) {
	tr, err := Parse(Options{Tree: []byte(sampleTree), Select: []string{"b"}})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if n, _ := tr.Node("b"); !n.Selected {
		t.Error("b should be selected")
	}

	_, err = Parse(Options{Tree: []byte(sampleTree), Select: []string{"zzz"}})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown selection error = %v, want NOT_FOUND", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(newMemCache(), nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Tree:    []byte(sampleTree),
		Layout:  "sunburst",
		Formats: []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.NodeCount != 4 || res.Stats.CommandCount != 4 {
		t.Errorf("Stats = %+v, want 4 nodes and 4 commands", res.Stats)
	}
	if res.TreeHash == "" {
		t.Error("TreeHash not set")
	}
	if res.Settings.Float("baseRadius", 0) != 60 {
		t.Errorf("resolved baseRadius = %v, want 60", res.Settings["baseRadius"])
	}
	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"b" -> "c"`) {
		t.Errorf("dot artifact missing edge:\n%s", res.Artifacts[FormatDOT])
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}

	res, err = r.Execute(context.Background(), Options{
		Tree:    []byte(sampleTree),
		Layout:  "sunburst",
		Formats: []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !res.CacheInfo.LayoutHit || !res.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", res.CacheInfo)
	}
}

func TestComputeLayoutCacheKey(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	tr, err := Parse(Options{Tree: []byte(sampleTree)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    Options
		wantHit bool
	}{
		{"first", Options{Layout: "sunburst"}, false},
		{"same", Options{Layout: "sunburst"}, true},
		{"explicit default", Options{Layout: "sunburst", Settings: layout.Settings{"baseRadius": 60.0}}, true},
		{"changed setting", Options{Layout: "sunburst", Settings: layout.Settings{"baseRadius": 70.0}}, false},
		{"other layout", Options{Layout: "treemap"}, false},
		{"other palette", Options{Layout: "sunburst", Palette: palette.Options{Name: "alt", ColorMode: true}}, false},
		{"refresh", Options{Layout: "sunburst", Refresh: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, hit, err := r.ComputeLayoutWithCacheInfo(ctx, tr, tt.opts)
			if err != nil {
				t.Fatalf("ComputeLayoutWithCacheInfo() error: %v", err)
			}
			if hit != tt.wantHit {
				t.Errorf("hit = %v, want %v", hit, tt.wantHit)
			}
			if len(cmds) != tr.Len() {
				t.Errorf("len(cmds) = %d, want %d", len(cmds), tr.Len())
			}
		})
	}
}

func TestRenderFromDrawData(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, Options{Tree: []byte(sampleTree), Layout: "treemap", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	out, err := RenderFromDrawData(ctx, res.Artifacts[FormatJSON], nil, Options{Formats: []string{FormatSVG}, Width: 160, Height: 90})
	if err != nil {
		t.Fatalf("RenderFromDrawData() error: %v", err)
	}
	if got := strings.Count(string(out[FormatSVG]), "data-node="); got != 4 {
		t.Errorf("svg shapes = %d, want 4", got)
	}
}

func TestRenderDetailedSVG(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Tree: []byte(sampleTree), Layout: "treemap", Formats: []string{FormatSVG}}

	plain, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Contains(string(plain.Artifacts[FormatSVG]), "stroke=") {
		t.Error("plain svg should not outline shapes")
	}

	opts.Detailed = true
	detailed, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute(detailed) error: %v", err)
	}
	if detailed.CacheInfo.RenderHit {
		t.Error("detailed svg should not reuse the plain artifact")
	}
	if got := strings.Count(string(detailed.Artifacts[FormatSVG]), `stroke="white"`); got != 4 {
		t.Errorf("outlined shapes = %d, want 4", got)
	}
}

func TestRenderTreeFormatWithoutTree(t *testing.T) {
	_, err := Render(context.Background(), nil, nil, Options{Formats: []string{FormatDOT}})
	if err == nil {
		t.Error("dot without tree should fail")
	}
}

func TestFormatExtension(t *testing.T) {
	if FormatExtension(FormatNodelink) != "nodelink.svg" {
		t.Errorf("nodelink extension = %s", FormatExtension(FormatNodelink))
	}
	if FormatExtension(FormatPNG) != "png" {
		t.Errorf("png extension = %s", FormatExtension(FormatPNG))
	}
}
