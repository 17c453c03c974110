package palette

import (
	"testing"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/tree"
)

func TestBuildShape(t *testing.T) {
	p, err := Build(4, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.MaxDepth() != 4 {
		t.Fatalf("MaxDepth() = %d, want 4", p.MaxDepth())
	}
	for m := 0; m <= 4; m++ {
		if got := len(p.Row(m)); got != m+1 {
			t.Errorf("row %d has %d entries, want %d", m, got, m+1)
		}
		for d := 0; d <= m; d++ {
			if p.Lookup(m, d, false) == p.Lookup(m, d, true) {
				t.Errorf("[%d][%d]: selected color equals regular color", m, d)
			}
		}
	}
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{name: "Default", opts: DefaultOptions()},
		{name: "Alt", opts: Options{Name: "alt", Gradient: GradientRGB, ColorMode: true}},
		{name: "GreyScaleCaseInsensitive", opts: Options{Name: "greyscale", ColorMode: true}},
		{name: "Inverted", opts: Options{Name: "default", InvertHSV: true, ColorMode: true}},
		{name: "Monochrome", opts: Options{Name: "default"}},
		{name: "UnknownName", opts: Options{Name: "neon"}, wantCode: errors.ErrCodeInvalidSettings},
		{name: "UnknownGradient", opts: Options{Gradient: "lab"}, wantCode: errors.ErrCodeInvalidSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(3, tt.opts)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			c := p.Lookup(3, 3, false)
			if c.A != 1 {
				t.Errorf("alpha = %v, want 1", c.A)
			}
		})
	}
}

func TestMonochromeIsGrey(t *testing.T) {
	p, err := Build(3, Options{Name: "default"})
	if err != nil {
		t.Fatal(err)
	}
	for d := 0; d <= 3; d++ {
		c := p.Lookup(3, d, false)
		if c.R != c.G || c.G != c.B {
			t.Errorf("depth %d: %v is not grey", d, c)
		}
	}
}

func TestPerSubtree(t *testing.T) {
	per, _ := Build(4, Options{Name: "default", PerSubtree: true, ColorMode: true})
	global, _ := Build(4, Options{Name: "default", PerSubtree: false, ColorMode: true})

	// Per-subtree rows end on the gradient's last color; global rows do not.
	if per.Lookup(2, 2, false) != per.Lookup(4, 4, false) {
		t.Error("per-subtree: row ends should match")
	}
	if global.Lookup(2, 2, false) == global.Lookup(4, 4, false) {
		t.Error("global: shorter row should stop early on the gradient")
	}
	if global.Lookup(2, 1, false) != global.Lookup(4, 1, false) {
		t.Error("global: same depth should share a color across rows")
	}
}

func TestLookupClamps(t *testing.T) {
	p, _ := Build(1, DefaultOptions())
	if p.Lookup(9, 9, false) != p.Lookup(1, 1, false) {
		t.Error("out-of-range lookup should clamp to the last entry")
	}
	if p.Lookup(-1, -1, true) != p.Lookup(0, 0, true) {
		t.Error("negative lookup should clamp to the first entry")
	}
}

func TestColorOfNode(t *testing.T) {
	tr := tree.Finalize(&tree.Node{ID: "r", Children: []*tree.Node{{ID: "a"}}})
	p, _ := Build(tr.MaxDepth(), DefaultOptions())
	a, _ := tr.Node("a")
	if p.Color(a, false) != p.Lookup(1, 1, false) {
		t.Error("Color(a) should use [maxDepth][depth]")
	}
}
