package layout

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/treeviz/pkg/errors"
)

func TestSchemaValidate(t *testing.T) {
	schema := Sunburst{}.Schema()
	tests := []struct {
		name    string
		in      Settings
		wantErr bool
	}{
		{"Empty", Settings{}, false},
		{"Defaults", schema.Defaults(), false},
		{"IntValue", Settings{"baseRadius": 30}, false},
		{"UpperBound", Settings{"maxDegrees": 360.0}, false},
		{"BelowMin", Settings{"baseRadius": 29}, true},
		{"AboveMax", Settings{"sliceMargin": 21}, true},
		{"WrongType", Settings{"scaleRadius": "big"}, true},
		{"Unknown", Settings{"colour": 1}, true},
		{"JSONNumber", Settings{"rotationOffset": json.Number("45")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidSettings) {
				t.Errorf("code = %s, want INVALID_SETTINGS", errors.GetCode(err))
			}
		})
	}
}

func TestSchemaResolve(t *testing.T) {
	s, err := Treemap{}.Schema().Resolve(Settings{"padding": 2, "horizontalFirst": false})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Float("padding", -1) != 2 {
		t.Errorf("padding = %v, want 2", s["padding"])
	}
	if s.Bool("horizontalFirst", true) {
		t.Error("horizontalFirst should be overridden")
	}
	if s.Float("sliceMargin", -1) != 4 {
		t.Errorf("sliceMargin = %v, want default 4", s["sliceMargin"])
	}
}

func TestParseAssignments(t *testing.T) {
	schema := Treemap{}.Schema()
	got, err := schema.ParseAssignments([]string{"padding=3.5", "horizontalFirst=false"})
	if err != nil {
		t.Fatalf("ParseAssignments: %v", err)
	}
	if got.Float("padding", 0) != 3.5 || got.Bool("horizontalFirst", true) {
		t.Errorf("got %v", got)
	}

	for _, bad := range []string{"padding", "=1", "unknown=1", "padding=x", "horizontalFirst=maybe"} {
		if _, err := schema.ParseAssignments([]string{bad}); !errors.Is(err, errors.ErrCodeInvalidSettings) {
			t.Errorf("%q: err = %v, want INVALID_SETTINGS", bad, err)
		}
	}
}
