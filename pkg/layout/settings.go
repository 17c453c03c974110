package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// Settings is a flat mapping of field name to value. Numbers may arrive as
// any numeric type (JSON and TOML decoders differ); booleans as bool.
type Settings map[string]any

// Float returns the numeric value of name, or def if absent or not numeric.
func (s Settings) Float(name string, def float64) float64 {
	if v, ok := toFloat(s[name]); ok {
		return v
	}
	return def
}

// Bool returns the boolean value of name, or def if absent or not boolean.
func (s Settings) Bool(name string, def bool) bool {
	if v, ok := s[name].(bool); ok {
		return v
	}
	return def
}

// Clone returns a shallow copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Kind is the value type of a settings field.
type Kind string

const (
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
)

// Field describes one configurable setting of a layout.
type Field struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Kind    Kind    `json:"kind"`
	Default any     `json:"default"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Step    float64 `json:"step,omitempty"`
}

// Schema is the ordered list of fields a layout recognizes.
type Schema []Field

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns a Settings populated with every field's default.
func (s Schema) Defaults() Settings {
	out := make(Settings, len(s))
	for _, f := range s {
		out[f.Name] = f.Default
	}
	return out
}

// Merge overlays in onto the defaults without validating. Values of the
// wrong type are ignored.
func (s Schema) Merge(in Settings) Settings {
	out := s.Defaults()
	for _, f := range s {
		v, ok := in[f.Name]
		if !ok {
			continue
		}
		switch f.Kind {
		case KindNumber:
			if n, ok := toFloat(v); ok {
				out[f.Name] = n
			}
		case KindBool:
			if b, ok := v.(bool); ok {
				out[f.Name] = b
			}
		}
	}
	return out
}

// Validate checks that every provided value names a known field, has the
// field's type, and lies within the declared range.
func (s Schema) Validate(in Settings) error {
	names := make([]string, 0, len(in))
	for k := range in {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		f, ok := s.Field(name)
		if !ok {
			return errors.New(errors.ErrCodeInvalidSettings, "unknown setting %q", name)
		}
		v := in[name]
		switch f.Kind {
		case KindNumber:
			n, ok := toFloat(v)
			if !ok {
				return errors.New(errors.ErrCodeInvalidSettings, "%s: expected a number, got %T", name, v)
			}
			if math.IsNaN(n) || n < f.Min || n > f.Max {
				return errors.New(errors.ErrCodeInvalidSettings, "%s: %v outside [%v, %v]", name, n, f.Min, f.Max)
			}
		case KindBool:
			if _, ok := v.(bool); !ok {
				return errors.New(errors.ErrCodeInvalidSettings, "%s: expected a boolean, got %T", name, v)
			}
		}
	}
	return nil
}

// Resolve validates in and merges it over the defaults.
func (s Schema) Resolve(in Settings) (Settings, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	return s.Merge(in), nil
}

// ParseAssignments parses "name=value" pairs (as given to --set) against
// the schema. Values are converted to the field's kind but not range-checked.
func (s Schema) ParseAssignments(pairs []string) (Settings, error) {
	out := make(Settings, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidSettings, "invalid assignment %q (want name=value)", p)
		}
		f, ok := s.Field(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSettings, "unknown setting %q", name)
		}
		raw = strings.TrimSpace(raw)
		switch f.Kind {
		case KindNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "%s: not a number", name)
			}
			out[name] = n
		case KindBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "%s: not a boolean", name)
			}
			out[name] = b
		default:
			return nil, fmt.Errorf("field %s: unsupported kind %q", name, f.Kind)
		}
	}
	return out, nil
}

func number(name, label string, def, lo, hi, step float64) Field {
	return Field{Name: name, Label: label, Kind: KindNumber, Default: def, Min: lo, Max: hi, Step: step}
}

func boolean(name, label string, def bool) Field {
	return Field{Name: name, Label: label, Kind: KindBool, Default: def}
}
