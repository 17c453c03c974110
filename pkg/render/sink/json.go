package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/treeviz/pkg/draw"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*Document)

// WithJSONLayout records the layout name that produced the commands.
func WithJSONLayout(name string) JSONOption { return func(o *Document) { o.Layout = name } }

// WithJSONSettings records the resolved layout settings.
func WithJSONSettings(s map[string]any) JSONOption {
	return func(o *Document) { o.Settings = s }
}

// Document is the decoded form of [RenderJSON] output.
type Document struct {
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Layout   string         `json:"layout,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	Shapes   []draw.Shape   `json:"shapes"`
	Commands []draw.Command `json:"commands"`
}

// RenderJSON encodes cmds together with the logical frame and the shape
// families they use.
func RenderJSON(cmds []draw.Command, opts ...JSONOption) ([]byte, error) {
	out := Document{
		Width:    draw.LogicalWidth,
		Height:   draw.LogicalHeight,
		Shapes:   draw.ShapesOf(cmds),
		Commands: cmds,
	}
	if out.Commands == nil {
		out.Commands = []draw.Command{}
	}
	if out.Shapes == nil {
		out.Shapes = []draw.Shape{}
	}
	for _, opt := range opts {
		opt(&out)
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON decodes a document written by [RenderJSON].
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode draw list: %w", err)
	}
	return &doc, nil
}
