package engine

import (
	"encoding/json"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/guides"
)

// Overlay is the engine's interaction chrome for the host to draw on top of the
// scene: selection box and handles, marquee and guide lines. All coordinates are in
// scene units.
type Overlay struct {
	State     string            `json:"state"`
	Selection *SelectionOverlay `json:"selection,omitempty"`
	Marquee   *geometry.Rect    `json:"marquee,omitempty"`
	Guides    guides.Set        `json:"guides"`
}

// SelectionOverlay describes the selection box. Transform is the [a, b, c, d, e, f]
// rotation about the box center, present only for a rotated single selection.
type SelectionOverlay struct {
	Bounds    geometry.Rect `json:"bounds"`
	Rotation  float64       `json:"rotation"`
	Transform []float64     `json:"transform,omitempty"`
	Handles   []HandleBox   `json:"handles"`
}

// Overlay returns the current overlay.
func (e *Engine) Overlay() Overlay {
	o := Overlay{
		State:  e.state.String(),
		Guides: e.guides,
	}

	if b, ok := e.SelectionBounds(); ok {
		sel := &SelectionOverlay{
			Bounds:   b.Rect,
			Rotation: b.Rotation,
			Handles:  handleBoxes(b, e.viewScale, e.selection.Len() == 1),
		}
		if m := geometry.RotateAbout(b.Center(), b.Rotation); !m.IsIdentity() {
			sel.Transform = m.ToSlice()
		}
		o.Selection = sel
	}

	if r, ok := e.Marquee(); ok {
		o.Marquee = &r
	}

	return o
}

// OverlayToJSON serializes an overlay to JSON.
func OverlayToJSON(o Overlay) (string, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}
