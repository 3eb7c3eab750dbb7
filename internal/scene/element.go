package scene

import (
	"encoding/json"
	"math"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
)

// MinSize is the smallest width or height, in scene units, an element may be
// committed with.
const MinSize = 10.0

// Kind tells the host how to render an element. The engine never looks at it.
type Kind string

const (
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindShape      Kind = "shape"
	KindAnnotation Kind = "annotation"
	KindForm       Kind = "form"
)

// Element is one positioned, resizable rectangle in the scene.
type Element struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`    // applied at render time, independent of Width/Height
	ZIndex   int     `json:"zIndex"`
	Locked   bool    `json:"isLocked"`
	Visible  bool    `json:"isVisible"`

	// Kind-specific payload owned by the host.
	Data json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes an element, treating a missing isVisible as visible.
func (e *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Element(p)
	return nil
}

// Rect returns the element's un-rotated rectangle.
func (e Element) Rect() geometry.Rect {
	return geometry.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// WithRect returns a copy of e placed at r.
func (e Element) WithRect(r geometry.Rect) Element {
	e.X, e.Y, e.Width, e.Height = r.X, r.Y, r.Width, r.Height
	return e
}

// ContainsPoint reports whether (x, y) falls on the element, honoring its rotation
// about its own center.
func (e Element) ContainsPoint(x, y float64) bool {
	r := e.Rect()
	p := geometry.Point{X: x, Y: y}
	if e.Rotation != 0 {
		p = geometry.RotateAbout(r.Center(), -e.Rotation).TransformPoint(p)
	}
	return r.Contains(p.X, p.Y)
}

// Normalize applies the commit invariants: non-positive dimensions replaced by
// MinSize, rotation wrapped into [0, 360), and a positive render scale.
func Normalize(e Element) Element {
	if !(e.Width > 0) {
		e.Width = MinSize
	}
	if !(e.Height > 0) {
		e.Height = MinSize
	}
	e.Rotation = NormalizeRotation(e.Rotation)
	if !(e.Scale > 0) {
		e.Scale = 1
	}
	return e
}

// FloorSize raises a proposed resize result to at least MinSize in each dimension,
// keeping its top-left corner.
func FloorSize(r geometry.Rect) geometry.Rect {
	r.Width = max(r.Width, MinSize)
	r.Height = max(r.Height, MinSize)
	return r
}

// NormalizeRotation wraps degrees into [0, 360).
func NormalizeRotation(degrees float64) float64 {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return 0
	}
	r := math.Mod(degrees, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}
