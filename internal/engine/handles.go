package engine

import (
	"math"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/selection"
)

// Handle identifies a grab point on the selection bounds.
type Handle string

const (
	HandleNW     Handle = "nw"
	HandleN      Handle = "n"
	HandleNE     Handle = "ne"
	HandleE      Handle = "e"
	HandleSE     Handle = "se"
	HandleS      Handle = "s"
	HandleSW     Handle = "sw"
	HandleW      Handle = "w"
	HandleRotate Handle = "rotate"
)

const (
	// HandleSize is the side of a handle hit-box in view pixels.
	HandleSize = 8.0
	// RotateHandleOffset is how far above the top edge the rotation handle sits, in
	// view pixels.
	RotateHandleOffset = 24.0
)

// ResizeHandles lists the eight resize handles clockwise from the top-left corner.
var ResizeHandles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

// HandleBox is a handle's hit-box in scene units.
type HandleBox struct {
	Handle Handle         `json:"handle"`
	Center geometry.Point `json:"center"`
	Size   float64        `json:"size"`
}

// edges reports which sides of the bounds the handle drags.
func (h Handle) edges() (left, top, right, bottom bool) {
	switch h {
	case HandleNW:
		return true, true, false, false
	case HandleN:
		return false, true, false, false
	case HandleNE:
		return false, true, true, false
	case HandleE:
		return false, false, true, false
	case HandleSE:
		return false, false, true, true
	case HandleS:
		return false, false, false, true
	case HandleSW:
		return true, false, false, true
	case HandleW:
		return true, false, false, false
	}
	return false, false, false, false
}

// localPoint is the handle position on r before rotation is applied.
func (h Handle) localPoint(r geometry.Rect, viewScale float64) geometry.Point {
	if h == HandleRotate {
		return geometry.Point{X: r.CenterX(), Y: r.Top() - RotateHandleOffset/viewScale}
	}
	left, top, right, bottom := h.edges()
	p := r.Center()
	switch {
	case left:
		p.X = r.Left()
	case right:
		p.X = r.Right()
	}
	switch {
	case top:
		p.Y = r.Top()
	case bottom:
		p.Y = r.Bottom()
	}
	return p
}

// handleBoxes returns the hit-boxes for b in scene coordinates. The rotation handle
// is included only when withRotate is set.
func handleBoxes(b selection.Bounds, viewScale float64, withRotate bool) []HandleBox {
	toScene := geometry.RotateAbout(b.Center(), b.Rotation)
	size := HandleSize / viewScale

	handles := ResizeHandles
	if withRotate {
		handles = append(append([]Handle{}, ResizeHandles...), HandleRotate)
	}

	boxes := make([]HandleBox, 0, len(handles))
	for _, h := range handles {
		boxes = append(boxes, HandleBox{
			Handle: h,
			Center: toScene.TransformPoint(h.localPoint(b.Rect, viewScale)),
			Size:   size,
		})
	}
	return boxes
}

// hitHandle finds the handle whose hit-box contains p. The point is mapped into the
// bounds' un-rotated frame so hit-boxes follow a rotated single selection.
func hitHandle(b selection.Bounds, p geometry.Point, viewScale float64, withRotate bool) (Handle, bool) {
	local := geometry.RotateAbout(b.Center(), -b.Rotation).TransformPoint(p)
	half := HandleSize / 2 / viewScale

	if withRotate {
		hp := HandleRotate.localPoint(b.Rect, viewScale)
		if math.Abs(local.X-hp.X) <= half && math.Abs(local.Y-hp.Y) <= half {
			return HandleRotate, true
		}
	}
	for _, h := range ResizeHandles {
		hp := h.localPoint(b.Rect, viewScale)
		if math.Abs(local.X-hp.X) <= half && math.Abs(local.Y-hp.Y) <= half {
			return h, true
		}
	}
	return "", false
}

// resizeRect moves the edges h controls by (dx, dy). An edge never crosses within
// scene.MinSize of its opposite edge.
func resizeRect(r geometry.Rect, h Handle, dx, dy float64) geometry.Rect {
	left, top, right, bottom := r.Left(), r.Top(), r.Right(), r.Bottom()
	moveLeft, moveTop, moveRight, moveBottom := h.edges()

	if moveLeft {
		left = min(left+dx, right-scene.MinSize)
	}
	if moveRight {
		right = max(right+dx, left+scene.MinSize)
	}
	if moveTop {
		top = min(top+dy, bottom-scene.MinSize)
	}
	if moveBottom {
		bottom = max(bottom+dy, top+scene.MinSize)
	}

	return geometry.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}
