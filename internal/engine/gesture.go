package engine

import (
	"math"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/guides"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/selection"
)

// gesture is the transient state of one pointer interaction. Deltas are always
// applied to snapshot, the geometry captured at pointer-down, never to the already
// mutated scene.
type gesture struct {
	anchor   geometry.Point
	snapshot []scene.Element

	// move
	stationary []geometry.Rect

	// resize and rotate
	bounds      selection.Bounds
	handle      Handle
	toLocal     geometry.Matrix2D
	anchorLocal geometry.Point
	startAngle  float64

	// marquee
	extend     bool
	preMarquee []string
}

// HandlePointer routes a pointer event through the transition table.
func (e *Engine) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp:
		e.pointerUp()
	}
}

func (e *Engine) pointerDown(ev PointerEvent) {
	if e.state != StateIdle {
		// A down without an intervening up means the host lost an event.
		e.log.Debug("ignoring pointer-down during gesture", "state", e.state)
		return
	}

	p := geometry.Point{X: ev.X, Y: ev.Y}

	if !ev.extends() {
		if b, ok := e.selection.Bounds(e.scene); ok {
			if h, ok := hitHandle(b, p, e.viewScale, e.selection.Len() == 1); ok {
				if h == HandleRotate {
					e.beginRotate(p, b)
				} else {
					e.beginResize(p, b, h)
				}
				return
			}
		}
	}

	el, ok := e.scene.HitTest(ev.X, ev.Y)
	if !ok {
		e.beginMarquee(p, ev.extends())
		return
	}
	if el.Locked {
		return
	}

	var changed bool
	switch {
	case ev.extends():
		changed = e.selection.Select(e.scene, []string{el.ID}, selection.Toggle)
	case !e.selection.Contains(el.ID):
		changed = e.selection.Select(e.scene, []string{el.ID}, selection.Replace)
	}
	if changed {
		e.emitSelection()
	}

	// A modifier-click that toggled the element off leaves nothing to drag.
	if e.selection.Contains(el.ID) {
		e.beginMove(p)
	}
}

func (e *Engine) pointerMove(ev PointerEvent) {
	p := geometry.Point{X: ev.X, Y: ev.Y}
	switch e.state {
	case StateSelecting:
		e.marqueeTo(p, ev.extends())
	case StateMoving:
		e.moveTo(p)
	case StateResizing:
		e.resizeTo(p)
	case StateRotating:
		e.rotateTo(p)
	}
}

func (e *Engine) pointerUp() {
	if e.state == StateIdle {
		return
	}
	e.endGesture()
}

func (e *Engine) endGesture() {
	if e.state != StateIdle {
		e.log.Debug("gesture ended", "state", e.state)
	}
	e.state = StateIdle
	e.gesture = nil
	e.guides = guides.Set{}
	e.marquee = geometry.Rect{}
}

// --- Marquee ---

func (e *Engine) beginMarquee(p geometry.Point, extend bool) {
	if !extend && e.selection.Clear() {
		e.emitSelection()
	}
	e.gesture = &gesture{
		anchor:     p,
		extend:     extend,
		preMarquee: e.selection.IDs(),
	}
	e.marquee = geometry.Rect{X: p.X, Y: p.Y}
	e.state = StateSelecting
	e.log.Debug("gesture started", "state", e.state)
}

func (e *Engine) marqueeTo(p geometry.Point, extend bool) {
	g := e.gesture
	e.marquee = geometry.FromCorners(g.anchor, p)

	ids := selection.ElementsInRect(e.scene, e.marquee)
	if g.extend || extend {
		ids = append(append([]string{}, g.preMarquee...), ids...)
	}
	if e.selection.Select(e.scene, ids, selection.Replace) {
		e.emitSelection()
	}
}

// --- Move ---

func (e *Engine) beginMove(p geometry.Point) {
	moving := e.selection.Elements(e.scene)

	var stationary []geometry.Rect
	for _, el := range e.scene.All() {
		if !el.Visible || e.selection.Contains(el.ID) {
			continue
		}
		stationary = append(stationary, el.Rect())
	}

	e.gesture = &gesture{
		anchor:     p,
		snapshot:   moving,
		stationary: stationary,
	}
	e.state = StateMoving
	e.log.Debug("gesture started", "state", e.state, "elements", len(moving))
}

func (e *Engine) moveTo(p geometry.Point) {
	g := e.gesture
	dx := p.X - g.anchor.X
	dy := p.Y - g.anchor.Y

	proposed := make([]geometry.Rect, len(g.snapshot))
	for i, el := range g.snapshot {
		proposed[i] = el.Rect().Translate(dx, dy)
	}

	if e.cfg.ShowGuides {
		tolerance := guides.Tolerance(e.viewScale)
		e.guides = guides.Compute(proposed, g.stationary, tolerance)
		sdx, sdy := guides.Snap(proposed, g.stationary, tolerance)
		translateAll(proposed, sdx, sdy)
	} else {
		e.guides = guides.Set{}
	}

	if e.cfg.SnapToGrid {
		if b, err := geometry.Union(proposed...); err == nil {
			translateAll(proposed, snapToGrid(b.X, e.cfg.GridSize)-b.X, snapToGrid(b.Y, e.cfg.GridSize)-b.Y)
		}
	}

	for i, el := range g.snapshot {
		el.X, el.Y = proposed[i].X, proposed[i].Y
		e.scene.Upsert(el)
	}
	e.emitScene()
}

func translateAll(rects []geometry.Rect, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for i := range rects {
		rects[i] = rects[i].Translate(dx, dy)
	}
}

func snapToGrid(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}

// --- Resize ---

func (e *Engine) beginResize(p geometry.Point, b selection.Bounds, h Handle) {
	toLocal := geometry.RotateAbout(b.Center(), -b.Rotation)
	e.gesture = &gesture{
		anchor:      p,
		snapshot:    e.selection.Elements(e.scene),
		bounds:      b,
		handle:      h,
		toLocal:     toLocal,
		anchorLocal: toLocal.TransformPoint(p),
	}
	e.state = StateResizing
	e.log.Debug("gesture started", "state", e.state, "handle", h)
}

func (e *Engine) resizeTo(p geometry.Point) {
	g := e.gesture
	local := g.toLocal.TransformPoint(p)
	next := resizeRect(g.bounds.Rect, g.handle, local.X-g.anchorLocal.X, local.Y-g.anchorLocal.Y)

	for _, el := range g.snapshot {
		r := geometry.ScaleRect(g.bounds.Rect, next, el.Rect())
		e.scene.Upsert(el.WithRect(scene.FloorSize(r)))
	}
	e.emitScene()
}

// --- Rotate ---

func (e *Engine) beginRotate(p geometry.Point, b selection.Bounds) {
	c := b.Center()
	e.gesture = &gesture{
		anchor:     p,
		snapshot:   e.selection.Elements(e.scene),
		bounds:     b,
		handle:     HandleRotate,
		startAngle: math.Atan2(p.Y-c.Y, p.X-c.X),
	}
	e.state = StateRotating
	e.log.Debug("gesture started", "state", e.state)
}

func (e *Engine) rotateTo(p geometry.Point) {
	g := e.gesture
	if len(g.snapshot) != 1 {
		return
	}
	c := g.bounds.Center()
	angle := math.Atan2(p.Y-c.Y, p.X-c.X)

	el := g.snapshot[0]
	el.Rotation += (angle - g.startAngle) * 180 / math.Pi
	e.scene.Upsert(el)
	e.emitScene()
}
