package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
)

// -- Test Helpers --

type recorder struct {
	scenes     [][]scene.Element
	selections [][]string
}

func newTestEngine(t *testing.T, cfg Config, elements ...scene.Element) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := NewEngine(scene.New(elements...), cfg)
	e.OnSceneChange(func(els []scene.Element) { rec.scenes = append(rec.scenes, els) })
	e.OnSelectionChange(func(ids []string) { rec.selections = append(rec.selections, ids) })
	return e, rec
}

func shape(id string, x, y, w, h float64) scene.Element {
	return scene.Element{ID: id, Kind: scene.KindShape, X: x, Y: y, Width: w, Height: h, Scale: 1, Visible: true}
}

func down(e *Engine, x, y float64) { e.HandlePointer(PointerEvent{Kind: PointerDown, X: x, Y: y}) }
func move(e *Engine, x, y float64) { e.HandlePointer(PointerEvent{Kind: PointerMove, X: x, Y: y}) }
func up(e *Engine)                 { e.HandlePointer(PointerEvent{Kind: PointerUp}) }

func shiftDown(e *Engine, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Shift: true})
}

func drag(e *Engine, fromX, fromY, toX, toY float64) {
	down(e, fromX, fromY)
	move(e, toX, toY)
	up(e)
}

func rectOf(t *testing.T, e *Engine, id string) geometry.Rect {
	t.Helper()
	el, ok := e.Element(id)
	require.True(t, ok, "element %s missing", id)
	return el.Rect()
}

func noGuides() Config {
	cfg := DefaultConfig()
	cfg.ShowGuides = false
	return cfg
}

// -- Scenarios --

func TestMoveSnapsToNeighborEdgeGuide(t *testing.T) {
	e, rec := newTestEngine(t, DefaultConfig(),
		shape("a", 0, 0, 100, 100),
		shape("b", 150, 0, 100, 100),
	)

	down(e, 50, 50)
	require.Equal(t, StateMoving, e.State())
	assert.Equal(t, []string{"a"}, e.Selection())

	// Right edge lands at x=146, within 4 units of b's left edge.
	move(e, 96, 50)

	assert.Contains(t, e.Guides().Vertical, 150.0)
	a := rectOf(t, e, "a")
	assert.Equal(t, 50.0, a.X)
	assert.Equal(t, 150.0, a.Right())
	assert.Equal(t, 0.0, a.Y)
	assert.NotEmpty(t, rec.scenes)

	up(e)
	assert.Equal(t, StateIdle, e.State())
	assert.True(t, e.Guides().IsEmpty(), "guides are cleared when the gesture ends")
}

func TestMarqueeSelectsOnlyFullyEnclosed(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(),
		shape("inside", 10, 10, 50, 50),
		shape("partial", 180, 180, 100, 100),
	)

	down(e, 0, 0)
	require.Equal(t, StateSelecting, e.State())
	move(e, 200, 200)

	r, ok := e.Marquee()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 200, Height: 200}, r)
	assert.Equal(t, []string{"inside"}, e.Selection())

	up(e)
	_, ok = e.Marquee()
	assert.False(t, ok)
	assert.Equal(t, []string{"inside"}, e.Selection())
}

func TestResizeFromCornerHandles(t *testing.T) {
	t.Run("se grows width and height, position unchanged", func(t *testing.T) {
		e, _ := newTestEngine(t, DefaultConfig(), shape("a", 100, 100, 100, 100))
		e.SetSelection([]string{"a"})

		down(e, 200, 200)
		require.Equal(t, StateResizing, e.State())
		move(e, 220, 210)
		up(e)

		assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 120, Height: 110}, rectOf(t, e, "a"))
	})

	t.Run("nw shifts position and shrinks size", func(t *testing.T) {
		e, _ := newTestEngine(t, DefaultConfig(), shape("a", 100, 100, 100, 100))
		e.SetSelection([]string{"a"})

		drag(e, 100, 100, 120, 110)

		assert.Equal(t, geometry.Rect{X: 120, Y: 110, Width: 80, Height: 90}, rectOf(t, e, "a"))
	})

	t.Run("nw is floored at the minimum size", func(t *testing.T) {
		e, _ := newTestEngine(t, DefaultConfig(), shape("a", 100, 100, 100, 100))
		e.SetSelection([]string{"a"})

		drag(e, 100, 100, 400, 400)

		assert.Equal(t, geometry.Rect{X: 190, Y: 190, Width: 10, Height: 10}, rectOf(t, e, "a"))
	})

	t.Run("edge handle adjusts one edge", func(t *testing.T) {
		e, _ := newTestEngine(t, DefaultConfig(), shape("a", 100, 100, 100, 100))
		e.SetSelection([]string{"a"})

		drag(e, 200, 150, 230, 400)

		assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 130, Height: 100}, rectOf(t, e, "a"))
	})
}

func TestDeleteRemovesSelection(t *testing.T) {
	e, rec := newTestEngine(t, DefaultConfig(),
		shape("a", 0, 0, 10, 10),
		shape("b", 20, 0, 10, 10),
		shape("c", 40, 0, 10, 10),
		shape("d", 60, 0, 10, 10),
	)
	e.SetSelection([]string{"a", "b", "c"})

	e.HandleKey(KeyEvent{Key: KeyDelete})

	remaining := e.Scene()
	require.Len(t, remaining, 1)
	assert.Equal(t, "d", remaining[0].ID)
	assert.Empty(t, e.Selection())
	require.NotEmpty(t, rec.selections)
	assert.Empty(t, rec.selections[len(rec.selections)-1])
	require.NotEmpty(t, rec.scenes)
	assert.Len(t, rec.scenes[len(rec.scenes)-1], 1)
}

// -- Properties --

func TestMultiResizeNeverBelowMinimum(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(),
		shape("a", 0, 0, 100, 100),
		shape("b", 200, 0, 20, 20),
	)
	e.SetSelection([]string{"a", "b"})

	drag(e, 220, 100, -500, -500)

	for _, el := range e.Scene() {
		assert.GreaterOrEqual(t, el.Width, scene.MinSize, el.ID)
		assert.GreaterOrEqual(t, el.Height, scene.MinSize, el.ID)
	}
}

func TestMultiResizeRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(),
		shape("a", 0, 0, 100, 50),
		shape("b", 150, 100, 50, 100),
	)
	e.SetSelection([]string{"a", "b"})
	before := map[string]geometry.Rect{"a": rectOf(t, e, "a"), "b": rectOf(t, e, "b")}

	// Scale by (1.5, 1.25) from the se corner, then back.
	drag(e, 200, 200, 300, 250)
	assert.True(t, geometry.ApproxEqual(geometry.Rect{X: 0, Y: 0, Width: 150, Height: 62.5}, rectOf(t, e, "a"), 1e-9))
	assert.True(t, geometry.ApproxEqual(geometry.Rect{X: 225, Y: 125, Width: 75, Height: 125}, rectOf(t, e, "b"), 1e-9))

	drag(e, 300, 250, 200, 200)
	for id, r := range before {
		assert.True(t, geometry.ApproxEqual(r, rectOf(t, e, id), 1e-9), "%s: %+v", id, rectOf(t, e, id))
	}
}

func TestLockedElementStartsNoGesture(t *testing.T) {
	l := shape("locked", 0, 0, 100, 100)
	l.Locked = true
	e, rec := newTestEngine(t, DefaultConfig(), l)

	down(e, 50, 50)
	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Selection())
	move(e, 80, 80)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, rectOf(t, e, "locked"))
	assert.Empty(t, rec.scenes)
}

func TestLockedElementNeverSelectedByMarquee(t *testing.T) {
	l := shape("locked", 10, 10, 20, 20)
	l.Locked = true
	e, _ := newTestEngine(t, DefaultConfig(), l, shape("free", 50, 10, 20, 20))

	drag(e, 200, 200, 0, 0)
	assert.Equal(t, []string{"free"}, e.Selection())
}

// -- Transitions --

func TestStrayPointerDownIgnoredDuringGesture(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 300, 0, 50, 50))

	down(e, 50, 50)
	down(e, 320, 20)
	assert.Equal(t, StateMoving, e.State())
	assert.Equal(t, []string{"a"}, e.Selection())

	move(e, 60, 60)
	assert.Equal(t, 10.0, rectOf(t, e, "a").X)
	assert.Equal(t, 300.0, rectOf(t, e, "b").X)
}

func TestClickOnEmptySpaceClearsSelection(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})

	down(e, 500, 500)
	assert.Equal(t, StateSelecting, e.State())
	assert.Empty(t, e.Selection())
	up(e)
	assert.Equal(t, StateIdle, e.State())
}

func TestModifierClickToggles(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 300, 0, 100, 100))
	e.SetSelection([]string{"a"})

	shiftDown(e, 350, 50)
	assert.Equal(t, StateMoving, e.State())
	assert.Equal(t, []string{"a", "b"}, e.Selection())
	move(e, 360, 70)
	up(e)

	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 100, Height: 100}, rectOf(t, e, "a"))
	assert.Equal(t, geometry.Rect{X: 310, Y: 20, Width: 100, Height: 100}, rectOf(t, e, "b"))

	shiftDown(e, 60, 70)
	assert.Equal(t, StateIdle, e.State(), "toggling an element off starts no drag")
	assert.Equal(t, []string{"b"}, e.Selection())
}

func TestClickInsideMultiSelectionPreservesIt(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 150, 0, 100, 100))
	e.SetSelection([]string{"a", "b"})

	drag(e, 50, 50, 55, 60)

	assert.Equal(t, []string{"a", "b"}, e.Selection())
	assert.Equal(t, 5.0, rectOf(t, e, "a").X)
	assert.Equal(t, 155.0, rectOf(t, e, "b").X)
	assert.Equal(t, 10.0, rectOf(t, e, "b").Y)
}

func TestAdditiveMarqueeUnionsWithPriorSelection(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(),
		shape("a", 0, 0, 50, 50),
		shape("b", 200, 200, 50, 50),
	)
	e.SetSelection([]string{"a"})

	shiftDown(e, 150, 150)
	assert.Equal(t, []string{"a"}, e.Selection(), "modifier keeps the selection on empty-space press")
	move(e, 300, 300)
	assert.Equal(t, []string{"a", "b"}, e.Selection())

	// Shrinking the marquee drops b again but keeps the pre-marquee selection.
	move(e, 160, 160)
	assert.Equal(t, []string{"a"}, e.Selection())
	up(e)
}

func TestGridSnapOnMove(t *testing.T) {
	cfg := noGuides()
	cfg.SnapToGrid = true
	e, _ := newTestEngine(t, cfg, shape("a", 0, 0, 50, 50))

	drag(e, 25, 25, 38, 52)

	assert.Equal(t, geometry.Rect{X: 10, Y: 30, Width: 50, Height: 50}, rectOf(t, e, "a"))
}

func TestGuidesDisabled(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 150, 0, 100, 100))

	down(e, 50, 50)
	move(e, 96, 50)

	assert.True(t, e.Guides().IsEmpty())
	assert.Equal(t, 46.0, rectOf(t, e, "a").X, "no guide snapping without guides")
}

func TestGuideToleranceFollowsViewScale(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100), shape("b", 150, 0, 100, 100))
	e.SetViewScale(2)

	// 4 units away is 8 view pixels at 2x zoom, beyond the 5 pixel tolerance.
	down(e, 50, 50)
	move(e, 96, 50)

	assert.NotContains(t, e.Guides().Vertical, 150.0)
	assert.Equal(t, 46.0, rectOf(t, e, "a").X)
}

func TestRotateSingleSelection(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})

	down(e, 50, -24)
	require.Equal(t, StateRotating, e.State())
	move(e, 150, 50)

	el, _ := e.Element("a")
	assert.InDelta(t, 90.0, el.Rotation, 1e-9)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, el.Rect())
	up(e)

	b, ok := e.SelectionBounds()
	require.True(t, ok)
	assert.InDelta(t, 90.0, b.Rotation, 1e-9)
}

func TestNoRotateHandleForMultiSelection(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100), shape("b", 0, 200, 100, 100))
	e.SetSelection([]string{"a", "b"})

	down(e, 50, -24)
	assert.Equal(t, StateSelecting, e.State())
}

func TestResizeRotatedSingleSelectionInLocalFrame(t *testing.T) {
	el := shape("a", 0, 0, 100, 100)
	el.Rotation = 90
	e, _ := newTestEngine(t, DefaultConfig(), el)
	e.SetSelection([]string{"a"})

	// Rotated 90 degrees about (50, 50), the local east edge midpoint sits at (50, 100).
	down(e, 50, 100)
	require.Equal(t, StateResizing, e.State())
	move(e, 50, 120)
	up(e)

	got, _ := e.Element("a")
	assert.InDelta(t, 120.0, got.Width, 1e-9)
	assert.InDelta(t, 100.0, got.Height, 1e-9)
	assert.Equal(t, 90.0, got.Rotation)
}

// -- Keyboard --

func TestEscape(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100))

	down(e, 50, 50)
	move(e, 70, 50)
	e.HandleKey(KeyEvent{Key: KeyEscape})
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 20.0, rectOf(t, e, "a").X, "escape ends the gesture in place")
	assert.Equal(t, []string{"a"}, e.Selection())

	move(e, 90, 50)
	assert.Equal(t, 20.0, rectOf(t, e, "a").X, "moves after escape are ignored")

	e.HandleKey(KeyEvent{Key: KeyEscape})
	assert.Empty(t, e.Selection())
}

func TestArrowNudge(t *testing.T) {
	e, rec := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100), shape("b", 200, 0, 10, 10))

	e.HandleKey(KeyEvent{Key: KeyArrowRight})
	assert.Empty(t, rec.scenes, "nudge with empty selection is a no-op")

	e.SetSelection([]string{"a"})
	e.HandleKey(KeyEvent{Key: KeyArrowRight})
	e.HandleKey(KeyEvent{Key: KeyArrowDown, Shift: true})
	e.HandleKey(KeyEvent{Key: KeyArrowUp})
	e.HandleKey(KeyEvent{Key: KeyArrowLeft, Shift: true})

	assert.Equal(t, geometry.Rect{X: -9, Y: 9, Width: 100, Height: 100}, rectOf(t, e, "a"))
	assert.Equal(t, 200.0, rectOf(t, e, "b").X)
	assert.Len(t, rec.scenes, 4)
}

func TestKeysIgnoredDuringGesture(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100))
	down(e, 50, 50)

	e.HandleKey(KeyEvent{Key: KeyDelete})
	e.HandleKey(KeyEvent{Key: KeyArrowLeft})

	assert.Len(t, e.Scene(), 1)
	assert.Equal(t, 0.0, rectOf(t, e, "a").X)
}

func TestKeyGuardSuppressesShortcuts(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})

	editing := true
	e.SetKeyGuard(func() bool { return editing })

	e.HandleKey(KeyEvent{Key: KeyBackspace})
	assert.Len(t, e.Scene(), 1)

	editing = false
	e.HandleKey(KeyEvent{Key: KeyBackspace})
	assert.Empty(t, e.Scene())
}

type fakeKeySource struct {
	handler      func(KeyEvent)
	subscribes   int
	unsubscribes int
}

func (f *fakeKeySource) SubscribeKeys(h func(KeyEvent)) func() {
	f.handler = h
	f.subscribes++
	return func() {
		f.handler = nil
		f.unsubscribes++
	}
}

func (f *fakeKeySource) press(ev KeyEvent) {
	if f.handler != nil {
		f.handler(ev)
	}
}

func TestMountUnmount(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})
	src := &fakeKeySource{}

	e.Mount(src)
	assert.True(t, e.Mounted())
	src.press(KeyEvent{Key: KeyArrowRight})
	assert.Equal(t, 1.0, rectOf(t, e, "a").X)

	e.Mount(src)
	assert.Equal(t, 2, src.subscribes)
	assert.Equal(t, 1, src.unsubscribes, "remounting drops the old subscription")

	e.Unmount()
	assert.False(t, e.Mounted())
	assert.Equal(t, 2, src.unsubscribes)
	src.press(KeyEvent{Key: KeyArrowRight})
	assert.Equal(t, 1.0, rectOf(t, e, "a").X)
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, KeyArrowUp, ParseKey("ArrowUp"))
	assert.Equal(t, KeyBackspace, ParseKey("Backspace"))
	assert.Equal(t, KeyEscape, ParseKey("Escape"))
	assert.Equal(t, KeyUnknown, ParseKey("a"))
}

// -- Host operations --

func TestHostUpsertPrunesSelection(t *testing.T) {
	e, rec := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})

	a, _ := e.Element("a")
	a.Locked = true
	e.Upsert(a)

	assert.Empty(t, e.Selection())
	assert.Len(t, rec.selections, 2)

	assert.True(t, e.Remove("a"))
	assert.False(t, e.Remove("a"))
	assert.Empty(t, e.Scene())
}

// gestureCases start each gesture kind on element "a" (0,0,100,100) and apply one
// pointer-move step.
var gestureCases = []struct {
	name  string
	state State
	start func(e *Engine)
	next  func(e *Engine)
}{
	{
		name:  "move",
		state: StateMoving,
		start: func(e *Engine) { down(e, 50, 50); move(e, 60, 60) },
		next:  func(e *Engine) { move(e, 80, 80) },
	},
	{
		name:  "resize",
		state: StateResizing,
		start: func(e *Engine) { e.SetSelection([]string{"a"}); down(e, 100, 100); move(e, 110, 110) },
		next:  func(e *Engine) { move(e, 140, 140) },
	},
	{
		name:  "rotate",
		state: StateRotating,
		start: func(e *Engine) { e.SetSelection([]string{"a"}); down(e, 50, -24); move(e, 150, 50) },
		next:  func(e *Engine) { move(e, 50, 150) },
	},
}

func TestHostRemoveDuringGesture(t *testing.T) {
	for _, tc := range gestureCases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 300, 300, 50, 50))
			tc.start(e)
			require.Equal(t, tc.state, e.State())

			require.True(t, e.Remove("a"))
			assert.Equal(t, StateIdle, e.State())

			tc.next(e)
			up(e)

			_, ok := e.Element("a")
			assert.False(t, ok, "removed element must not come back")
			assert.Empty(t, e.Selection())
			assert.Len(t, e.Scene(), 1)
		})
	}
}

func TestHostLockDuringGesture(t *testing.T) {
	for _, tc := range gestureCases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100), shape("b", 300, 300, 50, 50))
			tc.start(e)
			require.Equal(t, tc.state, e.State())

			a, _ := e.Element("a")
			a.Locked = true
			locked := e.Upsert(a)
			assert.Equal(t, StateIdle, e.State())

			tc.next(e)
			up(e)

			got, ok := e.Element("a")
			require.True(t, ok)
			assert.True(t, got.Locked, "the host's lock survives the next pointer-move")
			assert.Equal(t, locked.Rect(), got.Rect())
			assert.Equal(t, locked.Rotation, got.Rotation)
			assert.NotContains(t, e.Selection(), "a")
		})
	}
}

func TestHostUpsertOfOtherElementEndsGesture(t *testing.T) {
	e, _ := newTestEngine(t, noGuides(), shape("a", 0, 0, 100, 100))
	down(e, 50, 50)
	move(e, 60, 60)

	e.Upsert(shape("c", 400, 400, 20, 20))
	move(e, 90, 90)

	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, geometry.Rect{X: 10, Y: 10, Width: 100, Height: 100}, rectOf(t, e, "a"))
	assert.Equal(t, []string{"a"}, e.Selection(), "an unrelated upsert keeps the selection")
}

func TestLoadElementsResets(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	down(e, 50, 50)

	e.LoadElements([]scene.Element{shape("z", 0, 0, 20, 20)})

	assert.Equal(t, StateIdle, e.State())
	assert.Empty(t, e.Selection())
	require.Len(t, e.Scene(), 1)
	assert.Equal(t, "z", e.Scene()[0].ID)
}

func TestSetConfigNormalizesGrid(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.SetConfig(Config{SnapToGrid: true, GridSize: 0})
	assert.Equal(t, DefaultGridSize, e.Config().GridSize)
	assert.False(t, e.Config().ShowGuides)
}

// -- Overlay --

func TestOverlay(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100), shape("b", 200, 0, 100, 100))

	o := e.Overlay()
	assert.Equal(t, "idle", o.State)
	assert.Nil(t, o.Selection)

	e.SetSelection([]string{"a"})
	o = e.Overlay()
	require.NotNil(t, o.Selection)
	assert.Len(t, o.Selection.Handles, 9, "single selection adds the rotation handle")
	assert.Nil(t, o.Selection.Transform)

	e.SetSelection([]string{"a", "b"})
	o = e.Overlay()
	require.NotNil(t, o.Selection)
	assert.Len(t, o.Selection.Handles, 8)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 300, Height: 100}, o.Selection.Bounds)

	down(e, 150, 300)
	move(e, 160, 320)
	o = e.Overlay()
	require.NotNil(t, o.Marquee)
	assert.Equal(t, "selecting", o.State)

	js, err := OverlayToJSON(o)
	require.NoError(t, err)
	assert.True(t, strings.Contains(js, `"state":"selecting"`))
}

func TestOverlayRotatedSelectionCarriesTransform(t *testing.T) {
	el := shape("a", 0, 0, 100, 100)
	el.Rotation = 45
	e, _ := newTestEngine(t, DefaultConfig(), el)
	e.SetSelection([]string{"a"})

	o := e.Overlay()
	require.NotNil(t, o.Selection)
	assert.Len(t, o.Selection.Transform, 6)
	assert.Equal(t, 45.0, o.Selection.Rotation)
}

func TestHandleBoxesScaleWithZoom(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), shape("a", 0, 0, 100, 100))
	e.SetSelection([]string{"a"})
	e.SetViewScale(4)

	for _, h := range e.Overlay().Selection.Handles {
		assert.Equal(t, 2.0, h.Size)
	}

	// 3 scene units off the corner is 12 view pixels: outside the hit-box at 4x zoom.
	down(e, 103, 103)
	assert.Equal(t, StateSelecting, e.State())
}
