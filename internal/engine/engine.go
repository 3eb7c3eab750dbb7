package engine

import (
	"log/slog"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/guides"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/selection"
)

// DefaultGridSize is the grid pitch, in scene units, used when none is configured.
const DefaultGridSize = 10.0

// Config holds the editor switches the host can change at any time.
type Config struct {
	SnapToGrid bool    `json:"snapToGrid"`
	GridSize   float64 `json:"gridSize"`
	ShowGuides bool    `json:"showGuides"`
}

// DefaultConfig returns grid snapping off, a 10-unit grid and guides on.
func DefaultConfig() Config {
	return Config{
		SnapToGrid: false,
		GridSize:   DefaultGridSize,
		ShowGuides: true,
	}
}

func (c Config) normalized() Config {
	if !(c.GridSize > 0) {
		c.GridSize = DefaultGridSize
	}
	return c
}

// Engine is the direct-manipulation controller for one editing surface. It owns the
// scene and the selection, interprets pointer and keyboard events through a single
// transition table, and reports every committed change through the registered
// callbacks.
//
// Engine is single-threaded: all calls must come from the host's event loop.
type Engine struct {
	cfg       Config
	scene     *scene.Scene
	selection *selection.Manager
	viewScale float64

	// Interaction state
	state   State
	gesture *gesture
	guides  guides.Set
	marquee geometry.Rect

	// Host hooks
	onSceneChange     func([]scene.Element)
	onSelectionChange func([]string)
	keyGuard          func() bool
	unsubscribeKeys   func()

	log *slog.Logger
}

// NewEngine creates an engine editing sc. A nil scene starts empty.
func NewEngine(sc *scene.Scene, cfg Config) *Engine {
	if sc == nil {
		sc = scene.New()
	}
	return &Engine{
		cfg:       cfg.normalized(),
		scene:     sc,
		selection: selection.NewManager(),
		viewScale: 1,
		state:     StateIdle,
		log:       slog.Default(),
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// OnSceneChange registers fn to receive the full scene after every committed mutation.
func (e *Engine) OnSceneChange(fn func([]scene.Element)) {
	e.onSceneChange = fn
}

// OnSelectionChange registers fn to receive the selected IDs whenever they change.
func (e *Engine) OnSelectionChange(fn func([]string)) {
	e.onSelectionChange = fn
}

// SetKeyGuard installs a predicate the host uses to suppress keyboard handling, for
// instance while a text element is receiving input.
func (e *Engine) SetKeyGuard(fn func() bool) {
	e.keyGuard = fn
}

// --- Configuration ---

// Config returns the current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the configuration. Turning guides off clears any shown guides.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg.normalized()
	if !e.cfg.ShowGuides {
		e.guides = guides.Set{}
	}
}

// ViewScale returns the host zoom factor (view pixels per scene unit).
func (e *Engine) ViewScale() float64 {
	return e.viewScale
}

// SetViewScale records the host zoom factor so pixel tolerances stay constant on
// screen. Non-positive values are ignored.
func (e *Engine) SetViewScale(s float64) {
	if s > 0 {
		e.viewScale = s
	}
}

// --- Host-driven scene changes ---

// LoadElements replaces the whole scene, ending any gesture and clearing the
// selection.
func (e *Engine) LoadElements(elements []scene.Element) {
	e.endGesture()
	e.scene = scene.New(elements...)
	e.selection.Clear()
	e.emitScene()
	e.emitSelection()
}

// Upsert adds or replaces an element on behalf of the host and returns the committed
// element. A gesture in progress ends first.
func (e *Engine) Upsert(el scene.Element) scene.Element {
	e.endGesture()
	committed := e.scene.Upsert(el)
	if e.selection.Prune(e.scene) {
		e.emitSelection()
	}
	e.emitScene()
	return committed
}

// Remove deletes an element on behalf of the host, ending any gesture in progress.
func (e *Engine) Remove(id string) bool {
	if !e.scene.Remove(id) {
		return false
	}
	e.endGesture()
	if e.selection.Prune(e.scene) {
		e.emitSelection()
	}
	e.emitScene()
	return true
}

// SetSelection replaces the selection with ids. Locked and unknown IDs are dropped.
func (e *Engine) SetSelection(ids []string) {
	if e.selection.Select(e.scene, ids, selection.Replace) {
		e.emitSelection()
	}
}

// --- Queries ---

// State returns the current interaction state.
func (e *Engine) State() State {
	return e.state
}

// Scene returns a copy of the elements in scene order.
func (e *Engine) Scene() []scene.Element {
	return e.scene.All()
}

// Element returns one element by ID.
func (e *Engine) Element(id string) (scene.Element, bool) {
	return e.scene.Get(id)
}

// Selection returns the selected IDs.
func (e *Engine) Selection() []string {
	return e.selection.IDs()
}

// SelectionBounds returns the aggregate bounds of the selection, or false when the
// selection is empty.
func (e *Engine) SelectionBounds() (selection.Bounds, bool) {
	return e.selection.Bounds(e.scene)
}

// Guides returns the guide lines of the move in progress.
func (e *Engine) Guides() guides.Set {
	return e.guides
}

// Marquee returns the marquee rectangle while a drag-select is in progress.
func (e *Engine) Marquee() (geometry.Rect, bool) {
	if e.state != StateSelecting {
		return geometry.Rect{}, false
	}
	return e.marquee, true
}

// --- Notifications ---

func (e *Engine) emitScene() {
	if e.onSceneChange != nil {
		e.onSceneChange(e.scene.All())
	}
}

func (e *Engine) emitSelection() {
	if e.onSelectionChange != nil {
		e.onSelectionChange(e.selection.IDs())
	}
}
