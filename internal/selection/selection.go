package selection

import (
	"slices"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
)

// Mode controls how Select combines incoming IDs with the current selection.
type Mode int

const (
	// Replace discards the prior selection.
	Replace Mode = iota
	// Toggle flips membership of each incoming ID.
	Toggle
	// Add unions the incoming IDs into the selection.
	Add
)

func (m Mode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Toggle:
		return "toggle"
	case Add:
		return "add"
	default:
		return "unknown"
	}
}

// Source is the read-only view of the scene the manager needs.
type Source interface {
	Get(id string) (scene.Element, bool)
	All() []scene.Element
}

// Bounds is the aggregate bounding box of a selection. Rotation is the element's
// rotation when exactly one element is selected and 0 otherwise.
type Bounds struct {
	geometry.Rect
	Rotation float64 `json:"rotation"`
}

// Manager tracks the selected element IDs in selection order.
type Manager struct {
	ids []string
}

// NewManager creates an empty selection.
func NewManager() *Manager {
	return &Manager{}
}

// Select applies ids to the selection using mode. IDs of locked elements and IDs
// missing from src are dropped before the set operation, so neither can ever
// enter the selection. It reports whether the selection changed.
func (m *Manager) Select(src Source, ids []string, mode Mode) bool {
	incoming := selectable(src, ids)
	before := slices.Clone(m.ids)

	switch mode {
	case Replace:
		m.ids = incoming
	case Add:
		for _, id := range incoming {
			if !m.Contains(id) {
				m.ids = append(m.ids, id)
			}
		}
	case Toggle:
		for _, id := range incoming {
			if i := slices.Index(m.ids, id); i >= 0 {
				m.ids = slices.Delete(m.ids, i, i+1)
			} else {
				m.ids = append(m.ids, id)
			}
		}
	}

	return !slices.Equal(before, m.ids)
}

// Clear empties the selection and reports whether it was non-empty.
func (m *Manager) Clear() bool {
	if len(m.ids) == 0 {
		return false
	}
	m.ids = nil
	return true
}

// Prune drops IDs whose elements are gone from src or have become locked.
func (m *Manager) Prune(src Source) bool {
	kept := selectable(src, m.ids)
	if slices.Equal(kept, m.ids) {
		return false
	}
	m.ids = kept
	return true
}

// IDs returns a copy of the selected IDs.
func (m *Manager) IDs() []string {
	return slices.Clone(m.ids)
}

// Contains reports whether id is selected.
func (m *Manager) Contains(id string) bool {
	return slices.Contains(m.ids, id)
}

// Len returns the number of selected elements.
func (m *Manager) Len() int {
	return len(m.ids)
}

// IsEmpty reports whether nothing is selected.
func (m *Manager) IsEmpty() bool {
	return len(m.ids) == 0
}

// Elements returns the selected elements as currently stored in src.
func (m *Manager) Elements(src Source) []scene.Element {
	result := make([]scene.Element, 0, len(m.ids))
	for _, id := range m.ids {
		if el, ok := src.Get(id); ok {
			result = append(result, el)
		}
	}
	return result
}

// Bounds returns the selection's bounding box, or false when nothing is selected.
// Multi-element bounds are always axis-aligned.
func (m *Manager) Bounds(src Source) (Bounds, bool) {
	els := m.Elements(src)
	if len(els) == 0 {
		return Bounds{}, false
	}

	rects := make([]geometry.Rect, len(els))
	for i, el := range els {
		rects[i] = el.Rect()
	}
	union, err := geometry.Union(rects...)
	if err != nil {
		return Bounds{}, false
	}

	b := Bounds{Rect: union}
	if len(els) == 1 {
		b.Rotation = els[0].Rotation
	}
	return b, true
}

// ElementsInRect returns the IDs of unlocked, visible elements lying entirely inside
// rect, in scene order.
func ElementsInRect(src Source, rect geometry.Rect) []string {
	var ids []string
	for _, el := range src.All() {
		if el.Locked || !el.Visible {
			continue
		}
		if geometry.ContainsFully(rect, el.Rect()) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}

func selectable(src Source, ids []string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		el, ok := src.Get(id)
		if !ok || el.Locked || slices.Contains(result, id) {
			continue
		}
		result = append(result, id)
	}
	return result
}
