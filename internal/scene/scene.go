package scene

// Scene is the ordered set of editable elements, keyed by ID. It is the single owner
// of element state: every mutation goes through Upsert or Remove, and readers only
// ever receive copies.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	order []string
	byID  map[string]Element
}

// New creates a scene holding the given elements in order. Later duplicates of an ID
// replace earlier ones in place.
func New(elements ...Element) *Scene {
	s := &Scene{byID: make(map[string]Element, len(elements))}
	for _, el := range elements {
		s.Upsert(el)
	}
	return s
}

// Get returns the element with the given ID.
func (s *Scene) Get(id string) (Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

// Upsert commits a whole-element replacement, or appends the element if its ID is
// new. Invalid geometry is corrected rather than rejected; the committed element is
// returned.
func (s *Scene) Upsert(el Element) Element {
	el = Normalize(el)
	if _, exists := s.byID[el.ID]; !exists {
		s.order = append(s.order, el.ID)
	}
	s.byID[el.ID] = el
	return el
}

// Remove deletes the element with the given ID. It reports whether anything was
// removed.
func (s *Scene) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the elements in scene order.
func (s *Scene) All() []Element {
	result := make([]Element, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// Len returns the number of elements.
func (s *Scene) Len() int {
	return len(s.order)
}

// HitTest returns the topmost visible element under (x, y). Higher ZIndex wins; on
// equal ZIndex the element later in scene order wins, matching paint order.
func (s *Scene) HitTest(x, y float64) (Element, bool) {
	var (
		hit   Element
		found bool
	)
	for _, id := range s.order {
		el := s.byID[id]
		if !el.Visible || !el.ContainsPoint(x, y) {
			continue
		}
		if !found || el.ZIndex >= hit.ZIndex {
			hit = el
			found = true
		}
	}
	return hit, found
}
