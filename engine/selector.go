package engine

// Selector addresses a tab or overlay either by its stable id or by direct
// reference. Every operation that takes a Selector resolves it the same
// way in both modes before acting.
type Selector[T any] struct {
	id    string
	ref   *T
	byRef bool
}

// TabSelector addresses a Tab.
type TabSelector = Selector[Tab]

// OverlaySelector addresses an Overlay.
type OverlaySelector = Selector[Overlay]

// TabByID selects a tab by id.
func TabByID(id string) TabSelector {
	return TabSelector{id: id}
}

// TabRef selects a tab by reference.
func TabRef(t *Tab) TabSelector {
	return TabSelector{ref: t, byRef: true}
}

// OverlayByID selects an overlay by id.
func OverlayByID(id string) OverlaySelector {
	return OverlaySelector{id: id}
}

// OverlayRef selects an overlay by reference.
func OverlayRef(o *Overlay) OverlaySelector {
	return OverlaySelector{ref: o, byRef: true}
}

// match reports whether candidate, whose id is candidateID, is the selected
// entity.
func (s Selector[T]) match(candidate *T, candidateID string) bool {
	if s.byRef {
		return s.ref != nil && s.ref == candidate
	}
	return s.id != "" && s.id == candidateID
}

func (s Selector[T]) String() string {
	if s.byRef {
		if s.ref == nil {
			return "ref(nil)"
		}
		return "ref"
	}
	return "id(" + s.id + ")"
}
