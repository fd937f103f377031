package viewport

// Selection is an insertion-ordered set of node ids. The zero value is
// ready to use.
type Selection struct {
	ids   []string
	index map[string]int
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add selects id. It reports whether the selection changed.
func (s *Selection) Add(id string) bool {
	if id == "" || s.Has(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id. It reports whether the selection changed.
func (s *Selection) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

// Toggle flips the membership of id and returns the new state.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	return s.Add(id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.index = nil
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
