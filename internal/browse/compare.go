package browse

import "sync"

// Selection is the bounded pairwise comparison selection: at most two
// keyboards, keyed by id, plus the comparison modal flag. Selected
// snapshots are not revalidated; they may go stale if the catalog
// changes underneath, which is acceptable.
type Selection struct {
	mu        sync.Mutex
	keyboards []Keyboard
	modalOpen bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Toggle removes the keyboard if it is already selected, otherwise adds
// it. Adding to a full selection is rejected with ErrSelectionFull and
// leaves the selection unchanged. Removing a keyboard while the modal
// is open closes the modal, since the pair is broken.
func (s *Selection) Toggle(kb Keyboard) (selected bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.keyboards {
		if cur.ID == kb.ID {
			s.keyboards = append(s.keyboards[:i], s.keyboards[i+1:]...)
			if s.modalOpen && len(s.keyboards) != 2 {
				s.modalOpen = false
			}
			return false, nil
		}
	}

	if len(s.keyboards) >= 2 {
		return false, ErrSelectionFull
	}

	s.keyboards = append(s.keyboards, kb)
	return true, nil
}

// Clear empties the selection and force-closes the modal.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyboards = nil
	s.modalOpen = false
}

// OpenModal opens the comparison view. It only takes effect with
// exactly two keyboards selected; the return reports whether the modal
// is now open.
func (s *Selection) OpenModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keyboards) == 2 {
		s.modalOpen = true
	}
	return s.modalOpen
}

// CloseModal closes the comparison view. Always succeeds; the
// selection is unchanged.
func (s *Selection) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = false
}

// ModalOpen reports whether the comparison view is open.
func (s *Selection) ModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalOpen
}

// Contains reports whether the keyboard with the given id is selected.
func (s *Selection) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kb := range s.keyboards {
		if kb.ID == id {
			return true
		}
	}
	return false
}

// Keyboards returns a copy of the selection in selection order.
func (s *Selection) Keyboards() []Keyboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Keyboard(nil), s.keyboards...)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.keyboards))
	for _, kb := range s.keyboards {
		ids = append(ids, kb.ID)
	}
	return ids
}

// Pair returns both sides of the comparison when exactly two keyboards
// are selected.
func (s *Selection) Pair() (a, b Keyboard, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keyboards) != 2 {
		return Keyboard{}, Keyboard{}, false
	}
	return s.keyboards[0], s.keyboards[1], true
}
