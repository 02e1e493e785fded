package tasks

import (
	"sync"

	model "task-tracker.com/task-tracker/internal/models"
)

// Selection is the set of task ids picked for a bulk action, kept in the
// order they were picked.
type Selection struct {
	mu  sync.Mutex
	ids []string
	set map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{set: make(map[string]struct{})}
}

// Toggle flips id in or out of the selection and reports whether it is now
// selected.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		s.removeLocked(id)
		return false
	}
	s.addLocked(id)
	return true
}

// Replace sets the selection to ids, dropping duplicates.
func (s *Selection) Replace(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = nil
	s.set = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.addLocked(id)
	}
}

// SelectAll adds every task of view.
func (s *Selection) SelectAll(view []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range view {
		s.addLocked(t.ID)
	}
}

// Prune drops ids that are no longer among tasks.
func (s *Selection) Prune(tasks []model.Task) {
	present := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		present[t.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
		} else {
			delete(s.set, id)
		}
	}
	s.ids = kept
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = nil
	s.set = make(map[string]struct{})
}

func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.set[id]
	return ok
}

func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Selection) addLocked(id string) {
	if id == "" {
		return
	}
	if _, ok := s.set[id]; ok {
		return
	}
	s.set[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) removeLocked(id string) {
	delete(s.set, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}
