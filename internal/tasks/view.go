package tasks

import (
	"cmp"
	"slices"
	"strings"

	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

// ViewOptions select and order the tasks a dashboard shows.
type ViewOptions struct {
	// Status filters by status; empty or StatusAll shows every status.
	Status constants.TaskStatus
	Sort   constants.SortKey
	// Query is matched case-insensitively against title, description,
	// assignee and priority.
	Query string
	// AssignedTo restricts the view to one assignee.
	AssignedTo string
}

func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		Status: constants.StatusAll,
		Sort:   constants.SortByDate,
	}
}

// Derive returns a new slice; tasks is not modified. Sorting is stable.
func Derive(tasks []model.Task, opts ViewOptions) []model.Task {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesStatus(t, opts.Status) {
			continue
		}
		if opts.AssignedTo != "" && !strings.EqualFold(t.AssignedTo, opts.AssignedTo) {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}

	switch opts.Sort {
	case constants.SortByDate:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case constants.SortByPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		})
	}

	return out
}

func matchesStatus(t model.Task, status constants.TaskStatus) bool {
	return status == "" || status == constants.StatusAll || t.Status == status
}

func matchesQuery(t model.Task, query string) bool {
	for _, field := range []string{t.Title, t.Description, t.AssignedTo, string(t.Priority)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// SetFilterStatus changes the status filter used by CurrentView.
func (s *Store) SetFilterStatus(status constants.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Status = status
}

// SetSortBy changes the sort key used by CurrentView.
func (s *Store) SetSortBy(key constants.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Sort = key
}

func (s *Store) ViewOptions() ViewOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// View derives opts over the current mirror.
func (s *Store) View(opts ViewOptions) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.mirror, opts)
}

// CurrentView derives the stored filter and sort over the current mirror.
func (s *Store) CurrentView() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.mirror, s.view)
}
