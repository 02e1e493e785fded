package constants

type TaskStatus string

const (
	StatusNew       TaskStatus = "New"
	StatusActive    TaskStatus = "Active"
	StatusCompleted TaskStatus = "Completed"
	StatusFailed    TaskStatus = "Failed"
)

// StatusAll is the filter value that matches every status. It is never stored.
const StatusAll TaskStatus = "All"

var TaskStatuses = []TaskStatus{StatusNew, StatusActive, StatusCompleted, StatusFailed}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusActive, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ValidFilter reports whether s can be used as a status filter.
func (s TaskStatus) ValidFilter() bool {
	return s == StatusAll || s.Valid()
}
