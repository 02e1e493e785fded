package constants

type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByPriority SortKey = "priority"
)

func (k SortKey) Valid() bool {
	return k == SortByDate || k == SortByPriority
}
