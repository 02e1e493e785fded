package errors

import "fmt"

type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

type MutationError struct {
	Op     MutationOp
	TaskID string
	Err    error
}

func (e *MutationError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("%s task: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
