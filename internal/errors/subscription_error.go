package errors

import "fmt"

// SubscriptionError ends a live query. No further emissions arrive until the
// subscription is mounted again.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("task subscription failed: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}
