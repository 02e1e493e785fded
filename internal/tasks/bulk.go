package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

const msgNothingSelected = "No tasks selected"

// BulkUpdateStatus sets status on every id and reports one summary toast.
func (s *Store) BulkUpdateStatus(ctx context.Context, ids []string, status constants.TaskStatus) model.Toast {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return s.toasts.Info(msgNothingSelected)
	}

	failed := s.runBulk(ctx, ids, apperrors.OpUpdate, func(ctx context.Context, id string) error {
		return s.coll.Update(ctx, id, backend.StatusPatch(status))
	})

	if failed == 0 {
		return s.toasts.Success(fmt.Sprintf("%d tasks updated successfully!", len(ids)))
	}
	return s.toasts.Error(fmt.Sprintf("Failed to update %d of %d tasks", failed, len(ids)))
}

// BulkDelete deletes every id and reports one summary toast.
func (s *Store) BulkDelete(ctx context.Context, ids []string) model.Toast {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return s.toasts.Info(msgNothingSelected)
	}

	failed := s.runBulk(ctx, ids, apperrors.OpDelete, s.coll.Delete)

	if failed == 0 {
		return s.toasts.Success(fmt.Sprintf("%d tasks deleted!", len(ids)))
	}
	return s.toasts.Error(fmt.Sprintf("Failed to delete %d of %d tasks", failed, len(ids)))
}

// runBulk applies op to ids on a fixed set of workers and returns how many
// failed. Failures are logged, never returned.
func (s *Store) runBulk(
	ctx context.Context,
	ids []string,
	op apperrors.MutationOp,
	apply func(context.Context, string) error,
) int {
	jobs := make(chan string)
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)

	workers := min(s.bulkWorkers, len(ids))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := apply(ctx, id); err != nil {
					mutErr := &apperrors.MutationError{Op: op, TaskID: id, Err: err}
					s.logger.Warnw("bulk task mutation failed", "op", op, "task_id", id, "error", mutErr)
					failed.Add(1)
				}
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	return int(failed.Load())
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
