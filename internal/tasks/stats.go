package tasks

import (
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

func ComputeStats(tasks []model.Task) model.Stats {
	stats := model.Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case constants.StatusNew:
			stats.New++
		case constants.StatusActive:
			stats.Active++
		case constants.StatusCompleted:
			stats.Completed++
		case constants.StatusFailed:
			stats.Failed++
		}
	}
	return stats
}
