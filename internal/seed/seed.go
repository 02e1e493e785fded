// Package seed reads task fixtures from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

type File struct {
	Tasks []Task `yaml:"tasks"`
}

type Task struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	AssignedTo  string `yaml:"assigned_to"`
	DueDate     string `yaml:"due_date"`
}

// Parse decodes a seed file and checks every task with the same rules the
// task form applies. Status and priority default to New and Medium.
func Parse(r io.Reader) ([]backend.TaskFields, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}

	out := make([]backend.TaskFields, 0, len(f.Tasks))
	for i, t := range f.Tasks {
		fields, err := t.fields()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		out = append(out, fields)
	}
	return out, nil
}

func (t Task) fields() (backend.TaskFields, error) {
	fields := backend.TaskFields{
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		Status:      constants.TaskStatus(t.Status),
		Priority:    constants.Priority(t.Priority),
		AssignedTo:  strings.TrimSpace(t.AssignedTo),
	}

	if fields.Title == "" {
		return fields, fmt.Errorf("title is required")
	}
	if fields.Description == "" {
		return fields, fmt.Errorf("description is required")
	}
	if !strings.Contains(fields.AssignedTo, "@") {
		return fields, fmt.Errorf("assigned_to %q is not an email", t.AssignedTo)
	}
	if fields.Status == "" {
		fields.Status = constants.StatusNew
	} else if !fields.Status.Valid() {
		return fields, fmt.Errorf("unknown status %q", t.Status)
	}
	if fields.Priority == "" {
		fields.Priority = constants.PriorityMedium
	} else if !fields.Priority.Valid() {
		return fields, fmt.Errorf("unknown priority %q", t.Priority)
	}
	if t.DueDate != "" {
		due, err := model.ParseDate(t.DueDate)
		if err != nil {
			return fields, err
		}
		fields.DueDate = due
	}
	return fields, nil
}

// Apply creates every task in order and stops at the first failure.
func Apply(ctx context.Context, tasks []backend.TaskFields, coll backend.TaskCollection) (int, error) {
	for i, fields := range tasks {
		if _, err := coll.Create(ctx, fields); err != nil {
			return i, fmt.Errorf("creating %q: %w", fields.Title, err)
		}
	}
	return len(tasks), nil
}
