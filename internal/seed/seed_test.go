package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
)

const sample = `
tasks:
  - title: "  Prepare release  "
    description: Cut the branch
    assigned_to: e@x.com
    due_date: "2026-07-01"
  - title: Review
    description: Look at the diff
    status: Active
    priority: High
    assigned_to: f@x.com
`

func TestParse(t *testing.T) {
	tasks, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks", len(tasks))
	}

	first := tasks[0]
	if first.Title != "Prepare release" || first.Status != constants.StatusNew || first.Priority != constants.PriorityMedium {
		t.Fatalf("first=%+v", first)
	}
	if first.DueDate != "2026-07-01" {
		t.Fatalf("due date=%q", first.DueDate)
	}
	if tasks[1].Status != constants.StatusActive || tasks[1].Priority != constants.PriorityHigh {
		t.Fatalf("second=%+v", tasks[1])
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "tasks:\n  - title: a\n    colour: red\n",
		"bad status":    "tasks:\n  - title: a\n    description: b\n    assigned_to: e@x.com\n    status: Done\n",
		"bad assignee":  "tasks:\n  - title: a\n    description: b\n    assigned_to: bob\n",
		"bad date":      "tasks:\n  - title: a\n    description: b\n    assigned_to: e@x.com\n    due_date: tomorrow\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	tasks, err := Parse(strings.NewReader(""))
	if err != nil || len(tasks) != 0 {
		t.Fatalf("tasks=%v err=%v", tasks, err)
	}
}

type recordingCollection struct {
	backend.TaskCollection
	created []string
	failOn  string
}

func (r *recordingCollection) Create(_ context.Context, fields backend.TaskFields) (string, error) {
	if fields.Title == r.failOn {
		return "", errors.New("boom")
	}
	r.created = append(r.created, fields.Title)
	return fields.Title, nil
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	coll := &recordingCollection{failOn: "b"}
	n, err := Apply(context.Background(), []backend.TaskFields{{Title: "a"}, {Title: "b"}, {Title: "c"}}, coll)
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 || len(coll.created) != 1 {
		t.Fatalf("n=%d created=%v", n, coll.created)
	}
}
