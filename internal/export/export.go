package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	TaskCount     int       `json:"task_count"`
	ActivityCount int       `json:"activity_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// taskSnapshot bundles a task with its applications and participations so a
// single line carries the complete state of the task.
type taskSnapshot struct {
	*model.Task
	Applications   []*model.Application   `json:"applications,omitempty"`
	Participations []*model.Participation `json:"participations,omitempty"`
}

// ExportJSONL writes all tasks and activity records from the store as JSONL
// to w. Tasks are sorted by ID and include embedded applications and
// participations.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all tasks (no filter, no limit).
	tasks, _, err := s.ListTasks(ctx, model.TaskFilter{Sort: "created_at"})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	snapshots := make([]*taskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		apps, err := s.ListApplications(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list applications for %s: %w", t.ID, err)
		}
		parts, err := s.ListParticipations(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list participations for %s: %w", t.ID, err)
		}
		snapshots = append(snapshots, &taskSnapshot{
			Task:           t,
			Applications:   apps,
			Participations: parts,
		})
	}

	// Sort tasks by ID.
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ID < snapshots[j].ID
	})

	// Fetch all activity records.
	activities, _, err := s.ListActivities(ctx, model.ActivityFilter{})
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		TaskCount:     len(snapshots),
		ActivityCount: len(activities),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write tasks.
	for _, t := range snapshots {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}

	// Write activity records.
	for _, a := range activities {
		if err := enc.Encode(record{Type: "activity", Data: a}); err != nil {
			return fmt.Errorf("encode activity %d: %w", a.ID, err)
		}
	}

	return nil
}
