package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigboard/gigboard/internal/events"
	"github.com/gigboard/gigboard/internal/idgen"
	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// createTaskInput holds transport-agnostic parameters for posting a task.
type createTaskInput struct {
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Skills      []string `json:"skills"`
	Fee         float64  `json:"fee"`
	Apply       *bool    `json:"apply"`
}

// createTask validates input, persists a new task, records the activity, and
// publishes a TaskCreated event. Returns inputError for validation failures.
func (s *Server) createTask(ctx context.Context, in createTaskInput) (*model.Task, error) {
	if in.OwnerID == "" {
		return nil, inputError("owner_id is required")
	}
	if in.Title == "" {
		return nil, inputError("title is required")
	}

	visibility := model.Visibility(in.Visibility)
	if in.Visibility == "" {
		visibility = model.VisibilityDevelopers
	}
	if !visibility.IsValid() {
		return nil, inputError("unknown visibility " + in.Visibility)
	}

	if _, err := s.store.GetAccount(ctx, in.OwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, inputError("owner account does not exist")
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}

	id, err := idgen.Generate(idgen.PrefixTask)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	apply := true
	if in.Apply != nil {
		apply = *in.Apply
	}

	task := &model.Task{
		ID:          id,
		OwnerID:     in.OwnerID,
		Title:       in.Title,
		Description: in.Description,
		Visibility:  visibility,
		Skills:      in.Skills,
		Fee:         in.Fee,
		Apply:       apply,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicTaskCreated, events.TaskCreated{TaskID: task.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: task.OwnerID},
		Verb:   "created",
		Object: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})

	return task, nil
}

// updateTaskInput holds parameters for updating a task. Pointer fields
// distinguish "leave unchanged" from "set to zero".
type updateTaskInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Visibility  *string   `json:"visibility"`
	Skills      *[]string `json:"skills"`
	Fee         *float64  `json:"fee"`
	Apply       *bool     `json:"apply"`
}

// updateTask applies a partial update. Turning applications off fires the
// not-selected flow for applicants still waiting on an answer.
func (s *Server) updateTask(ctx context.Context, id string, in updateTaskInput) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Closed {
		return nil, inputError("task is closed")
	}

	applicationsClosed := false
	if in.Title != nil {
		if *in.Title == "" {
			return nil, inputError("title cannot be empty")
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Visibility != nil {
		v := model.Visibility(*in.Visibility)
		if !v.IsValid() {
			return nil, inputError("unknown visibility " + *in.Visibility)
		}
		task.Visibility = v
	}
	if in.Skills != nil {
		task.Skills = *in.Skills
	}
	if in.Fee != nil {
		task.Fee = *in.Fee
	}
	if in.Apply != nil {
		applicationsClosed = task.Apply && !*in.Apply
		task.Apply = *in.Apply
	}

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: task.OwnerID},
		Verb:   "updated",
		Object: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})
	if applicationsClosed {
		s.recordAndPublish(ctx, events.TopicTaskNotSelected, events.TaskNotSelected{TaskID: task.ID}, nil)
	}

	return task, nil
}

// closeTask marks a task closed, records the activity, and fires both the
// closed and not-selected events.
func (s *Server) closeTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.store.CloseTask(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, events.TopicTaskClosed, events.TaskClosed{TaskID: task.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: task.OwnerID},
		Verb:   "closed",
		Object: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})
	s.recordAndPublish(ctx, events.TopicTaskNotSelected, events.TaskNotSelected{TaskID: task.ID}, nil)

	return task, nil
}
