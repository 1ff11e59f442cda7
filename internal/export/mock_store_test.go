package export

import (
	"context"
	"sort"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// mockStore is a minimal in-memory store for export tests. It embeds the
// Store interface so only the methods the exporter touches need implementing.
type mockStore struct {
	store.Store

	tasks          map[string]*model.Task
	applications   map[string][]*model.Application
	participations map[string][]*model.Participation
	activities     []*model.Activity
}

func newMockStore() *mockStore {
	return &mockStore{
		tasks:          make(map[string]*model.Task),
		applications:   make(map[string][]*model.Application),
		participations: make(map[string][]*model.Participation),
	}
}

func (m *mockStore) ListTasks(_ context.Context, _ model.TaskFilter) ([]*model.Task, int, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, len(result), nil
}

func (m *mockStore) ListApplications(_ context.Context, taskID string) ([]*model.Application, error) {
	return m.applications[taskID], nil
}

func (m *mockStore) ListParticipations(_ context.Context, taskID string) ([]*model.Participation, error) {
	return m.participations[taskID], nil
}

func (m *mockStore) ListActivities(_ context.Context, _ model.ActivityFilter) ([]*model.Activity, int, error) {
	return m.activities, len(m.activities), nil
}
