package notify

import (
	"context"
	"time"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// mockStore is a minimal in-memory store for notify tests. It embeds the
// Store interface so only the methods these flows touch need implementing.
type mockStore struct {
	store.Store

	accounts       map[string]*model.Account
	tasks          map[string]*model.Task
	applications   []*model.Application
	participations []*model.Participation
	progressEvents map[string]*model.ProgressEvent
	// completed maps account ID to completed-task count.
	completed map[string]int
	// connected maps owner ID to the IDs of accounts connected to them.
	connected map[string][]string

	// poolOrder fixes the iteration order ListAccounts returns.
	poolOrder []string
}

func newMockStore() *mockStore {
	return &mockStore{
		accounts:       make(map[string]*model.Account),
		tasks:          make(map[string]*model.Task),
		progressEvents: make(map[string]*model.ProgressEvent),
		completed:      make(map[string]int),
		connected:      make(map[string][]string),
	}
}

func (m *mockStore) addAccount(a *model.Account) {
	m.accounts[a.ID] = a
	m.poolOrder = append(m.poolOrder, a.ID)
}

func (m *mockStore) GetAccount(_ context.Context, id string) (*model.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (m *mockStore) ListAccounts(_ context.Context, filter model.AccountFilter) ([]*model.Account, error) {
	var result []*model.Account
	for _, id := range m.poolOrder {
		a := m.accounts[id]
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.ConnectedTo != "" && !contains(m.connected[filter.ConnectedTo], a.ID) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *mockStore) CountCompletedTasks(_ context.Context, accountIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(accountIDs))
	for _, id := range accountIDs {
		result[id] = m.completed[id]
	}
	return result, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (m *mockStore) GetApplication(_ context.Context, id string) (*model.Application, error) {
	for _, a := range m.applications {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListApplications(_ context.Context, taskID string) ([]*model.Application, error) {
	var result []*model.Application
	for _, a := range m.applications {
		if a.TaskID == taskID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockStore) GetParticipation(_ context.Context, id string) (*model.Participation, error) {
	for _, p := range m.participations {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListParticipations(_ context.Context, taskID string) ([]*model.Participation, error) {
	var result []*model.Participation
	for _, p := range m.participations {
		if p.TaskID == taskID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockStore) GetProgressEvent(_ context.Context, id string) (*model.ProgressEvent, error) {
	e, ok := m.progressEvents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (m *mockStore) ListDueProgressEvents(_ context.Context, dueBy time.Time) ([]*model.ProgressEvent, error) {
	var result []*model.ProgressEvent
	for _, e := range m.progressEvents {
		if e.LastReminderAt == nil && !e.DueAt.After(dueBy) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockStore) StampProgressEventReminded(_ context.Context, id string, remindedAt time.Time) error {
	e, ok := m.progressEvents[id]
	if !ok {
		return store.ErrNotFound
	}
	e.LastReminderAt = &remindedAt
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
