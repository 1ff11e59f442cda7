package server

import (
	"context"
	"sync"
	"time"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// mockStore is an in-memory store for handler tests. It embeds the Store
// interface so only the methods the handlers touch need implementing.
type mockStore struct {
	store.Store

	accounts       map[string]*model.Account
	devApps        map[string]*model.DeveloperApplication
	connections    map[string]*model.Connection
	tasks          map[string]*model.Task
	applications   map[string]*model.Application
	participations map[string]*model.Participation
	taskRequests   map[string]*model.TaskRequest
	progressEvents map[string]*model.ProgressEvent
	reports        map[string]*model.ProgressReport
	comments       map[string]*model.Comment
	integrations   map[string]*model.Integration
	intActivities  map[string]*model.IntegrationActivity
	activities     []*model.Activity
}

func newMockStore() *mockStore {
	return &mockStore{
		accounts:       make(map[string]*model.Account),
		devApps:        make(map[string]*model.DeveloperApplication),
		connections:    make(map[string]*model.Connection),
		tasks:          make(map[string]*model.Task),
		applications:   make(map[string]*model.Application),
		participations: make(map[string]*model.Participation),
		taskRequests:   make(map[string]*model.TaskRequest),
		progressEvents: make(map[string]*model.ProgressEvent),
		reports:        make(map[string]*model.ProgressReport),
		comments:       make(map[string]*model.Comment),
		integrations:   make(map[string]*model.Integration),
		intActivities:  make(map[string]*model.IntegrationActivity),
	}
}

func (m *mockStore) CreateAccount(_ context.Context, a *model.Account) error {
	m.accounts[a.ID] = a
	return nil
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
	for _, a := range m.accounts {
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *mockStore) UpdateAccountInfo(_ context.Context, a *model.Account) error {
	if _, ok := m.accounts[a.ID]; !ok {
		return store.ErrNotFound
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockStore) CreateDeveloperApplication(_ context.Context, d *model.DeveloperApplication) error {
	m.devApps[d.ID] = d
	return nil
}

func (m *mockStore) GetDeveloperApplicationByKey(_ context.Context, key string) (*model.DeveloperApplication, error) {
	for _, d := range m.devApps {
		if d.ConfirmationKey == key {
			return d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) MarkDeveloperApplicationUsed(_ context.Context, id string, usedAt time.Time) error {
	d, ok := m.devApps[id]
	if !ok || d.Used {
		return store.ErrNotFound
	}
	d.Used = true
	d.UsedAt = &usedAt
	return nil
}

func (m *mockStore) CreateConnection(_ context.Context, c *model.Connection) error {
	m.connections[c.ID] = c
	return nil
}

func (m *mockStore) GetConnection(_ context.Context, id string) (*model.Connection, error) {
	c, ok := m.connections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockStore) RespondConnection(_ context.Context, id string, accepted bool, respondedAt time.Time) error {
	c, ok := m.connections[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Responded = true
	c.Accepted = accepted
	c.RespondedAt = &respondedAt
	return nil
}

func (m *mockStore) CreateTask(_ context.Context, t *model.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (m *mockStore) ListTasks(_ context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		if filter.OwnerID != "" && t.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Closed != nil && t.Closed != *filter.Closed {
			continue
		}
		result = append(result, t)
	}
	return result, len(result), nil
}

func (m *mockStore) UpdateTask(_ context.Context, t *model.Task) error {
	if _, ok := m.tasks[t.ID]; !ok {
		return store.ErrNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockStore) CloseTask(_ context.Context, id string, closedAt time.Time) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t.Closed = true
	t.Apply = false
	t.ClosedAt = &closedAt
	return t, nil
}

func (m *mockStore) CreateApplication(_ context.Context, a *model.Application) error {
	m.applications[a.ID] = a
	return nil
}

func (m *mockStore) GetApplication(_ context.Context, id string) (*model.Application, error) {
	a, ok := m.applications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
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

func (m *mockStore) RespondApplication(_ context.Context, id string, accepted bool, respondedAt time.Time) error {
	a, ok := m.applications[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Responded = true
	a.Accepted = accepted
	a.RespondedAt = &respondedAt
	return nil
}

func (m *mockStore) CreateParticipation(_ context.Context, p *model.Participation) error {
	m.participations[p.ID] = p
	return nil
}

func (m *mockStore) GetParticipation(_ context.Context, id string) (*model.Participation, error) {
	p, ok := m.participations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
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

func (m *mockStore) RespondParticipation(_ context.Context, id string, accepted bool, respondedAt time.Time) error {
	p, ok := m.participations[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Responded = true
	p.Accepted = accepted
	p.RespondedAt = &respondedAt
	return nil
}

func (m *mockStore) CreateTaskRequest(_ context.Context, r *model.TaskRequest) error {
	m.taskRequests[r.ID] = r
	return nil
}

func (m *mockStore) GetTaskRequest(_ context.Context, id string) (*model.TaskRequest, error) {
	r, ok := m.taskRequests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockStore) CreateProgressEvent(_ context.Context, e *model.ProgressEvent) error {
	m.progressEvents[e.ID] = e
	return nil
}

func (m *mockStore) GetProgressEvent(_ context.Context, id string) (*model.ProgressEvent, error) {
	e, ok := m.progressEvents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (m *mockStore) CreateProgressReport(_ context.Context, r *model.ProgressReport) error {
	m.reports[r.ID] = r
	return nil
}

func (m *mockStore) GetProgressReport(_ context.Context, id string) (*model.ProgressReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockStore) CreateComment(_ context.Context, c *model.Comment) error {
	m.comments[c.ID] = c
	return nil
}

func (m *mockStore) GetComment(_ context.Context, id string) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockStore) CreateIntegration(_ context.Context, i *model.Integration) error {
	m.integrations[i.ID] = i
	return nil
}

func (m *mockStore) GetIntegration(_ context.Context, id string) (*model.Integration, error) {
	i, ok := m.integrations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return i, nil
}

func (m *mockStore) CreateIntegrationActivity(_ context.Context, a *model.IntegrationActivity) error {
	m.intActivities[a.ID] = a
	return nil
}

func (m *mockStore) GetIntegrationActivity(_ context.Context, id string) (*model.IntegrationActivity, error) {
	a, ok := m.intActivities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (m *mockStore) RecordActivity(_ context.Context, a *model.Activity) error {
	a.ID = int64(len(m.activities) + 1)
	m.activities = append(m.activities, a)
	return nil
}

func (m *mockStore) ListActivities(_ context.Context, filter model.ActivityFilter) ([]*model.Activity, int, error) {
	var result []*model.Activity
	for i := len(m.activities) - 1; i >= 0; i-- {
		a := m.activities[i]
		if filter.Verb != "" && a.Verb != filter.Verb {
			continue
		}
		result = append(result, a)
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, len(result), nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// lastActivity returns the most recently recorded activity, or nil.
func (m *mockStore) lastActivity() *model.Activity {
	if len(m.activities) == 0 {
		return nil
	}
	return m.activities[len(m.activities)-1]
}

// mockPublisher captures published events for assertions.
type mockPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
}

type publishedEvent struct {
	topic string
	event any
}

func (p *mockPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.topic
	}
	return out
}
