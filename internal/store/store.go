package store

import (
	"context"
	"errors"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the marketplace.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	ListAccounts(ctx context.Context, filter model.AccountFilter) ([]*model.Account, error)
	UpdateAccountInfo(ctx context.Context, account *model.Account) error
	// CountCompletedTasks returns, for each given account ID, the number of
	// accepted participations on closed tasks.
	CountCompletedTasks(ctx context.Context, accountIDs []string) (map[string]int, error)

	// Developer applications
	CreateDeveloperApplication(ctx context.Context, app *model.DeveloperApplication) error
	GetDeveloperApplicationByKey(ctx context.Context, confirmationKey string) (*model.DeveloperApplication, error)
	MarkDeveloperApplicationUsed(ctx context.Context, id string, usedAt time.Time) error

	// Connections
	CreateConnection(ctx context.Context, conn *model.Connection) error
	GetConnection(ctx context.Context, id string) (*model.Connection, error)
	RespondConnection(ctx context.Context, id string, accepted bool, respondedAt time.Time) error

	// Tasks
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) // returns tasks, total count, error
	UpdateTask(ctx context.Context, task *model.Task) error
	CloseTask(ctx context.Context, id string, closedAt time.Time) (*model.Task, error)

	// Applications
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	ListApplications(ctx context.Context, taskID string) ([]*model.Application, error)
	RespondApplication(ctx context.Context, id string, accepted bool, respondedAt time.Time) error

	// Participations
	CreateParticipation(ctx context.Context, part *model.Participation) error
	GetParticipation(ctx context.Context, id string) (*model.Participation, error)
	ListParticipations(ctx context.Context, taskID string) ([]*model.Participation, error)
	RespondParticipation(ctx context.Context, id string, accepted bool, respondedAt time.Time) error

	// Task requests
	CreateTaskRequest(ctx context.Context, req *model.TaskRequest) error
	GetTaskRequest(ctx context.Context, id string) (*model.TaskRequest, error)

	// Progress events and reports
	CreateProgressEvent(ctx context.Context, event *model.ProgressEvent) error
	GetProgressEvent(ctx context.Context, id string) (*model.ProgressEvent, error)
	// ListDueProgressEvents returns events due at or before the given time
	// that have not yet been reminded.
	ListDueProgressEvents(ctx context.Context, dueBy time.Time) ([]*model.ProgressEvent, error)
	// StampProgressEventReminded records that a reminder was successfully
	// sent. Callers must only invoke it after a confirmed send.
	StampProgressEventReminded(ctx context.Context, id string, remindedAt time.Time) error
	CreateProgressReport(ctx context.Context, report *model.ProgressReport) error
	GetProgressReport(ctx context.Context, id string) (*model.ProgressReport, error)

	// Comments
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id string) (*model.Comment, error)

	// Integrations
	CreateIntegration(ctx context.Context, integration *model.Integration) error
	GetIntegration(ctx context.Context, id string) (*model.Integration, error)
	CreateIntegrationActivity(ctx context.Context, activity *model.IntegrationActivity) error
	GetIntegrationActivity(ctx context.Context, id string) (*model.IntegrationActivity, error)

	// Activity feed
	RecordActivity(ctx context.Context, activity *model.Activity) error
	ListActivities(ctx context.Context, filter model.ActivityFilter) ([]*model.Activity, int, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
