// Package client provides a transport-agnostic interface for the gigboard
// service and an HTTP/JSON implementation that talks to the gigboard REST API.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// GigClient is the interface that all gigboard CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type GigClient interface {
	// Accounts
	CreateDeveloperApplication(ctx context.Context, req *DeveloperApplicationRequest) (*model.DeveloperApplication, error)
	RegisterAccount(ctx context.Context, req *RegisterAccountRequest) (*model.Account, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context, req *ListAccountsRequest) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, id string, req *UpdateAccountRequest) (*model.Account, error)

	// Connections
	CreateConnection(ctx context.Context, fromID, toID string) (*model.Connection, error)
	RespondConnection(ctx context.Context, id string, accepted bool) (*model.Connection, error)

	// Tasks
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)
	CloseTask(ctx context.Context, id string) (*model.Task, error)

	// Applications
	CreateApplication(ctx context.Context, taskID string, req *CreateApplicationRequest) (*model.Application, error)
	ListApplications(ctx context.Context, taskID string) ([]*model.Application, error)
	RespondApplication(ctx context.Context, id string, accepted bool) (*model.Application, error)

	// Participations
	CreateParticipation(ctx context.Context, taskID string, req *CreateParticipationRequest) (*model.Participation, error)
	ListParticipations(ctx context.Context, taskID string) ([]*model.Participation, error)
	RespondParticipation(ctx context.Context, id string, accepted bool) (*model.Participation, error)

	// Progress
	CreateProgressEvent(ctx context.Context, taskID string, req *CreateProgressEventRequest) (*model.ProgressEvent, error)
	CreateProgressReport(ctx context.Context, eventID string, req *CreateProgressReportRequest) (*model.ProgressReport, error)

	// Comments
	CreateComment(ctx context.Context, taskID, accountID, body string) (*model.Comment, error)

	// Activity feed (admin only)
	ListActivity(ctx context.Context, req *ListActivityRequest) (*ListActivityResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// DeveloperApplicationRequest holds parameters for applying as a developer.
type DeveloperApplicationRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
}

// RegisterAccountRequest holds parameters for registering an account.
// ConfirmationKey is required when Type is "developer".
type RegisterAccountRequest struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	Type            string   `json:"type"`
	Password        string   `json:"password"`
	Skills          []string `json:"skills,omitempty"`
	ConfirmationKey string   `json:"confirmation_key,omitempty"`
}

// ListAccountsRequest holds parameters for listing accounts.
type ListAccountsRequest struct {
	Type        string `json:"type,omitempty"`
	ConnectedTo string `json:"connected_to,omitempty"`
	Skill       string `json:"skill,omitempty"`
	Search      string `json:"search,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// UpdateAccountRequest holds optional parameters for updating an account.
// Nil pointer fields mean "don't change". Changing Password requires
// CurrentPassword.
type UpdateAccountRequest struct {
	Email           *string   `json:"email,omitempty"`
	FirstName       *string   `json:"first_name,omitempty"`
	LastName        *string   `json:"last_name,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
	Password        *string   `json:"password,omitempty"`
	CurrentPassword string    `json:"current_password,omitempty"`
}

// CreateTaskRequest holds parameters for posting a task.
type CreateTaskRequest struct {
	OwnerID     string   `json:"owner_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Fee         float64  `json:"fee,omitempty"`
	Apply       *bool    `json:"apply,omitempty"`
}

// ListTasksRequest holds parameters for listing tasks.
type ListTasksRequest struct {
	OwnerID    string   `json:"owner_id,omitempty"`
	Closed     *bool    `json:"closed,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Visibility []string `json:"visibility,omitempty"`
	Search     string   `json:"search,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

// ListTasksResponse is the response from ListTasks.
type ListTasksResponse struct {
	Tasks []*model.Task `json:"tasks"`
	Total int           `json:"total"`
}

// UpdateTaskRequest holds optional parameters for updating a task.
// Nil pointer fields mean "don't change".
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Visibility  *string   `json:"visibility,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Fee         *float64  `json:"fee,omitempty"`
	Apply       *bool     `json:"apply,omitempty"`
}

// CreateApplicationRequest holds parameters for bidding on a task.
type CreateApplicationRequest struct {
	AccountID string `json:"account_id"`
	Pitch     string `json:"pitch,omitempty"`
}

// CreateParticipationRequest holds parameters for inviting a developer to a
// task.
type CreateParticipationRequest struct {
	AccountID   string `json:"account_id"`
	CreatedByID string `json:"created_by_id"`
	Assignee    bool   `json:"assignee,omitempty"`
	Share       int    `json:"share,omitempty"`
}

// CreateProgressEventRequest holds parameters for scheduling a progress event.
type CreateProgressEventRequest struct {
	Type  string    `json:"type"`
	Title string    `json:"title,omitempty"`
	DueAt time.Time `json:"due_at"`
}

// CreateProgressReportRequest holds parameters for filing a progress report.
type CreateProgressReportRequest struct {
	AccountID    string `json:"account_id"`
	Status       string `json:"status"`
	Percentage   int    `json:"percentage"`
	Accomplished string `json:"accomplished,omitempty"`
	NextSteps    string `json:"next_steps,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
}

// ListActivityRequest holds parameters for querying the activity feed.
type ListActivityRequest struct {
	Verb       string     `json:"verb,omitempty"`
	ActorKind  string     `json:"actor_kind,omitempty"`
	ActorID    string     `json:"actor_id,omitempty"`
	ObjectKind string     `json:"object_kind,omitempty"`
	ObjectID   string     `json:"object_id,omitempty"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	Full       bool       `json:"full,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}

// ActivityEntry is one projected feed entry. Actor and Target are only
// populated when the feed was requested with Full set.
type ActivityEntry struct {
	ID           int64           `json:"id"`
	Action       string          `json:"action"`
	ActivityType *string         `json:"activity_type"`
	Activity     json.RawMessage `json:"activity"`
	ActorType    *string         `json:"actor_type,omitempty"`
	Actor        json.RawMessage `json:"actor,omitempty"`
	TargetType   *string         `json:"target_type,omitempty"`
	Target       json.RawMessage `json:"target,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListActivityResponse is the response from ListActivity.
type ListActivityResponse struct {
	Activity []*ActivityEntry `json:"activity"`
	Total    int              `json:"total"`
}
