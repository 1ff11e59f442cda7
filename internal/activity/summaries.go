package activity

import (
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// Summary shapes are deliberately flat and omit anything sensitive
// (password hashes, integration secrets, emails of other users).

type AccountSummary struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	DisplayName string            `json:"display_name"`
	Type        model.AccountType `json:"type"`
}

func accountSummary(a *model.Account) *AccountSummary {
	return &AccountSummary{
		ID:          a.ID,
		Username:    a.Username,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DisplayName: a.DisplayName(),
		Type:        a.Type,
	}
}

type CommentSummary struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AccountID string    `json:"account_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func commentSummary(c *model.Comment) *CommentSummary {
	return &CommentSummary{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AccountID: c.AccountID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

type ConnectionSummary struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Responded bool      `json:"responded"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

func connectionSummary(c *model.Connection) *ConnectionSummary {
	return &ConnectionSummary{
		ID:        c.ID,
		FromID:    c.FromID,
		ToID:      c.ToID,
		Responded: c.Responded,
		Accepted:  c.Accepted,
		CreatedAt: c.CreatedAt,
	}
}

type TaskSummary struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"owner_id"`
	Title      string           `json:"title"`
	Visibility model.Visibility `json:"visibility"`
	Skills     []string         `json:"skills,omitempty"`
	Closed     bool             `json:"closed"`
	CreatedAt  time.Time        `json:"created_at"`
}

func taskSummary(t *model.Task) *TaskSummary {
	return &TaskSummary{
		ID:         t.ID,
		OwnerID:    t.OwnerID,
		Title:      t.Title,
		Visibility: t.Visibility,
		Skills:     t.Skills,
		Closed:     t.Closed,
		CreatedAt:  t.CreatedAt,
	}
}

type ApplicationSummary struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AccountID string    `json:"account_id"`
	Responded bool      `json:"responded"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

func applicationSummary(a *model.Application) *ApplicationSummary {
	return &ApplicationSummary{
		ID:        a.ID,
		TaskID:    a.TaskID,
		AccountID: a.AccountID,
		Responded: a.Responded,
		Accepted:  a.Accepted,
		CreatedAt: a.CreatedAt,
	}
}

type ParticipationSummary struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AccountID string    `json:"account_id"`
	Assignee  bool      `json:"assignee"`
	Responded bool      `json:"responded"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}

func participationSummary(p *model.Participation) *ParticipationSummary {
	return &ParticipationSummary{
		ID:        p.ID,
		TaskID:    p.TaskID,
		AccountID: p.AccountID,
		Assignee:  p.Assignee,
		Responded: p.Responded,
		Accepted:  p.Accepted,
		CreatedAt: p.CreatedAt,
	}
}

type TaskRequestSummary struct {
	ID        string                `json:"id"`
	TaskID    string                `json:"task_id"`
	AccountID string                `json:"account_id"`
	Type      model.TaskRequestType `json:"type"`
	CreatedAt time.Time             `json:"created_at"`
}

func taskRequestSummary(r *model.TaskRequest) *TaskRequestSummary {
	return &TaskRequestSummary{
		ID:        r.ID,
		TaskID:    r.TaskID,
		AccountID: r.AccountID,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
}

type ProgressEventSummary struct {
	ID     string                  `json:"id"`
	TaskID string                  `json:"task_id"`
	Type   model.ProgressEventType `json:"type"`
	Title  string                  `json:"title,omitempty"`
	DueAt  time.Time               `json:"due_at"`
}

func progressEventSummary(e *model.ProgressEvent) *ProgressEventSummary {
	return &ProgressEventSummary{
		ID:     e.ID,
		TaskID: e.TaskID,
		Type:   e.Type,
		Title:  e.Title,
		DueAt:  e.DueAt,
	}
}

type ProgressReportSummary struct {
	ID         string             `json:"id"`
	EventID    string             `json:"event_id"`
	AccountID  string             `json:"account_id"`
	Status     model.ReportStatus `json:"status"`
	Percentage int                `json:"percentage"`
	CreatedAt  time.Time          `json:"created_at"`
}

func progressReportSummary(r *model.ProgressReport) *ProgressReportSummary {
	return &ProgressReportSummary{
		ID:         r.ID,
		EventID:    r.EventID,
		AccountID:  r.AccountID,
		Status:     r.Status,
		Percentage: r.Percentage,
		CreatedAt:  r.CreatedAt,
	}
}

type IntegrationSummary struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Provider string `json:"provider"`
	Repo     string `json:"repo,omitempty"`
}

func integrationSummary(i *model.Integration) *IntegrationSummary {
	return &IntegrationSummary{
		ID:       i.ID,
		TaskID:   i.TaskID,
		Provider: i.Provider,
		Repo:     i.Repo,
	}
}

type IntegrationActivitySummary struct {
	ID            string    `json:"id"`
	IntegrationID string    `json:"integration_id"`
	Event         string    `json:"event"`
	Actor         string    `json:"actor,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func integrationActivitySummary(a *model.IntegrationActivity) *IntegrationActivitySummary {
	return &IntegrationActivitySummary{
		ID:            a.ID,
		IntegrationID: a.IntegrationID,
		Event:         a.Event,
		Actor:         a.Actor,
		Summary:       a.Summary,
		CreatedAt:     a.CreatedAt,
	}
}
