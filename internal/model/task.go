package model

import "time"

// Visibility controls which accounts may be targeted when a task is announced.
type Visibility string

const (
	VisibilityDevelopers Visibility = "developers"
	VisibilityMyTeam     Visibility = "my_team"
	VisibilityCustom     Visibility = "custom"
	VisibilityOnlyMe     Visibility = "only_me"
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	return string(v)
}

// IsValid checks whether the visibility is a known value.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityDevelopers, VisibilityMyTeam, VisibilityCustom, VisibilityOnlyMe:
		return true
	}
	return false
}

// Task is a posted unit of work.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility"`
	// Skills are the skills required to work on the task.
	Skills    []string   `json:"skills,omitempty"`
	Fee       float64    `json:"fee,omitempty"`
	Apply     bool       `json:"apply"`
	Closed    bool       `json:"closed"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Application is a developer's bid on a task.
type Application struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	AccountID   string    `json:"account_id"`
	Pitch       string    `json:"pitch,omitempty"`
	Responded   bool      `json:"responded"`
	Accepted    bool      `json:"accepted"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Participation records a developer's (invited or accepted) role on a task.
type Participation struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AccountID string    `json:"account_id"`
	// CreatedByID is the account that issued the invitation.
	CreatedByID string     `json:"created_by_id"`
	Assignee    bool       `json:"assignee"`
	Responded   bool       `json:"responded"`
	Accepted    bool       `json:"accepted"`
	Share       int        `json:"share,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskRequestType categorizes owner-initiated requests on a task.
type TaskRequestType string

const (
	RequestReview TaskRequestType = "review"
	RequestPay    TaskRequestType = "pay"
)

// IsValid checks whether the request type is a known value.
func (t TaskRequestType) IsValid() bool {
	switch t {
	case RequestReview, RequestPay:
		return true
	}
	return false
}

// TaskRequest is an owner request (code review, payment) tied to a task.
type TaskRequest struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id"`
	AccountID string          `json:"account_id"`
	Type      TaskRequestType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}
