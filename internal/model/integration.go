package model

import "time"

// Integration links a task to an external provider (e.g. a git host).
type Integration struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Provider  string    `json:"provider"`
	Repo      string    `json:"repo,omitempty"`
	IssueID   string    `json:"issue_id,omitempty"`
	Secret    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// IntegrationActivity is a remote event ingested through an integration,
// such as a push or an issue comment on the linked repository.
type IntegrationActivity struct {
	ID            string    `json:"id"`
	IntegrationID string    `json:"integration_id"`
	Event         string    `json:"event"`
	Actor         string    `json:"actor,omitempty"`
	URL           string    `json:"url,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
