package model

import "time"

// Comment is a free-form comment attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AccountID string    `json:"account_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
