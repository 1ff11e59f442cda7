package model

import "time"

// ProgressEventType categorizes scheduled progress checkpoints.
type ProgressEventType string

const (
	EventPeriodic  ProgressEventType = "periodic"
	EventMilestone ProgressEventType = "milestone"
	EventSubmit    ProgressEventType = "submit"
)

// IsValid checks whether the event type is a known value.
func (t ProgressEventType) IsValid() bool {
	switch t {
	case EventPeriodic, EventMilestone, EventSubmit:
		return true
	}
	return false
}

// ProgressEvent is a scheduled checkpoint on a task for which participants
// are reminded to file a progress report.
type ProgressEvent struct {
	ID     string            `json:"id"`
	TaskID string            `json:"task_id"`
	Type   ProgressEventType `json:"type"`
	Title  string            `json:"title,omitempty"`
	DueAt  time.Time         `json:"due_at"`
	// LastReminderAt is stamped only after a reminder was successfully sent.
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReportStatus is the self-reported state of work at a checkpoint.
type ReportStatus string

const (
	StatusOnSchedule     ReportStatus = "on_schedule"
	StatusBehind         ReportStatus = "behind"
	StatusStuck          ReportStatus = "stuck"
)

// IsValid checks whether the report status is a known value.
func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusOnSchedule, StatusBehind, StatusStuck:
		return true
	}
	return false
}

// ProgressReport is a participant's update filed against a progress event.
type ProgressReport struct {
	ID           string       `json:"id"`
	EventID      string       `json:"event_id"`
	AccountID    string       `json:"account_id"`
	Status       ReportStatus `json:"status"`
	Percentage   int          `json:"percentage"`
	Accomplished string       `json:"accomplished,omitempty"`
	NextSteps    string       `json:"next_steps,omitempty"`
	Remarks      string       `json:"remarks,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
