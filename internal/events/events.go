package events

import "context"

// Event topic constants
const (
	TopicTaskCreated       = "gigboard.task.created"
	TopicTaskClosed        = "gigboard.task.closed"
	TopicTaskNotSelected   = "gigboard.task.applications_closed"
	TopicApplicationFiled  = "gigboard.application.created"
	TopicApplicationReply  = "gigboard.application.responded"
	TopicInvitationCreated = "gigboard.participation.created"
	TopicInvitationReply   = "gigboard.participation.responded"
	TopicProgressEventDue  = "gigboard.progress_event.due"
)

// Event payloads carry only the triggering entity's identifier. Consumers
// re-fetch the entity at execution time rather than trusting a snapshot that
// may be stale by the time the work item runs.

type TaskCreated struct {
	TaskID string `json:"task_id"`
}

type TaskClosed struct {
	TaskID string `json:"task_id"`
}

// TaskNotSelected fires when a task stops accepting applications, so
// unanswered applicants can be told they were not selected.
type TaskNotSelected struct {
	TaskID string `json:"task_id"`
}

type ApplicationFiled struct {
	ApplicationID string `json:"application_id"`
}

type ApplicationReply struct {
	ApplicationID string `json:"application_id"`
}

type InvitationCreated struct {
	ParticipationID string `json:"participation_id"`
}

type InvitationReply struct {
	ParticipationID string `json:"participation_id"`
}

type ProgressEventDue struct {
	ProgressEventID string `json:"progress_event_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
