package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigboard/gigboard/internal/store"
)

// subjectPrefix brands every outbound subject line.
const subjectPrefix = "[gigboard]"

// Notifier implements the outbound notification flows. Each flow takes the
// triggering entity's identifier and re-fetches it, so queued work never
// operates on a stale snapshot.
type Notifier struct {
	store   store.Store
	mailer  Mailer
	baseURL string
	// staff always receive new-task notifications, independent of targeting.
	staff  []string
	logger *slog.Logger
}

// NewNotifier wires a notifier to the store and mail transport.
func NewNotifier(s store.Store, m Mailer, baseURL string, staff []string, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:   s,
		mailer:  m,
		baseURL: baseURL,
		staff:   staff,
		logger:  logger,
	}
}

func (n *Notifier) taskURL(taskID string) string {
	return fmt.Sprintf("%s/task/%s/", n.baseURL, taskID)
}

func (n *Notifier) updateURL(taskID, eventID string) string {
	return fmt.Sprintf("%s/task/%s/event/%s/", n.baseURL, taskID, eventID)
}

// TaskCreated announces a new task to staff, blind-copying the ranked
// developer candidates when the task's visibility allows targeting.
func (n *Notifier) TaskCreated(ctx context.Context, taskID string) error {
	task, err := n.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task %s: %w", taskID, err)
	}
	owner, err := n.store.GetAccount(ctx, task.OwnerID)
	if err != nil {
		return fmt.Errorf("get task owner: %w", err)
	}

	candidates, err := SelectRecipients(ctx, n.store, task)
	if err != nil {
		return err
	}
	bcc := make([]string, len(candidates))
	for i, c := range candidates {
		bcc[i] = c.Email
	}

	return n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s New task created by %s", subjectPrefix, owner.FirstName),
		Template: "new_task",
		To:       n.staff,
		Bcc:      bcc,
		Context: map[string]any{
			"owner_name": owner.DisplayName(),
			"task_title": task.Title,
			"task_url":   n.taskURL(task.ID),
		},
	})
}

// InvitationCreated tells a developer they were invited onto a task.
func (n *Notifier) InvitationCreated(ctx context.Context, participationID string) error {
	part, err := n.store.GetParticipation(ctx, participationID)
	if err != nil {
		return fmt.Errorf("get participation %s: %w", participationID, err)
	}
	task, err := n.store.GetTask(ctx, part.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	invitee, err := n.store.GetAccount(ctx, part.AccountID)
	if err != nil {
		return fmt.Errorf("get invitee: %w", err)
	}
	inviter, err := n.store.GetAccount(ctx, part.CreatedByID)
	if err != nil {
		return fmt.Errorf("get inviter: %w", err)
	}

	return n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s Task invitation from %s", subjectPrefix, inviter.FirstName),
		Template: "task_invitation",
		To:       []string{invitee.Email},
		Context: map[string]any{
			"inviter_name": inviter.DisplayName(),
			"invitee_name": invitee.DisplayName(),
			"task_title":   task.Title,
			"task_url":     n.taskURL(task.ID),
		},
	})
}

// InvitationResponded tells the inviter whether their invitation was accepted.
func (n *Notifier) InvitationResponded(ctx context.Context, participationID string) error {
	part, err := n.store.GetParticipation(ctx, participationID)
	if err != nil {
		return fmt.Errorf("get participation %s: %w", participationID, err)
	}
	task, err := n.store.GetTask(ctx, part.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	invitee, err := n.store.GetAccount(ctx, part.AccountID)
	if err != nil {
		return fmt.Errorf("get invitee: %w", err)
	}
	inviter, err := n.store.GetAccount(ctx, part.CreatedByID)
	if err != nil {
		return fmt.Errorf("get inviter: %w", err)
	}

	verdict := "rejected"
	if part.Accepted {
		verdict = "accepted"
	}

	return n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s Task invitation %s by %s", subjectPrefix, verdict, invitee.FirstName),
		Template: "task_invitation_response",
		To:       []string{inviter.Email},
		Context: map[string]any{
			"inviter_name": inviter.DisplayName(),
			"invitee_name": invitee.DisplayName(),
			"accepted":     part.Accepted,
			"task_title":   task.Title,
			"task_url":     n.taskURL(task.ID),
		},
	})
}

// ApplicationFiled tells the task owner about a new application and sends
// the applicant a confirmation copy. The confirmation is best-effort: a
// failure there is logged but does not fail the flow.
func (n *Notifier) ApplicationFiled(ctx context.Context, applicationID string) error {
	app, err := n.store.GetApplication(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("get application %s: %w", applicationID, err)
	}
	task, err := n.store.GetTask(ctx, app.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	owner, err := n.store.GetAccount(ctx, task.OwnerID)
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}
	applicant, err := n.store.GetAccount(ctx, app.AccountID)
	if err != nil {
		return fmt.Errorf("get applicant: %w", err)
	}

	err = n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s New application from %s", subjectPrefix, applicant.FirstName),
		Template: "new_task_application",
		To:       []string{owner.Email},
		Context: map[string]any{
			"owner_name":     owner.DisplayName(),
			"applicant_name": applicant.DisplayName(),
			"task_title":     task.Title,
			"task_url":       n.taskURL(task.ID),
		},
	})
	if err != nil {
		return err
	}

	if err := n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s You applied for a task: %s", subjectPrefix, task.Title),
		Template: "application_received",
		To:       []string{applicant.Email},
		Context: map[string]any{
			"applicant_name": applicant.DisplayName(),
			"task_title":     task.Title,
			"task_url":       n.taskURL(task.ID),
		},
	}); err != nil {
		n.logger.Warn("applicant confirmation send failed", "application_id", applicationID, "err", err)
	}
	return nil
}

// ApplicationResponded tells the applicant the owner's decision.
func (n *Notifier) ApplicationResponded(ctx context.Context, applicationID string) error {
	app, err := n.store.GetApplication(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("get application %s: %w", applicationID, err)
	}
	task, err := n.store.GetTask(ctx, app.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	applicant, err := n.store.GetAccount(ctx, app.AccountID)
	if err != nil {
		return fmt.Errorf("get applicant: %w", err)
	}

	verdict := "rejected"
	if app.Accepted {
		verdict = "accepted"
	}

	return n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s Task application %s", subjectPrefix, verdict),
		Template: "task_application_response",
		To:       []string{applicant.Email},
		Context: map[string]any{
			"applicant_name": applicant.DisplayName(),
			"accepted":       app.Accepted,
			"task_title":     task.Title,
			"task_url":       n.taskURL(task.ID),
		},
	})
}

// ApplicationsNotSelected tells the applicants a task stopped accepting
// applications without choosing them. The first unanswered applicant is the
// primary recipient; the rest are blind-copied. No unanswered applicants
// means nothing to send.
func (n *Notifier) ApplicationsNotSelected(ctx context.Context, taskID string) error {
	task, err := n.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task %s: %w", taskID, err)
	}
	apps, err := n.store.ListApplications(ctx, taskID)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	var emails []string
	for _, app := range apps {
		if app.Responded {
			continue
		}
		applicant, err := n.store.GetAccount(ctx, app.AccountID)
		if err != nil {
			return fmt.Errorf("get applicant: %w", err)
		}
		emails = append(emails, applicant.Email)
	}
	if len(emails) == 0 {
		return nil
	}

	return n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s Your application was not accepted for: %s", subjectPrefix, task.Title),
		Template: "application_not_selected",
		To:       emails[:1],
		Bcc:      emails[1:],
		Context: map[string]any{
			"task_title": task.Title,
			"task_url":   n.taskURL(task.ID),
		},
	})
}

// ProgressEventReminder reminds accepted participants that a progress update
// is due. The last_reminder_at stamp is the one state mutation performed by
// any notification flow, and it happens only after a confirmed send so a
// failed delivery stays eligible for a retry pass.
func (n *Notifier) ProgressEventReminder(ctx context.Context, eventID string) error {
	event, err := n.store.GetProgressEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get progress event %s: %w", eventID, err)
	}
	if event.LastReminderAt != nil {
		// Already reminded; the queued work item raced a previous pass.
		return nil
	}
	task, err := n.store.GetTask(ctx, event.TaskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	parts, err := n.store.ListParticipations(ctx, event.TaskID)
	if err != nil {
		return fmt.Errorf("list participations: %w", err)
	}
	var emails []string
	for _, part := range parts {
		if !part.Accepted {
			continue
		}
		participant, err := n.store.GetAccount(ctx, part.AccountID)
		if err != nil {
			return fmt.Errorf("get participant: %w", err)
		}
		emails = append(emails, participant.Email)
	}
	if len(emails) == 0 {
		return nil
	}

	err = n.mailer.Send(ctx, &Message{
		Subject:  fmt.Sprintf("%s Upcoming Task Update", subjectPrefix),
		Template: "progress_event_reminder",
		To:       emails[:1],
		Bcc:      emails[1:],
		Context: map[string]any{
			"task_title": task.Title,
			"update_url": n.updateURL(task.ID, event.ID),
		},
	})
	if err != nil {
		return err
	}

	if err := n.store.StampProgressEventReminded(ctx, event.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("stamp reminder: %w", err)
	}
	return nil
}
