package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// recordingMailer captures sent messages; it can be told to fail.
// Guarded by a mutex so worker tests can poll from another goroutine.
type recordingMailer struct {
	mu   sync.Mutex
	sent []*Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) first() *Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[0]
}

func newTestNotifier(s *mockStore) (*Notifier, *recordingMailer) {
	mailer := &recordingMailer{}
	n := NewNotifier(s, mailer, "https://gigboard.io", []string{"ops@gigboard.io"}, slog.Default())
	return n, mailer
}

func TestTaskCreated_StaffToAndCandidateBcc(t *testing.T) {
	s := newMockStore()
	s.addAccount(&model.Account{ID: "usr-owner", Username: "owner", FirstName: "Olu", Email: "olu@example.com", Type: model.TypeProjectOwner})
	s.addAccount(dev("usr-a", "go"))
	s.addAccount(dev("usr-b"))
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API", Visibility: model.VisibilityDevelopers, Skills: []string{"go"}}

	n, mailer := newTestNotifier(s)
	if err := n.TaskCreated(context.Background(), "tsk-1"); err != nil {
		t.Fatalf("TaskCreated() error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.Subject != "[gigboard] New task created by Olu" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0] != "ops@gigboard.io" {
		t.Errorf("To = %v, want staff recipients", msg.To)
	}
	// Skill match ranks usr-a before usr-b.
	if len(msg.Bcc) != 2 || msg.Bcc[0] != "usr-a@example.com" || msg.Bcc[1] != "usr-b@example.com" {
		t.Errorf("Bcc = %v", msg.Bcc)
	}
	if msg.Context["task_url"] != "https://gigboard.io/task/tsk-1/" {
		t.Errorf("task_url = %v", msg.Context["task_url"])
	}
}

func TestTaskCreated_OnlyMeSkipsCandidates(t *testing.T) {
	s := newMockStore()
	s.addAccount(&model.Account{ID: "usr-owner", FirstName: "Olu", Email: "olu@example.com", Type: model.TypeProjectOwner})
	s.addAccount(dev("usr-a", "go"))
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Secret", Visibility: model.VisibilityOnlyMe, Skills: []string{"go"}}

	n, mailer := newTestNotifier(s)
	if err := n.TaskCreated(context.Background(), "tsk-1"); err != nil {
		t.Fatalf("TaskCreated() error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1 (staff only)", len(mailer.sent))
	}
	if len(mailer.sent[0].Bcc) != 0 {
		t.Errorf("Bcc = %v, want empty for only_me task", mailer.sent[0].Bcc)
	}
}

func TestApplicationsNotSelected_FirstToRestBcc(t *testing.T) {
	s := newMockStore()
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("usr-%d", i)
		s.addAccount(dev(id))
		s.applications = append(s.applications, &model.Application{
			ID: fmt.Sprintf("app-%d", i), TaskID: "tsk-1", AccountID: id,
		})
	}
	// A responded application is excluded.
	s.addAccount(dev("usr-done"))
	s.applications = append(s.applications, &model.Application{
		ID: "app-done", TaskID: "tsk-1", AccountID: "usr-done", Responded: true,
	})

	n, mailer := newTestNotifier(s)
	if err := n.ApplicationsNotSelected(context.Background(), "tsk-1"); err != nil {
		t.Fatalf("ApplicationsNotSelected() error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "usr-0@example.com" {
		t.Errorf("To = %v, want first non-responded applicant", msg.To)
	}
	if len(msg.Bcc) != 2 {
		t.Errorf("Bcc = %v, want the remaining two applicants", msg.Bcc)
	}
}

func TestApplicationsNotSelected_NothingToSend(t *testing.T) {
	s := newMockStore()
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", Title: "Build API"}

	n, mailer := newTestNotifier(s)
	if err := n.ApplicationsNotSelected(context.Background(), "tsk-1"); err != nil {
		t.Fatalf("ApplicationsNotSelected() error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(mailer.sent))
	}
}

func TestProgressEventReminder_StampsOnlyOnSuccess(t *testing.T) {
	setup := func() *mockStore {
		s := newMockStore()
		s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}
		s.addAccount(dev("usr-a"))
		s.addAccount(dev("usr-b"))
		s.participations = append(s.participations,
			&model.Participation{ID: "prt-1", TaskID: "tsk-1", AccountID: "usr-a", Accepted: true},
			&model.Participation{ID: "prt-2", TaskID: "tsk-1", AccountID: "usr-b", Accepted: true},
			&model.Participation{ID: "prt-3", TaskID: "tsk-1", AccountID: "usr-owner", Accepted: false},
		)
		s.progressEvents["evt-1"] = &model.ProgressEvent{ID: "evt-1", TaskID: "tsk-1", DueAt: time.Now()}
		return s
	}

	t.Run("Success", func(t *testing.T) {
		s := setup()
		n, mailer := newTestNotifier(s)
		if err := n.ProgressEventReminder(context.Background(), "evt-1"); err != nil {
			t.Fatalf("ProgressEventReminder() error: %v", err)
		}
		if s.progressEvents["evt-1"].LastReminderAt == nil {
			t.Error("LastReminderAt not stamped after successful send")
		}
		msg := mailer.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "usr-a@example.com" {
			t.Errorf("To = %v, want first accepted participant", msg.To)
		}
		if len(msg.Bcc) != 1 || msg.Bcc[0] != "usr-b@example.com" {
			t.Errorf("Bcc = %v", msg.Bcc)
		}
	})

	t.Run("SendFailure", func(t *testing.T) {
		s := setup()
		n, mailer := newTestNotifier(s)
		mailer.err = errors.New("smtp unavailable")
		if err := n.ProgressEventReminder(context.Background(), "evt-1"); err == nil {
			t.Fatal("ProgressEventReminder() expected error")
		}
		if s.progressEvents["evt-1"].LastReminderAt != nil {
			t.Error("LastReminderAt stamped despite failed send")
		}
	})

	t.Run("AlreadyReminded", func(t *testing.T) {
		s := setup()
		stamped := time.Now().Add(-time.Hour)
		s.progressEvents["evt-1"].LastReminderAt = &stamped
		n, mailer := newTestNotifier(s)
		if err := n.ProgressEventReminder(context.Background(), "evt-1"); err != nil {
			t.Fatalf("ProgressEventReminder() error: %v", err)
		}
		if len(mailer.sent) != 0 {
			t.Errorf("sent %d messages for an already-reminded event, want 0", len(mailer.sent))
		}
	})

	t.Run("NoAcceptedParticipants", func(t *testing.T) {
		s := setup()
		s.participations = s.participations[2:3] // only the non-accepted one
		n, mailer := newTestNotifier(s)
		if err := n.ProgressEventReminder(context.Background(), "evt-1"); err != nil {
			t.Fatalf("ProgressEventReminder() error: %v", err)
		}
		if len(mailer.sent) != 0 {
			t.Errorf("sent %d messages with no accepted participants, want 0", len(mailer.sent))
		}
		if s.progressEvents["evt-1"].LastReminderAt != nil {
			t.Error("LastReminderAt stamped with nothing sent")
		}
	})
}

func TestInvitationResponded_Subject(t *testing.T) {
	s := newMockStore()
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}
	s.addAccount(&model.Account{ID: "usr-owner", FirstName: "Olu", Email: "olu@example.com"})
	s.addAccount(&model.Account{ID: "usr-dev", FirstName: "Ada", Email: "ada@example.com"})
	s.participations = append(s.participations, &model.Participation{
		ID: "prt-1", TaskID: "tsk-1", AccountID: "usr-dev", CreatedByID: "usr-owner",
		Responded: true, Accepted: true,
	})

	n, mailer := newTestNotifier(s)
	if err := n.InvitationResponded(context.Background(), "prt-1"); err != nil {
		t.Fatalf("InvitationResponded() error: %v", err)
	}
	msg := mailer.sent[0]
	if msg.Subject != "[gigboard] Task invitation accepted by Ada" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0] != "olu@example.com" {
		t.Errorf("To = %v, want the inviter", msg.To)
	}
}
