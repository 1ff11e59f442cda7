package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gigboard/gigboard/internal/events"
	"github.com/gigboard/gigboard/internal/store"
)

// Worker consumes marketplace events from the bus and runs the matching
// notification flow. Every payload carries only the triggering entity's ID;
// the flow re-fetches and revalidates before sending. A failed send is
// logged and dropped, never retried here and never surfaced to the request
// that produced the event.
type Worker struct {
	sub      events.Subscriber
	notifier *Notifier
	store    store.Store
	// reminderEvery is how often due progress events are scanned for.
	reminderEvery time.Duration
	logger        *slog.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	cancels []func()
}

// NewWorker creates a worker consuming from sub and dispatching through n.
func NewWorker(sub events.Subscriber, n *Notifier, s store.Store, reminderEvery time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		sub:           sub,
		notifier:      n,
		store:         s,
		reminderEvery: reminderEvery,
		logger:        logger,
	}
}

// Start subscribes to all notification topics and launches the reminder
// scanner. It returns once the subscriptions are registered.
func (w *Worker) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	handlers := []struct {
		topic  string
		handle func(ctx context.Context, payload []byte) error
	}{
		{events.TopicTaskCreated, w.onTaskCreated},
		{events.TopicTaskNotSelected, w.onTaskNotSelected},
		{events.TopicApplicationFiled, w.onApplicationFiled},
		{events.TopicApplicationReply, w.onApplicationReply},
		{events.TopicInvitationCreated, w.onInvitationCreated},
		{events.TopicInvitationReply, w.onInvitationReply},
		{events.TopicProgressEventDue, w.onProgressEventDue},
	}

	for _, h := range handlers {
		ch, unsub, err := w.sub.Subscribe(h.topic)
		if err != nil {
			w.Stop()
			return err
		}
		w.cancels = append(w.cancels, unsub)

		w.wg.Add(1)
		go func(topic string, handle func(context.Context, []byte) error) {
			defer w.wg.Done()
			for payload := range ch {
				if err := handle(ctx, payload); err != nil {
					w.logger.Error("notification dispatch failed", "topic", topic, "err", err)
				}
			}
		}(h.topic, h.handle)
	}

	if w.reminderEvery > 0 {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.scanReminders(ctx)
		}()
	}

	return nil
}

// Stop unsubscribes and waits for in-flight dispatches to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	for _, unsub := range w.cancels {
		unsub()
	}
	w.wg.Wait()
}

func (w *Worker) onTaskCreated(ctx context.Context, payload []byte) error {
	var ev events.TaskCreated
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.TaskCreated(ctx, ev.TaskID)
}

func (w *Worker) onTaskNotSelected(ctx context.Context, payload []byte) error {
	var ev events.TaskNotSelected
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.ApplicationsNotSelected(ctx, ev.TaskID)
}

func (w *Worker) onApplicationFiled(ctx context.Context, payload []byte) error {
	var ev events.ApplicationFiled
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.ApplicationFiled(ctx, ev.ApplicationID)
}

func (w *Worker) onApplicationReply(ctx context.Context, payload []byte) error {
	var ev events.ApplicationReply
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.ApplicationResponded(ctx, ev.ApplicationID)
}

func (w *Worker) onInvitationCreated(ctx context.Context, payload []byte) error {
	var ev events.InvitationCreated
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.InvitationCreated(ctx, ev.ParticipationID)
}

func (w *Worker) onInvitationReply(ctx context.Context, payload []byte) error {
	var ev events.InvitationReply
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.InvitationResponded(ctx, ev.ParticipationID)
}

func (w *Worker) onProgressEventDue(ctx context.Context, payload []byte) error {
	var ev events.ProgressEventDue
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	return w.notifier.ProgressEventReminder(ctx, ev.ProgressEventID)
}

// scanReminders periodically looks for due, un-reminded progress events and
// runs the reminder flow for each. The flow itself revalidates the event,
// so an event reminded by a concurrent pass is skipped, not double-sent.
func (w *Worker) scanReminders(ctx context.Context) {
	ticker := time.NewTicker(w.reminderEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			due, err := w.store.ListDueProgressEvents(ctx, time.Now().UTC())
			if err != nil {
				w.logger.Error("scan due progress events", "err", err)
				continue
			}
			for _, event := range due {
				if err := w.notifier.ProgressEventReminder(ctx, event.ID); err != nil {
					w.logger.Error("progress reminder failed", "event_id", event.ID, "err", err)
				}
			}
		}
	}
}
