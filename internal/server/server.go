// Package server exposes the marketplace over HTTP.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gigboard/gigboard/internal/activity"
	"github.com/gigboard/gigboard/internal/events"
	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	store     store.Store
	publisher events.Publisher
	projector *activity.Projector
	logger    *slog.Logger
}

// NewServer returns a Server backed by the given store and publisher.
func NewServer(s store.Store, p events.Publisher, logger *slog.Logger) *Server {
	return &Server{
		store:     s,
		publisher: p,
		projector: activity.NewProjector(activity.NewStoreResolver(s)),
		logger:    logger,
	}
}

// recordAndPublish appends an activity record and publishes an event to the
// bus. Both operations are best-effort; failures are logged but do not block
// the mutation that already committed.
func (s *Server) recordAndPublish(ctx context.Context, topic string, event any, act *model.Activity) {
	if act != nil {
		if act.CreatedAt.IsZero() {
			act.CreatedAt = time.Now().UTC()
		}
		if err := s.store.RecordActivity(ctx, act); err != nil {
			s.logger.Warn("failed to record activity", "verb", act.Verb, "error", err)
		}
	}
	if topic != "" {
		if err := s.publisher.Publish(ctx, topic, event); err != nil {
			s.logger.Warn("failed to publish event", "topic", topic, "error", err)
		}
	}
}

// inputError indicates invalid user input.
// The transport layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
