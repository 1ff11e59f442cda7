// Package activity projects persisted activity records into the flat,
// kind-tagged representations served by the feed API.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// ErrUnregisteredKind is returned when a record references an entity kind
// outside the closed set. This indicates schema drift between the feed
// producers and this projector and must surface as a server error, never as
// a silently-null field.
var ErrUnregisteredKind = errors.New("unregistered entity kind")

// snakeKind converts an UpperCamelCase kind name to lower_snake_case:
// the first character is kept, every later uppercase letter is prefixed
// with an underscore, then the whole string is lowered. Feed consumers
// depend on the exact strings this produces, so the algorithm is frozen
// even though it would mangle identifiers with consecutive capitals.
func snakeKind(kind model.EntityKind) string {
	s := string(kind)
	var b strings.Builder
	b.WriteByte(s[0])
	for _, r := range s[1:] {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// kindTag returns the snake_case tag for a kind, or nil for an absent kind.
func kindTag(kind model.EntityKind) *string {
	if kind == "" {
		return nil
	}
	tag := snakeKind(kind)
	return &tag
}

// Projection is the simple feed shape: the verb plus the typed summary of
// the object the verb was performed on.
type Projection struct {
	ID           int64     `json:"id"`
	Action       string    `json:"action"`
	ActivityType *string   `json:"activity_type"`
	Activity     any       `json:"activity"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullProjection extends Projection with the actor and optional target.
type FullProjection struct {
	Projection
	ActorType  *string `json:"actor_type"`
	Actor      any     `json:"actor"`
	TargetType *string `json:"target_type"`
	Target     any     `json:"target"`
}

// Resolver maps a polymorphic (kind, id) reference to its concrete entity.
// Implementations return store.ErrNotFound-wrapped errors for dangling
// references; the projector treats those as data-integrity failures.
type Resolver interface {
	Resolve(ctx context.Context, ref model.EntityRef) (any, error)
}

// Projector turns activity records into feed projections.
type Projector struct {
	resolver Resolver
}

// NewProjector returns a projector that resolves references through r.
func NewProjector(r Resolver) *Projector {
	return &Projector{resolver: r}
}

// ProjectSimple builds the object-only projection of an activity record.
func (p *Projector) ProjectSimple(ctx context.Context, act *model.Activity) (*Projection, error) {
	proj := &Projection{
		ID:           act.ID,
		Action:       act.Verb,
		ActivityType: kindTag(act.Object.Kind),
		CreatedAt:    act.CreatedAt,
	}

	if !act.Object.IsZero() {
		entity, err := p.resolver.Resolve(ctx, act.Object)
		if err != nil {
			return nil, fmt.Errorf("resolve object %s/%s: %w", act.Object.Kind, act.Object.ID, err)
		}
		summary, err := summarize(act.Object.Kind, entity)
		if err != nil {
			return nil, err
		}
		proj.Activity = summary
	}

	return proj, nil
}

// Project builds the extended projection including actor and target.
func (p *Projector) Project(ctx context.Context, act *model.Activity) (*FullProjection, error) {
	simple, err := p.ProjectSimple(ctx, act)
	if err != nil {
		return nil, err
	}

	proj := &FullProjection{
		Projection: *simple,
		ActorType:  kindTag(act.Actor.Kind),
		TargetType: kindTag(act.Target.Kind),
	}

	if !act.Actor.IsZero() {
		entity, err := p.resolver.Resolve(ctx, act.Actor)
		if err != nil {
			return nil, fmt.Errorf("resolve actor %s/%s: %w", act.Actor.Kind, act.Actor.ID, err)
		}
		summary, err := summarizeActor(act.Actor.Kind, entity)
		if err != nil {
			return nil, err
		}
		proj.Actor = summary
	}

	if !act.Target.IsZero() {
		entity, err := p.resolver.Resolve(ctx, act.Target)
		if err != nil {
			return nil, fmt.Errorf("resolve target %s/%s: %w", act.Target.Kind, act.Target.ID, err)
		}
		summary, err := summarize(act.Target.Kind, entity)
		if err != nil {
			return nil, err
		}
		proj.Target = summary
	}

	return proj, nil
}

// summarize dispatches a resolved entity to its kind-specific summary shape.
// The switch is exhaustive over the closed kind set; anything else fails.
func summarize(kind model.EntityKind, entity any) (any, error) {
	switch kind {
	case model.KindAccount:
		v, err := as[model.Account](kind, entity)
		if err != nil {
			return nil, err
		}
		return accountSummary(v), nil
	case model.KindComment:
		v, err := as[model.Comment](kind, entity)
		if err != nil {
			return nil, err
		}
		return commentSummary(v), nil
	case model.KindConnection:
		v, err := as[model.Connection](kind, entity)
		if err != nil {
			return nil, err
		}
		return connectionSummary(v), nil
	case model.KindTask:
		v, err := as[model.Task](kind, entity)
		if err != nil {
			return nil, err
		}
		return taskSummary(v), nil
	case model.KindApplication:
		v, err := as[model.Application](kind, entity)
		if err != nil {
			return nil, err
		}
		return applicationSummary(v), nil
	case model.KindParticipation:
		v, err := as[model.Participation](kind, entity)
		if err != nil {
			return nil, err
		}
		return participationSummary(v), nil
	case model.KindTaskRequest:
		v, err := as[model.TaskRequest](kind, entity)
		if err != nil {
			return nil, err
		}
		return taskRequestSummary(v), nil
	case model.KindProgressEvent:
		v, err := as[model.ProgressEvent](kind, entity)
		if err != nil {
			return nil, err
		}
		return progressEventSummary(v), nil
	case model.KindProgressReport:
		v, err := as[model.ProgressReport](kind, entity)
		if err != nil {
			return nil, err
		}
		return progressReportSummary(v), nil
	case model.KindIntegration:
		v, err := as[model.Integration](kind, entity)
		if err != nil {
			return nil, err
		}
		return integrationSummary(v), nil
	case model.KindIntegrationActivity:
		v, err := as[model.IntegrationActivity](kind, entity)
		if err != nil {
			return nil, err
		}
		return integrationActivitySummary(v), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredKind, kind)
	}
}

// summarizeActor dispatches over the reduced actor kind set. Only accounts
// and integrations ever act.
func summarizeActor(kind model.EntityKind, entity any) (any, error) {
	switch kind {
	case model.KindAccount, model.KindIntegration:
		return summarize(kind, entity)
	default:
		return nil, fmt.Errorf("%w: %q is not an actor kind", ErrUnregisteredKind, kind)
	}
}

// as asserts that a resolved entity has the concrete type registered for its
// kind. A mismatch means the resolver and the kind registry disagree.
func as[T any](kind model.EntityKind, entity any) (*T, error) {
	v, ok := entity.(*T)
	if !ok {
		return nil, fmt.Errorf("entity kind %q resolved to unexpected type %T", kind, entity)
	}
	return v, nil
}
