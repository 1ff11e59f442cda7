package activity

import (
	"context"
	"fmt"

	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// StoreResolver resolves entity references against the persistence layer.
type StoreResolver struct {
	store store.Store
}

// NewStoreResolver returns a resolver backed by the given store.
func NewStoreResolver(s store.Store) *StoreResolver {
	return &StoreResolver{store: s}
}

// Resolve looks up the concrete entity a reference points to.
func (r *StoreResolver) Resolve(ctx context.Context, ref model.EntityRef) (any, error) {
	switch ref.Kind {
	case model.KindAccount:
		return r.store.GetAccount(ctx, ref.ID)
	case model.KindComment:
		return r.store.GetComment(ctx, ref.ID)
	case model.KindConnection:
		return r.store.GetConnection(ctx, ref.ID)
	case model.KindTask:
		return r.store.GetTask(ctx, ref.ID)
	case model.KindApplication:
		return r.store.GetApplication(ctx, ref.ID)
	case model.KindParticipation:
		return r.store.GetParticipation(ctx, ref.ID)
	case model.KindTaskRequest:
		return r.store.GetTaskRequest(ctx, ref.ID)
	case model.KindProgressEvent:
		return r.store.GetProgressEvent(ctx, ref.ID)
	case model.KindProgressReport:
		return r.store.GetProgressReport(ctx, ref.ID)
	case model.KindIntegration:
		return r.store.GetIntegration(ctx, ref.ID)
	case model.KindIntegrationActivity:
		return r.store.GetIntegrationActivity(ctx, ref.ID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredKind, ref.Kind)
	}
}
