package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// handleListActivity handles GET /v1/activity. Each stored record is
// projected through the activity projector; a record referencing a kind
// outside the registry is a data corruption bug and fails the request
// rather than being silently skipped.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ActivityFilter{
		Verb:       q.Get("verb"),
		ActorKind:  model.EntityKind(q.Get("actor_kind")),
		ActorID:    q.Get("actor_id"),
		ObjectKind: model.EntityKind(q.Get("object_kind")),
		ObjectID:   q.Get("object_id"),
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		filter.Since = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid until timestamp")
			return
		}
		filter.Until = &t
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	activities, total, err := s.store.ListActivities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	full := q.Get("full") == "true"
	projections := make([]any, 0, len(activities))
	for _, act := range activities {
		var p any
		if full {
			p, err = s.projector.Project(r.Context(), act)
		} else {
			p, err = s.projector.ProjectSimple(r.Context(), act)
		}
		if err != nil {
			s.logger.Error("activity projection failed", "activity_id", act.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to project activity")
			return
		}
		projections = append(projections, p)
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": projections, "total": total})
}
