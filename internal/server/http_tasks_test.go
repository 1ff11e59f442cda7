package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/gigboard/gigboard/internal/events"
	"github.com/gigboard/gigboard/internal/model"
)

func seedOwner(s *mockStore) {
	s.accounts["usr-owner"] = &model.Account{
		ID: "usr-owner", Username: "olu", Email: "olu@example.com", Type: model.TypeProjectOwner,
	}
}

func TestCreateTask(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	seedOwner(s)

	var out model.Task
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks", map[string]any{
		"owner_id": "usr-owner",
		"title":    "Build API",
		"skills":   []string{"go", "postgres"},
		"fee":      500.0,
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if out.Visibility != model.VisibilityDevelopers {
		t.Errorf("Visibility = %s, want the developers default", out.Visibility)
	}
	if !out.Apply {
		t.Error("Apply should default to true")
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicTaskCreated {
		t.Errorf("published topics = %v", topics)
	}
	act := s.lastActivity()
	if act == nil || act.Verb != "created" || act.Object.Kind != model.KindTask {
		t.Errorf("lastActivity = %+v", act)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	seedOwner(s)

	for name, body := range map[string]map[string]any{
		"MissingTitle":   {"owner_id": "usr-owner"},
		"MissingOwner":   {"title": "Build API"},
		"UnknownOwner":   {"owner_id": "usr-ghost", "title": "Build API"},
		"BadVisibility":  {"owner_id": "usr-owner", "title": "Build API", "visibility": "everyone"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/v1/tasks", body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCloseTask_FiresClosedAndNotSelected(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	seedOwner(s)
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API", Apply: true}

	var out model.Task
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks/tsk-1/close", nil, &out)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !out.Closed || out.Apply {
		t.Errorf("task = %+v, want closed and not accepting applications", out)
	}

	topics := p.topics()
	if len(topics) != 2 || topics[0] != events.TopicTaskClosed || topics[1] != events.TopicTaskNotSelected {
		t.Errorf("published topics = %v", topics)
	}
}

func TestUpdateTask_TurningApplyOffFiresNotSelected(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	seedOwner(s)
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API", Apply: true}

	rec := doJSON(t, h, http.MethodPatch, "/v1/tasks/tsk-1", map[string]any{
		"apply": false,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicTaskNotSelected {
		t.Errorf("published topics = %v", topics)
	}

	// Toggling other fields must not fire it again.
	p.published = nil
	rec = doJSON(t, h, http.MethodPatch, "/v1/tasks/tsk-1", map[string]any{
		"fee": 750.0,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(p.topics()) != 0 {
		t.Errorf("published topics = %v, want none", p.topics())
	}
}

func TestUpdateTask_ClosedTaskRejected(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API", Closed: true}

	rec := doJSON(t, h, http.MethodPatch, "/v1/tasks/tsk-1", map[string]any{
		"title": "New title",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateApplication(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API", Apply: true}

	var out model.Application
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks/tsk-1/applications", map[string]any{
		"account_id": "usr-dev",
		"pitch":      "I have shipped three of these.",
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if out.TaskID != "tsk-1" || out.Responded {
		t.Errorf("application = %+v", out)
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicApplicationFiled {
		t.Errorf("published topics = %v", topics)
	}
}

func TestCreateApplication_NotAccepting(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-open"] = &model.Task{ID: "tsk-open", Title: "Open", Apply: false}
	s.tasks["tsk-closed"] = &model.Task{ID: "tsk-closed", Title: "Closed", Apply: true, Closed: true}

	for _, id := range []string{"tsk-open", "tsk-closed"} {
		rec := doJSON(t, h, http.MethodPost, "/v1/tasks/"+id+"/applications", map[string]any{
			"account_id": "usr-dev",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status for %s = %d, want 400", id, rec.Code)
		}
	}
}

func TestRespondApplication_AcceptedCreatesParticipation(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}
	s.applications["app-1"] = &model.Application{ID: "app-1", TaskID: "tsk-1", AccountID: "usr-dev"}

	var out model.Application
	rec := doJSON(t, h, http.MethodPost, "/v1/applications/app-1/respond", map[string]any{
		"accepted": true,
	}, &out)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !out.Accepted || !out.Responded {
		t.Errorf("application = %+v", out)
	}

	var part *model.Participation
	for _, pp := range s.participations {
		part = pp
	}
	if part == nil {
		t.Fatal("no participation created for accepted application")
	}
	if part.AccountID != "usr-dev" || !part.Accepted || part.CreatedByID != "usr-owner" {
		t.Errorf("participation = %+v", part)
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicApplicationReply {
		t.Errorf("published topics = %v", topics)
	}
}

func TestRespondApplication_RejectedCreatesNoParticipation(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}
	s.applications["app-1"] = &model.Application{ID: "app-1", TaskID: "tsk-1", AccountID: "usr-dev"}

	rec := doJSON(t, h, http.MethodPost, "/v1/applications/app-1/respond", map[string]any{
		"accepted": false,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(s.participations) != 0 {
		t.Errorf("participations = %v, want none", s.participations)
	}
}

func TestCreateParticipation_Invitation(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}

	var out model.Participation
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks/tsk-1/participations", map[string]any{
		"account_id":    "usr-dev",
		"created_by_id": "usr-owner",
		"assignee":      true,
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if out.Responded {
		t.Error("a fresh invitation must be unanswered")
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicInvitationCreated {
		t.Errorf("published topics = %v", topics)
	}
	act := s.lastActivity()
	if act == nil || act.Verb != "invited" || act.Target.ID != "usr-dev" {
		t.Errorf("lastActivity = %+v", act)
	}
}

func TestRespondParticipation(t *testing.T) {
	srv, s, p := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.participations["prt-1"] = &model.Participation{
		ID: "prt-1", TaskID: "tsk-1", AccountID: "usr-dev", CreatedByID: "usr-owner",
	}

	var out model.Participation
	rec := doJSON(t, h, http.MethodPost, "/v1/participations/prt-1/respond", map[string]any{
		"accepted": true,
	}, &out)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !out.Accepted || !out.Responded {
		t.Errorf("participation = %+v", out)
	}

	topics := p.topics()
	if len(topics) != 1 || topics[0] != events.TopicInvitationReply {
		t.Errorf("published topics = %v", topics)
	}
}

func TestCreateProgressEvent(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.tasks["tsk-1"] = &model.Task{ID: "tsk-1", OwnerID: "usr-owner", Title: "Build API"}

	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	var out model.ProgressEvent
	rec := doJSON(t, h, http.MethodPost, "/v1/tasks/tsk-1/progress-events", map[string]any{
		"type":   "milestone",
		"title":  "Alpha",
		"due_at": due.Format(time.RFC3339),
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !out.DueAt.Equal(due) {
		t.Errorf("DueAt = %v, want %v", out.DueAt, due)
	}
	if out.LastReminderAt != nil {
		t.Error("a fresh event must not carry a reminder stamp")
	}
}

func TestCreateProgressReport_Validation(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.progressEvents["evt-1"] = &model.ProgressEvent{ID: "evt-1", TaskID: "tsk-1"}

	rec := doJSON(t, h, http.MethodPost, "/v1/progress-events/evt-1/reports", map[string]any{
		"account_id": "usr-dev",
		"status":     "on_schedule",
		"percentage": 150,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for out-of-range percentage", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/progress-events/evt-1/reports", map[string]any{
		"account_id": "usr-dev",
		"status":     "on_schedule",
		"percentage": 60,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestCreateIntegrationActivity_IntegrationIsActor(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")
	s.integrations["int-1"] = &model.Integration{ID: "int-1", TaskID: "tsk-1", Provider: "github"}

	rec := doJSON(t, h, http.MethodPost, "/v1/integrations/int-1/activity", map[string]any{
		"event":   "push",
		"actor":   "ada",
		"summary": "3 commits to main",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	act := s.lastActivity()
	if act == nil || act.Actor.Kind != model.KindIntegration || act.Actor.ID != "int-1" {
		t.Errorf("lastActivity actor = %+v, want the integration", act)
	}
}
