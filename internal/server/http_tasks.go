package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gigboard/gigboard/internal/events"
	"github.com/gigboard/gigboard/internal/idgen"
	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// handleCreateTask handles POST /v1/tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.createTask(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "failed to create task")
		}
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// handleListTasks handles GET /v1/tasks.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.TaskFilter{
		OwnerID: q.Get("owner_id"),
		Search:  q.Get("search"),
		Sort:    q.Get("sort"),
	}
	if v := q.Get("closed"); v != "" {
		closed := v == "true"
		filter.Closed = &closed
	}
	if v := q.Get("skills"); v != "" {
		filter.Skills = strings.Split(v, ",")
	}
	if v := q.Get("visibility"); v != "" {
		for _, vis := range strings.Split(v, ",") {
			filter.Visibility = append(filter.Visibility, model.Visibility(vis))
		}
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

	tasks, total, err := s.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": total})
}

// handleGetTask handles GET /v1/tasks/{id}.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleUpdateTask handles PATCH /v1/tasks/{id}.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in updateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.updateTask(r.Context(), r.PathValue("id"), in)
	if err != nil {
		var ie inputError
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "task not found")
		case errors.As(err, &ie):
			writeError(w, http.StatusBadRequest, ie.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update task")
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// handleCloseTask handles POST /v1/tasks/{id}/close.
func (s *Server) handleCloseTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.closeTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to close task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleCreateApplication handles POST /v1/tasks/{id}/applications.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID string `json:"account_id"`
		Pitch     string `json:"pitch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task.Closed || !task.Apply {
		writeError(w, http.StatusBadRequest, "task is not accepting applications")
		return
	}

	id, err := idgen.Generate(idgen.PrefixApplication)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	app := &model.Application{
		ID:        id,
		TaskID:    task.ID,
		AccountID: in.AccountID,
		Pitch:     in.Pitch,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateApplication(r.Context(), app); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create application")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicApplicationFiled, events.ApplicationFiled{ApplicationID: app.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: app.AccountID},
		Verb:   "applied",
		Object: model.EntityRef{Kind: model.KindApplication, ID: app.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})

	writeJSON(w, http.StatusCreated, app)
}

// handleListApplications handles GET /v1/tasks/{id}/applications.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplications(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// handleRespondApplication handles POST /v1/applications/{id}/respond.
func (s *Server) handleRespondApplication(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Accepted bool `json:"accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := r.PathValue("id")
	err := s.store.RespondApplication(r.Context(), id, in.Accepted, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to respond to application")
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get application")
		return
	}
	task, err := s.store.GetTask(r.Context(), app.TaskID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	// An accepted application becomes a participation for the applicant.
	if app.Accepted {
		partID, err := idgen.Generate(idgen.PrefixParticipation)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate ID")
			return
		}
		part := &model.Participation{
			ID:          partID,
			TaskID:      app.TaskID,
			AccountID:   app.AccountID,
			CreatedByID: task.OwnerID,
			Responded:   true,
			Accepted:    true,
			RespondedAt: app.RespondedAt,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.store.CreateParticipation(r.Context(), part); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create participation")
			return
		}
	}

	s.recordAndPublish(r.Context(), events.TopicApplicationReply, events.ApplicationReply{ApplicationID: app.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: task.OwnerID},
		Verb:   "responded",
		Object: model.EntityRef{Kind: model.KindApplication, ID: app.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})

	writeJSON(w, http.StatusOK, app)
}

// handleCreateParticipation handles POST /v1/tasks/{id}/participations.
// This is the invitation path: a task owner invites a developer directly.
func (s *Server) handleCreateParticipation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID   string `json:"account_id"`
		CreatedByID string `json:"created_by_id"`
		Assignee    bool   `json:"assignee"`
		Share       int    `json:"share"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == "" || in.CreatedByID == "" {
		writeError(w, http.StatusBadRequest, "account_id and created_by_id are required")
		return
	}

	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task.Closed {
		writeError(w, http.StatusBadRequest, "task is closed")
		return
	}

	id, err := idgen.Generate(idgen.PrefixParticipation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	part := &model.Participation{
		ID:          id,
		TaskID:      task.ID,
		AccountID:   in.AccountID,
		CreatedByID: in.CreatedByID,
		Assignee:    in.Assignee,
		Share:       in.Share,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateParticipation(r.Context(), part); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create participation")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicInvitationCreated, events.InvitationCreated{ParticipationID: part.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: part.CreatedByID},
		Verb:   "invited",
		Object: model.EntityRef{Kind: model.KindParticipation, ID: part.ID},
		Target: model.EntityRef{Kind: model.KindAccount, ID: part.AccountID},
	})

	writeJSON(w, http.StatusCreated, part)
}

// handleListParticipations handles GET /v1/tasks/{id}/participations.
func (s *Server) handleListParticipations(w http.ResponseWriter, r *http.Request) {
	parts, err := s.store.ListParticipations(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list participations")
		return
	}
	if parts == nil {
		parts = []*model.Participation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"participations": parts})
}

// handleRespondParticipation handles POST /v1/participations/{id}/respond.
func (s *Server) handleRespondParticipation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Accepted bool `json:"accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := r.PathValue("id")
	err := s.store.RespondParticipation(r.Context(), id, in.Accepted, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "participation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to respond to participation")
		return
	}

	part, err := s.store.GetParticipation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get participation")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicInvitationReply, events.InvitationReply{ParticipationID: part.ID}, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: part.AccountID},
		Verb:   "responded",
		Object: model.EntityRef{Kind: model.KindParticipation, ID: part.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: part.TaskID},
	})

	writeJSON(w, http.StatusOK, part)
}

// handleCreateTaskRequest handles POST /v1/tasks/{id}/requests.
func (s *Server) handleCreateTaskRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID string `json:"account_id"`
		Type      string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	reqType := model.TaskRequestType(in.Type)
	if !reqType.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown request type "+in.Type)
		return
	}

	id, err := idgen.Generate(idgen.PrefixTaskRequest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	req := &model.TaskRequest{
		ID:        id,
		TaskID:    r.PathValue("id"),
		AccountID: in.AccountID,
		Type:      reqType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateTaskRequest(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create task request")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: req.AccountID},
		Verb:   "requested",
		Object: model.EntityRef{Kind: model.KindTaskRequest, ID: req.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: req.TaskID},
	})

	writeJSON(w, http.StatusCreated, req)
}

// handleCreateProgressEvent handles POST /v1/tasks/{id}/progress-events.
func (s *Server) handleCreateProgressEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type  string    `json:"type"`
		Title string    `json:"title"`
		DueAt time.Time `json:"due_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	eventType := model.ProgressEventType(in.Type)
	if !eventType.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown progress event type "+in.Type)
		return
	}
	if in.DueAt.IsZero() {
		writeError(w, http.StatusBadRequest, "due_at is required")
		return
	}

	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	id, err := idgen.Generate(idgen.PrefixProgressEvent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	event := &model.ProgressEvent{
		ID:        id,
		TaskID:    task.ID,
		Type:      eventType,
		Title:     in.Title,
		DueAt:     in.DueAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateProgressEvent(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create progress event")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: task.OwnerID},
		Verb:   "scheduled",
		Object: model.EntityRef{Kind: model.KindProgressEvent, ID: event.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: task.ID},
	})

	writeJSON(w, http.StatusCreated, event)
}

// handleGetProgressEvent handles GET /v1/progress-events/{id}.
func (s *Server) handleGetProgressEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetProgressEvent(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "progress event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get progress event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// handleCreateProgressReport handles POST /v1/progress-events/{id}/reports.
func (s *Server) handleCreateProgressReport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID    string `json:"account_id"`
		Status       string `json:"status"`
		Percentage   int    `json:"percentage"`
		Accomplished string `json:"accomplished"`
		NextSteps    string `json:"next_steps"`
		Remarks      string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	status := model.ReportStatus(in.Status)
	if !status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown report status "+in.Status)
		return
	}
	if in.Percentage < 0 || in.Percentage > 100 {
		writeError(w, http.StatusBadRequest, "percentage must be between 0 and 100")
		return
	}

	event, err := s.store.GetProgressEvent(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "progress event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get progress event")
		return
	}

	id, err := idgen.Generate(idgen.PrefixReport)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	report := &model.ProgressReport{
		ID:           id,
		EventID:      event.ID,
		AccountID:    in.AccountID,
		Status:       status,
		Percentage:   in.Percentage,
		Accomplished: in.Accomplished,
		NextSteps:    in.NextSteps,
		Remarks:      in.Remarks,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateProgressReport(r.Context(), report); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create progress report")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: report.AccountID},
		Verb:   "reported",
		Object: model.EntityRef{Kind: model.KindProgressReport, ID: report.ID},
		Target: model.EntityRef{Kind: model.KindProgressEvent, ID: event.ID},
	})

	writeJSON(w, http.StatusCreated, report)
}

// handleCreateComment handles POST /v1/tasks/{id}/comments.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID string `json:"account_id"`
		Body      string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	if in.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}

	id, err := idgen.Generate(idgen.PrefixComment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	comment := &model.Comment{
		ID:        id,
		TaskID:    r.PathValue("id"),
		AccountID: in.AccountID,
		Body:      in.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateComment(r.Context(), comment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: comment.AccountID},
		Verb:   "commented",
		Object: model.EntityRef{Kind: model.KindComment, ID: comment.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: comment.TaskID},
	})

	writeJSON(w, http.StatusCreated, comment)
}

// handleCreateIntegration handles POST /v1/tasks/{id}/integrations.
func (s *Server) handleCreateIntegration(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccountID string `json:"account_id"`
		Provider  string `json:"provider"`
		Repo      string `json:"repo"`
		IssueID   string `json:"issue_id"`
		Secret    string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Provider == "" {
		writeError(w, http.StatusBadRequest, "provider is required")
		return
	}

	id, err := idgen.Generate(idgen.PrefixIntegration)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	integration := &model.Integration{
		ID:        id,
		TaskID:    r.PathValue("id"),
		Provider:  in.Provider,
		Repo:      in.Repo,
		IssueID:   in.IssueID,
		Secret:    in.Secret,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateIntegration(r.Context(), integration); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create integration")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: in.AccountID},
		Verb:   "connected",
		Object: model.EntityRef{Kind: model.KindIntegration, ID: integration.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: integration.TaskID},
	})

	writeJSON(w, http.StatusCreated, integration)
}

// handleCreateIntegrationActivity handles POST /v1/integrations/{id}/activity.
// This is the webhook ingest path: the integration itself, not an account,
// is the actor of the recorded activity.
func (s *Server) handleCreateIntegrationActivity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Event   string `json:"event"`
		Actor   string `json:"actor"`
		URL     string `json:"url"`
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Event == "" {
		writeError(w, http.StatusBadRequest, "event is required")
		return
	}

	integration, err := s.store.GetIntegration(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "integration not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get integration")
		return
	}

	id, err := idgen.Generate(idgen.PrefixIntegrationActivity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	act := &model.IntegrationActivity{
		ID:            id,
		IntegrationID: integration.ID,
		Event:         in.Event,
		Actor:         in.Actor,
		URL:           in.URL,
		Summary:       in.Summary,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateIntegrationActivity(r.Context(), act); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create integration activity")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindIntegration, ID: integration.ID},
		Verb:   in.Event,
		Object: model.EntityRef{Kind: model.KindIntegrationActivity, ID: act.ID},
		Target: model.EntityRef{Kind: model.KindTask, ID: integration.TaskID},
	})

	writeJSON(w, http.StatusCreated, act)
}
