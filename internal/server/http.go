package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header. The activity feed is
// additionally gated behind adminToken.
func (s *Server) NewHTTPHandler(authToken, adminToken string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/developer-applications", s.handleCreateDeveloperApplication)
	mux.HandleFunc("POST /v1/accounts", s.handleRegisterAccount)
	mux.HandleFunc("GET /v1/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /v1/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("PATCH /v1/accounts/{id}", s.handleUpdateAccountInfo)

	mux.HandleFunc("POST /v1/connections", s.handleCreateConnection)
	mux.HandleFunc("GET /v1/connections/{id}", s.handleGetConnection)
	mux.HandleFunc("POST /v1/connections/{id}/respond", s.handleRespondConnection)

	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("POST /v1/tasks/{id}/close", s.handleCloseTask)

	mux.HandleFunc("POST /v1/tasks/{id}/applications", s.handleCreateApplication)
	mux.HandleFunc("GET /v1/tasks/{id}/applications", s.handleListApplications)
	mux.HandleFunc("POST /v1/applications/{id}/respond", s.handleRespondApplication)

	mux.HandleFunc("POST /v1/tasks/{id}/participations", s.handleCreateParticipation)
	mux.HandleFunc("GET /v1/tasks/{id}/participations", s.handleListParticipations)
	mux.HandleFunc("POST /v1/participations/{id}/respond", s.handleRespondParticipation)

	mux.HandleFunc("POST /v1/tasks/{id}/requests", s.handleCreateTaskRequest)

	mux.HandleFunc("POST /v1/tasks/{id}/progress-events", s.handleCreateProgressEvent)
	mux.HandleFunc("GET /v1/progress-events/{id}", s.handleGetProgressEvent)
	mux.HandleFunc("POST /v1/progress-events/{id}/reports", s.handleCreateProgressReport)

	mux.HandleFunc("POST /v1/tasks/{id}/comments", s.handleCreateComment)

	mux.HandleFunc("POST /v1/tasks/{id}/integrations", s.handleCreateIntegration)
	mux.HandleFunc("POST /v1/integrations/{id}/activity", s.handleCreateIntegrationActivity)

	mux.Handle("GET /v1/activity", AdminMiddleware(adminToken, http.HandlerFunc(s.handleListActivity)))

	mux.HandleFunc("GET /v1/health", s.handleHealth)

	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthMiddleware wraps an http.Handler and checks the Authorization header for
// a valid Bearer token. When token is empty, auth is disabled and all requests
// pass through. GET /v1/health is always exempt.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Exempt health check.
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		if !bearerMatches(r, token) {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware gates a handler behind a second, staff-only Bearer token
// carried in the X-Admin-Token header. When token is empty the gate is
// disabled.
func AdminMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerMatches(r *http.Request, token string) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	provided := strings.TrimPrefix(auth, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFieldError writes a JSON error response scoped to a single input field.
func writeFieldError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, map[string]string{"error": message, "field": field})
}
