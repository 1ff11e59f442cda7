package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gigboard/gigboard/internal/model"
)

// HTTPClient implements GigClient using the gigboard HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	adminToken string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request. adminToken is only needed for the activity
// feed.
func NewHTTPClient(baseURL, token, adminToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		adminToken: adminToken,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Accounts ---

func (c *HTTPClient) CreateDeveloperApplication(ctx context.Context, req *DeveloperApplicationRequest) (*model.DeveloperApplication, error) {
	var app model.DeveloperApplication
	if err := c.doJSON(ctx, http.MethodPost, "/v1/developer-applications", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) RegisterAccount(ctx context.Context, req *RegisterAccountRequest) (*model.Account, error) {
	var account model.Account
	if err := c.doJSON(ctx, http.MethodPost, "/v1/accounts", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := c.doJSON(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) ListAccounts(ctx context.Context, req *ListAccountsRequest) ([]*model.Account, error) {
	q := url.Values{}
	if req.Type != "" {
		q.Set("type", req.Type)
	}
	if req.ConnectedTo != "" {
		q.Set("connected_to", req.ConnectedTo)
	}
	if req.Skill != "" {
		q.Set("skill", req.Skill)
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/accounts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Accounts []*model.Account `json:"accounts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (c *HTTPClient) UpdateAccount(ctx context.Context, id string, req *UpdateAccountRequest) (*model.Account, error) {
	var account model.Account
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/accounts/"+url.PathEscape(id), req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// --- Connections ---

func (c *HTTPClient) CreateConnection(ctx context.Context, fromID, toID string) (*model.Connection, error) {
	body := map[string]string{"from_id": fromID, "to_id": toID}
	var conn model.Connection
	if err := c.doJSON(ctx, http.MethodPost, "/v1/connections", body, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (c *HTTPClient) RespondConnection(ctx context.Context, id string, accepted bool) (*model.Connection, error) {
	body := map[string]bool{"accepted": accepted}
	var conn model.Connection
	if err := c.doJSON(ctx, http.MethodPost, "/v1/connections/"+url.PathEscape(id)+"/respond", body, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// --- Tasks ---

func (c *HTTPClient) CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	q := url.Values{}
	if req.OwnerID != "" {
		q.Set("owner_id", req.OwnerID)
	}
	if req.Closed != nil {
		q.Set("closed", fmt.Sprintf("%t", *req.Closed))
	}
	if len(req.Skills) > 0 {
		q.Set("skills", strings.Join(req.Skills, ","))
	}
	if len(req.Visibility) > 0 {
		q.Set("visibility", strings.Join(req.Visibility, ","))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListTasksResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) CloseTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(id)+"/close", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// --- Applications ---

func (c *HTTPClient) CreateApplication(ctx context.Context, taskID string, req *CreateApplicationRequest) (*model.Application, error) {
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/applications", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *HTTPClient) ListApplications(ctx context.Context, taskID string) ([]*model.Application, error) {
	var resp struct {
		Applications []*model.Application `json:"applications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(taskID)+"/applications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (c *HTTPClient) RespondApplication(ctx context.Context, id string, accepted bool) (*model.Application, error) {
	body := map[string]bool{"accepted": accepted}
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPost, "/v1/applications/"+url.PathEscape(id)+"/respond", body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// --- Participations ---

func (c *HTTPClient) CreateParticipation(ctx context.Context, taskID string, req *CreateParticipationRequest) (*model.Participation, error) {
	var part model.Participation
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/participations", req, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func (c *HTTPClient) ListParticipations(ctx context.Context, taskID string) ([]*model.Participation, error) {
	var resp struct {
		Participations []*model.Participation `json:"participations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(taskID)+"/participations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Participations, nil
}

func (c *HTTPClient) RespondParticipation(ctx context.Context, id string, accepted bool) (*model.Participation, error) {
	body := map[string]bool{"accepted": accepted}
	var part model.Participation
	if err := c.doJSON(ctx, http.MethodPost, "/v1/participations/"+url.PathEscape(id)+"/respond", body, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

// --- Progress ---

func (c *HTTPClient) CreateProgressEvent(ctx context.Context, taskID string, req *CreateProgressEventRequest) (*model.ProgressEvent, error) {
	var event model.ProgressEvent
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/progress-events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) CreateProgressReport(ctx context.Context, eventID string, req *CreateProgressReportRequest) (*model.ProgressReport, error) {
	var report model.ProgressReport
	if err := c.doJSON(ctx, http.MethodPost, "/v1/progress-events/"+url.PathEscape(eventID)+"/reports", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// --- Comments ---

func (c *HTTPClient) CreateComment(ctx context.Context, taskID, accountID, body string) (*model.Comment, error) {
	payload := map[string]string{"account_id": accountID, "body": body}
	var comment model.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/comments", payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// --- Activity feed ---

func (c *HTTPClient) ListActivity(ctx context.Context, req *ListActivityRequest) (*ListActivityResponse, error) {
	q := url.Values{}
	if req.Verb != "" {
		q.Set("verb", req.Verb)
	}
	if req.ActorKind != "" {
		q.Set("actor_kind", req.ActorKind)
	}
	if req.ActorID != "" {
		q.Set("actor_id", req.ActorID)
	}
	if req.ObjectKind != "" {
		q.Set("object_kind", req.ObjectKind)
	}
	if req.ObjectID != "" {
		q.Set("object_id", req.ObjectID)
	}
	if req.Since != nil {
		q.Set("since", req.Since.Format(time.RFC3339))
	}
	if req.Until != nil {
		q.Set("until", req.Until.Format(time.RFC3339))
	}
	if req.Full {
		q.Set("full", "true")
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/activity"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListActivityResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server. Field is set when
// the server scoped the error to a single input field.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("HTTP %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response. If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.adminToken != "" {
		req.Header.Set("X-Admin-Token", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Field: errResp.Field}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
