package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard/gigboard/internal/model"
)

func newTestServer() (*Server, *mockStore, *mockPublisher) {
	s := newMockStore()
	p := &mockPublisher{}
	return NewServer(s, p, slog.Default()), s, p
}

// doJSON runs a request with a JSON body through the handler and decodes the
// JSON response into out (when out is non-nil).
func doJSON(t *testing.T, h http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.NewHTTPHandler("secret", "")

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("WrongToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("HealthExempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestAdminMiddleware(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.NewHTTPHandler("", "admin-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/activity", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status without admin token = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/activity", nil)
	req.Header.Set("X-Admin-Token", "admin-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with admin token = %d, want 200", rec.Code)
	}
}

func TestCreateDeveloperApplication_ReturnsKey(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	var out struct {
		ID              string `json:"id"`
		Email           string `json:"email"`
		ConfirmationKey string `json:"confirmation_key"`
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/developer-applications", map[string]any{
		"email": "ada@example.com",
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The creation response is the only place the key is disclosed; it must
	// match what registration will look up.
	stored := s.devApps[out.ID]
	if stored == nil {
		t.Fatal("developer application not persisted")
	}
	if out.ConfirmationKey == "" || out.ConfirmationKey != stored.ConfirmationKey {
		t.Errorf("confirmation_key = %q, stored = %q", out.ConfirmationKey, stored.ConfirmationKey)
	}

	// Fetching the application elsewhere must not leak the key.
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte(stored.ConfirmationKey)) {
		t.Errorf("model serialization leaks the key: %s", data)
	}
}

func TestRegisterAccount_DeveloperRequiresKey(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	s.devApps["dev-1"] = &model.DeveloperApplication{
		ID: "dev-1", Email: "ada@example.com", ConfirmationKey: "key-valid",
	}

	register := func(key string) (*httptest.ResponseRecorder, map[string]any) {
		var out map[string]any
		rec := doJSON(t, h, http.MethodPost, "/v1/accounts", map[string]any{
			"username":         "ada",
			"email":            "ada@example.com",
			"type":             "developer",
			"password":         "hunter22",
			"confirmation_key": key,
		}, &out)
		return rec, out
	}

	t.Run("InvalidKey", func(t *testing.T) {
		rec, out := register("key-bogus")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if out["field"] != "key" {
			t.Errorf("error field = %v, want key", out["field"])
		}
	})

	t.Run("ValidKey", func(t *testing.T) {
		rec, out := register("key-valid")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %v", rec.Code, out)
		}
		if !s.devApps["dev-1"].Used {
			t.Error("confirmation key not consumed")
		}
	})

	t.Run("ReusedKey", func(t *testing.T) {
		rec, out := register("key-valid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if out["field"] != "key" {
			t.Errorf("error field = %v, want key", out["field"])
		}
	})
}

func TestRegisterAccount_ProjectOwnerNeedsNoKey(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	var out model.Account
	rec := doJSON(t, h, http.MethodPost, "/v1/accounts", map[string]any{
		"username": "olu",
		"email":    "olu@example.com",
		"type":     "project_owner",
		"password": "hunter22",
	}, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if out.Type != model.TypeProjectOwner {
		t.Errorf("Type = %s", out.Type)
	}
	stored := s.accounts[out.ID]
	if stored == nil {
		t.Fatal("account not persisted")
	}
	// The hash, never the password, is stored.
	if stored.PasswordHash == "hunter22" || stored.PasswordHash == "" {
		t.Errorf("PasswordHash = %q", stored.PasswordHash)
	}
	if got := s.lastActivity(); got == nil || got.Verb != "registered" {
		t.Errorf("lastActivity = %+v, want registered", got)
	}
}

func TestUpdateAccount_PasswordChangeVerifiesCurrent(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	s.accounts["usr-1"] = &model.Account{
		ID: "usr-1", Username: "ada", Email: "ada@example.com",
		Type: model.TypeDeveloper, PasswordHash: string(hash),
	}

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		var out map[string]any
		rec := doJSON(t, h, http.MethodPatch, "/v1/accounts/usr-1", map[string]any{
			"password":         "new-password",
			"current_password": "wrong",
		}, &out)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if out["field"] != "password" {
			t.Errorf("error field = %v, want password", out["field"])
		}
	})

	t.Run("CorrectCurrentPassword", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPatch, "/v1/accounts/usr-1", map[string]any{
			"password":         "new-password",
			"current_password": "old-password",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(s.accounts["usr-1"].PasswordHash), []byte("new-password")); err != nil {
			t.Error("stored hash does not match the new password")
		}
	})

	t.Run("PartialUpdateLeavesOtherFields", func(t *testing.T) {
		first := "Ada"
		rec := doJSON(t, h, http.MethodPatch, "/v1/accounts/usr-1", map[string]any{
			"first_name": first,
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		got := s.accounts["usr-1"]
		if got.FirstName != "Ada" || got.Email != "ada@example.com" {
			t.Errorf("account = %+v", got)
		}
	})
}

func TestRegisterAccount_Validation(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	for name, body := range map[string]map[string]any{
		"MissingUsername": {"email": "a@b.c", "type": "project_owner", "password": "x"},
		"MissingEmail":    {"username": "a", "type": "project_owner", "password": "x"},
		"MissingPassword": {"username": "a", "email": "a@b.c", "type": "project_owner"},
		"BadType":         {"username": "a", "email": "a@b.c", "type": "wizard", "password": "x"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/v1/accounts", body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateConnection_SelfRejected(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	rec := doJSON(t, h, http.MethodPost, "/v1/connections", map[string]any{
		"from_id": "usr-1", "to_id": "usr-1",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRespondConnection(t *testing.T) {
	srv, s, _ := newTestServer()
	h := srv.NewHTTPHandler("", "")

	s.connections["con-1"] = &model.Connection{ID: "con-1", FromID: "usr-1", ToID: "usr-2"}

	var out model.Connection
	rec := doJSON(t, h, http.MethodPost, "/v1/connections/con-1/respond", map[string]any{
		"accepted": true,
	}, &out)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !out.Responded || !out.Accepted || out.RespondedAt == nil {
		t.Errorf("connection = %+v", out)
	}
	if got := s.lastActivity(); got == nil || got.Verb != "responded" || got.Actor.ID != "usr-2" {
		t.Errorf("lastActivity = %+v", got)
	}
}
