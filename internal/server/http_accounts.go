package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard/gigboard/internal/idgen"
	"github.com/gigboard/gigboard/internal/model"
	"github.com/gigboard/gigboard/internal/store"
)

// handleCreateDeveloperApplication handles POST /v1/developer-applications.
// A developer application is the pre-registration step: staff review it
// offline and hand out the confirmation key that unlocks registration.
func (s *Server) handleCreateDeveloperApplication(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Country     string `json:"country"`
		City        string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	id, err := idgen.Generate(idgen.PrefixDeveloperApplication)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}
	key, err := idgen.Generate(idgen.PrefixConfirmationKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate confirmation key")
		return
	}

	app := &model.DeveloperApplication{
		ID:              id,
		Email:           in.Email,
		ConfirmationKey: key,
		PhoneNumber:     in.PhoneNumber,
		Country:         in.Country,
		City:            in.City,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.CreateDeveloperApplication(r.Context(), app); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create developer application")
		return
	}

	// The key is disclosed once, here; the model hides it from JSON
	// everywhere else.
	writeJSON(w, http.StatusCreated, struct {
		*model.DeveloperApplication
		ConfirmationKey string `json:"confirmation_key"`
	}{app, app.ConfirmationKey})
}

// registerAccountInput holds parameters for registering an account.
type registerAccountInput struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Type            string   `json:"type"`
	Password        string   `json:"password"`
	Skills          []string `json:"skills"`
	ConfirmationKey string   `json:"confirmation_key"`
}

// handleRegisterAccount handles POST /v1/accounts. Developer registration
// requires a valid, unused confirmation key; consuming the key and creating
// the account happen in one transaction so a failure leaves the key usable.
func (s *Server) handleRegisterAccount(w http.ResponseWriter, r *http.Request) {
	var in registerAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if in.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if in.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if in.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	accountType := model.AccountType(in.Type)
	if !accountType.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown account type "+in.Type)
		return
	}

	var devApp *model.DeveloperApplication
	if accountType == model.TypeDeveloper {
		app, err := s.store.GetDeveloperApplicationByKey(r.Context(), in.ConfirmationKey)
		if errors.Is(err, store.ErrNotFound) {
			writeFieldError(w, http.StatusBadRequest, "key", "invalid confirmation key")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to look up confirmation key")
			return
		}
		if app.Used {
			writeFieldError(w, http.StatusBadRequest, "key", "confirmation key already used")
			return
		}
		devApp = app
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	id, err := idgen.Generate(idgen.PrefixAccount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Type:         accountType,
		PasswordHash: string(hash),
		Skills:       in.Skills,
		CreatedAt:    now,
	}

	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		if devApp != nil {
			if err := tx.MarkDeveloperApplicationUsed(r.Context(), devApp.ID, now); err != nil {
				return err
			}
		}
		return tx.CreateAccount(r.Context(), account)
	})
	if errors.Is(err, store.ErrNotFound) {
		// Lost the race for the key.
		writeFieldError(w, http.StatusBadRequest, "key", "confirmation key already used")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:     model.EntityRef{Kind: model.KindAccount, ID: account.ID},
		Verb:      "registered",
		CreatedAt: now,
	})

	writeJSON(w, http.StatusCreated, account)
}

// handleGetAccount handles GET /v1/accounts/{id}.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.GetAccount(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get account")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleListAccounts handles GET /v1/accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.AccountFilter{
		Type:        model.AccountType(q.Get("type")),
		ConnectedTo: q.Get("connected_to"),
		Skill:       q.Get("skill"),
		Search:      q.Get("search"),
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

	accounts, err := s.store.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

// updateAccountInput holds parameters for updating account info. Pointer
// fields distinguish "leave unchanged" from "set to empty".
type updateAccountInput struct {
	Email           *string   `json:"email"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	Skills          *[]string `json:"skills"`
	Password        *string   `json:"password"`
	CurrentPassword string    `json:"current_password"`
}

// handleUpdateAccountInfo handles PATCH /v1/accounts/{id}. Changing the
// password requires proving knowledge of the current one.
func (s *Server) handleUpdateAccountInfo(w http.ResponseWriter, r *http.Request) {
	var in updateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account, err := s.store.GetAccount(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get account")
		return
	}

	if in.Email != nil {
		account.Email = *in.Email
	}
	if in.FirstName != nil {
		account.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
	}
	if in.Skills != nil {
		account.Skills = *in.Skills
	}
	if in.Password != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			writeFieldError(w, http.StatusBadRequest, "password", "current password is incorrect")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		account.PasswordHash = string(hash)
	}

	if err := s.store.UpdateAccountInfo(r.Context(), account); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor: model.EntityRef{Kind: model.KindAccount, ID: account.ID},
		Verb:  "updated",
	})

	writeJSON(w, http.StatusOK, account)
}

// handleCreateConnection handles POST /v1/connections.
func (s *Server) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FromID string `json:"from_id"`
		ToID   string `json:"to_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.FromID == "" || in.ToID == "" {
		writeError(w, http.StatusBadRequest, "from_id and to_id are required")
		return
	}
	if in.FromID == in.ToID {
		writeError(w, http.StatusBadRequest, "cannot connect an account to itself")
		return
	}

	id, err := idgen.Generate(idgen.PrefixConnection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	conn := &model.Connection{
		ID:        id,
		FromID:    in.FromID,
		ToID:      in.ToID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateConnection(r.Context(), conn); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create connection")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: conn.FromID},
		Verb:   "requested",
		Object: model.EntityRef{Kind: model.KindConnection, ID: conn.ID},
		Target: model.EntityRef{Kind: model.KindAccount, ID: conn.ToID},
	})

	writeJSON(w, http.StatusCreated, conn)
}

// handleGetConnection handles GET /v1/connections/{id}.
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.store.GetConnection(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// handleRespondConnection handles POST /v1/connections/{id}/respond.
func (s *Server) handleRespondConnection(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Accepted bool `json:"accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := r.PathValue("id")
	now := time.Now().UTC()
	err := s.store.RespondConnection(r.Context(), id, in.Accepted, now)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to respond to connection")
		return
	}

	conn, err := s.store.GetConnection(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}

	s.recordAndPublish(r.Context(), "", nil, &model.Activity{
		Actor:  model.EntityRef{Kind: model.KindAccount, ID: conn.ToID},
		Verb:   "responded",
		Object: model.EntityRef{Kind: model.KindConnection, ID: conn.ID},
	})

	writeJSON(w, http.StatusOK, conn)
}
