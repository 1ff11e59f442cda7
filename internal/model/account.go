package model

import "time"

// AccountType distinguishes the two sides of the marketplace.
type AccountType string

const (
	TypeDeveloper    AccountType = "developer"
	TypeProjectOwner AccountType = "project_owner"
)

// String returns the string representation of the account type.
func (t AccountType) String() string {
	return string(t)
}

// IsValid checks whether the account type is a known value.
func (t AccountType) IsValid() bool {
	switch t {
	case TypeDeveloper, TypeProjectOwner:
		return true
	}
	return false
}

// Account is a registered user of the platform.
type Account struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Type         AccountType `json:"type"`
	Staff        bool        `json:"staff,omitempty"`
	PasswordHash string      `json:"-"`
	// Skills is the profile skill set, used for task matching.
	Skills    []string  `json:"skills,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns "First Last", falling back to the username.
func (a *Account) DisplayName() string {
	if a.FirstName == "" && a.LastName == "" {
		return a.Username
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// DeveloperApplication is a pre-registration record for developers.
// Registration as a developer requires a valid, unused confirmation key.
type DeveloperApplication struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	ConfirmationKey string     `json:"-"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	Country         string     `json:"country,omitempty"`
	City            string     `json:"city,omitempty"`
	Used            bool       `json:"used"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Connection is a (possibly pending) link between two accounts.
// An accepted connection is symmetric: either endpoint counts as
// "connected" for team-visibility targeting.
type Connection struct {
	ID          string     `json:"id"`
	FromID      string     `json:"from_id"`
	ToID        string     `json:"to_id"`
	Responded   bool       `json:"responded"`
	Accepted    bool       `json:"accepted"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
