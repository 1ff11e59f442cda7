package model

import "time"

// AccountFilter holds criteria for querying accounts.
type AccountFilter struct {
	Type AccountType `json:"type,omitempty"`
	// ConnectedTo restricts results to accounts with an accepted connection
	// to the given account, in either direction.
	ConnectedTo string `json:"connected_to,omitempty"`
	Skill       string `json:"skill,omitempty"`
	Search      string `json:"search,omitempty"` // substring match on username/name/email
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// TaskFilter holds criteria for querying tasks.
type TaskFilter struct {
	OwnerID string       `json:"owner_id,omitempty"`
	Closed  *bool        `json:"closed,omitempty"`
	Skills  []string     `json:"skills,omitempty"`
	Visibility []Visibility `json:"visibility,omitempty"`
	Search  string       `json:"search,omitempty"` // full-text search on title/description
	Sort    string       `json:"sort,omitempty"`   // e.g. "-created_at"; prefix "-" = descending
	Limit   int          `json:"limit,omitempty"`
	Offset  int          `json:"offset,omitempty"`
}

// ActivityFilter holds criteria for querying the activity feed.
type ActivityFilter struct {
	Verb       string     `json:"verb,omitempty"`
	ActorKind  EntityKind `json:"actor_kind,omitempty"`
	ActorID    string     `json:"actor_id,omitempty"`
	ObjectKind EntityKind `json:"object_kind,omitempty"`
	ObjectID   string     `json:"object_id,omitempty"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
