package model

import "time"

// EntityKind identifies one member of the closed set of entity kinds that can
// appear in an activity record. The values are the UpperCamelCase kind names
// used on the wire; feed consumers receive the snake_case form derived from
// them, so these literals must not change.
type EntityKind string

const (
	KindAccount             EntityKind = "Account"
	KindComment             EntityKind = "Comment"
	KindConnection          EntityKind = "Connection"
	KindTask                EntityKind = "Task"
	KindApplication         EntityKind = "Application"
	KindParticipation       EntityKind = "Participation"
	KindTaskRequest         EntityKind = "TaskRequest"
	KindProgressEvent       EntityKind = "ProgressEvent"
	KindProgressReport      EntityKind = "ProgressReport"
	KindIntegration         EntityKind = "Integration"
	KindIntegrationActivity EntityKind = "IntegrationActivity"
)

// String returns the string representation of the entity kind.
func (k EntityKind) String() string {
	return string(k)
}

// IsValid checks whether the kind is a member of the closed set.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindAccount, KindComment, KindConnection, KindTask, KindApplication,
		KindParticipation, KindTaskRequest, KindProgressEvent, KindProgressReport,
		KindIntegration, KindIntegrationActivity:
		return true
	}
	return false
}

// EntityRef is a polymorphic (kind, id) reference to a single entity.
// The zero value means "absent".
type EntityRef struct {
	Kind EntityKind `json:"kind,omitempty"`
	ID   string     `json:"id,omitempty"`
}

// IsZero reports whether the reference is absent.
func (r EntityRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Activity is an immutable feed entry: actor performed verb on an optional
// object, optionally toward a target. Records are created by mutation
// handlers and never updated or deleted here.
type Activity struct {
	ID        int64     `json:"id"`
	Actor     EntityRef `json:"actor"`
	Verb      string    `json:"verb"`
	Object    EntityRef `json:"object,omitzero"`
	Target    EntityRef `json:"target,omitzero"`
	CreatedAt time.Time `json:"created_at"`
}
