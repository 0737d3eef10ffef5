package domain

import "time"

// ActivityAction names an auditable auth event.
type ActivityAction string

const (
	ActionLogin           ActivityAction = "login"
	ActionLogout          ActivityAction = "logout"
	ActionRegister        ActivityAction = "register"
	ActionRoleFix         ActivityAction = "role_fix"
	ActionSessionRepaired ActivityAction = "session_repaired"
	ActionSessionTeardown ActivityAction = "session_teardown"
)

// ActivityEvent is written to the audit trail after an auth operation.
type ActivityEvent struct {
	Username string         `json:"username" bson:"username"`
	ClientID string         `json:"client_id" bson:"client_id"`
	Action   ActivityAction `json:"action" bson:"action"`
	Detail   string         `json:"detail,omitempty" bson:"detail,omitempty"`
	At       time.Time      `json:"at" bson:"at"`
}

// Notification is a user-visible message attached to an operation result.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
