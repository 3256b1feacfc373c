package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time
	Actor          string // "public" for form submissions, admin subject otherwise
	Action         string
	RegistrationID int64
	Device         string // human-readable client description
	Reason         string
}

// Audit event actions
const (
	ActionSubmissionReceived  = "submission_received"
	ActionRegistrationUpdated = "registration_updated"
	ActionRegistrationDeleted = "registration_deleted"
	ActionAdminLogin          = "admin_login"
	ActionAdminLoginFailed    = "admin_login_failed"
)

// ActorPublic identifies unauthenticated form submitters.
const ActorPublic = "public"
