package audit

import "time"

// Event is an immutable, append-only record of an access decision worth
// keeping: every denial, and every environment bypass (the latter so
// non-production allow-alls stay visible).
//
// Invariants:
// - Events are never updated or deleted.
// - Capture is best-effort; the request path never blocks on audit.
//
// Storage recommendation (Postgres):
// - Table access_events with an INSERT-only policy.
// - Optional: partition by time for retention.
type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the decision category of the record.
	Type EventType `json:"type" db:"type"`

	// Source names the entry surface the credential arrived on.
	Source string `json:"source,omitempty" db:"source"`

	// User is the caller identity from the token, when one was decoded.
	User string `json:"user,omitempty" db:"caller"`
	// CallerType may be employee, client, account or distributor.
	CallerType string `json:"caller_type,omitempty" db:"caller_type"`

	Path   string `json:"path" db:"path"`
	Method string `json:"method" db:"method"`

	// Reason is the server-side cause. It is richer than anything the
	// caller sees; denial responses stay opaque.
	Reason string `json:"reason,omitempty" db:"reason"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeAccessDenied EventType = "access_denied"
	EventTypeEnvBypass    EventType = "env_bypass"
)
