// Package domain defines the bearer token domain model.
// A token is an opaque credential bound to one owning user, with a two-state
// lifecycle: it is created active and may be revoked exactly once.
package domain

// Status is the lifecycle state of a token.
// The transition is monotone: ActiveStatus -> RevokedStatus, never reversed.
type Status string

const (
	// ActiveStatus marks a token that can satisfy authorization checks.
	ActiveStatus Status = "active"

	// RevokedStatus marks a token that has been withdrawn. Revoked tokens are
	// kept for audit history and fail every authorization check.
	RevokedStatus Status = "revoked"
)

// ValueLength is the length of generated token values.
const ValueLength = 32
