package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer credential owned by a single user. The Value is the
// opaque string presented by callers; it is globally unique across all tokens
// ever issued. Records are never deleted, revocation only flips the status.
type Token struct {
	ID                uuid.UUID
	Value             string
	Owner             string
	Status            Status
	CreationMessage   string
	RevocationMessage *string
	CreatedAt         time.Time
	RevokedAt         *time.Time
}

// IsActive reports whether the token can still satisfy authorization checks.
func (t *Token) IsActive() bool {
	return t.Status == ActiveStatus
}
