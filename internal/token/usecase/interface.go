// Package usecase defines business logic interfaces for token lifecycle operations.
package usecase

import (
	"context"
	"time"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// TokenRepository defines persistence operations for bearer tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token. Returns ErrTokenValueExists if the value is
	// already present; the existing record must never be overwritten.
	Create(ctx context.Context, token *tokenDomain.Token) error

	// GetByValue retrieves a token by value. Returns ErrTokenNotFound if absent.
	GetByValue(ctx context.Context, value string) (*tokenDomain.Token, error)

	// ListByOwner retrieves all tokens owned by a user, including revoked ones.
	ListByOwner(ctx context.Context, owner string) ([]*tokenDomain.Token, error)

	// Revoke flips an active token to revoked, setting the revocation message
	// and timestamp. Returns the number of rows updated: 0 means the token was
	// absent or already revoked.
	Revoke(ctx context.Context, value string, message string, revokedAt time.Time) (int64, error)
}

// TokenUseCase defines the token lifecycle manager: it issues tokens with
// guaranteed-unique values, revokes them exactly once, and lists a user's
// full token history.
type TokenUseCase interface {
	// Create issues a new active token for the input's owner. The generated
	// value is retried on collision up to the configured budget; exhaustion
	// returns ErrValueGenerationExhausted.
	Create(ctx context.Context, input *tokenDomain.CreateTokenInput) (*tokenDomain.Token, error)

	// Revoke withdraws a token. Returns ErrTokenNotFound if the value is
	// unknown, ErrTokenNotOwned if the input owner doesn't match (and
	// ActAsAdmin is unset), and ErrTokenAlreadyRevoked on double revocation.
	Revoke(ctx context.Context, input *tokenDomain.RevokeTokenInput) (*tokenDomain.Token, error)

	// ListByOwner returns the owner's full token history, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*tokenDomain.Token, error)
}
