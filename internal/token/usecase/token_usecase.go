// Package usecase implements business logic orchestration for token lifecycle operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/database"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	tokenService "github.com/allisson/gatekeeper/internal/token/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config       *config.Config
	txManager    database.TxManager
	tokenRepo    TokenRepository
	valueService tokenService.ValueService
}

// Create issues a new token bound to the input's owner.
//
// This method:
// 1. Generates a cryptographically random 32-character value
// 2. Attempts the insert; the database's unique index is the arbiter of uniqueness
// 3. On a value collision, regenerates and retries up to the configured budget
//
// A collision with ~190 bits of entropy means the randomness source is broken,
// so retry exhaustion is surfaced as ErrValueGenerationExhausted rather than
// swallowed. Context cancellation aborts the loop between attempts.
func (t *tokenUseCase) Create(
	ctx context.Context,
	input *tokenDomain.CreateTokenInput,
) (*tokenDomain.Token, error) {
	maxAttempts := t.config.TokenCreateMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := t.valueService.GenerateValue()
		if err != nil {
			return nil, err
		}

		token := &tokenDomain.Token{
			ID:              uuid.Must(uuid.NewV7()),
			Value:           value,
			Owner:           input.Owner,
			Status:          tokenDomain.ActiveStatus,
			CreationMessage: input.Message,
			CreatedAt:       time.Now().UTC(),
		}

		err = t.tokenRepo.Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, tokenDomain.ErrTokenValueExists) {
			continue
		}
		return nil, err
	}

	return nil, tokenDomain.ErrValueGenerationExhausted
}

// Revoke withdraws a token on behalf of the input's owner.
//
// The lookup and the status flip run inside a transaction, and the repository
// UPDATE is restricted to active tokens, so concurrent revokes of the same
// token cannot both succeed and a cancelled request leaves no partial update.
//
// Ownership: the input owner must match the token's owner. ActAsAdmin skips
// the match; the HTTP boundary only sets it after the access-control evaluator
// has allowed the administrative action.
func (t *tokenUseCase) Revoke(
	ctx context.Context,
	input *tokenDomain.RevokeTokenInput,
) (*tokenDomain.Token, error) {
	var revoked *tokenDomain.Token

	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		token, err := t.tokenRepo.GetByValue(ctx, input.Value)
		if err != nil {
			return err
		}

		if token.Owner != input.Owner && !input.ActAsAdmin {
			return tokenDomain.ErrTokenNotOwned
		}

		if token.Status == tokenDomain.RevokedStatus {
			return tokenDomain.ErrTokenAlreadyRevoked
		}

		revokedAt := time.Now().UTC()
		affected, err := t.tokenRepo.Revoke(ctx, input.Value, input.Message, revokedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Lost a race with a concurrent revoke of the same token.
			return tokenDomain.ErrTokenAlreadyRevoked
		}

		token.Status = tokenDomain.RevokedStatus
		token.RevocationMessage = &input.Message
		token.RevokedAt = &revokedAt
		revoked = token
		return nil
	})
	if err != nil {
		return nil, err
	}

	return revoked, nil
}

// ListByOwner returns the owner's full token history, newest first,
// including revoked entries.
func (t *tokenUseCase) ListByOwner(ctx context.Context, owner string) ([]*tokenDomain.Token, error) {
	return t.tokenRepo.ListByOwner(ctx, owner)
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	valueService tokenService.ValueService,
) TokenUseCase {
	return &tokenUseCase{
		config:       cfg,
		txManager:    txManager,
		tokenRepo:    tokenRepo,
		valueService: valueService,
	}
}
