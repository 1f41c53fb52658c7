package usecase

import (
	"context"
	"time"

	"github.com/allisson/gatekeeper/internal/metrics"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for token creation operations.
func (t *tokenUseCaseWithMetrics) Create(
	ctx context.Context,
	input *tokenDomain.CreateTokenInput,
) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_create", status)
	t.metrics.RecordDuration(ctx, "token", "token_create", time.Since(start), status)

	return token, err
}

// Revoke records metrics for token revocation operations.
func (t *tokenUseCaseWithMetrics) Revoke(
	ctx context.Context,
	input *tokenDomain.RevokeTokenInput,
) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Revoke(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_revoke", status)
	t.metrics.RecordDuration(ctx, "token", "token_revoke", time.Since(start), status)

	return token, err
}

// ListByOwner records metrics for token list operations.
func (t *tokenUseCaseWithMetrics) ListByOwner(
	ctx context.Context,
	owner string,
) ([]*tokenDomain.Token, error) {
	start := time.Now()
	tokens, err := t.next.ListByOwner(ctx, owner)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_list", status)
	t.metrics.RecordDuration(ctx, "token", "token_list", time.Since(start), status)

	return tokens, err
}
