package usecase

import (
	"context"
	"errors"
	"time"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// decisionUseCaseWithMetrics decorates DecisionUseCase with metrics instrumentation.
type decisionUseCaseWithMetrics struct {
	next    DecisionUseCase
	metrics metrics.BusinessMetrics
}

// NewDecisionUseCaseWithMetrics wraps a DecisionUseCase with metrics recording.
func NewDecisionUseCaseWithMetrics(useCase DecisionUseCase, m metrics.BusinessMetrics) DecisionUseCase {
	return &decisionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CheckUser records metrics for user membership checks. A "no" answer is a
// success: only engine failures count as errors.
func (d *decisionUseCaseWithMetrics) CheckUser(
	ctx context.Context,
	requiredGroups []string,
	user string,
) (bool, error) {
	start := time.Now()
	ok, err := d.next.CheckUser(ctx, requiredGroups, user)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "authz", "check_user", status)
	d.metrics.RecordDuration(ctx, "authz", "check_user", time.Since(start), status)

	return ok, err
}

// CheckToken records metrics for token checks.
func (d *decisionUseCaseWithMetrics) CheckToken(
	ctx context.Context,
	requiredGroups []string,
	value string,
) (bool, error) {
	start := time.Now()
	ok, err := d.next.CheckToken(ctx, requiredGroups, value)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "authz", "check_token", status)
	d.metrics.RecordDuration(ctx, "authz", "check_token", time.Since(start), status)

	return ok, err
}

// aclUseCaseWithMetrics decorates ACLUseCase with metrics instrumentation.
type aclUseCaseWithMetrics struct {
	next    ACLUseCase
	metrics metrics.BusinessMetrics
}

// NewACLUseCaseWithMetrics wraps an ACLUseCase with metrics recording.
func NewACLUseCaseWithMetrics(useCase ACLUseCase, m metrics.BusinessMetrics) ACLUseCase {
	return &aclUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authorize records metrics for access-control evaluations. Denials count as
// "denied" rather than "error" so dashboards can tell misbehaving callers
// from a broken evaluator.
func (a *aclUseCaseWithMetrics) Authorize(
	ctx context.Context,
	pathPrefix string,
	verb authzDomain.Verb,
	user string,
) error {
	start := time.Now()
	err := a.next.Authorize(ctx, pathPrefix, verb, user)

	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, authzDomain.ErrAccessDenied):
		status = "denied"
	default:
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "authz", "authorize", status)
	a.metrics.RecordDuration(ctx, "authz", "authorize", time.Since(start), status)

	return err
}
