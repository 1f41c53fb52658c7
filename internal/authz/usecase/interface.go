// Package usecase defines business logic interfaces for authorization decisions.
package usecase

import (
	"context"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// TokenReader is the read-only slice of the token repository the decision
// engine needs. Lookups never block writers.
type TokenReader interface {
	// GetByValue retrieves a token by value. Returns ErrTokenNotFound if absent.
	GetByValue(ctx context.Context, value string) (*tokenDomain.Token, error)
}

// DecisionUseCase is the authorization decision engine: it answers whether a
// user, or the owner of a presented token, currently satisfies a required set
// of group memberships. Decisions are pure functions of current state; nothing
// is cached across requests.
type DecisionUseCase interface {
	// CheckUser reports whether the user's directory groups are a superset of
	// requiredGroups. An empty requiredGroups is trivially satisfied.
	CheckUser(ctx context.Context, requiredGroups []string, user string) (bool, error)

	// CheckToken reports whether the token's owner satisfies requiredGroups.
	// Unknown and revoked tokens both answer false, never an error; callers
	// cannot distinguish the two cases.
	CheckToken(ctx context.Context, requiredGroups []string, value string) (bool, error)
}

// ACLUseCase is the access-control rule evaluator guarding administrative
// entry points. It has no side effects beyond the allow/deny decision.
type ACLUseCase interface {
	// Authorize decides whether user may perform verb on the resource at
	// pathPrefix. nil means allow. ErrAccessDenied is a normal denial;
	// ErrRuleNotFound means the route has no configured rule and the caller
	// must fail closed and report a server misconfiguration.
	Authorize(ctx context.Context, pathPrefix string, verb authzDomain.Verb, user string) error
}
