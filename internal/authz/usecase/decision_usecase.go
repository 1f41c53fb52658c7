// Package usecase implements the authorization decision engine and the
// access-control rule evaluator.
package usecase

import (
	"context"
	"errors"

	"github.com/allisson/gatekeeper/internal/groups"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// decisionUseCase implements DecisionUseCase.
type decisionUseCase struct {
	tokenReader TokenReader
	resolver    groups.Resolver
}

// CheckUser reports whether the user's current directory groups contain every
// required group. Membership is fetched fresh from the resolver on every call;
// resolver failures propagate so the boundary can distinguish "no" from
// "couldn't decide".
func (d *decisionUseCase) CheckUser(
	ctx context.Context,
	requiredGroups []string,
	user string,
) (bool, error) {
	actual, err := d.resolver.Resolve(ctx, user)
	if err != nil {
		return false, err
	}

	actualSet := make(map[string]struct{}, len(actual))
	for _, g := range actual {
		actualSet[g] = struct{}{}
	}

	for _, required := range requiredGroups {
		if _, ok := actualSet[required]; !ok {
			return false, nil
		}
	}

	return true, nil
}

// CheckToken resolves a token to its owner's current group standing.
//
// A token that doesn't exist, or whose status isn't active, answers false
// without error: an invalid token is an authorization "no", not a system
// failure, and collapsing "never existed" with "revoked" avoids leaking token
// existence. The short-circuit applies before the group check, so a revoked
// token fails even an empty requirement.
//
// Possession is a proxy for the owner's current standing, re-evaluated on
// every check: externally removing a group membership immediately narrows
// what all of that user's tokens can authorize.
func (d *decisionUseCase) CheckToken(
	ctx context.Context,
	requiredGroups []string,
	value string,
) (bool, error) {
	token, err := d.tokenReader.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, tokenDomain.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}

	if !token.IsActive() {
		return false, nil
	}

	return d.CheckUser(ctx, requiredGroups, token.Owner)
}

// NewDecisionUseCase creates the decision engine with its dependencies.
func NewDecisionUseCase(tokenReader TokenReader, resolver groups.Resolver) DecisionUseCase {
	return &decisionUseCase{
		tokenReader: tokenReader,
		resolver:    resolver,
	}
}
