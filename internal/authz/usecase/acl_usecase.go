package usecase

import (
	"context"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	"github.com/allisson/gatekeeper/internal/groups"
)

// aclUseCase implements ACLUseCase over an immutable rule set.
type aclUseCase struct {
	ruleSet  *authzDomain.RuleSet
	resolver groups.Resolver
}

// Authorize decides whether user may perform verb on the resource at pathPrefix.
//
// A missing rule is a configuration fault, not a denial: the evaluator fails
// closed with ErrRuleNotFound so the boundary reports a server error instead
// of a 403. Membership is resolved fresh; the required group must be present
// in the caller's set. The method mutates nothing.
func (a *aclUseCase) Authorize(
	ctx context.Context,
	pathPrefix string,
	verb authzDomain.Verb,
	user string,
) error {
	rule, err := a.ruleSet.Lookup(pathPrefix, verb)
	if err != nil {
		return err
	}

	actual, err := a.resolver.Resolve(ctx, user)
	if err != nil {
		return err
	}

	for _, g := range actual {
		if g == rule.RequiredGroup {
			return nil
		}
	}

	return authzDomain.ErrAccessDenied
}

// NewACLUseCase creates the access-control evaluator over an immutable rule set.
func NewACLUseCase(ruleSet *authzDomain.RuleSet, resolver groups.Resolver) ACLUseCase {
	return &aclUseCase{
		ruleSet:  ruleSet,
		resolver: resolver,
	}
}
