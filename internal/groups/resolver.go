// Package groups provides access to the external group directory: the service
// that knows which groups a user belongs to. Membership is ground truth for
// every authorization decision and is fetched fresh per request, never cached.
package groups

import (
	"context"
	"encoding/json"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// Resolver resolves a user identifier to the set of groups the user belongs to.
// An unknown user resolves to an empty set, not an error: absence of membership
// is a normal answer and authorization fails closed on it.
type Resolver interface {
	Resolve(ctx context.Context, user string) ([]string, error)
}

// StaticResolver serves memberships from a fixed in-memory map.
// Intended for development and tests.
type StaticResolver struct {
	memberships map[string][]string
}

// NewStaticResolver creates a resolver over a fixed user -> groups map.
func NewStaticResolver(memberships map[string][]string) *StaticResolver {
	return &StaticResolver{memberships: memberships}
}

// NewStaticResolverFromJSON creates a static resolver from a JSON object
// mapping user identifiers to group lists (the GROUPS_STATIC config format).
func NewStaticResolverFromJSON(data string) (*StaticResolver, error) {
	memberships := make(map[string][]string)
	if err := json.Unmarshal([]byte(data), &memberships); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse static group memberships")
	}
	return NewStaticResolver(memberships), nil
}

// Resolve returns the groups for a user, or an empty set for unknown users.
func (s *StaticResolver) Resolve(_ context.Context, user string) ([]string, error) {
	groups, ok := s.memberships[user]
	if !ok {
		return []string{}, nil
	}
	// Copy so callers can't mutate the fixture.
	out := make([]string, len(groups))
	copy(out, groups)
	return out, nil
}
