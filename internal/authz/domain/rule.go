package domain

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// AccessRule maps a resource path prefix and action verb to the group a
// caller must belong to. Rules are looked up by exact (PathPrefix, Verb)
// pair; evaluation never combines multiple rules.
type AccessRule struct {
	PathPrefix    string `json:"path_prefix"`
	Verb          Verb   `json:"verb"`
	RequiredGroup string `json:"required_group"`
}

// ruleKey is the exact-match lookup key for a rule.
type ruleKey struct {
	pathPrefix string
	verb       Verb
}

// RuleSet is an immutable collection of access rules, built once at startup.
// It replaces any ambient mutable permission table: evaluators receive the
// set explicitly at construction.
type RuleSet struct {
	rules map[ruleKey]AccessRule
}

// NewRuleSet builds a rule set from a slice of rules. Rules with an invalid
// verb, an empty path prefix, an empty required group, or a duplicate
// (path prefix, verb) pair are rejected.
func NewRuleSet(rules []AccessRule) (*RuleSet, error) {
	indexed := make(map[ruleKey]AccessRule, len(rules))
	for _, rule := range rules {
		if rule.PathPrefix == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "access rule with empty path prefix")
		}
		if !rule.Verb.IsValid() {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("access rule with unknown verb %q", rule.Verb),
			)
		}
		if rule.RequiredGroup == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "access rule with empty required group")
		}

		key := ruleKey{pathPrefix: rule.PathPrefix, verb: rule.Verb}
		if _, exists := indexed[key]; exists {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("duplicate access rule for %s %s", rule.PathPrefix, rule.Verb),
			)
		}
		indexed[key] = rule
	}

	return &RuleSet{rules: indexed}, nil
}

// ParseRuleSet builds a rule set from the JSON array format used in
// configuration (ACCESS_RULES).
func ParseRuleSet(data string) (*RuleSet, error) {
	var rules []AccessRule
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse access rules")
	}
	return NewRuleSet(rules)
}

// Lookup returns the rule for an exact (path prefix, verb) pair.
// Returns ErrRuleNotFound if no rule is configured: the caller fails closed.
func (r *RuleSet) Lookup(pathPrefix string, verb Verb) (AccessRule, error) {
	rule, ok := r.rules[ruleKey{pathPrefix: pathPrefix, verb: verb}]
	if !ok {
		return AccessRule{}, ErrRuleNotFound
	}
	return rule, nil
}

// Len returns the number of configured rules.
func (r *RuleSet) Len() int {
	return len(r.rules)
}
