package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Access-control errors.
var (
	// ErrRuleNotFound indicates no access rule is configured for a protected
	// (path prefix, verb) pair. This is a server misconfiguration and the
	// evaluator fails closed on it; it is distinct from a normal denial.
	ErrRuleNotFound = errors.Wrap(errors.ErrMisconfiguration, "no access rule for path and verb")

	// ErrAccessDenied indicates the caller's groups don't include the group
	// the matched rule requires.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "caller lacks required group")
)
