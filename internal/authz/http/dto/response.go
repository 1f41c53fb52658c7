// Package dto provides data transfer objects for HTTP request and response handling.
package dto

// CheckResponse contains the result of an authorization check.
// A false answer carries no detail: callers cannot tell an unknown token
// from a revoked one or a missing group membership.
type CheckResponse struct {
	OK bool `json:"ok"`
}
