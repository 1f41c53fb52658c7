// Package service provides token value generation.
package service

// ValueService generates opaque token values.
type ValueService interface {
	// GenerateValue creates a new cryptographically random token value.
	GenerateValue() (string, error)
}
