// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
)

// MockDecisionUseCase is a mock implementation of DecisionUseCase for testing.
type MockDecisionUseCase struct {
	mock.Mock
}

// CheckUser mocks the CheckUser method of DecisionUseCase.
func (m *MockDecisionUseCase) CheckUser(
	ctx context.Context,
	requiredGroups []string,
	user string,
) (bool, error) {
	args := m.Called(ctx, requiredGroups, user)
	return args.Bool(0), args.Error(1)
}

// CheckToken mocks the CheckToken method of DecisionUseCase.
func (m *MockDecisionUseCase) CheckToken(
	ctx context.Context,
	requiredGroups []string,
	value string,
) (bool, error) {
	args := m.Called(ctx, requiredGroups, value)
	return args.Bool(0), args.Error(1)
}

// MockACLUseCase is a mock implementation of ACLUseCase for testing.
type MockACLUseCase struct {
	mock.Mock
}

// Authorize mocks the Authorize method of ACLUseCase.
func (m *MockACLUseCase) Authorize(
	ctx context.Context,
	pathPrefix string,
	verb authzDomain.Verb,
	user string,
) error {
	args := m.Called(ctx, pathPrefix, verb, user)
	return args.Error(0)
}
