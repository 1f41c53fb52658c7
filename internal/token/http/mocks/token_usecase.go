// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Create mocks the Create method of TokenUseCase.
func (m *MockTokenUseCase) Create(
	ctx context.Context,
	input *tokenDomain.CreateTokenInput,
) (*tokenDomain.Token, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method of TokenUseCase.
func (m *MockTokenUseCase) Revoke(
	ctx context.Context,
	input *tokenDomain.RevokeTokenInput,
) (*tokenDomain.Token, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Token), args.Error(1)
}

// ListByOwner mocks the ListByOwner method of TokenUseCase.
func (m *MockTokenUseCase) ListByOwner(
	ctx context.Context,
	owner string,
) ([]*tokenDomain.Token, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tokenDomain.Token), args.Error(1)
}
