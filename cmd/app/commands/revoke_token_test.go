package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	tokenMocks "github.com/allisson/gatekeeper/internal/token/http/mocks"
)

func TestRunRevokeToken(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	tokenValue := "qF3qyhPxEJWmGpGUASGXJeAQvxf2Ub0z"

	revokedToken := func() *tokenDomain.Token {
		revokedAt := time.Now().UTC()
		revocationMessage := "Revoked via command line interface"
		return &tokenDomain.Token{
			ID:                uuid.New(),
			Value:             tokenValue,
			Owner:             "alice",
			Status:            tokenDomain.RevokedStatus,
			CreationMessage:   "Created by owner via web interface",
			RevocationMessage: &revocationMessage,
			CreatedAt:         revokedAt.Add(-time.Hour),
			RevokedAt:         &revokedAt,
		}
	}

	t.Run("text", func(t *testing.T) {
		mockUseCase := &tokenMocks.MockTokenUseCase{}
		input := &tokenDomain.RevokeTokenInput{
			Value:      tokenValue,
			Message:    "Revoked via command line interface",
			ActAsAdmin: true,
		}
		token := revokedToken()

		mockUseCase.On("Revoke", ctx, input).Return(token, nil)

		var out bytes.Buffer
		err := RunRevokeToken(
			ctx,
			mockUseCase,
			logger,
			&out,
			tokenValue,
			"Revoked via command line interface",
			"text",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Token revoked successfully!")
		require.Contains(t, out.String(), token.ID.String())
		require.Contains(t, out.String(), "revoked")
		require.Contains(t, out.String(), "Revocation message: Revoked via command line interface")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &tokenMocks.MockTokenUseCase{}
		input := &tokenDomain.RevokeTokenInput{
			Value:      tokenValue,
			Message:    "Revoked via command line interface",
			ActAsAdmin: true,
		}
		token := revokedToken()

		mockUseCase.On("Revoke", ctx, input).Return(token, nil)

		var out bytes.Buffer
		err := RunRevokeToken(
			ctx,
			mockUseCase,
			logger,
			&out,
			tokenValue,
			"Revoked via command line interface",
			"json",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"status": "revoked"`)
		require.Contains(t, out.String(), `"revocation_message": "Revoked via command line interface"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("token-not-found", func(t *testing.T) {
		mockUseCase := &tokenMocks.MockTokenUseCase{}
		input := &tokenDomain.RevokeTokenInput{
			Value:      tokenValue,
			Message:    "Revoked via command line interface",
			ActAsAdmin: true,
		}

		mockUseCase.On("Revoke", ctx, input).Return(nil, tokenDomain.ErrTokenNotFound)

		var out bytes.Buffer
		err := RunRevokeToken(
			ctx,
			mockUseCase,
			logger,
			&out,
			tokenValue,
			"Revoked via command line interface",
			"text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to revoke token")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("already-revoked", func(t *testing.T) {
		mockUseCase := &tokenMocks.MockTokenUseCase{}
		input := &tokenDomain.RevokeTokenInput{
			Value:      tokenValue,
			Message:    "Revoked via command line interface",
			ActAsAdmin: true,
		}

		mockUseCase.On("Revoke", ctx, input).Return(nil, tokenDomain.ErrTokenAlreadyRevoked)

		var out bytes.Buffer
		err := RunRevokeToken(
			ctx,
			mockUseCase,
			logger,
			&out,
			tokenValue,
			"Revoked via command line interface",
			"text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to revoke token")
		mockUseCase.AssertExpectations(t)
	})
}
