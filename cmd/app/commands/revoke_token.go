package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
)

// RunRevokeToken revokes a token from the command line. The command acts
// with administrative authority: it revokes the token whoever owns it.
// Outputs the updated record in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	value string,
	message string,
	format string,
) error {
	logger.Info("revoking token")

	input := &tokenDomain.RevokeTokenInput{
		Value:      value,
		Message:    message,
		ActAsAdmin: true,
	}

	token, err := useCase.Revoke(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if format == "json" {
		outputTokenJSON(token, writer)
	} else {
		_, _ = fmt.Fprintln(writer, "\nToken revoked successfully!")
		outputTokenText(token, writer)
	}

	logger.Info("token revoked successfully",
		slog.String("token_id", token.ID.String()),
		slog.String("owner", token.Owner),
	)

	return nil
}
