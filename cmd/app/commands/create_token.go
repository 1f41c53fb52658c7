package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	"github.com/allisson/gatekeeper/internal/token/http/dto"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
)

// RunCreateToken issues a new token for a user from the command line.
// Outputs the full token record in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateToken(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	owner string,
	message string,
	format string,
) error {
	logger.Info("creating token", slog.String("owner", owner))

	input := &tokenDomain.CreateTokenInput{
		Owner:   owner,
		Message: message,
	}

	token, err := useCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	if format == "json" {
		outputTokenJSON(token, writer)
	} else {
		_, _ = fmt.Fprintln(writer, "\nToken created successfully!")
		outputTokenText(token, writer)
	}

	logger.Info("token created successfully",
		slog.String("token_id", token.ID.String()),
		slog.String("owner", owner),
	)

	return nil
}

// outputTokenText outputs a token record in human-readable text format.
func outputTokenText(token *tokenDomain.Token, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "ID:      %s\n", token.ID.String())
	_, _ = fmt.Fprintf(writer, "Token:   %s\n", token.Value)
	_, _ = fmt.Fprintf(writer, "Owner:   %s\n", token.Owner)
	_, _ = fmt.Fprintf(writer, "Status:  %s\n", token.Status)
	_, _ = fmt.Fprintf(writer, "Message: %s\n", token.CreationMessage)
	_, _ = fmt.Fprintf(writer, "Created: %s\n", token.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if token.RevokedAt != nil {
		_, _ = fmt.Fprintf(writer, "Revoked: %s\n", token.RevokedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if token.RevocationMessage != nil {
		_, _ = fmt.Fprintf(writer, "Revocation message: %s\n", *token.RevocationMessage)
	}
}

// outputTokenJSON outputs a token record in JSON format for machine consumption.
func outputTokenJSON(token *tokenDomain.Token, writer io.Writer) {
	jsonBytes, err := json.MarshalIndent(dto.MapTokenToResponse(token), "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
