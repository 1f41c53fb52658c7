package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/gatekeeper/internal/token/http/dto"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
)

// RunListTokens prints a user's full token history, newest first, including
// revoked tokens. Outputs in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunListTokens(
	ctx context.Context,
	useCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	owner string,
	format string,
) error {
	logger.Info("listing tokens", slog.String("owner", owner))

	tokens, err := useCase.ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(dto.MapTokensToListResponse(tokens), "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
			return nil
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
		return nil
	}

	if len(tokens) == 0 {
		_, _ = fmt.Fprintf(writer, "No tokens found for %s\n", owner)
		return nil
	}

	_, _ = fmt.Fprintf(writer, "Tokens for %s (%d):\n", owner, len(tokens))
	for i, token := range tokens {
		_, _ = fmt.Fprintf(writer, "\n#%d\n", i+1)
		outputTokenText(token, writer)
	}

	return nil
}
