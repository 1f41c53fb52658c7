// Package http provides HTTP handlers for token lifecycle operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	"github.com/allisson/gatekeeper/internal/token/http/dto"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// Provenance messages recorded on owner self-service operations.
const (
	ownerCreateMessage = "Created by owner via web interface"
	ownerRevokeMessage = "Revoked by owner via web interface"
)

// TokenHandler handles HTTP requests for owner self-service token operations.
// It coordinates token issuance, revocation and listing with the TokenUseCase.
// The caller identity comes from the request context set by IdentityMiddleware.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// CreateTokenHandler issues a new token for the calling user.
// POST /createToken - Identity required.
// Returns 200 with the full token record including the value.
func (h *TokenHandler) CreateTokenHandler(c *gin.Context) {
	owner, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	input := &tokenDomain.CreateTokenInput{
		Owner:   owner,
		Message: ownerCreateMessage,
	}

	token, err := h.tokenUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}

// RevokeTokenHandler revokes one of the calling user's tokens.
// POST /revokeToken - Identity required.
// Returns 200 with the updated record; 404 for unknown values, 403 when the
// token belongs to someone else, 409 when it is already revoked.
func (h *TokenHandler) RevokeTokenHandler(c *gin.Context) {
	owner, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.RevokeTokenRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &tokenDomain.RevokeTokenInput{
		Value:   req.Token,
		Owner:   owner,
		Message: ownerRevokeMessage,
	}

	token, err := h.tokenUseCase.Revoke(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}

// ListTokensHandler returns the calling user's full token history, newest
// first, including revoked tokens.
// GET /listTokens - Identity required.
func (h *TokenHandler) ListTokensHandler(c *gin.Context) {
	owner, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tokens, err := h.tokenUseCase.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokensToListResponse(tokens))
}
