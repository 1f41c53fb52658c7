// Package http provides HTTP handlers for token lifecycle operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
	"github.com/allisson/gatekeeper/internal/token/http/dto"
	tokenUseCase "github.com/allisson/gatekeeper/internal/token/usecase"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// AdminHandler handles HTTP requests for administrative token operations on
// behalf of other users. Routes using it must be gated by ACLMiddleware; the
// handlers record the acting admin in the provenance message.
type AdminHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler with required dependencies.
func NewAdminHandler(
	tokenUseCase tokenUseCase.TokenUseCase,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// targetUsername extracts and validates the :username path parameter.
func targetUsername(c *gin.Context) (string, error) {
	username := c.Param("username")
	if err := validation.Validate(username,
		validation.Required,
		customValidation.NotBlank,
		customValidation.Username,
	); err != nil {
		return "", customValidation.WrapValidationError(err)
	}
	return username, nil
}

// AdminCreateTokenHandler issues a new token for the named user.
// POST /admin/user/:username/createToken - Identity + ("/admin", post) rule required.
// Returns 200 with the full token record.
func (h *AdminHandler) AdminCreateTokenHandler(c *gin.Context) {
	admin, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	username, err := targetUsername(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := &tokenDomain.CreateTokenInput{
		Owner:   username,
		Message: fmt.Sprintf("Created by admin %s via admin interface", admin),
	}

	token, err := h.tokenUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("admin created token",
		slog.String("admin", admin),
		slog.String("owner", username))

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}

// AdminRevokeTokenHandler revokes a token regardless of who owns it.
// POST /admin/user/:username/revokeToken - Identity + ("/admin", post) rule required.
// Returns 200 with the updated record; 404 for unknown values, 409 when the
// token is already revoked.
func (h *AdminHandler) AdminRevokeTokenHandler(c *gin.Context) {
	admin, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	username, err := targetUsername(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
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
		Value:      req.Token,
		Owner:      username,
		Message:    fmt.Sprintf("Revoked by admin %s via admin interface", admin),
		ActAsAdmin: true,
	}

	token, err := h.tokenUseCase.Revoke(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("admin revoked token",
		slog.String("admin", admin),
		slog.String("owner", token.Owner))

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}

// AdminListTokensHandler returns the named user's full token history.
// GET /admin/user/:username/listTokens - Identity + ("/admin", view) rule required.
func (h *AdminHandler) AdminListTokensHandler(c *gin.Context) {
	_, ok := authzHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	username, err := targetUsername(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	tokens, err := h.tokenUseCase.ListByOwner(c.Request.Context(), username)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokensToListResponse(tokens))
}
