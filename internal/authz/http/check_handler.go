// Package http provides HTTP handlers and middleware for authorization decisions.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/gatekeeper/internal/authz/http/dto"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	"github.com/allisson/gatekeeper/internal/httputil"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// CheckHandler handles HTTP requests for authorization decisions.
// It coordinates token and user checks with the DecisionUseCase.
type CheckHandler struct {
	decisionUseCase authzUseCase.DecisionUseCase
	logger          *slog.Logger
}

// NewCheckHandler creates a new check handler with required dependencies.
func NewCheckHandler(
	decisionUseCase authzUseCase.DecisionUseCase,
	logger *slog.Logger,
) *CheckHandler {
	return &CheckHandler{
		decisionUseCase: decisionUseCase,
		logger:          logger,
	}
}

// CheckTokenHandler answers whether the owner of a presented token satisfies
// a required set of groups.
// POST /checkToken - No identity required (service-to-service endpoint).
// Returns 200 with {"ok": bool}; unknown and revoked tokens answer false.
func (h *CheckHandler) CheckTokenHandler(c *gin.Context) {
	var req dto.CheckTokenRequest

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

	ok, err := h.decisionUseCase.CheckToken(c.Request.Context(), req.Groups, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CheckResponse{OK: ok})
}

// CheckUserHandler answers whether a user's directory groups are a superset
// of a required set of groups.
// POST /checkUser - No identity required (service-to-service endpoint).
// Returns 200 with {"ok": bool}.
func (h *CheckHandler) CheckUserHandler(c *gin.Context) {
	var req dto.CheckUserRequest

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

	ok, err := h.decisionUseCase.CheckUser(c.Request.Context(), req.Groups, req.User)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CheckResponse{OK: ok})
}
