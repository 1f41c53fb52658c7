// Package http provides HTTP handlers and middleware for authorization decisions.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzUseCase "github.com/allisson/gatekeeper/internal/authz/usecase"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
)

// IdentityHeader is the trusted upstream header carrying the caller's username.
const IdentityHeader = "X-Remote-User"

// IdentityMiddleware extracts the caller identity from the X-Remote-User
// header set by the trusted reverse proxy and stores it in the request
// context for downstream handlers.
//
// A missing or blank header means the caller is anonymous and the request is
// rejected with 401 Unauthorized before reaching any handler.
//
// Usage:
//
//	router.POST("/createToken", IdentityMiddleware(logger), handler)
//	// in the handler:
//	user, ok := GetIdentity(c.Request.Context())
func IdentityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.GetHeader(IdentityHeader))
		if user == "" {
			logger.Debug("identity check failed: missing remote user header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithIdentity(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ACLMiddleware gates a route behind an access-control rule lookup.
//
// MUST be used after IdentityMiddleware, as it requires the caller identity
// in the request context. The (pathPrefix, verb) pair names the rule to
// evaluate, not the literal request path; all admin routes share the "/admin"
// prefix rule.
//
// Error handling:
//   - No identity in context → 401 Unauthorized (IdentityMiddleware not run)
//   - Caller lacks the required group → 403 Forbidden
//   - No rule configured for (pathPrefix, verb) → 500, reported as a server
//     misconfiguration, never a silent allow
func ACLMiddleware(
	aclUseCase authzUseCase.ACLUseCase,
	pathPrefix string,
	verb authzDomain.Verb,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetIdentity(c.Request.Context())
		if !ok || user == "" {
			logger.Error("acl middleware: no caller identity in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if err := aclUseCase.Authorize(c.Request.Context(), pathPrefix, verb, user); err != nil {
			logger.Debug("acl check failed",
				slog.String("user", user),
				slog.String("path_prefix", pathPrefix),
				slog.String("verb", string(verb)),
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		logger.Debug("acl check passed",
			slog.String("user", user),
			slog.String("path_prefix", pathPrefix),
			slog.String("verb", string(verb)))

		c.Next()
	}
}
