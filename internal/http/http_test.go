// Package http provides HTTP server implementation and route registration.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	authzDomain "github.com/allisson/gatekeeper/internal/authz/domain"
	authzHTTP "github.com/allisson/gatekeeper/internal/authz/http"
	authzMocks "github.com/allisson/gatekeeper/internal/authz/http/mocks"
	"github.com/allisson/gatekeeper/internal/config"
	tokenHTTP "github.com/allisson/gatekeeper/internal/token/http"
	tokenMocks "github.com/allisson/gatekeeper/internal/token/http/mocks"
)

// TestMain sets Gin to test mode and verifies no goroutines leak.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// testConfig returns a configuration suitable for in-process server tests.
// Rate limiting is disabled so no background cleanup goroutine is started.
func testConfig() *config.Config {
	return &config.Config{
		ServerHost:       "localhost",
		ServerPort:       0,
		LogLevel:         "info",
		RateLimitEnabled: false,
	}
}

// createTestServer creates a server with mocked use cases and a discarding logger.
func createTestServer(
	tokenUseCase *tokenMocks.MockTokenUseCase,
	decisionUseCase *authzMocks.MockDecisionUseCase,
	aclUseCase *authzMocks.MockACLUseCase,
) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenHandler := tokenHTTP.NewTokenHandler(tokenUseCase, logger)
	adminHandler := tokenHTTP.NewAdminHandler(tokenUseCase, logger)
	checkHandler := authzHTTP.NewCheckHandler(decisionUseCase, logger)

	return NewServer(testConfig(), tokenHandler, adminHandler, checkHandler, aclUseCase, nil, logger)
}

func newMockedServer() (*Server, *tokenMocks.MockTokenUseCase, *authzMocks.MockDecisionUseCase, *authzMocks.MockACLUseCase) {
	tokenUseCase := &tokenMocks.MockTokenUseCase{}
	decisionUseCase := &authzMocks.MockDecisionUseCase{}
	aclUseCase := &authzMocks.MockACLUseCase{}
	return createTestServer(tokenUseCase, decisionUseCase, aclUseCase), tokenUseCase, decisionUseCase, aclUseCase
}

// TestServer_HealthEndpoint tests the health endpoint through the full router.
func TestServer_HealthEndpoint(t *testing.T) {
	server, _, _, _ := newMockedServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

// TestServer_NotFoundEndpoint tests 404 handling.
func TestServer_NotFoundEndpoint(t *testing.T) {
	server, _, _, _ := newMockedServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestServer_CheckTokenRoute tests the decision route wiring without identity.
func TestServer_CheckTokenRoute(t *testing.T) {
	server, _, decisionUseCase, _ := newMockedServer()

	decisionUseCase.On("CheckToken", mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil).
		Once()

	body := `{"token": "qF3qyhPxEJWmGpGUASGXJeAQvxf2Ub0z", "groups": ["devs"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkToken", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	decisionUseCase.AssertExpectations(t)
}

// TestServer_OwnerRoutesRequireIdentity tests the identity gate on owner routes.
func TestServer_OwnerRoutesRequireIdentity(t *testing.T) {
	server, tokenUseCase, _, _ := newMockedServer()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/createToken"},
		{http.MethodPost, "/revokeToken"},
		{http.MethodGet, "/listTokens"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}

	tokenUseCase.AssertNotCalled(t, "Create")
	tokenUseCase.AssertNotCalled(t, "Revoke")
	tokenUseCase.AssertNotCalled(t, "ListByOwner")
}

// TestServer_AdminRoutesGatedByACL tests the access rule gate on admin routes.
func TestServer_AdminRoutesGatedByACL(t *testing.T) {
	server, tokenUseCase, _, aclUseCase := newMockedServer()

	aclUseCase.On("Authorize", mock.Anything, "/admin", mock.Anything, "mallory").
		Return(authzDomain.ErrAccessDenied).
		Times(3)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/admin/user/bob/createToken"},
		{http.MethodPost, "/admin/user/bob/revokeToken"},
		{http.MethodGet, "/admin/user/bob/listTokens"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set(authzHTTP.IdentityHeader, "mallory")
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", route.method, route.path)
	}

	tokenUseCase.AssertNotCalled(t, "Create")
	aclUseCase.AssertExpectations(t)
}

// TestCustomLoggerMiddleware tests the custom logging middleware.
func TestCustomLoggerMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "test", response["message"])
}

// TestRequestIDMiddleware_HeaderPresent verifies X-Request-Id is set on responses.
func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	server, _, _, _ := newMockedServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

// TestServer_ShutdownGracefully tests graceful server shutdown.
func TestServer_ShutdownGracefully(t *testing.T) {
	server, _, _, _ := newMockedServer()
	server.server.Addr = "localhost:0"

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	// Give the listener time to start
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	assert.NoError(t, err)

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

// TestServer_NoMetricsEndpoint ensures the API server does not expose /metrics.
func TestServer_NoMetricsEndpoint(t *testing.T) {
	server, _, _, _ := newMockedServer()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
