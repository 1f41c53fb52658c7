// Package integration provides end-to-end integration tests for the gatekeeper API.
// Tests all API endpoints against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/gatekeeper/internal/app"
	authzDTO "github.com/allisson/gatekeeper/internal/authz/http/dto"
	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/testutil"
	tokenDTO "github.com/allisson/gatekeeper/internal/token/http/dto"
)

const (
	adminUser   = "carol"
	regularUser = "alice"
	otherUser   = "dave"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
// The asUser value, when non-empty, is sent as the trusted identity header.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	asUser string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if asUser != "" {
		req.Header.Set("X-Remote-User", asUser)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:               dbDriver,
		DBConnectionString:     dsn,
		DBMaxOpenConnections:   10,
		DBMaxIdleConnections:   5,
		DBConnMaxLifetime:      time.Hour,
		ServerHost:             "localhost",
		ServerPort:             8080,
		LogLevel:               "error",
		TokenCreateMaxAttempts: 5,
		AccessRules: `[
			{"path_prefix": "/admin", "verb": "view", "required_group": "gatekeeper-admins"},
			{"path_prefix": "/admin", "verb": "post", "required_group": "gatekeeper-admins"}
		]`,
		GroupsBackend: "static",
		GroupsStatic: `{
			"alice": ["team-a", "team-b"],
			"carol": ["gatekeeper-admins"]
		}`,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil")

	testServer := httptest.NewServer(handler)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// checkAnswer decodes a /checkToken or /checkUser response body.
func checkAnswer(t *testing.T, body []byte) bool {
	t.Helper()

	var response map[string]bool
	require.NoError(t, json.Unmarshal(body, &response))
	return response["ok"]
}

// errorCode decodes the error code from an error response body.
func errorCode(t *testing.T, body []byte) string {
	t.Helper()

	var response map[string]string
	require.NoError(t, json.Unmarshal(body, &response))
	return response["error"]
}

// TestIntegration_Health validates the health endpoint against both databases.
func TestIntegration_Health(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var response map[string]string
			require.NoError(t, json.Unmarshal(body, &response))
			assert.Equal(t, "healthy", response["status"])
		})
	}
}

// TestIntegration_TokenLifecycle_CompleteFlow exercises the owner-facing token
// lifecycle: create, check, list, revoke, and the post-revocation behavior.
func TestIntegration_TokenLifecycle_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var tokenValue string

			t.Run("01_CreateToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/createToken", nil, regularUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Token, 32)
				assert.Equal(t, regularUser, response.Owner)
				assert.Equal(t, "active", response.Status)
				assert.Equal(t, "Created by owner via web interface", response.CreationMessage)
				assert.Nil(t, response.RevokedAt)

				tokenValue = response.Token
			})

			t.Run("02_CheckToken_Active", func(t *testing.T) {
				request := authzDTO.CheckTokenRequest{
					Token:  tokenValue,
					Groups: []string{"team-a"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkToken", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.True(t, checkAnswer(t, body))
			})

			t.Run("03_CheckToken_MissingGroup", func(t *testing.T) {
				request := authzDTO.CheckTokenRequest{
					Token:  tokenValue,
					Groups: []string{"team-a", "team-z"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkToken", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.False(t, checkAnswer(t, body))
			})

			t.Run("04_ListTokens", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/listTokens", nil, regularUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.ListTokensResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 1)
				assert.Equal(t, tokenValue, response.Data[0].Token)
			})

			t.Run("05_RevokeToken", func(t *testing.T) {
				request := tokenDTO.RevokeTokenRequest{Token: tokenValue}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/revokeToken", request, regularUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "revoked", response.Status)
				require.NotNil(t, response.RevocationMessage)
				assert.Equal(t, "Revoked by owner via web interface", *response.RevocationMessage)
				assert.NotNil(t, response.RevokedAt)
			})

			t.Run("06_CheckToken_Revoked", func(t *testing.T) {
				request := authzDTO.CheckTokenRequest{
					Token:  tokenValue,
					Groups: []string{"team-a"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkToken", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.False(t, checkAnswer(t, body))
			})

			t.Run("07_RevokeToken_AlreadyRevoked", func(t *testing.T) {
				request := tokenDTO.RevokeTokenRequest{Token: tokenValue}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/revokeToken", request, regularUser)
				require.Equal(t, http.StatusConflict, resp.StatusCode)
				assert.Equal(t, "conflict", errorCode(t, body))
			})

			t.Run("08_ListTokens_IncludesRevoked", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/listTokens", nil, regularUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.ListTokensResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 1)
				assert.Equal(t, "revoked", response.Data[0].Status)
			})

			t.Run("09_RevokeToken_NotOwned", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/createToken", nil, regularUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var created tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &created))

				request := tokenDTO.RevokeTokenRequest{Token: created.Token}
				resp, body = ctx.makeRequest(t, http.MethodPost, "/revokeToken", request, otherUser)
				require.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "forbidden", errorCode(t, body))
			})
		})
	}
}

// TestIntegration_Admin_CompleteFlow exercises the admin surface: acting on
// another user's tokens behind the access-control gate.
func TestIntegration_Admin_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var tokenValue string

			t.Run("01_AdminCreateToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(
					t, http.MethodPost, "/admin/user/bob/createToken", nil, adminUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "bob", response.Owner)
				assert.Equal(t, "Created by admin carol via admin interface", response.CreationMessage)

				tokenValue = response.Token
			})

			t.Run("02_AdminListTokens", func(t *testing.T) {
				resp, body := ctx.makeRequest(
					t, http.MethodGet, "/admin/user/bob/listTokens", nil, adminUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.ListTokensResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 1)
				assert.Equal(t, tokenValue, response.Data[0].Token)
			})

			t.Run("03_AdminRevokeToken", func(t *testing.T) {
				request := tokenDTO.RevokeTokenRequest{Token: tokenValue}
				resp, body := ctx.makeRequest(
					t, http.MethodPost, "/admin/user/bob/revokeToken", request, adminUser)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var response tokenDTO.TokenResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "revoked", response.Status)
				require.NotNil(t, response.RevocationMessage)
				assert.Equal(t, "Revoked by admin carol via admin interface", *response.RevocationMessage)
			})

			t.Run("04_AdminRoutes_DeniedForNonAdmin", func(t *testing.T) {
				resp, body := ctx.makeRequest(
					t, http.MethodPost, "/admin/user/bob/createToken", nil, regularUser)
				require.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "forbidden", errorCode(t, body))

				resp, body = ctx.makeRequest(
					t, http.MethodGet, "/admin/user/bob/listTokens", nil, regularUser)
				require.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, "forbidden", errorCode(t, body))
			})

			t.Run("05_AdminRoutes_RequireIdentity", func(t *testing.T) {
				resp, body := ctx.makeRequest(
					t, http.MethodPost, "/admin/user/bob/createToken", nil, "")
				require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				assert.Equal(t, "unauthorized", errorCode(t, body))
			})
		})
	}
}

// TestIntegration_CheckUser validates group membership checks for users.
func TestIntegration_CheckUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_MemberOfAllGroups", func(t *testing.T) {
				request := authzDTO.CheckUserRequest{
					User:   regularUser,
					Groups: []string{"team-a", "team-b"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkUser", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.True(t, checkAnswer(t, body))
			})

			t.Run("02_MissingGroup", func(t *testing.T) {
				request := authzDTO.CheckUserRequest{
					User:   regularUser,
					Groups: []string{"team-a", "gatekeeper-admins"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkUser", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.False(t, checkAnswer(t, body))
			})

			t.Run("03_UnknownUser", func(t *testing.T) {
				request := authzDTO.CheckUserRequest{
					User:   "nobody",
					Groups: []string{"team-a"},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkUser", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.False(t, checkAnswer(t, body))
			})

			t.Run("04_EmptyGroups", func(t *testing.T) {
				request := authzDTO.CheckUserRequest{
					User:   "nobody",
					Groups: []string{},
				}
				resp, body := ctx.makeRequest(t, http.MethodPost, "/checkUser", request, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.True(t, checkAnswer(t, body))
			})
		})
	}
}

// TestIntegration_OwnerRoutes_RequireIdentity validates that the owner-facing
// routes reject requests without the trusted identity header.
func TestIntegration_OwnerRoutes_RequireIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/createToken"},
		{http.MethodPost, "/revokeToken"},
		{http.MethodGet, "/listTokens"},
	}

	for _, route := range routes {
		resp, body := ctx.makeRequest(t, route.method, route.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, route.path)
		assert.Equal(t, "unauthorized", errorCode(t, body), route.path)
	}
}
