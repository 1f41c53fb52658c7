package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("gatekeeper_test")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "gatekeeper_test")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("gatekeeper_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "gatekeeper_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "token", "token_create", "success")
	})

	t.Run("Success_RecordDeniedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "authz", "check_token", "denied")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "token", "token_revoke", "success")
		bm.RecordOperation(context.Background(), "authz", "check_user", "success")
		bm.RecordOperation(context.Background(), "authz", "authorize", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("gatekeeper_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "gatekeeper_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "token", "token_create", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "authz", "check_token", 456*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "token", "token_create", "success")
		noOpMetrics.RecordOperation(context.Background(), "authz", "check_token", "denied")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"token",
			"token_create",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "authz", "check_user", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "token", "token_create", "success")
	bm.RecordOperation(ctx, "token", "token_create", "success")
	bm.RecordOperation(ctx, "token", "token_create", "error")
	bm.RecordOperation(ctx, "token", "token_revoke", "success")
	bm.RecordOperation(ctx, "authz", "check_token", "denied")
	bm.RecordOperation(ctx, "authz", "authorize", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "token", "token_create", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "token", "token_create", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "authz", "check_token", 10*time.Millisecond, "denied")

	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="token".*operation="token_create".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="token".*operation="token_create".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="authz".*operation="check_token".*status="denied"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="token".*operation="token_create".*status="success"`,
		`2`,
	)
}
