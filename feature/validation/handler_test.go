package validation

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"db-validator/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, opts Options) *fiber.App {
	t.Helper()
	svc, _ := newTestService(t, testConfig(t), opts)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandler_Routes(t *testing.T) {
	app := setupApp(t, Options{})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"Health", "GET", "/validation/health", "", fiber.StatusOK, `"status":"UP"`},
		{"Compare Table", "POST", "/validation/compare-table/orders", "", fiber.StatusOK, `"table_name":"orders"`},
		{"Compare Unknown Table", "POST", "/validation/compare-table/secrets", "", fiber.StatusBadRequest, "not in the configured table list"},
		{"Compare Missing Table", "POST", "/validation/compare-table/missing", "", fiber.StatusBadRequest, "missing.id"},
		{"Count Comparison Defaults To Configured Tables", "POST", "/validation/table-count-comparison", "", fiber.StatusBadRequest, "missing.id"},
		{"Count Comparison Tables", "POST", "/validation/table-count-comparison",
			`{"table_names":["orders","users"]}`, fiber.StatusOK, `"table_name":"users"`},
		{"Count Comparison Window", "POST", "/validation/table-count-comparison",
			`{"table_names":["orders"],"start_time":"2024-01-02 00:00:00","time_field":"created_at"}`, fiber.StatusOK, `"record_count":3`},
		{"Count Comparison End Without Start", "POST", "/validation/table-count-comparison",
			`{"end_time":"2024-01-02"}`, fiber.StatusBadRequest, `"StartTime":"required_with"`},
		{"Count Comparison Blank Table", "POST", "/validation/table-count-comparison",
			`{"table_names":[""]}`, fiber.StatusBadRequest, "invalid request"},
		{"Count Comparison Bad Time Field", "POST", "/validation/table-count-comparison",
			`{"table_names":["orders"],"start_time":"2024-01-01","time_field":"nope"}`, fiber.StatusBadRequest, "orders.nope"},
		{"Data Comparison", "POST", "/validation/table-data-comparison/orders",
			`{"ignored_fields":["status"]}`, fiber.StatusOK, `"field_differences":{}`},
		{"Malformed Body", "POST", "/validation/table-data-comparison/orders", `{"ignored_fields":`, fiber.StatusBadRequest, "invalid request body"},
		{"Unknown Report Format", "GET", "/validation/report/pdf", "", fiber.StatusBadRequest, "unknown report format"},
		{"Schema", "GET", "/validation/schema", "", fiber.StatusOK, `"matched":false`},
		{"History Disabled", "GET", "/validation/history", "", fiber.StatusServiceUnavailable, "not configured"},
		{"Archive Disabled", "GET", "/validation/archive", "", fiber.StatusServiceUnavailable, "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestHandler_CompareAll(t *testing.T) {
	app := setupApp(t, Options{})

	resp, err := app.Test(httptest.NewRequest("POST", "/validation/compare-all", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var run Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.NotEmpty(t, run.BatchID)
	assert.Len(t, run.Results, 2)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "missing", run.Errors[0].Table)
}

func TestHandler_Reports(t *testing.T) {
	app := setupApp(t, Options{})

	t.Run("Text Inline", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/validation/report/text", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")
		assert.Empty(t, resp.Header.Get(fiber.HeaderContentDisposition))

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Table: orders")
		assert.Contains(t, string(body), "Field [status]:")
	})

	t.Run("JSON Download", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/validation/report/json?download=true", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".json")

		var results []reconcile.ComparisonResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
		assert.Len(t, results, 2)
	})

	t.Run("XLSX", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/validation/report/xlsx", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
	})

	t.Run("Compact", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/validation/report/compact", nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Inconsistent: 1")
	})

	t.Run("Trend Needs History", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/validation/report/trend", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusFor(reconcile.ErrUnknownColumn))
	assert.Equal(t, fiber.StatusConflict, statusFor(ErrRunInProgress))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusFor(ErrArchiveDisabled))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(assert.AnError))
}
