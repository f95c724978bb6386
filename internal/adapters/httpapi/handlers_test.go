package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/email-domain-verifier/internal/adapters/store"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAPI(t *testing.T, maxBulk int, seed ...string) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	svc := core.NewVerifierService(
		store.NewMemoryStore(logger),
		core.NewHeuristics(core.DefaultRules(), nil, logger),
		logger,
		core.DefaultBulkOptions(),
	)
	if len(seed) > 0 {
		_, err := svc.Populate(context.Background(), seed)
		require.NoError(t, err)
	}
	return SetupRoutes(NewHandlers(svc, logger, maxBulk), logger, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVerify(t *testing.T) {
	api := setupAPI(t, 1000, "tempmail.org")

	tests := []struct {
		path       string
		email      string
		valid      bool
		disposable bool
		message    string
	}{
		{"/api/verify/", "test@tempmail.org", true, true, core.MessageDisposable},
		{"/api/verify", "test@gmail.com", true, false, core.MessageLegitimate},
		{"/api/verify/", "invalid-email", false, false, core.MessageInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			rec := do(t, api, http.MethodPost, tt.path, fmt.Sprintf(`{"email": %q}`, tt.email))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got core.VerificationResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.email, got.Email)
			assert.Equal(t, tt.valid, got.IsValid)
			assert.Equal(t, tt.disposable, got.IsDisposable)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestVerify_MalformedJSON(t *testing.T) {
	rec := do(t, setupAPI(t, 10), http.MethodPost, "/api/verify/", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestBulkVerify(t *testing.T) {
	api := setupAPI(t, 1000, "tempmail.org", "10minutemail.com", "mailinator.com")

	rec := do(t, api, http.MethodPost, "/api/bulk-verify/",
		`{"emails": ["a@gmail.com", "b@tempmail.org", "c@10minutemail.com", "d@yahoo.com", "e@mailinator.com"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got core.BulkVerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 5, got.ValidCount)
	assert.Equal(t, 3, got.DisposableCount)
	require.Len(t, got.Results, 5)
	assert.Equal(t, "b@tempmail.org", got.Results[1].Email)
}

func TestBulkVerify_Limits(t *testing.T) {
	api := setupAPI(t, 2)

	rec := do(t, api, http.MethodPost, "/api/bulk-verify/", `{"emails": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodPost, "/api/bulk-verify/", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodPost, "/api/bulk-verify/", `{"emails": ["a@b.com", "c@d.com", "e@f.com"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPopulateAndStatus(t *testing.T) {
	api := setupAPI(t, 10)

	rec := do(t, api, http.MethodGet, "/api/status/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status core.StoreStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Ready)

	rec = do(t, api, http.MethodPost, "/api/populate/", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, api, http.MethodGet, "/api/status/", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Ready, "empty population keeps the store unready")

	rec = do(t, api, http.MethodPost, "/api/populate/", `{"domains": ["tempmail.org", "tempmail.org", "bogus"], "source": "upload"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var populated core.PopulateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &populated))
	assert.Equal(t, 1, populated.Added)
	assert.Equal(t, 1, populated.Existing)
	assert.Equal(t, 1, populated.Skipped)
	assert.NotEmpty(t, populated.RunID)

	rec = do(t, api, http.MethodGet, "/api/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Ready)
	assert.Equal(t, 1, status.DomainCount)

	rec = do(t, api, http.MethodPost, "/api/verify/", `{"email": "x@tempmail.org"}`)
	assert.Contains(t, rec.Body.String(), `"is_disposable":true`)
}

func TestHealth(t *testing.T) {
	rec := do(t, setupAPI(t, 10), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, setupAPI(t, 10), http.MethodGet, "/api/verify/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type brokenVerifier struct{}

func (brokenVerifier) Classify(ctx context.Context, email string) (*core.VerificationResult, error) {
	return nil, fmt.Errorf("%w: boom", core.ErrStoreUnavailable)
}

func (brokenVerifier) ClassifyBulk(ctx context.Context, emails []string) (*core.BulkVerificationResult, error) {
	return nil, fmt.Errorf("%w: boom", core.ErrStoreUnavailable)
}

func (brokenVerifier) PopulateFrom(ctx context.Context, origin string, entries []string) (*core.PopulateResult, error) {
	return nil, errors.New("unexpected")
}

func (brokenVerifier) Status(ctx context.Context) (*core.StoreStatus, error) {
	return nil, fmt.Errorf("%w: boom", core.ErrStoreUnavailable)
}

func TestStoreFailures(t *testing.T) {
	logger := zap.NewNop()
	api := SetupRoutes(NewHandlers(brokenVerifier{}, logger, 10), logger, []string{"https://example.com"})

	assert.Equal(t, http.StatusServiceUnavailable, do(t, api, http.MethodPost, "/api/verify/", `{"email":"a@b.com"}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, api, http.MethodPost, "/api/bulk-verify/", `{"emails":["a@b.com"]}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, api, http.MethodGet, "/api/status/", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, api, http.MethodPost, "/api/populate/", `{"domains":["a.com"]}`).Code)
}

func TestCORS(t *testing.T) {
	logger := zap.NewNop()
	api := SetupRoutes(NewHandlers(brokenVerifier{}, logger, 10), logger, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/verify/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
