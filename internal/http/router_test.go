package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustgigs/ledger/internal/data"
	"github.com/trustgigs/ledger/internal/service"
)

type testAPI struct {
	handler http.Handler
	svc     *service.LedgerService
	clock   *data.FixedTimeProvider
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	clock := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.NewLedgerService(context.Background(), service.LedgerServiceOptions{
		Store:  data.NewMemEventStore(),
		Clock:  clock,
		Logger: logger,
	})
	require.NoError(t, err)

	return &testAPI{
		handler: NewRouter(RouterOptions{Ledger: svc, Logger: logger}),
		svc:     svc,
		clock:   clock,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func jobPath(jobID uint64, parts ...string) string {
	path := fmt.Sprintf("/api/jobs/%d", jobID)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// createJob posts a minimal valid job and returns its id.
func (a *testAPI) createJob(t *testing.T, employer string, reward uint64) uint64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"employer": employer,
		"title":    "Test job",
		"reward":   reward,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]uint64](t, rec)["job_id"]
}

func (a *testAPI) apply(t *testing.T, jobID uint64, applicant string) uint64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, jobPath(jobID, "applications"), map[string]any{
		"applicant": applicant,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]uint64](t, rec)["application_id"]
}
