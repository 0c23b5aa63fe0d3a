package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustgigs/ledger/internal/domain/model"
)

func TestCreateJobEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"employer":    "alice",
		"title":       "Build dashboard",
		"description": "Charts for the ops team",
		"reward":      300,
		"tags":        []string{"frontend"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(1), decodeBody[map[string]uint64](t, rec)["job_id"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateJobEndpoint_BadInput(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{"missing employer", map[string]any{"title": "t", "reward": 1}, "employer"},
		{"zero reward", map[string]any{"employer": "alice", "title": "t"}, "reward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/jobs", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody[map[string]string](t, rec)
			assert.Equal(t, "invalid_input", body["error"])
			assert.Equal(t, tt.wantField, body["field"])
		})
	}

	// Unknown fields are rejected outright.
	rec := api.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"employer": "alice", "title": "t", "reward": 1, "bounty": 9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobEndpoint(t *testing.T) {
	api := newTestAPI(t)
	jobID := api.createJob(t, "alice", 100)

	rec := api.do(t, http.MethodGet, jobPath(jobID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	job := decodeBody[model.Job](t, rec)
	assert.Equal(t, "alice", job.Employer)
	assert.Equal(t, model.JobStatusOpen, job.Status)

	rec = api.do(t, http.MethodGet, "/api/jobs/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/jobs/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJobsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.createJob(t, "alice", 100)
	api.createJob(t, "bob", 500)

	rec := api.do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string][]model.Job](t, rec)
	assert.Len(t, body["jobs"], 2)

	rec = api.do(t, http.MethodGet, "/api/jobs?min_reward=200", nil)
	body = decodeBody[map[string][]model.Job](t, rec)
	require.Len(t, body["jobs"], 1)
	assert.Equal(t, "bob", body["jobs"][0].Employer)

	rec = api.do(t, http.MethodGet, "/api/jobs?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/employers/alice/jobs", nil)
	body = decodeBody[map[string][]model.Job](t, rec)
	assert.Len(t, body["jobs"], 1)
}

func TestSelectWinnerEndpoint(t *testing.T) {
	api := newTestAPI(t)
	jobID := api.createJob(t, "alice", 400)
	appID := api.apply(t, jobID, "bob")

	rec := api.do(t, http.MethodPost, jobPath(jobID, "winner"), map[string]any{
		"application_id": appID,
		"caller":         "mallory",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, jobPath(jobID, "winner"), map[string]any{
		"application_id": appID,
		"caller":         "alice",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, jobPath(jobID, "escrow"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	escrow := decodeBody[model.EscrowEntry](t, rec)
	assert.True(t, escrow.Released)
	require.NotNil(t, escrow.ReleasedTo)
	assert.Equal(t, "bob", *escrow.ReleasedTo)

	// Double settlement maps to 409.
	rec = api.do(t, http.MethodPost, jobPath(jobID, "winner"), map[string]any{
		"application_id": appID,
		"caller":         "alice",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_winner", decodeBody[map[string]string](t, rec)["error"])
}

func TestCancelJobEndpoint(t *testing.T) {
	api := newTestAPI(t)
	jobID := api.createJob(t, "alice", 100)

	rec := api.do(t, http.MethodPost, jobPath(jobID, "cancel"), map[string]any{"caller": "alice"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, jobPath(jobID), nil)
	job := decodeBody[model.Job](t, rec)
	assert.Equal(t, model.JobStatusCancelled, job.Status)
}

func TestExpireJobEndpoint(t *testing.T) {
	api := newTestAPI(t)

	expiry := api.clock.LogicalNow() + 3600
	rec := api.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"employer":   "alice",
		"title":      "Short-lived gig",
		"reward":     100,
		"expires_at": expiry,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	jobID := decodeBody[map[string]uint64](t, rec)["job_id"]

	rec = api.do(t, http.MethodPost, jobPath(jobID, "expire"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_expired", decodeBody[map[string]string](t, rec)["error"])

	api.clock.AdvanceTime(2 * time.Hour)
	rec = api.do(t, http.MethodPost, jobPath(jobID, "expire"), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, jobPath(jobID), nil)
	assert.Equal(t, model.JobStatusExpired, decodeBody[model.Job](t, rec).Status)
}

func TestRecordViewEndpoint(t *testing.T) {
	api := newTestAPI(t)
	jobID := api.createJob(t, "alice", 100)

	for _, viewer := range []string{"bob", "carol"} {
		rec := api.do(t, http.MethodPost, jobPath(jobID, "views"), map[string]any{"viewer": viewer})
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := api.do(t, http.MethodGet, jobPath(jobID), nil)
	assert.Equal(t, 2, decodeBody[model.Job](t, rec).ViewCount)
}

func TestStatsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	jobID := api.createJob(t, "alice", 400)
	appID := api.apply(t, jobID, "bob")
	rec := api.do(t, http.MethodPost, jobPath(jobID, "winner"), map[string]any{
		"application_id": appID,
		"caller":         "alice",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/stats/platform", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	platform := decodeBody[model.PlatformStats](t, rec)
	assert.Equal(t, 1, platform.TotalJobs)
	assert.Equal(t, uint64(400), platform.TotalRewardsDistributed)

	rec = api.do(t, http.MethodGet, "/api/stats/users/bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody[model.UserStats](t, rec)
	assert.Equal(t, 1, user.JobsWon)
	assert.Equal(t, uint64(400), user.TotalEarned)

	// Unknown actors report zero counters, not 404.
	rec = api.do(t, http.MethodGet, "/api/stats/users/nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[model.UserStats](t, rec).JobsCreated)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}
