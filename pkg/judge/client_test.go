package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

func init() {
	logger.Init("error")
}

func newJudgeServer(t *testing.T, results []runResult) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/run", r.URL.Path)

		var req runRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.TestCases, len(results))

		json.NewEncoder(w).Encode(runResponse{Results: results})
	}))
}

func strPtr(s string) *string { return &s }

func TestClient_EvaluateAllPassed(t *testing.T) {
	srv := newJudgeServer(t, []runResult{
		{ActualOutput: strPtr("[0,1]"), ExecutionTimeMs: 42},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	judgment, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{{Input: "[2,7,11,15], 9", ExpectedOutput: "[0,1]"}})

	require.NoError(t, err)
	assert.True(t, judgment.AllPassed)
	require.Len(t, judgment.Results, 1)
	assert.True(t, judgment.Results[0].Passed)
	assert.Equal(t, 42.0, judgment.AverageExecutionTimeMs)
}

func TestClient_EvaluateOutputMismatch(t *testing.T) {
	srv := newJudgeServer(t, []runResult{
		{ActualOutput: strPtr("[1,0]"), ExecutionTimeMs: 10},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	judgment, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{{Input: "[2,7,11,15], 9", ExpectedOutput: "[0,1]"}})

	require.NoError(t, err)
	assert.False(t, judgment.AllPassed)
	assert.False(t, judgment.Results[0].Passed)
}

func TestClient_EvaluateTrimsOutput(t *testing.T) {
	srv := newJudgeServer(t, []runResult{
		{ActualOutput: strPtr("[0,1]\n"), ExecutionTimeMs: 10},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	judgment, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{{Input: "", ExpectedOutput: "[0,1]"}})

	require.NoError(t, err)
	assert.True(t, judgment.AllPassed)
}

func TestClient_ErroredCaseDoesNotAbortOthers(t *testing.T) {
	srv := newJudgeServer(t, []runResult{
		{Error: strPtr("TypeError: boom"), ExecutionTimeMs: 0},
		{ActualOutput: strPtr("8"), ExecutionTimeMs: 30},
	})
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	judgment, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{
			{Input: "a", ExpectedOutput: "4"},
			{Input: "b", ExpectedOutput: "8"},
		})

	require.NoError(t, err)
	assert.False(t, judgment.AllPassed)
	assert.False(t, judgment.Results[0].Passed)
	require.NotNil(t, judgment.Results[0].Error)
	assert.True(t, judgment.Results[1].Passed)

	// Errored cases contribute 0 to the average.
	assert.Equal(t, 15.0, judgment.AverageExecutionTimeMs)
}

func TestClient_ResultCountMismatch(t *testing.T) {
	srv := newJudgeServer(t, []runResult{})
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	_, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{})

	// Zero cases and zero results agree; this call should not error.
	require.NoError(t, err)

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(runResponse{Results: []runResult{}})
	}))
	defer srv2.Close()

	client2 := NewClient(srv2.URL, 1000)
	_, err = client2.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{{Input: "a", ExpectedOutput: "b"}})
	assert.Error(t, err)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 1000)
	_, err := client.Evaluate(context.Background(), "javascript", "code",
		[]models.TestCase{{Input: "a", ExpectedOutput: "b"}})
	assert.Error(t, err)
}
