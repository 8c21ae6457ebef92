package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

// Client talks to the external code-execution service. Running untrusted code
// is that service's problem; this side only ships the cases over and grades
// the outputs that come back.
type Client struct {
	baseURL     string
	timeLimitMs int
	httpClient  *http.Client
}

func NewClient(baseURL string, caseTimeLimitMs int) *Client {
	if caseTimeLimitMs <= 0 {
		caseTimeLimitMs = 1000
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeLimitMs: caseTimeLimitMs,
		httpClient:  &http.Client{},
	}
}

type runRequest struct {
	Language    string        `json:"language"`
	Code        string        `json:"code"`
	TestCases   []runTestCase `json:"test_cases"`
	TimeLimitMs int           `json:"time_limit_ms"`
}

type runTestCase struct {
	Input string `json:"input"`
}

type runResponse struct {
	Results []runResult `json:"results"`
}

type runResult struct {
	ActualOutput    *string `json:"actual_output"`
	Error           *string `json:"error"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
}

// Evaluate runs the code against every test case and grades the outputs.
// The execution service is required to run all cases even when one errors;
// each case is bounded by the configured per-case time limit. A case passes
// when it produced no error and its trimmed output matches the expected
// output exactly.
func (c *Client) Evaluate(ctx context.Context, language, code string, cases []models.TestCase) (models.Judgment, error) {
	req := runRequest{
		Language:    language,
		Code:        code,
		TimeLimitMs: c.timeLimitMs,
	}
	for _, tc := range cases {
		req.TestCases = append(req.TestCases, runTestCase{Input: tc.Input})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.Judgment{}, fmt.Errorf("failed to encode judge request: %w", err)
	}

	// Whole-request deadline: every case may use its full limit, plus slack
	// for transport and compilation.
	timeout := time.Duration(c.timeLimitMs*len(cases))*time.Millisecond + 10*time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/run", bytes.NewReader(body))
	if err != nil {
		return models.Judgment{}, fmt.Errorf("failed to build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.Judgment{}, fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Judgment{}, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	var runResp runResponse
	if err := json.NewDecoder(resp.Body).Decode(&runResp); err != nil {
		return models.Judgment{}, fmt.Errorf("failed to decode judge response: %w", err)
	}
	if len(runResp.Results) != len(cases) {
		return models.Judgment{}, fmt.Errorf("judge returned %d results for %d cases", len(runResp.Results), len(cases))
	}

	judgment := models.NewJudgment(c.grade(cases, runResp.Results))

	logger.Debug("Submission judged",
		"language", language,
		"cases", len(cases),
		"allPassed", judgment.AllPassed,
		"latency", time.Since(start),
	)

	return judgment, nil
}

func (c *Client) grade(cases []models.TestCase, results []runResult) []models.TestCaseResult {
	graded := make([]models.TestCaseResult, len(cases))
	for i, res := range results {
		tcr := models.TestCaseResult{
			ActualOutput:    res.ActualOutput,
			Error:           res.Error,
			ExecutionTimeMs: res.ExecutionTimeMs,
		}
		if res.Error == nil && res.ActualOutput != nil {
			tcr.Passed = strings.TrimSpace(*res.ActualOutput) == strings.TrimSpace(cases[i].ExpectedOutput)
		}
		graded[i] = tcr
	}
	return graded
}

// HealthCheck verifies the execution service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("judge health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("judge is not healthy: status %d", resp.StatusCode)
	}

	return nil
}
