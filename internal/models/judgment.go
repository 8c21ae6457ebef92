package models

// TestCaseResult is the outcome of running a submission against one test case.
type TestCaseResult struct {
	Passed          bool    `json:"passed"`
	ActualOutput    *string `json:"actualOutput"`
	Error           *string `json:"error"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
}

// Judgment aggregates the per-case results of one submission.
type Judgment struct {
	Results                []TestCaseResult `json:"results"`
	AllPassed              bool             `json:"allPassed"`
	AverageExecutionTimeMs float64          `json:"averageExecutionTimeMs"`
}

// NewJudgment computes the aggregate fields. Cases that errored contribute 0
// to the time average.
func NewJudgment(results []TestCaseResult) Judgment {
	j := Judgment{
		Results:   results,
		AllPassed: len(results) > 0,
	}

	var totalMs float64
	for _, r := range results {
		if !r.Passed {
			j.AllPassed = false
		}
		if r.Error == nil {
			totalMs += r.ExecutionTimeMs
		}
	}
	if len(results) > 0 {
		j.AverageExecutionTimeMs = totalMs / float64(len(results))
	}

	return j
}
