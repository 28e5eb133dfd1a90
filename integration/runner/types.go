package runner

import (
	"encoding/json"
	"time"

	"github.com/jwebster45206/hearth/pkg/house"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name      string     `json:"name"`
	Residents []Resident `json:"residents,omitempty"` // registered before the first step
	Steps     []TestStep `json:"steps,omitempty"`     // Used for regular tests
	Cases     []string   `json:"cases,omitempty"`     // Used for suite tests (list of case files)
}

// Resident is registered with POST /v1/residents. A resident that already
// exists from an earlier run is moved back to Position instead.
type Resident struct {
	Name     string      `json:"name"`
	Position house.Point `json:"position"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one HTTP request and its expected outcome.
// Path and Body may reference captured values as {{name}}.
type TestStep struct {
	Name         string            `json:"name,omitempty"`
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Body         json.RawMessage   `json:"body,omitempty"`
	Capture      map[string]string `json:"capture,omitempty"` // variable -> dotted path into the response
	Expectations Expectations      `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Status int `json:"status,omitempty"` // defaults to any 2xx

	// Fields maps a dotted path like "resident.state" or "houses.0.occupant"
	// to its expected JSON value.
	Fields map[string]any `json:"fields,omitempty"`
	// Lengths maps a dotted path to the expected array length.
	Lengths map[string]int `json:"lengths,omitempty"`

	BodyContains    []string `json:"body_contains,omitempty"`
	BodyNotContains []string `json:"body_not_contains,omitempty"`
	BodyRegex       string   `json:"body_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	Status       int
	ResponseText string
}

// TestJob represents a test suite to be executed by a worker
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Vars     map[string]string // values captured during the run
}
