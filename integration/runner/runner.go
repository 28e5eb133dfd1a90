package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running hearth API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
		Vars:    make(map[string]string),
	}

	for _, res := range suite.Residents {
		if err := r.seedResident(ctx, res); err != nil {
			result.Error = fmt.Errorf("failed to seed resident %s: %w", res.Name, err)
			result.Duration = time.Since(start)
			return result, result.Error
		}
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, step, result.Vars)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// seedResident registers res, or moves it back into place when an earlier
// run already registered it.
func (r *Runner) seedResident(ctx context.Context, res Resident) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal resident: %w", err)
	}
	status, _, err := r.send(ctx, http.MethodPost, "/v1/residents", body)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		patch, _ := json.Marshal(map[string]any{"position": res.Position})
		status, data, err := r.send(ctx, http.MethodPatch, "/v1/residents/"+url.PathEscape(res.Name), patch)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("move returned status %d: %s", status, data)
		}
		return nil
	default:
		return fmt.Errorf("create returned status %d", status)
	}
}

func (r *Runner) runStep(ctx context.Context, step TestStep, vars map[string]string) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	method := step.Method
	if method == "" {
		method = http.MethodGet
	}
	body, err := stepBody(step.Body, vars)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	status, data, err := r.send(ctx, method, expand(step.Path, vars), body)
	result.Status = status
	result.ResponseText = string(data)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	if err := checkExpectations(expandExpectations(step.Expectations, vars), status, data); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if len(step.Capture) > 0 {
		if err := capture(step.Capture, data, vars); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// stepBody expands a step's body. A JSON string body is sent as its
// contents, which lets a case place captured numbers in the payload.
func stepBody(raw json.RawMessage, vars map[string]string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse body template: %w", err)
		}
		return []byte(expand(s, vars)), nil
	}
	return []byte(expand(string(raw), vars)), nil
}

func expandExpectations(exp Expectations, vars map[string]string) Expectations {
	out := exp
	out.BodyContains = make([]string, len(exp.BodyContains))
	for i, s := range exp.BodyContains {
		out.BodyContains[i] = expand(s, vars)
	}
	if exp.Fields != nil {
		out.Fields = make(map[string]any, len(exp.Fields))
		for k, v := range exp.Fields {
			if s, ok := v.(string); ok {
				v = expand(s, vars)
			}
			out.Fields[k] = v
		}
	}
	return out
}

var varPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// expand replaces {{name}} with captured values. Unknown names are kept.
func expand(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := vars[varPattern.FindStringSubmatch(m)[1]]; ok {
			return v
		}
		return m
	})
}

func capture(paths map[string]string, data []byte, vars map[string]string) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse response for capture: %w", err)
	}
	for name, path := range paths {
		v, err := lookup(doc, path)
		if err != nil {
			return fmt.Errorf("capture %s: %w", name, err)
		}
		switch v := v.(type) {
		case string:
			vars[name] = v
		case float64:
			vars[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			raw, _ := json.Marshal(v)
			vars[name] = string(raw)
		}
	}
	return nil
}

// checkExpectations validates a response against exp.
func checkExpectations(exp Expectations, status int, data []byte) error {
	if exp.Status != 0 {
		if status != exp.Status {
			return fmt.Errorf("expected status %d, got %d: %s", exp.Status, status, strings.TrimSpace(string(data)))
		}
	} else if status < 200 || status > 299 {
		return fmt.Errorf("expected a 2xx status, got %d: %s", status, strings.TrimSpace(string(data)))
	}

	body := string(data)
	for _, s := range exp.BodyContains {
		if !strings.Contains(body, s) {
			return fmt.Errorf("response does not contain %q", s)
		}
	}
	for _, s := range exp.BodyNotContains {
		if strings.Contains(body, s) {
			return fmt.Errorf("response should not contain %q", s)
		}
	}
	if exp.BodyRegex != "" {
		re, err := regexp.Compile(exp.BodyRegex)
		if err != nil {
			return fmt.Errorf("invalid body_regex %q: %w", exp.BodyRegex, err)
		}
		if !re.MatchString(body) {
			return fmt.Errorf("response does not match %q", exp.BodyRegex)
		}
	}

	if len(exp.Fields) == 0 && len(exp.Lengths) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	for path, want := range exp.Fields {
		got, err := lookup(doc, path)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(got, want) {
			return fmt.Errorf("expected %s to be %v, got %v", path, want, got)
		}
	}
	for path, want := range exp.Lengths {
		got, err := lookup(doc, path)
		if err != nil {
			return err
		}
		list, ok := got.([]any)
		if !ok {
			return fmt.Errorf("%s is not an array", path)
		}
		if len(list) != want {
			return fmt.Errorf("expected %s to have %d elements, got %d", path, want, len(list))
		}
	}
	return nil
}

var errNoPath = errors.New("path not found")

// lookup walks a decoded JSON document along a dotted path. Numeric
// segments index arrays.
func lookup(doc any, path string) (any, error) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %s", errNoPath, path)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%w: %s", errNoPath, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("%w: %s", errNoPath, path)
		}
	}
	return cur, nil
}
