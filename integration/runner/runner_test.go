package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers just enough of the house API to drive the runner.
type fakeAPI struct {
	mu        sync.Mutex
	residents map[string]bool
	requests  []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/residents":
		var res Resident
		_ = json.NewDecoder(r.Body).Decode(&res)
		if f.residents[res.Name] {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"resident already exists"}`))
			return
		}
		f.residents[res.Name] = true
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"name": res.Name, "state": "idle"})
	case r.Method == http.MethodPatch && r.URL.Path == "/v1/residents/Alice":
		_, _ = w.Write([]byte(`{"name":"Alice","state":"idle"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/v1/houses/Alice/assign":
		_, _ = w.Write([]byte(`{"occupant":"Alice","house_location":{"x":600,"y":300},"house_type":"house"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/houses/600/300":
		_, _ = w.Write([]byte(`{"houses":[{"occupant":"Alice"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

func newFakeRunner(t *testing.T) (*Runner, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{residents: map[string]bool{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewRunner(srv.URL + "/"), api
}

func TestRunSuite_CaptureAndExpect(t *testing.T) {
	r, api := newFakeRunner(t)

	suite := TestSuite{
		Name:      "capture",
		Residents: []Resident{{Name: "Alice"}},
		Steps: []TestStep{
			{
				Name:    "assign",
				Method:  http.MethodPost,
				Path:    "/v1/houses/Alice/assign",
				Capture: map[string]string{"hx": "house_location.x", "hy": "house_location.y"},
				Expectations: Expectations{
					Fields:       map[string]any{"house_type": "house", "house_location.x": 600.0},
					BodyContains: []string{"Alice"},
				},
			},
			{
				Name: "captured path",
				Path: "/v1/houses/{{hx}}/{{hy}}",
				Expectations: Expectations{
					Lengths: map[string]int{"houses": 1},
					Fields:  map[string]any{"houses.0.occupant": "Alice"},
				},
			},
			{
				Name:         "expected failure",
				Path:         "/v1/missing",
				Expectations: Expectations{Status: http.StatusNotFound, BodyRegex: `"error":"not`},
			},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	for _, step := range result.Results {
		assert.True(t, step.Success, step.StepName)
	}
	assert.Equal(t, "600", result.Vars["hx"])
	assert.Equal(t, "300", result.Vars["hy"])

	// A second run reuses the resident.
	_, err = r.RunSuite(context.Background(), TestSuite{Name: "again", Residents: []Resident{{Name: "Alice"}}})
	require.NoError(t, err)
	assert.Contains(t, api.requests, "PATCH /v1/residents/Alice")
}

func TestRunSuite_ErrorHandlingModes(t *testing.T) {
	steps := []TestStep{
		{Name: "fails", Path: "/v1/missing"},
		{Name: "wrong field", Method: http.MethodPost, Path: "/v1/houses/Alice/assign",
			Expectations: Expectations{Fields: map[string]any{"house_type": "mansion"}}},
	}

	tests := []struct {
		mode      ErrorHandlingMode
		wantSteps int
	}{
		{ErrorHandlingContinue, 2},
		{ErrorHandlingExit, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _ := newFakeRunner(t)
			r.ErrorHandlingMode = tt.mode

			result, err := r.RunSuite(context.Background(), TestSuite{Name: "fail", Steps: steps})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "step 0 (fails) failed")
			assert.Len(t, result.Results, tt.wantSteps)
			for _, step := range result.Results {
				assert.False(t, step.Success)
			}
		})
	}
}

func TestCheckExpectations(t *testing.T) {
	body := []byte(`{"resident":{"name":"Alice","state":"inside"},"outcomes":[1,2]}`)

	tests := []struct {
		name    string
		exp     Expectations
		status  int
		wantErr string
	}{
		{name: "default 2xx", status: 200},
		{name: "non 2xx", status: 409, wantErr: "expected a 2xx status, got 409"},
		{name: "status mismatch", exp: Expectations{Status: 201}, status: 200, wantErr: "expected status 201"},
		{name: "field", exp: Expectations{Fields: map[string]any{"resident.state": "inside"}}, status: 200},
		{name: "field mismatch", exp: Expectations{Fields: map[string]any{"resident.state": "idle"}}, status: 200, wantErr: "expected resident.state to be idle"},
		{name: "missing path", exp: Expectations{Fields: map[string]any{"resident.energy": 1.0}}, status: 200, wantErr: "path not found"},
		{name: "length", exp: Expectations{Lengths: map[string]int{"outcomes": 2}}, status: 200},
		{name: "not array", exp: Expectations{Lengths: map[string]int{"resident": 1}}, status: 200, wantErr: "is not an array"},
		{name: "contains", exp: Expectations{BodyContains: []string{"Bob"}}, status: 200, wantErr: `does not contain "Bob"`},
		{name: "not contains", exp: Expectations{BodyNotContains: []string{"Alice"}}, status: 200, wantErr: `should not contain "Alice"`},
		{name: "bad regex", exp: Expectations{BodyRegex: "("}, status: 200, wantErr: "invalid body_regex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExpectations(tt.exp, tt.status, body)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"id": "abc"}
	assert.Equal(t, "/v1/saves/abc/load", expand("/v1/saves/{{id}}/load", vars))
	assert.Equal(t, "/v1/saves/{{other}}", expand("/v1/saves/{{other}}", vars))

	body, err := stepBody([]byte(`"{\"x\": {{n}}}"`), map[string]string{"n": "600"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 600}`, string(body))

	body, err = stepBody([]byte(`{"id": "{{id}}"}`), vars)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "abc"}`, string(body))

	exp := expandExpectations(Expectations{Fields: map[string]any{"id": "{{id}}", "n": 1.0}}, vars)
	assert.Equal(t, "abc", exp.Fields["id"])
	assert.Equal(t, 1.0, exp.Fields["n"])
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write("one.json", `{"name":"one","steps":[{"path":"/health"}]}`)
	write("two.json", `{"name":"two","steps":[{"path":"/health"},{"path":"/v1/houses"}]}`)
	seq := write("all.json", `{"name":"all","cases":["one.json","two.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(seq, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "one", jobs[0].Name)
	assert.Len(t, jobs[1].Suite.Steps, 2)

	bad := write("bad.json", `{"name":"bad","cases":["missing.json"]}`)
	_, err = LoadTestSuiteWithExpansion(bad, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "referenced by sequence 'bad'")
}
