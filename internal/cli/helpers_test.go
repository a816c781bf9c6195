package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testKey = "key_test_1234567890"

// recordedRequest is what fakeAPI saw for one call.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	User   string
	Body   []byte
}

// fakeAPI answers "METHOD /path" routes with canned JSON and records
// every request it receives.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server
	routes map[string]fakeRoute

	// handler replaces route lookup when set.
	handler http.HandlerFunc

	mu       sync.Mutex
	requests []recordedRequest
}

type fakeRoute struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{t: t, routes: make(map[string]fakeRoute)}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) on(method, path string, status int, body string) {
	a.routes[method+" "+path] = fakeRoute{status: status, body: body}
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, _, _ := r.BasicAuth()

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		User:   user,
		Body:   body,
	})
	a.mu.Unlock()

	if a.handler != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
		a.handler(w, r)
		return
	}

	route, ok := a.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

func (a *fakeAPI) calls() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedRequest(nil), a.requests...)
}

func (a *fakeAPI) last() recordedRequest {
	a.t.Helper()
	calls := a.calls()
	if len(calls) == 0 {
		a.t.Fatal("no request was sent")
	}
	return calls[len(calls)-1]
}

// decodeBody unmarshals the JSON body of r into a generic map.
func decodeBody(t *testing.T, r recordedRequest) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		t.Fatalf("request body is not JSON: %v\n%s", err, r.Body)
	}
	return m
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// cliEnv controls the environment seen by one CLI run.
type cliEnv struct {
	env     map[string]string // process environment
	envFile string            // contents of the env file ("" = empty file)
	stdin   string
}

// runCLI executes the command tree with an isolated HOME, an explicit env
// file and a fake process environment.
func runCLI(t *testing.T, e cliEnv, args ...string) cliResult {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	envPath := filepath.Join(home, "test.env")
	if err := os.WriteFile(envPath, []byte(e.envFile), 0o600); err != nil {
		t.Fatal(err)
	}

	opts := &rootOptions{
		lookupEnv: func(key string) (string, bool) {
			v, ok := e.env[key]
			return v, ok
		},
	}
	cmd := newRootCmd(opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(e.stdin))
	cmd.SetArgs(append([]string{"--env-file", envPath}, args...))

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// apiArgs prefixes args with the fake server URL and a flag credential.
func (a *fakeAPI) args(args ...string) []string {
	return append([]string{"--base-url", a.server.URL, "--api-key", testKey}, args...)
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err.Error(), want)
	}
}
