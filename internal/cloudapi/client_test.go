package cloudapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     "key_test123",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_HTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://api.cursor.com", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for HTTP URL")
	}
	if got := err.Error(); got != `cloudapi: API client requires HTTPS (got "http://api.cursor.com")` {
		t.Errorf("unexpected error: %s", got)
	}

	for _, base := range []string{"http://127.0.0.1:8080", "http://localhost:9000", "https://api.cursor.com/v0/"} {
		if _, err := NewClient(Config{BaseURL: base, APIKey: "k"}); err != nil {
			t.Errorf("NewClient(%q): %v", base, err)
		}
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "https://api.cursor.com"}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNewClient_TrimsVersionPrefix(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://api.cursor.com/v0/", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "https://api.cursor.com" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}

func TestClient_BasicAuthEmptyPassword(t *testing.T) {
	var user, pass string
	var ok bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		w.Write([]byte(`{"apiKeyName":"ci"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if !ok || user != "key_test123" || pass != "" {
		t.Errorf("BasicAuth = (%q, %q, %v), want (%q, \"\", true)", user, pass, ok, "key_test123")
	}
}

func TestClient_Headers(t *testing.T) {
	var accept, requestID, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		requestID = r.Header.Get("X-Request-Id")
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"bc_abc123"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.AddFollowup(context.Background(), "bc_abc123", &models.FollowupRequest{Prompt: models.Prompt{Text: "Add unit tests"}})
	if err != nil {
		t.Fatalf("AddFollowup: %v", err)
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if len(requestID) != 36 {
		t.Errorf("X-Request-Id = %q, want a UUID", requestID)
	}
}

func TestClient_LaunchAgent(t *testing.T) {
	var method, path string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "bc_abc123",
			"name": "Add README Documentation",
			"status": "CREATING",
			"source": {"repository": "https://github.com/org/repo", "ref": "main"},
			"target": {"branchName": "cursor/add-readme-1234", "url": "https://cursor.com/agents?id=bc_abc123", "autoCreatePr": true},
			"createdAt": "2024-01-15T10:30:00Z"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	agent, err := client.LaunchAgent(context.Background(), &models.LaunchRequest{
		Prompt: models.Prompt{Text: "Add a README.md file"},
		Source: models.Source{Repository: "https://github.com/org/repo", Ref: "main"},
		Target: &models.LaunchTarget{AutoCreatePR: true},
	})
	if err != nil {
		t.Fatalf("LaunchAgent: %v", err)
	}

	if method != http.MethodPost || path != "/v0/agents" {
		t.Errorf("request = %s %s, want POST /v0/agents", method, path)
	}
	want := map[string]any{
		"prompt": map[string]any{"text": "Add a README.md file"},
		"source": map[string]any{"repository": "https://github.com/org/repo", "ref": "main"},
		"target": map[string]any{"autoCreatePr": true},
	}
	gotJSON, _ := json.Marshal(body)
	wantJSON, _ := json.Marshal(want)
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("body = %s, want %s", gotJSON, wantJSON)
	}

	if agent.Status != models.AgentStatusCreating {
		t.Errorf("Status = %q, want CREATING", agent.Status)
	}
	if agent.BranchName() == "" {
		t.Error("expected a target branchName")
	}
	if agent.CreatedAt == nil || agent.CreatedAt.Year() != 2024 {
		t.Errorf("CreatedAt = %v", agent.CreatedAt)
	}
}

func TestClient_LaunchAgentValidationSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	tests := []struct {
		name    string
		request *models.LaunchRequest
	}{
		{"No repository or prUrl", &models.LaunchRequest{Prompt: models.Prompt{Text: "do it"}}},
		{"No prompt text", &models.LaunchRequest{Source: models.Source{Repository: "https://github.com/org/repo"}}},
		{"Too many images", &models.LaunchRequest{
			Prompt: models.Prompt{Text: "do it", Images: make([]models.Image, 6)},
			Source: models.Source{Repository: "https://github.com/org/repo"},
		}},
		{"Webhook without URL", &models.LaunchRequest{
			Prompt:  models.Prompt{Text: "do it"},
			Source:  models.Source{PRURL: "https://github.com/org/repo/pull/1"},
			Webhook: &models.Webhook{Secret: "s"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.LaunchAgent(context.Background(), tt.request)
			var validation *models.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("LaunchAgent error = %v, want ValidationError", err)
			}
		})
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestClient_GetAgentIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/agents/bc_abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"bc_abc123","name":"n","status":"FINISHED","summary":"Added README"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	first, err := client.GetAgent(context.Background(), "bc_abc123")
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	second, err := client.GetAgent(context.Background(), "bc_abc123")
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if first.Status != second.Status || first.Summary != second.Summary {
		t.Errorf("snapshots differ: %+v vs %+v", first, second)
	}
}

func TestClient_OnResponseGetsRawBody(t *testing.T) {
	const raw = `{"id":"bc_abc123","status":"RUNNING","target":{"autoCreatePr":false,"autoBranch":true},"extra":1}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/agents/bc_missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(raw))
	}))
	defer server.Close()

	var bodies []string
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     "k",
		HTTPClient: server.Client(),
		OnResponse: func(body []byte) { bodies = append(bodies, string(body)) },
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.GetAgent(context.Background(), "bc_abc123"); err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if _, err := client.GetAgent(context.Background(), "bc_missing"); err == nil {
		t.Fatal("expected 404")
	}
	if len(bodies) != 1 || bodies[0] != raw {
		t.Errorf("bodies = %q, want only the successful response", bodies)
	}
}

func TestClient_GetConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/agents/bc_abc123/conversation" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"bc_abc123","messages":[
			{"id":"msg_001","type":"user_message","text":"Add a README"},
			{"id":"msg_002","type":"assistant_message","text":"Done."}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	conv, err := client.GetConversation(context.Background(), "bc_abc123")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(conv.Messages) != 2 || conv.Messages[0].Type != models.MessageTypeUser || conv.Messages[1].Role() != "ASSISTANT" {
		t.Errorf("unexpected messages: %+v", conv.Messages)
	}
}

func TestClient_EmptyAgentID(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.GetAgent(context.Background(), ""); err == nil {
		t.Error("expected validation error for empty id")
	}
}

func TestClient_ListAgentsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "50" || q.Get("cursor") != "c1" || q.Get("prUrl") != "https://github.com/org/repo/pull/7" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"agents":[{"id":"bc_1","status":"RUNNING"}],"nextCursor":"c2"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.ListAgents(context.Background(), ListOptions{Limit: 50, Cursor: "c1", PRURL: "https://github.com/org/repo/pull/7"})
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if len(page.Agents) != 1 || page.NextCursor != "c2" {
		t.Errorf("page = %+v", page)
	}

	if _, err := client.ListAgents(context.Background(), ListOptions{Limit: 101}); err == nil {
		t.Error("expected validation error for limit 101")
	}
}

func TestClient_AllAgentsFollowsCursor(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("cursor") {
		case "":
			w.Write([]byte(`{"agents":[{"id":"bc_1"},{"id":"bc_2"}],"nextCursor":"p2"}`))
		case "p2":
			w.Write([]byte(`{"agents":[{"id":"bc_3"}]}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	agents, err := client.AllAgents(context.Background(), ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("AllAgents: %v", err)
	}
	if len(agents) != 3 || calls.Load() != 2 {
		t.Errorf("got %d agents in %d calls, want 3 in 2", len(agents), calls.Load())
	}
}

func TestClient_StopAndDelete(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"id":"bc_abc123"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.StopAgent(context.Background(), "bc_abc123"); err != nil {
		t.Fatalf("StopAgent: %v", err)
	}
	ack, err := client.DeleteAgent(context.Background(), "bc_abc123")
	if err != nil {
		t.Fatalf("DeleteAgent: %v", err)
	}
	if ack.ID != "bc_abc123" {
		t.Errorf("ack = %+v", ack)
	}
	want := []string{"POST /v0/agents/bc_abc123/stop", "DELETE /v0/agents/bc_abc123"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestClient_AccountEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/models":
			w.Write([]byte(`{"models":["claude-4-sonnet","gpt-5"]}`))
		case "/v0/repositories":
			w.Write([]byte(`{"repositories":[{"owner":"org","name":"repo","repository":"https://github.com/org/repo"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ml, err := client.ListModels(context.Background())
	if err != nil || len(ml.Models) != 2 {
		t.Fatalf("ListModels = %+v, %v", ml, err)
	}
	rl, err := client.ListRepositories(context.Background())
	if err != nil || len(rl.Repositories) != 1 || rl.Repositories[0].Owner != "org" {
		t.Fatalf("ListRepositories = %+v, %v", rl, err)
	}
}

func TestClient_ErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"Unauthorized", 401, `{"error":"Invalid API key"}`, IsUnauthorized, "Invalid API key"},
		{"Not found", 404, `{"error":{"message":"Agent not found"}}`, IsNotFound, "Agent not found"},
		{"Rate limited", 429, `{"message":"Too many requests"}`, IsRateLimited, "Too many requests"},
		{"Server error", 503, `upstream unavailable`, IsServerError, "upstream unavailable"},
		{"Bad request", 400, `{"error":"Can only stop running agents"}`, IsBadRequest, "Can only stop running agents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(t, server).GetAgent(context.Background(), "bc_abc123")
			if !tt.check(err) {
				t.Fatalf("error %v not classified as %s", err, tt.name)
			}
			var apiError *APIError
			if !errors.As(err, &apiError) {
				t.Fatal("expected *APIError")
			}
			if apiError.Message != tt.msg {
				t.Errorf("Message = %q, want %q", apiError.Message, tt.msg)
			}
			if string(apiError.Body) != tt.body {
				t.Errorf("Body = %q, want %q", apiError.Body, tt.body)
			}
		})
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).GetAgent(context.Background(), "bc_abc123")
	if !IsServerError(err) {
		t.Fatalf("error = %v, want server error", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
}

func TestClient_OptInRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id":"bc_abc123","status":"RUNNING"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     "k",
		HTTPClient: server.Client(),
		Retry:      RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	})
	if err != nil {
		t.Fatal(err)
	}
	agent, err := client.GetAgent(context.Background(), "bc_abc123")
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if agent.Status != models.AgentStatusRunning || calls.Load() != 3 {
		t.Errorf("status %q after %d attempts", agent.Status, calls.Load())
	}
}

func TestClient_RetryNeverRetriesNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     "k",
		HTTPClient: server.Client(),
		Retry:      RetryPolicy{MaxRetries: 5, InitialInterval: time.Millisecond},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.GetConversation(context.Background(), "bc_deleted"); !IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 0},
		{"60", time.Minute},
		{"-5", 0},
		{"Wed, 01 Jan 2025 12:00:30 GMT", 30 * time.Second},
		{"Wed, 01 Jan 2025 11:00:00 GMT", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.value, now); got != tt.expected {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}
