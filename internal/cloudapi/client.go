// Package cloudapi is a typed client for the Cursor Cloud Agents REST API.
//
// Every method performs one request (plus retries when a RetryPolicy is
// configured) authenticated with HTTP Basic Auth: the API key is the
// username and the password is empty.
package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// apiPrefix is the versioned path every endpoint lives under.
const apiPrefix = "/v0"

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 10 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root. Defaults to models.DefaultBaseURL. Must use
	// HTTPS unless the host is a loopback address.
	BaseURL string

	// APIKey is sent as the Basic Auth username. Required.
	APIKey string

	// HTTPClient is used for all requests. Defaults to a client with Timeout.
	HTTPClient *http.Client

	// Timeout applies to the default HTTPClient. Defaults to 30s.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Logger receives one line per request. Defaults to discarding.
	Logger *log.Logger

	// Retry is an opt-in retry policy. The zero value sends exactly one attempt.
	Retry RetryPolicy

	// OnResponse, if set, receives the raw body of every successful
	// response before it is decoded. The slice must not be modified.
	OnResponse func(body []byte)
}

// Client issues Cloud Agents API requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
	retry      RetryPolicy
	onResponse func([]byte)
}

// NewClient creates a Client. It fails without an API key so a missing
// credential never turns into a remote 401.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("cloudapi: API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, apiPrefix)

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("cloudapi: invalid base URL %q", config.BaseURL)
	}
	if parsed.Scheme != "https" && !(parsed.Scheme == "http" && isLoopback(parsed.Hostname())) {
		return nil, fmt.Errorf("cloudapi: API client requires HTTPS (got %q)", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "cursoragents"
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
		retry:      config.Retry,
		onResponse: config.OnResponse,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// do executes a request, retrying per the client's policy, and decodes a
// 2xx JSON body into result (which may be nil).
func (client *Client) do(ctx context.Context, method, path string, query url.Values, requestBody any, result any) error {
	var encoded []byte
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("cloudapi: encoding request body: %w", err)
		}
	}

	body, err := client.retry.run(ctx, client.logger, func() ([]byte, error) {
		return client.attempt(ctx, method, path, query, encoded)
	})
	if err != nil {
		return err
	}
	if client.onResponse != nil {
		client.onResponse(body)
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("cloudapi: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// attempt sends a single HTTP request and returns the body of a 2xx response.
func (client *Client) attempt(ctx context.Context, method, path string, query url.Values, encoded []byte) ([]byte, error) {
	fullURL := client.baseURL + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if encoded != nil {
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cloudapi: creating request: %w", err)
	}

	request.SetBasicAuth(client.apiKey, "")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", client.userAgent)
	requestID := uuid.NewString()
	request.Header.Set("X-Request-Id", requestID)
	if encoded != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Printf("%s %s failed after %s (request_id=%s): %v", method, apiPrefix+path, time.Since(start).Round(time.Millisecond), requestID, err)
		return nil, fmt.Errorf("cloudapi: failed to connect: %s %s: %w", method, apiPrefix+path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("cloudapi: reading response body: %w", err)
	}

	client.logger.Printf("%s %s -> %d (%s, request_id=%s)", method, apiPrefix+path, response.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, newAPIError(method, apiPrefix+path, response.StatusCode, response.Header, body)
	}
	return body, nil
}
