package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/freshdesk/freshdesk-cli/internal/debug"
	"github.com/freshdesk/freshdesk-cli/internal/validation"
)

const (
	DefaultTimeout = 30 * time.Second

	// DefaultPageLimit bounds ticket-list pagination. The remote API signals
	// the end of a listing with an empty page; a server that echoes the last
	// page forever would otherwise never terminate the loop.
	DefaultPageLimit = 500

	// apiKeyPassword is the placeholder basic-auth password the remote
	// expects when the username carries an API key.
	apiKeyPassword = "X"
)

// Client is the Freshdesk classic API client. All operations are single
// blocking round trips; the client performs no retries, no backoff, and no
// caching. Rate-limit headers are recorded (see LastRateLimit) but never
// enforced.
type Client struct {
	BaseURL   string
	User      string
	Password  string
	APIKey    string
	HTTP      *http.Client
	UserAgent string
	PageLimit int

	skipURLValidation bool // internal flag for testing only
	validatedBaseURL  bool
	validateMu        sync.Mutex
	rateLimitMu       sync.Mutex
	lastRateLimit     *RateLimitInfo
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

var validateHelpdeskURL = validation.ValidateHelpdeskURL

// New creates a client authenticating with an API key. The key is sent as
// the basic-auth username with a placeholder password.
func New(domain, apiKey string) *Client {
	c := newClient(domain)
	c.APIKey = apiKey
	return c
}

// NewWithPassword creates a client authenticating with a username/password
// pair.
func NewWithPassword(domain, user, password string) *Client {
	c := newClient(domain)
	c.User = user
	c.Password = password
	return c
}

func newClient(domain string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	// Allow localhost URLs when FRESHDESK_TESTING=1 is set (for integration tests)
	skipValidation := os.Getenv("FRESHDESK_TESTING") == "1"

	return &Client{
		BaseURL:           BaseURLFromDomain(domain),
		PageLimit:         DefaultPageLimit,
		skipURLValidation: skipValidation,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// BaseURLFromDomain normalizes a helpdesk domain into a base URL. A bare
// domain (company.freshdesk.com) gets an https scheme; trailing slashes are
// stripped.
func BaseURLFromDomain(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, "://") {
		return "https://" + domain
	}
	return domain
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL, apiKey string) *Client {
	c := New(baseURL, apiKey)
	c.skipURLValidation = true
	return c
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}

	if err := validateHelpdeskURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	c.validatedBaseURL = true
	return nil
}

// resourcePath joins a relative resource path (e.g. "helpdesk/tickets/1.json")
// onto the base URL.
func (c *Client) resourcePath(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// do performs an HTTP request and decodes the unwrapped response into result.
// An unparseable 2xx body decodes as the empty-object sentinel: result is
// left untouched and callers see zero values downstream.
func (c *Client) do(ctx context.Context, method, url string, body any, result any) error {
	respBody, err := c.doRaw(ctx, method, url, body)
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(emptyObjectOnParseFailure(respBody), result); err != nil {
			return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
		}
	}
	return nil
}

// emptyObjectOnParseFailure substitutes the empty-object sentinel for bodies
// that are not valid JSON. The remote intermittently returns HTML error pages
// with a 200 status; callers tolerate the resulting zero values.
func emptyObjectOnParseFailure(body []byte) []byte {
	if json.Valid(bytes.TrimSpace(body)) && len(bytes.TrimSpace(body)) > 0 {
		return body
	}
	return []byte("{}")
}

// doRaw performs an HTTP request and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, method, url string, body any) ([]byte, error) {
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.APIKey != "" {
		req.SetBasicAuth(c.APIKey, apiKeyPassword)
	} else {
		req.SetBasicAuth(c.User, c.Password)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "url", url, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	c.recordRateLimit(resp.Header)
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))
	}

	// A Retry-After header means the API rate limit is exhausted. Surface
	// that before touching the body at all.
	if retryAfter, ok := retryAfterDuration(resp.Header); ok {
		_ = resp.Body.Close()
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The remote reports bad credentials with a require_login marker in an
	// otherwise ordinary JSON body, regardless of status code.
	if bodyRequiresLogin(respBody) {
		return nil, &AuthError{Reason: "API credentials are incorrect for this domain"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       sanitizeErrorBody(string(respBody)),
			RequestID:  requestIDFromHeader(resp.Header),
		}
	}

	return respBody, nil
}

// bodyRequiresLogin probes a response body for the require_login sentinel key.
func bodyRequiresLogin(body []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	_, ok := probe["require_login"]
	return ok
}

// Get performs a GET request against a relative resource path.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, c.resourcePath(path), nil, result)
}

// GetRaw performs a GET request and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, c.resourcePath(path), nil)
}

// Post performs a POST request against a relative resource path.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, c.resourcePath(path), body, result)
}

// Put performs a PUT request against a relative resource path.
func (c *Client) Put(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPut, c.resourcePath(path), body, result)
}

// Delete performs a DELETE request against a relative resource path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, c.resourcePath(path), nil, nil)
}

// DoRaw performs an HTTP request with the given method and relative path,
// returning the raw response body. This backs the raw API escape hatch in
// the CLI.
func (c *Client) DoRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	return c.doRaw(ctx, method, c.resourcePath(path), body)
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return header.Get("X-Request-ID")
}

// sanitizeErrorBody extracts a safe error message from an API response
// without exposing potentially sensitive data like tokens or user info.
func sanitizeErrorBody(body string) string {
	var errResp struct {
		Error   string `json:"error"`
		Errors  any    `json:"errors"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return "API request failed (response body redacted for security)"
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	if s, ok := errResp.Errors.(string); ok && s != "" {
		return s
	}
	return "API request failed (response body redacted for security)"
}

// wrapPayload builds the single-key request body the remote expects for
// create and update calls, e.g. {"topic": {"title": ...}}.
func wrapPayload(resourceType string, fields map[string]any) map[string]any {
	return map[string]any{resourceType: fields}
}
