// Package edu implements the client for the education backend that serves
// the current student's record.
package edu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nuemind/student-profile/internal/domain/profile"
	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// CurrentStudentPath is the endpoint returning the session's student record.
const CurrentStudentPath = "/edu/student/getCurrentStudentInfo"

// DefaultBaseURL is the development backend.
const DefaultBaseURL = "http://localhost/dev-api/"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// TokenSource supplies the bearer token when a caller passes none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientConfig contains configuration for the education API client.
type ClientConfig struct {
	// BaseURL is the API base URL; avatar paths are relative to it
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// TokenSource is consulted when CurrentStudent gets an empty token
	TokenSource TokenSource

	// HTTPClient overrides the default client; Timeout is ignored when set
	HTTPClient *http.Client

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: DefaultTimeout,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the education API client. It implements profile.RecordSource.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

var _ profile.RecordSource = (*Client)(nil)

// NewClient creates a new education API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     config.Logger.With("component", "edu_client"),
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// CurrentStudent fetches the record of the student owning token. An empty
// token falls back to the TokenSource; with neither the request is sent
// without credentials.
func (c *Client) CurrentStudent(ctx context.Context, token string) (*profile.StudentRecord, error) {
	if token == "" && c.config.TokenSource != nil {
		t, err := c.config.TokenSource.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		token = t
	}

	var response APIResponse[StudentDTO]
	if err := c.doRequest(ctx, http.MethodGet, CurrentStudentPath, token, &response); err != nil {
		return nil, fmt.Errorf("get current student: %w", err)
	}

	if response.Data == nil {
		return nil, shared.ErrStudentRecordNotFound
	}

	return StudentFromDTO(response.Data), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs a single request and decodes the envelope into result.
// There are no retries.
func (c *Client) doRequest(ctx context.Context, method, path, token string, result *APIResponse[StudentDTO]) error {
	fullURL := joinURL(c.config.BaseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("edu api request failed", "path", path, "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(err)
	}

	c.logger.Debug("edu api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		var envelope APIResponse[json.RawMessage]
		msg := ""
		if json.Unmarshal(body, &envelope) == nil {
			msg = envelope.Msg
		}
		return statusError(resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return shared.WrapError("edu", "Parse", shared.ErrInvalidFormat, "invalid response from education API", err)
	}

	if result.Code != 0 && result.Code != codeSuccess {
		return statusError(result.Code, result.Msg)
	}

	return nil
}

// transportError maps a failed round trip onto the network-failure kinds.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return shared.WrapError("edu", "Request", shared.ErrTimeout, "education API request timeout", err)
	}
	return shared.WrapError("edu", "Request", shared.ErrServiceUnavailable, "education API is unreachable", err)
}

// statusError maps an HTTP status or body code. msg is forwarded when set.
func statusError(code int, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", code)
	}

	switch {
	case code == http.StatusNotFound:
		return shared.NewDomainError("edu", "Request", shared.ErrNotFound, msg)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return shared.NewDomainError("edu", "Request", shared.ErrUnauthorized, msg)
	case code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout:
		return shared.NewDomainError("edu", "Request", shared.ErrServiceUnavailable, msg)
	default:
		return shared.NewDomainError("edu", "Request", shared.ErrRejected, msg)
	}
}

// joinURL concatenates base and path with exactly one slash between them.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION TOKENS
// ══════════════════════════════════════════════════════════════════════════════

// SessionTokenSource reads the bearer token from the session area.
type SessionTokenSource struct {
	Area storage.Area
}

// Token implements TokenSource. A missing token yields "".
func (s SessionTokenSource) Token(ctx context.Context) (string, error) {
	if s.Area == nil {
		return "", nil
	}
	token, _, err := s.Area.Get(ctx, storage.KeyToken)
	return token, err
}
