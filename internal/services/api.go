// Low-level JSON transport shared by the catalog and backend clients
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/dish/internal/shared"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// APIService performs JSON requests against a single base URL.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewAPIService creates an APIService. A nil client falls back to [http.DefaultClient].
func NewAPIService(baseURL string, client *http.Client, logger *log.Logger) *APIService {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &APIService{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: client,
		logger:     logger,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

// BaseURL returns the normalized base URL.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// Do sends a request with an optional JSON body and reads the full response.
//
// A non-empty token is attached as a bearer credential. Non-2xx statuses are
// returned as responses, not errors; transport failures wrap [shared.ErrAPIRequest].
func (a *APIService) Do(ctx context.Context, method, path string, body any, token string) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client(token).Do(req)
	if err != nil {
		a.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w: %w", shared.ErrAPIRequest, shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	a.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

// Get performs a GET request to the specified path.
func (a *APIService) Get(ctx context.Context, path, token string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil, token)
}

// Post performs a POST request with body encoded as JSON.
func (a *APIService) Post(ctx context.Context, path string, body any, token string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPost, path, body, token)
}

// Delete performs a DELETE request to the specified path.
func (a *APIService) Delete(ctx context.Context, path, token string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil, token)
}

// client returns the base client, or a copy whose transport injects token.
func (a *APIService) client(token string) *http.Client {
	if token == "" {
		return a.httpClient
	}

	authed := *a.httpClient
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   a.httpClient.Transport,
	}
	return &authed
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
