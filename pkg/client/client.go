// Package client is the Go SDK for the PrazoCerto REST API.
//
//	c, err := client.NewClient("https://prazos.example.com.br", "")
//	resp, err := c.Deadlines().Compute(ctx, &client.ComputeRequest{
//		CatalogCode: "CPC_335",
//		TriggerDate: common.MustParseDate("2025-03-10"),
//		Court:       "TJSP",
//	})
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const Version = "0.1.0"

// ErrInvalidConfig is returned by NewClient for an unusable base URL.
var ErrInvalidConfig = stderrors.New("prazocerto: invalid client configuration")

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client is the PrazoCerto SDK client. The API key is only needed for the
// admin endpoints.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	deadlines     *DeadlinesClient
	deadlinesOnce sync.Once
	calendar      *CalendarClient
	calendarOnce  sync.Once
	catalog       *CatalogClient
	catalogOnce   sync.Once
	admin         *AdminClient
	adminOnce     sync.Once
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("prazocerto: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, msg, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a new PrazoCerto SDK client
func NewClient(baseURL string, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidConfig
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("prazocerto-go-sdk/%s", Version),
		logger:       &noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Deadlines returns the deadlines sub-client (lazy initialization, thread-safe)
func (c *Client) Deadlines() *DeadlinesClient {
	c.deadlinesOnce.Do(func() {
		c.deadlines = &DeadlinesClient{client: c}
	})
	return c.deadlines
}

// Calendar returns the calendar sub-client (lazy initialization, thread-safe)
func (c *Client) Calendar() *CalendarClient {
	c.calendarOnce.Do(func() {
		c.calendar = &CalendarClient{client: c}
	})
	return c.calendar
}

// Catalog returns the catalog sub-client (lazy initialization, thread-safe)
func (c *Client) Catalog() *CatalogClient {
	c.catalogOnce.Do(func() {
		c.catalog = &CatalogClient{client: c}
	})
	return c.catalog
}

// Admin returns the admin sub-client (lazy initialization, thread-safe)
func (c *Client) Admin() *AdminClient {
	c.adminOnce.Do(func() {
		c.admin = &AdminClient{client: c}
	})
	return c.admin
}

// request describes one API call. Raw responses (ICS) are returned as bytes
// instead of being decoded.
type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	rawBody []byte
	ctype   string
	accept  string
}

// do performs an HTTP request with retry logic and decodes a JSON response
// into result.
func (c *Client) do(ctx context.Context, r request, result interface{}) error {
	respBody, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	path := r.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	payload := r.rawBody
	ctype := r.ctype
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
		ctype = "application/json"
	}
	accept := r.accept
	if accept == "" {
		accept = "application/json"
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if ctype != "" {
			req.Header.Set("Content-Type", ctype)
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)
		if err != nil {
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", r.method, path, resp.StatusCode, duration)

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
				lastErr = c.apiError(resp, respBody, requestID)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := c.apiError(resp, respBody, requestID)
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return nil, apiErr
		}
		return respBody, nil
	}
	return nil, lastErr
}

func (c *Client) apiError(resp *http.Response, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
	if len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}
	var errResp struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Detail    string `json:"detail"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}
	apiErr.Code = errResp.Code
	apiErr.Message = errResp.Message
	apiErr.Detail = errResp.Detail
	if errResp.RequestID != "" {
		apiErr.RequestID = errResp.RequestID
	}
	return apiErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	// Jitter of up to 25%.
	if quarter := int64(backoff / 4); quarter > 0 {
		backoff += time.Duration(rand.Int63n(quarter))
	}
	return backoff
}

//Personal.AI order the ending
