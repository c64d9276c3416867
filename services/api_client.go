package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized means the backend rejected the session token. The session
// has already been invalidated when this is returned.
var ErrUnauthorized = shared.NewServiceError(
	shared.ErrorCategoryAuthentication,
	"UNAUTHORIZED",
	"backend rejected the session token",
	"APIClient",
	"",
	false,
	nil,
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// AsAPIError extracts an APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// APIClient is the single outbound channel to the backend REST API. Every
// call carries the caller's session explicitly; a 401 on an authenticated
// call invalidates that session.
type APIClient struct {
	baseURL          string
	client           *http.Client
	maxRetryAttempts int
	sessions         *SessionManager
	metrics          *shared.HTTPMetrics
	logger           *logrus.Entry
}

func NewAPIClient(cfg shared.GatewayConfig, factory *shared.HTTPClientFactory, sessions *SessionManager, metrics *shared.HTTPMetrics) *APIClient {
	return &APIClient{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		client:           factory.CreateHTTPClient(cfg.HTTPRequestTimeout),
		maxRetryAttempts: cfg.MaxRetryAttempts,
		sessions:         sessions,
		metrics:          metrics,
		logger:           logrus.WithField("component", "APIClient"),
	}
}

// Metrics exposes the outbound call counters
func (c *APIClient) Metrics() *shared.HTTPMetrics {
	return c.metrics
}

// Get performs an authenticated GET and decodes the JSON response into out
func (c *APIClient) Get(ctx context.Context, session *models.Session, path string, query url.Values, out any) error {
	return c.Do(ctx, session, http.MethodGet, path, query, nil, out)
}

// Post performs an authenticated POST with a JSON body
func (c *APIClient) Post(ctx context.Context, session *models.Session, path string, body, out any) error {
	return c.Do(ctx, session, http.MethodPost, path, nil, body, out)
}

// Do sends one request. session may be nil for unauthenticated calls such as login.
func (c *APIClient) Do(ctx context.Context, session *models.Session, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	logger := c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	})

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return shared.NewServiceError(shared.ErrorCategoryProcessing, "ENCODE_FAILED", "failed to encode request body", "APIClient", path, false, err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return shared.NewServiceError(shared.ErrorCategoryConfiguration, "BAD_REQUEST", "failed to build request", "APIClient", path, false, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if session != nil && session.Token != "" {
		request.Header.Set("Authorization", "Bearer "+session.Token)
	}

	retries := 0
	if method == http.MethodGet {
		retries = c.maxRetryAttempts
	}

	response, err := shared.ExecuteHTTPRequestWithRetry(c.client, request, retries, c.metrics)
	if err != nil {
		logger.WithError(err).Error("Backend request failed")
		return shared.NewServiceError(shared.ErrorCategoryNetwork, "BACKEND_UNREACHABLE", "backend request failed", "APIClient", path, true, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return shared.NewServiceError(shared.ErrorCategoryNetwork, "READ_FAILED", "failed to read backend response", "APIClient", path, true, err)
	}

	if response.StatusCode == http.StatusUnauthorized && session != nil {
		if c.sessions.Invalidate(ctx, session.ID) {
			logger.WithField("user_id", session.User.ID).Warn("Backend answered 401, session cleared")
		}
		return ErrUnauthorized
	}

	if response.StatusCode >= 400 {
		apiErr := &APIError{
			Status:  response.StatusCode,
			Message: errorMessage(raw),
			Body:    raw,
		}
		logger.WithFields(logrus.Fields{
			"status_code": response.StatusCode,
			"message":     apiErr.Message,
		}).Warn("Backend returned an error response")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return shared.NewServiceError(shared.ErrorCategoryProcessing, "DECODE_FAILED", "failed to decode backend response", "APIClient", path, false, err)
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error body.
// The backend uses both {error} and {message}.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
