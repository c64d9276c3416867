package shared

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPClientFactory creates HTTP clients with pooled transports and caches them by timeout
type HTTPClientFactory struct {
	defaultTimeout time.Duration
	mutex          sync.RWMutex
	clients        map[string]*http.Client
}

// NewHTTPClientFactory creates a new HTTP client factory
func NewHTTPClientFactory(defaultTimeout time.Duration) *HTTPClientFactory {
	return &HTTPClientFactory{
		defaultTimeout: defaultTimeout,
		clients:        make(map[string]*http.Client),
	}
}

// CreateHTTPClient returns a pooled client for the given timeout.
// A zero timeout (after falling back to the factory default) means no client-side deadline.
func (f *HTTPClientFactory) CreateHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}

	clientKey := fmt.Sprintf("timeout_%d", timeout.Milliseconds())

	f.mutex.RLock()
	if client, exists := f.clients[clientKey]; exists {
		f.mutex.RUnlock()
		return client
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if client, exists := f.clients[clientKey]; exists {
		return client
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	f.clients[clientKey] = client

	logrus.WithFields(logrus.Fields{
		"component":  "HTTPClientFactory",
		"timeout":    timeout,
		"client_key": clientKey,
	}).Debug("Created new HTTP client")

	return client
}

// ExecuteHTTPRequestWithRetry executes a request, retrying network errors and 5xx
// responses with exponential backoff. Only requests without a body are retried;
// anything else is sent exactly once. Non-retryable responses are returned to the
// caller unchanged so it can inspect the status.
func ExecuteHTTPRequestWithRetry(client *http.Client, request *http.Request, maxRetryAttempts int, metrics *HTTPMetrics) (*http.Response, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component": "HTTPClientFactory",
		"method":    request.Method,
		"url":       request.URL.String(),
	})

	if request.Body != nil && request.Body != http.NoBody {
		maxRetryAttempts = 0
	}

	var lastExecutionError error

	for attemptNumber := 0; attemptNumber <= maxRetryAttempts; attemptNumber++ {
		if attemptNumber > 0 {
			backoff := time.Duration(1<<uint(attemptNumber-1)) * 250 * time.Millisecond

			logger.WithFields(logrus.Fields{
				"attempt":          attemptNumber + 1,
				"backoff_duration": backoff,
			}).Debug("Retrying HTTP request after backoff")

			if metrics != nil {
				metrics.RecordRetryAttempt()
			}

			select {
			case <-request.Context().Done():
				return nil, request.Context().Err()
			case <-time.After(backoff):
			}
		}

		startTime := time.Now()
		httpResponse, err := client.Do(request)
		elapsed := time.Since(startTime)

		if err != nil {
			if metrics != nil {
				metrics.RecordHTTPRequest(false, 0, elapsed, "network", request.Context().Err() != nil)
			}
			lastExecutionError = fmt.Errorf("attempt %d failed with network error: %w", attemptNumber+1, err)
			logger.WithError(lastExecutionError).Debug("HTTP request failed with network error")
			if request.Context().Err() != nil {
				break
			}
			continue
		}

		success := httpResponse.StatusCode < 400
		if metrics != nil {
			errorType := ""
			if !success {
				errorType = http.StatusText(httpResponse.StatusCode)
			}
			metrics.RecordHTTPRequest(success, httpResponse.StatusCode, elapsed, errorType, false)
		}

		if httpResponse.StatusCode >= 500 && attemptNumber < maxRetryAttempts {
			logger.WithFields(logrus.Fields{
				"attempt":     attemptNumber + 1,
				"status_code": httpResponse.StatusCode,
			}).Debug("HTTP request failed with server error")
			httpResponse.Body.Close()
			continue
		}

		logger.WithFields(logrus.Fields{
			"attempt":     attemptNumber + 1,
			"status_code": httpResponse.StatusCode,
			"duration":    elapsed,
		}).Debug("HTTP request completed")
		return httpResponse, nil
	}

	totalAttempts := maxRetryAttempts + 1
	logger.WithFields(logrus.Fields{
		"total_attempts": totalAttempts,
		"final_error":    lastExecutionError,
	}).Error("HTTP request failed after all retry attempts")

	return nil, fmt.Errorf("HTTP request failed after %d attempts: %w", totalAttempts, lastExecutionError)
}

// CleanupAllClients closes idle connections of every cached client
func (f *HTTPClientFactory) CleanupAllClients() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for key, client := range f.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
		delete(f.clients, key)
	}

	logrus.WithField("component", "HTTPClientFactory").Debug("Cleaned up all cached HTTP clients")
}
