package client

import (
	"errors"
	"net/http"
	"testing"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		errorClass ErrorClass
		expected   bool
	}{
		{"client error should not retry", ErrorClassClient, false},
		{"server error should retry", ErrorClassServer, true},
		{"rate limit should retry", ErrorClassRateLimit, true},
		{"network error should retry", ErrorClassNetwork, true},
		{"empty error class should not retry", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.errorClass); got != tt.expected {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.errorClass, got, tt.expected)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorClass
	}{
		{http.StatusOK, ""},
		{http.StatusBadRequest, ErrorClassClient},
		{http.StatusForbidden, ErrorClassClient},
		{http.StatusNotFound, ErrorClassClient},
		{http.StatusTooManyRequests, ErrorClassRateLimit},
		{http.StatusInternalServerError, ErrorClassServer},
		{http.StatusServiceUnavailable, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TransportError
		expected string
	}{
		{
			name: "network error with cause",
			err: &TransportError{
				Method:     "/v1/analytics/data",
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "analytics api network error (status 0) on /v1/analytics/data: request failed: connection refused",
		},
		{
			name: "http error",
			err: &TransportError{
				Method:     "/v1/analytics/data",
				StatusCode: 403,
				ErrorClass: ErrorClassClient,
				Message:    "Api-Key is invalid",
			},
			expected: "analytics api client error (status 403) on /v1/analytics/data: Api-Key is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("wrapped error")
	err := &TransportError{ErrorClass: ErrorClassNetwork, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped error")
	}

	noCause := &TransportError{ErrorClass: ErrorClassClient}
	if noCause.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", noCause.Unwrap())
	}
}

func TestErrorMessage(t *testing.T) {
	if got := errorMessage("400 Bad Request", []byte(`{"code":3,"message":"date_from is invalid"}`)); got != "date_from is invalid" {
		t.Errorf("errorMessage() = %q, want API message", got)
	}
	if got := errorMessage("502 Bad Gateway", []byte(`<html>bad gateway</html>`)); got != "502 Bad Gateway" {
		t.Errorf("errorMessage() = %q, want status line", got)
	}
}
