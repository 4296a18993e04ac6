package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps request and response bodies in debug output
const maxLoggedBody = 10000

// Transport is an http.RoundTripper that writes each completion exchange to
// a debug logger. Credentials are redacted from headers and JSON bodies.
type Transport struct {
	wrapped http.RoundTripper
	logger  *Logger
}

// NewLoggingRoundTripper wraps rt (http.DefaultTransport when nil)
func NewLoggingRoundTripper(rt http.RoundTripper, logger *Logger) *Transport {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &Transport{wrapped: rt, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}
	t.logger.Debug("HTTP Request", Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": headerFields(req.Header),
		"body":    bodyField(reqBody),
	})

	resp, err := t.wrapped.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.Error("HTTP Error", err, Fields{
			"method":      req.Method,
			"url":         req.URL.String(),
			"duration_ms": duration.Milliseconds(),
		})
		return nil, err
	}

	respBody, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(respBody))
	t.logger.Debug("HTTP Response", Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"body":        bodyField(respBody),
	})

	return resp, nil
}

func headerFields(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitiveHeader(k) {
			headers[k] = "[REDACTED]"
		} else if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

func bodyField(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var parsed interface{}
	if json.Valid(body) && json.Unmarshal(body, &parsed) == nil {
		return redactSensitiveFields(parsed)
	}
	return truncateBody(body, maxLoggedBody)
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "api-key", "x-api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

// truncateBody truncates body if too large
func truncateBody(body []byte, maxSize int) string {
	if len(body) <= maxSize {
		return string(body)
	}
	return string(body[:maxSize]) + "...[truncated]"
}

var sensitiveKeys = []string{
	"api_key", "apikey", "api-key",
	"password", "secret", "token",
	"authorization",
}

// redactSensitiveFields redacts sensitive keys in parsed JSON. Token counters
// such as max_tokens are left alone.
func redactSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			if isSensitiveKey(k) {
				result[k] = "[REDACTED]"
			} else {
				result[k] = redactSensitiveFields(val)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = redactSensitiveFields(item)
		}
		return result
	default:
		return data
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasSuffix(lower, "_tokens") {
		return false
	}
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
