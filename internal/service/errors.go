package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const maxErrorBody = 512

// HTTPError is returned for any non-2xx response from the backend
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func newHTTPError(method, u string, resp *http.Response, body []byte) *HTTPError {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	return &HTTPError{
		Method:     method,
		URL:        u,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       text,
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an HTTPError
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the credentials
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the backend answered 404
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Describe turns a client error into a message fit for display
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	switch {
	case errors.Is(err, context.Canceled):
		return "The request was cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "The BORME service took too long to answer"
	case errors.As(err, &httpErr):
		switch httpErr.StatusCode {
		case http.StatusUnauthorized:
			return "Invalid username or password"
		case http.StatusForbidden:
			return "You are not allowed to perform this action"
		case http.StatusNotFound:
			return "The requested record was not found"
		case http.StatusBadRequest:
			if httpErr.Body != "" {
				return "Invalid request: " + httpErr.Body
			}
			return "Invalid request"
		default:
			return fmt.Sprintf("The BORME service returned an error (%s)", httpErr.Status)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "Could not reach the BORME service"
	}

	return err.Error()
}
