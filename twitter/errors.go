package twitter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	gotwitter "github.com/dghubble/go-twitter/twitter"
)

// Sentinel errors for the failure classes the scheduler cares about. Callers
// match them with errors.Is and map them to distinct process exit codes.
var (
	ErrUnauthorized       = errors.New("twitter: invalid or expired credentials")
	ErrRateLimited        = errors.New("twitter: rate limited by the platform")
	ErrMonthlyCapExceeded = errors.New("twitter: monthly usage cap exceeded")
)

// classify wraps an API failure with the matching sentinel so callers can
// branch on the failure class without inspecting HTTP responses themselves.
func classify(resp *http.Response, err error) error {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusTooManyRequests:
		if isUsageCap(err) {
			return fmt.Errorf("%w: %v", ErrMonthlyCapExceeded, err)
		}
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case http.StatusForbidden:
		if isUsageCap(err) {
			return fmt.Errorf("%w: %v", ErrMonthlyCapExceeded, err)
		}
	}
	return fmt.Errorf("twitter: api call failed (status %d): %w", status, err)
}

// isUsageCap reports whether the API error is the monthly product usage cap
// rather than the short rate-limit window. The platform signals it in the
// error message body, not in a dedicated status code.
func isUsageCap(err error) bool {
	var apiErr gotwitter.APIError
	if errors.As(err, &apiErr) {
		for _, detail := range apiErr.Errors {
			if strings.Contains(strings.ToLower(detail.Message), "usage cap") {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "usage cap")
}
