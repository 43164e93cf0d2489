package services

import "net/http"

// MarkerForStatus maps an HTTP response code to the sentinel that
// classifies it. Timeouts, throttling, and server faults retry; other
// client errors do not.
func MarkerForStatus(status int) error {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return ErrTransient
	case status >= 500:
		return ErrTransient
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrConfiguration
	case status >= 400:
		return ErrFatal
	default:
		return nil
	}
}
