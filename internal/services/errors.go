package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth retrying: network faults,
	// throttling, service overload.
	ErrTransient = errors.New("transient failure")
	// ErrFatal marks failures that retrying cannot fix: rejected input,
	// authentication, malformed requests.
	ErrFatal = errors.New("fatal failure")
	// ErrValidation marks input the pipeline itself rejected before any
	// service call.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or contradictory settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing panel, voice, or stored object.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above; nil defaults to ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRetryable reports whether the error is worth another attempt.
// Anything tagged fatal, validation, configuration, or not-found is not;
// a missing endpoint or voice stays missing on retry. Untagged errors
// default to retryable so unknown faults get the benefit of retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrFatal), errors.Is(err, ErrValidation),
		errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return false
	}
	return true
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
