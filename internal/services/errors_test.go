package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(ErrTransient, "vision", "analyze", "panel 4", base)

	if !errors.Is(err, ErrTransient) {
		t.Error("wrapped error lost its marker")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
	want := "transient failure: vision: analyze: panel 4: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "speech", "synthesize", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Error("nil marker should default to transient")
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrFatal, "", "", "", nil)
	if err.Error() != "fatal failure: service failure" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", Wrap(ErrTransient, "vision", "analyze", "", nil), true},
		{"fatal", Wrap(ErrFatal, "vision", "analyze", "", nil), false},
		{"validation", Wrap(ErrValidation, "panels", "load", "", nil), false},
		{"configuration", Wrap(ErrConfiguration, "config", "load", "", nil), false},
		{"not found", Wrap(ErrNotFound, "speech", "synthesize", "voice gone", nil), false},
		{"http 404", Wrap(MarkerForStatus(404), "vision", "analyze", "", nil), false},
		{"untagged", fmt.Errorf("socket closed"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
