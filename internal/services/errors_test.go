package services_test

import (
	"errors"
	"strings"
	"testing"

	"freqshift/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ffmpeg", "transcode", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected io marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestRetryable(t *testing.T) {
	if services.Retryable(services.Wrap(services.ErrValidation, "convert", "request", "empty path", nil)) {
		t.Fatal("validation errors must not be retryable")
	}
	if !services.Retryable(services.Wrap(services.ErrTimeout, "ffmpeg", "transcode", "", errors.New("deadline"))) {
		t.Fatal("timeouts should be retryable")
	}
	if services.Retryable(nil) {
		t.Fatal("nil is not retryable")
	}
	if services.Retryable(errors.New("plain")) {
		t.Fatal("unmarked errors are not retryable")
	}
}
