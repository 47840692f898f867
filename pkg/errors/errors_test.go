package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "width must be positive, got %g", -2.0)
	if err.Code != ErrCodeInvalidConfig || err.Message != "width must be positive, got -2" {
		t.Errorf("New() = %+v", err)
	}
	if got, want := err.Error(), "INVALID_CONFIG: width must be positive, got -2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("unexpected EOF")
	wrapped := Wrap(ErrCodeInvalidPage, cause, "decode %s", "page.toml")
	if got, want := wrapped.Error(), "INVALID_PAGE: decode page.toml: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not expose its cause")
	}
}

func TestIs(t *testing.T) {
	colorErr := New(ErrCodeInvalidColor, "unknown color %q", "nocolor")
	configErr := Wrap(ErrCodeInvalidConfig, colorErr, "color")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", colorErr, ErrCodeInvalidColor, true},
		{"different code", colorErr, ErrCodeInvalidConfig, false},
		{"outer code", configErr, ErrCodeInvalidConfig, true},
		{"inner code", configErr, ErrCodeInvalidColor, true},
		{"code absent from chain", configErr, ErrCodeFileNotFound, false},
		{"through fmt wrapping", fmt.Errorf("arrow 2: %w", configErr), ErrCodeInvalidColor, true},
		{"behind a plain cause", Wrap(ErrCodeInternal, fmt.Errorf("x: %w", colorErr), "y"), ErrCodeInvalidColor, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"coded", New(ErrCodeInvalidSelector, "empty selector"), ErrCodeInvalidSelector, "empty selector"},
		{"outermost wins", Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidColor, "inner"), "arrow 1"), ErrCodeInvalidConfig, "arrow 1"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid config", New(ErrCodeInvalidConfig, "bad"), 400},
		{"invalid selector", New(ErrCodeInvalidSelector, "bad"), 400},
		{"invalid input", New(ErrCodeInvalidInput, "bad"), 400},
		{"file not found", New(ErrCodeFileNotFound, "missing"), 404},
		{"unsupported", New(ErrCodeUnsupported, "nope"), 501},
		{"wrapped internal", Wrap(ErrCodeInternal, errors.New("boom"), "render"), 500},
		{"plain error", errors.New("plain"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
