package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidDoorCount, "door count %d out of range", 5)
	want := "INVALID_DOOR_COUNT: door count 5 out of range"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := fmt.Errorf("unexpected EOF")
	wrapped := Wrap(ErrCodeCodec, cause, "failed to decode image")
	want = "CODEC_ERROR: failed to decode image: unexpected EOF"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestIsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := fmt.Errorf("render: %w", Wrap(ErrCodeCodec, cause, "encode"))

	if !Is(err, ErrCodeCodec) {
		t.Error("expected Is to find CODEC_ERROR through fmt wrapping")
	}
	if Is(err, ErrCodeInvalidDimensions) {
		t.Error("Is matched the wrong code")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if Is(cause, ErrCodeCodec) {
		t.Error("plain error should not match any code")
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidCalibration, "reference pixel height must be positive")
	if got := GetCode(err); got != ErrCodeInvalidCalibration {
		t.Errorf("GetCode() = %q", got)
	}
	if got := UserMessage(err); got != "reference pixel height must be positive" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := fmt.Errorf("plain")
	if got := GetCode(plain); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := UserMessage(plain); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidCalibration, http.StatusBadRequest},
		{ErrCodeInvalidDimensions, http.StatusBadRequest},
		{ErrCodeInvalidDoorCount, http.StatusBadRequest},
		{ErrCodeUnsupportedOption, http.StatusBadRequest},
		{ErrCodeCodec, http.StatusUnprocessableEntity},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
