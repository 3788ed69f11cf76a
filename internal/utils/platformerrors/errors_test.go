package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		status    int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeExternal, http.StatusBadGateway},
		{ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorType("UNKNOWN"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.errorType); got != tt.status {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.errorType, got, tt.status)
		}
	}
}

func TestNewCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	err := New(ctx, LayerDomain, ErrorTypeValidation, "плохой запрос", nil)
	if err.RequestID != "req-123" {
		t.Errorf("expected request id req-123, got %q", err.RequestID)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(context.Background(), LayerRepository, ErrorTypeDatabaseError, "db down", cause)

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsType(wrapped, ErrorTypeDatabaseError) {
		t.Error("IsType must see through wrapping")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("the original cause must stay reachable")
	}
}

func TestAsPassesThroughPlatformErrors(t *testing.T) {
	ctx := context.Background()
	original := New(ctx, LayerDomain, ErrorTypeNotFound, "нет такого", nil)

	got := As(ctx, LayerHandler, fmt.Errorf("wrap: %w", original), "fallback")
	if got.Type != ErrorTypeNotFound || got.Detail != "нет такого" {
		t.Errorf("As must preserve the original platform error, got %+v", got)
	}

	plain := As(ctx, LayerHandler, errors.New("boom"), "fallback")
	if plain.Type != ErrorTypeInternal || plain.Detail != "fallback" {
		t.Errorf("plain errors must become internal, got %+v", plain)
	}
}
