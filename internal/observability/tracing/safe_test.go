package tracing

import (
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsCredentials(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/auth/login"),
		attribute.String("password", "hunter2"),
		attribute.String("token", "abc"),
	)
	if len(attrs) != 1 || attrs[0].Key != "http.route" {
		t.Fatalf("unexpected attributes %v", attrs)
	}
}

func TestSafeErrorFlattensChain(t *testing.T) {
	base := errors.New("bill_not_found")
	wrapped := fmt.Errorf("lookup: %w", base)
	safe := SafeError(wrapped)
	if safe.Error() != "lookup: bill_not_found" {
		t.Fatalf("unexpected message %q", safe.Error())
	}
	if errors.Is(safe, base) {
		t.Fatalf("expected chain to be dropped")
	}
	if SafeError(nil) != nil {
		t.Fatalf("expected nil")
	}
}
