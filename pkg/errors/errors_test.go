package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodeStateConflict); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for state conflict, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("UNKNOWN")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("query timeout")
	wrapped := Wrap(CodeDependency, cause, "load coupon")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected cause to survive wrapping")
	}
	if typed := As(fmt.Errorf("outer: %w", wrapped)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected coded error through chain, got %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeConflict, stdErrors.New("duplicate"), "save order")
	dump := Dump(err)

	if dump.Code != CodeConflict {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain entries, got %d", len(dump.Chain))
	}
}

func TestAsNilSafe(t *testing.T) {
	t.Parallel()

	if As(nil) != nil {
		t.Fatal("nil error must produce nil")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors are not coded")
	}
}
