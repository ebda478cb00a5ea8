package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := New(CodeLedgerDown, "provider timed out")
	wrapped := fmt.Errorf("fetching orders: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeLedgerDown {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestIsMatchesCode(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeLedgerReject, fmt.Errorf("execution reverted"), "place order")
	if !Is(err, CodeLedgerReject) {
		t.Fatal("expected code match")
	}
	if Is(err, CodeLedgerDown) {
		t.Fatal("unexpected code match")
	}
	if Is(nil, CodeLedgerDown) {
		t.Fatal("nil error must not match")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected fallback status: %d", meta.HTTPStatus)
	}
}

func TestDetailsRoundTrip(t *testing.T) {
	t.Parallel()

	err := New(CodeSubmission, "pending").WithDetails(map[string]string{"seller": "0xabc"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["seller"] != "0xabc" {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}
