package swaperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(KindQuoteTimeout, "quote expired")
	if plain.Error() != "quote expired" {
		t.Fatalf("unexpected message: %q", plain.Error())
	}

	cause := errors.New("socket closed")
	wrapped := Wrap(KindErrorFetchingQuote, "fetch route", cause)
	if wrapped.Error() != "fetch route: socket closed" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped cause must survive errors.Is")
	}
}

func TestAs(t *testing.T) {
	inner := New(KindNotEnoughBalance, "short")
	outer := fmt.Errorf("outer: %w", inner)

	typed, ok := As(outer)
	if !ok || typed.Kind != KindNotEnoughBalance {
		t.Fatalf("expected to recover the typed error, got %v ok=%v", typed, ok)
	}

	if _, ok := As(errors.New("untyped")); ok {
		t.Fatal("untyped errors must not match")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Fatal("nil error has no kind")
	}
	if KindOf(New(KindInvalidRecipient, "bad address")) != KindInvalidRecipient {
		t.Fatal("typed errors keep their kind")
	}
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Fatal("untyped errors map to UNKNOWN")
	}
}

func TestWithMeta(t *testing.T) {
	err := New(KindSwapExceedAllowance, "too much").
		WithMeta("max_amount", "1.39").
		WithMeta("symbol", "DOT")
	if err.Metadata["max_amount"] != "1.39" || err.Metadata["symbol"] != "DOT" {
		t.Fatalf("unexpected metadata: %v", err.Metadata)
	}
}
