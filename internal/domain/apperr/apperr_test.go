package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesKindRegardlessOfMessage(t *testing.T) {
	err := fmt.Errorf("load pet: %w", NotFound("pet not found or access denied"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("did not expect match with ErrPermissionDenied")
	}
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("expected kind not_found, got %q", got)
	}
	if err.Error() != "load pet: pet not found or access denied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKindOf_NonDomainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}
