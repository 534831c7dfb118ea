package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Userf("bad flag %q", "--x"))
	if !IsUser(err) {
		t.Fatalf("expected wrapped UserError to be detected")
	}
	if IsUser(errors.New("plain")) {
		t.Fatalf("plain error is not a UserError")
	}
	if User("m").Error() != "m" {
		t.Fatalf("unexpected message")
	}
}

func TestUnresolvedError(t *testing.T) {
	err := fmt.Errorf("resolve: %w", Unresolved("parcelles-2024"))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected errors.Is(err, ErrUnresolved)")
	}
	var ue *UnresolvedError
	if !errors.As(err, &ue) || ue.ResourceID != "parcelles-2024" {
		t.Fatalf("expected UnresolvedError with resource id, got %v", err)
	}
	if got := ue.Error(); got != `no downloadable link resolved for resource "parcelles-2024"` {
		t.Fatalf("Error() = %q", got)
	}
	if got := (&UnresolvedError{}).Error(); got != ErrUnresolved.Error() {
		t.Fatalf("Error() without id = %q", got)
	}
	if errors.Is(err, ErrCancelled) {
		t.Fatalf("unresolved must not match ErrCancelled")
	}
}
