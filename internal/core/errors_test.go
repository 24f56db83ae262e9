package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("createTodo", "content is required"), KindValidation},
		{"not found", NotFound("updateTodo", "Todo not found"), KindNotFound},
		{"internal", Internal("listTodos", errors.New("db down")), KindInternal},
		{"wrapped", fmt.Errorf("handler: %w", NotFound("updateTodo", "Todo not found")), KindNotFound},
		{"untagged", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	err := Internal("listTodos", errors.New("dial tcp 10.0.0.1:5432: refused"))
	if got := PublicMessage(err); got != "internal server error" {
		t.Fatalf("PublicMessage leaked: %q", got)
	}
	if got := PublicMessage(Validation("op", "month is required")); got != "month is required" {
		t.Fatalf("PublicMessage = %q", got)
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := Internal("insertTodo", base)
	if !errors.Is(err, base) {
		t.Fatalf("expected errors.Is to reach base error")
	}
	if got := err.Error(); got != "insertTodo: disk full" {
		t.Fatalf("Error() = %q", got)
	}
}
