package services

import (
	"context"
	"errors"
	"testing"

	"debloom/internal/core"
	"debloom/internal/gateway"
)

func TestListTodos_NoDataReturnsEmpty(t *testing.T) {
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	got, err := svc.ListTodos(context.Background(), "2025-12-24")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListTodos_InvalidDate(t *testing.T) {
	gw := newSpy()
	svc := NewTodoService(gw, nil, gateway.ShapeGrouped)
	_, err := svc.ListTodos(context.Background(), "2025-12-32")
	if core.KindOf(err) != core.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if core.PublicMessage(err) != "date must be YYYY-MM-DD" {
		t.Fatalf("message = %q", core.PublicMessage(err))
	}
	if len(gw.Calls()) != 0 {
		t.Fatalf("gateway called for invalid input")
	}
}

func TestListTodos_ShapeDivergence(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		shape          gateway.QueryShape
		wantCategories int
	}{
		{gateway.ShapeGrouped, 2},
		{gateway.ShapeFlat, 1},
	} {
		t.Run(string(tc.shape), func(t *testing.T) {
			gw := newSpy()
			svc := NewTodoService(gw, nil, tc.shape)
			if _, err := svc.CreateTodoGroup(ctx, "Empty", "2025-12-24"); err != nil {
				t.Fatal(err)
			}
			if _, err := svc.CreateTodo(ctx, CreateTodoInput{CategoryName: "Work", TodoDate: "2025-12-24", Content: "x"}); err != nil {
				t.Fatal(err)
			}

			got, err := svc.ListTodos(ctx, "2025-12-24")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 {
				t.Fatalf("dates = %d, want 1", len(got))
			}
			if n := len(got[0].Categories); n != tc.wantCategories {
				t.Fatalf("categories = %d, want %d", n, tc.wantCategories)
			}
			if got[0].TotalTodosCount != 1 {
				t.Fatalf("total = %d, want 1", got[0].TotalTodosCount)
			}
		})
	}
}

func TestListTodos_AllDatesAscending(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	for _, d := range []string{"2025-12-31", "2025-01-15", "2025-06-01"} {
		if _, err := svc.CreateTodo(ctx, CreateTodoInput{CategoryName: "Work", TodoDate: d, Content: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.ListTodos(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Date != "2025-01-15" || got[2].Date != "2025-12-31" {
		t.Fatalf("unexpected dates: %+v", got)
	}
}

func TestListTodos_GatewayFailureIsInternal(t *testing.T) {
	gw := newSpy()
	gw.listErr = errors.New("connection reset")
	svc := NewTodoService(gw, nil, gateway.ShapeGrouped)
	_, err := svc.ListTodos(context.Background(), "")
	if core.KindOf(err) != core.KindInternal {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestMonthlyCounts_February(t *testing.T) {
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	got, err := svc.MonthlyCounts(context.Background(), "2025-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 28 {
		t.Fatalf("entries = %d, want 28", len(got))
	}
	if got[0].Date != "2025-02-01" || got[27].Date != "2025-02-28" {
		t.Fatalf("range %s..%s", got[0].Date, got[27].Date)
	}
	for _, dc := range got {
		if dc.TodosCount != 0 {
			t.Fatalf("%s has count %d", dc.Date, dc.TodosCount)
		}
	}
}

func TestMonthlyCounts_December(t *testing.T) {
	ctx := context.Background()
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	for _, in := range []CreateTodoInput{
		{CategoryName: "Work", TodoDate: "2025-12-05", Content: "a"},
		{CategoryName: "Gym", TodoDate: "2025-12-05", Content: "b"},
		{CategoryName: "Work", TodoDate: "2025-12-31", Content: "c"},
		{CategoryName: "Work", TodoDate: "2026-01-01", Content: "next month"},
	} {
		if _, err := svc.CreateTodo(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.MonthlyCounts(ctx, "2025-12")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 31 {
		t.Fatalf("entries = %d, want 31", len(got))
	}
	for _, dc := range got {
		want := 0
		switch dc.Date {
		case "2025-12-05":
			want = 2
		case "2025-12-31":
			want = 1
		}
		if dc.TodosCount != want {
			t.Fatalf("%s count = %d, want %d", dc.Date, dc.TodosCount, want)
		}
	}
}

func TestMonthlyCounts_LeapYear(t *testing.T) {
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	got, err := svc.MonthlyCounts(context.Background(), "2024-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 29 {
		t.Fatalf("entries = %d, want 29", len(got))
	}
}

func TestMonthlyCounts_Validation(t *testing.T) {
	svc := NewTodoService(newSpy(), nil, gateway.ShapeGrouped)
	for in, msg := range map[string]string{
		"":        "month is required",
		"2025-13": "month must be YYYY-MM",
		"2025-1":  "month must be YYYY-MM",
		"abc":     "month must be YYYY-MM",
	} {
		_, err := svc.MonthlyCounts(context.Background(), in)
		if core.KindOf(err) != core.KindValidation || core.PublicMessage(err) != msg {
			t.Fatalf("%q: got %v", in, err)
		}
	}
}
