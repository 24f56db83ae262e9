package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"debloom/internal/core"
	"debloom/internal/gateway"
)

func testRepo(tb testing.TB) *Repository {
	tb.Helper()
	dsn := os.Getenv("DEBLOOM_TEST_POSTGRES_URL")
	if dsn == "" {
		tb.Skip("set DEBLOOM_TEST_POSTGRES_URL to run postgres integration tests")
	}
	repo, err := NewRepository(dsn)
	if err != nil {
		tb.Fatalf("NewRepository() error = %v", err)
	}
	if err := repo.db.Exec(`TRUNCATE todos, todo_groups, categories RESTART IDENTITY CASCADE`).Error; err != nil {
		tb.Fatalf("truncate: %v", err)
	}
	tb.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{"postgres://u:p@localhost:5432/db?sslmode=disable", "pgx5://u:p@localhost:5432/db?sslmode=disable", false},
		{"postgresql://localhost/db", "pgx5://localhost/db", false},
		{"mysql://localhost/db", "", true},
	}
	for _, tt := range tests {
		got, err := migrateURL(tt.dsn)
		if (err != nil) != tt.wantErr {
			t.Errorf("migrateURL(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("migrateURL(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	if !isUniqueViolation(fmt.Errorf("wrapped: %w", unique)) {
		t.Error("wrapped 23505 should be a unique violation")
	}
	if isUniqueViolation(fk) {
		t.Error("23503 is not a unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain errors are not unique violations")
	}
}

func TestRepository_Integration(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	c, err := repo.InsertCategory(ctx, "Work", "2024-03-01")
	if err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}
	if _, err := repo.InsertCategory(ctx, "Work", "2024-03-02"); !errors.Is(err, gateway.ErrUniqueViolation) {
		t.Fatalf("duplicate category error = %v", err)
	}

	g, err := repo.InsertGroup(ctx, c.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("InsertGroup() error = %v", err)
	}
	if _, err := repo.InsertGroup(ctx, c.ID, "2024-03-01"); !errors.Is(err, gateway.ErrUniqueViolation) {
		t.Fatalf("duplicate group error = %v", err)
	}
	if _, err := repo.InsertGroup(ctx, c.ID, "2024-03-02"); err != nil {
		t.Fatalf("empty group insert: %v", err)
	}
	if got, err := repo.GetGroup(ctx, g.ID); err != nil || got.TodoDate != "2024-03-01" || got.CategoryID != c.ID {
		t.Fatalf("GetGroup() = %+v, %v", got, err)
	}

	td, err := repo.InsertTodo(ctx, g.ID, "Write report")
	if err != nil {
		t.Fatalf("InsertTodo() error = %v", err)
	}

	done := true
	if err := repo.UpdateTodo(ctx, td.ID, core.TodoPatch{IsCompleted: &done}); err != nil {
		t.Fatalf("UpdateTodo() error = %v", err)
	}
	if err := repo.UpdateTodo(ctx, td.ID+1000, core.TodoPatch{IsCompleted: &done}); !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("UpdateTodo(missing) error = %v", err)
	}
	got, err := repo.GetTodo(ctx, td.ID)
	if err != nil || !got.IsCompleted {
		t.Fatalf("GetTodo() = %+v, %v", got, err)
	}

	grouped, err := repo.ListTodoRows(ctx, gateway.RowQuery{Shape: gateway.ShapeGrouped})
	if err != nil || len(grouped) != 2 {
		t.Fatalf("grouped rows = %+v, %v", grouped, err)
	}
	if grouped[1].TodoID != nil {
		t.Errorf("second row should be the empty group: %+v", grouped[1])
	}

	flat, err := repo.ListTodoRows(ctx, gateway.RowQuery{Shape: gateway.ShapeFlat})
	if err != nil || len(flat) != 1 {
		t.Fatalf("flat rows = %+v, %v", flat, err)
	}

	counts, err := repo.CountTodosByDate(ctx, "2024-03-01", "2024-03-31")
	if err != nil || len(counts) != 1 || counts[0].TodosCount != 1 {
		t.Fatalf("counts = %+v, %v", counts, err)
	}
}
