// Package gateway defines the query port the todo services depend on.
// Implementations live in gateway/memory, storage and storage/postgres.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"debloom/internal/core"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrUniqueViolation is returned when an insert hits a uniqueness
	// constraint. Drivers translate their native codes into it.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// QueryShape selects how todo rows are joined to their groups.
type QueryShape string

const (
	// ShapeGrouped starts from groups and left-joins todos, so groups with
	// no todos still produce a row with a nil TodoID.
	ShapeGrouped QueryShape = "grouped"
	// ShapeFlat inner-joins todos to groups; empty groups are invisible.
	ShapeFlat QueryShape = "flat"
)

func (s QueryShape) Valid() bool {
	return s == ShapeGrouped || s == ShapeFlat
}

// ParseQueryShape maps a config value to a shape.
func ParseQueryShape(s string) (QueryShape, error) {
	shape := QueryShape(s)
	if !shape.Valid() {
		return "", fmt.Errorf("invalid query shape %q: must be %q or %q", s, ShapeGrouped, ShapeFlat)
	}
	return shape, nil
}

// RowQuery filters a todo listing. An empty Date lists every date.
type RowQuery struct {
	Date  string
	Shape QueryShape
}

// Gateway is the persistence port. Rows from ListTodoRows are ordered by
// todo date, then category id, then todo id, all ascending.
type Gateway interface {
	Ping(ctx context.Context) error

	FindCategoryByName(ctx context.Context, name string) (core.Category, error)
	InsertCategory(ctx context.Context, name, createdAt string) (core.Category, error)

	FindGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error)
	InsertGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error)
	// GetGroup returns a group with its category.
	GetGroup(ctx context.Context, id int64) (core.GroupResolution, error)

	InsertTodo(ctx context.Context, groupID int64, content string) (core.Todo, error)
	GetTodo(ctx context.Context, id int64) (core.Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch core.TodoPatch) error

	ListTodoRows(ctx context.Context, q RowQuery) ([]core.TodoRow, error)
	// CountTodosByDate returns one entry per date in [from, to] that has at
	// least one todo.
	CountTodosByDate(ctx context.Context, from, to string) ([]core.DateCount, error)
}
