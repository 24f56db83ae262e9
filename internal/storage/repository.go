package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"debloom/internal/core"
	"debloom/internal/gateway"
	applog "debloom/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the gateway backed by a local SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ gateway.Gateway = (*SQLiteRepository)(nil)

// DSN turns a file path into a modernc DSN with foreign keys on and a busy
// timeout so concurrent writers wait instead of failing with SQLITE_BUSY.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: slog.Default().With(applog.FieldComponent, applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("find category %q: %w", name, err)
	}
	return c, nil
}

func (r *SQLiteRepository) InsertCategory(ctx context.Context, name, createdAt string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, created_at) VALUES (?, ?)`, name, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("insert category %q: %w", name, gateway.ErrUniqueViolation)
		}
		return core.Category{}, fmt.Errorf("insert category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}

	r.logger.DebugContext(ctx, "Category saved to SQLite", "id", id, applog.FieldCategoryName, name)
	return core.Category{ID: id, Name: name, CreatedAt: createdAt}, nil
}

func (r *SQLiteRepository) FindGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	g := core.TodoGroup{CategoryID: categoryID, TodoDate: todoDate}
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM todo_groups WHERE category_id = ? AND todo_date = ?`, categoryID, todoDate,
	).Scan(&g.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TodoGroup{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.TodoGroup{}, fmt.Errorf("find group (%d, %s): %w", categoryID, todoDate, err)
	}
	return g, nil
}

func (r *SQLiteRepository) InsertGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todo_groups (category_id, todo_date) VALUES (?, ?)`, categoryID, todoDate)
	if err != nil {
		if isUniqueViolation(err) {
			return core.TodoGroup{}, fmt.Errorf("insert group (%d, %s): %w", categoryID, todoDate, gateway.ErrUniqueViolation)
		}
		return core.TodoGroup{}, fmt.Errorf("insert group (%d, %s): %w", categoryID, todoDate, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.TodoGroup{}, fmt.Errorf("group id: %w", err)
	}

	r.logger.DebugContext(ctx, "Group saved to SQLite", applog.FieldGroupID, id, applog.FieldTodoDate, todoDate)
	return core.TodoGroup{ID: id, CategoryID: categoryID, TodoDate: todoDate}, nil
}

func (r *SQLiteRepository) GetGroup(ctx context.Context, id int64) (core.GroupResolution, error) {
	var g core.GroupResolution
	err := r.db.QueryRowContext(ctx, GetGroupQuery, id).
		Scan(&g.GroupID, &g.CategoryID, &g.CategoryName, &g.CategoryCreatedAt, &g.TodoDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GroupResolution{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.GroupResolution{}, fmt.Errorf("get group %d: %w", id, err)
	}
	return g, nil
}

func (r *SQLiteRepository) InsertTodo(ctx context.Context, groupID int64, content string) (core.Todo, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (group_id, content, is_completed) VALUES (?, ?, 0)`, groupID, content)
	if err != nil {
		return core.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Todo{}, fmt.Errorf("todo id: %w", err)
	}

	r.logger.DebugContext(ctx, "Todo saved to SQLite", applog.FieldTodosID, id, applog.FieldGroupID, groupID)
	return core.Todo{ID: id, GroupID: groupID, Content: content}, nil
}

func (r *SQLiteRepository) GetTodo(ctx context.Context, id int64) (core.Todo, error) {
	var t core.Todo
	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_id, content, is_completed FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.GroupID, &t.Content, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Todo{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTodo(ctx context.Context, id int64, patch core.TodoPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, *patch.IsCompleted)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo %d: %w", id, err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

const (
	// GetGroupQuery loads one group joined with its category.
	GetGroupQuery = `
SELECT g.id, c.id, c.name, c.created_at, g.todo_date
FROM todo_groups g
JOIN categories c ON c.id = g.category_id
WHERE g.id = ?`

	// CountByDateQuery counts todos per date within an inclusive range.
	CountByDateQuery = `
SELECT g.todo_date, COUNT(t.id)
FROM todos t
JOIN todo_groups g ON g.id = t.group_id
WHERE g.todo_date BETWEEN ? AND ?
GROUP BY g.todo_date
ORDER BY g.todo_date`

	selectRows = `
SELECT g.id, c.id, g.todo_date, c.name, c.created_at, t.id, t.content, t.is_completed
FROM todo_groups g
JOIN categories c ON c.id = g.category_id
`
	joinGrouped = `LEFT JOIN todos t ON t.group_id = g.id
`
	joinFlat = `JOIN todos t ON t.group_id = g.id
`
	orderRows = `ORDER BY g.todo_date, c.id, t.id`
)

// ListRowsQuery builds the listing statement shared by the SQL backends.
// Parameters use ? placeholders.
func ListRowsQuery(q gateway.RowQuery) (string, []any) {
	var b strings.Builder
	b.WriteString(selectRows)
	if q.Shape == gateway.ShapeFlat {
		b.WriteString(joinFlat)
	} else {
		b.WriteString(joinGrouped)
	}
	var args []any
	if q.Date != "" {
		b.WriteString("WHERE g.todo_date = ?\n")
		args = append(args, q.Date)
	}
	b.WriteString(orderRows)
	return b.String(), args
}

func (r *SQLiteRepository) ListTodoRows(ctx context.Context, q gateway.RowQuery) ([]core.TodoRow, error) {
	query, args := ListRowsQuery(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todo rows: %w", err)
	}
	defer rows.Close()

	var out []core.TodoRow
	for rows.Next() {
		var (
			row       core.TodoRow
			todoID    sql.NullInt64
			content   sql.NullString
			completed sql.NullBool
		)
		if err := rows.Scan(&row.GroupID, &row.CategoryID, &row.TodoDate, &row.Name,
			&row.CategoryCreatedAt, &todoID, &content, &completed); err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		if todoID.Valid {
			id := todoID.Int64
			row.TodoID = &id
			row.Content = content.String
			row.IsCompleted = completed.Bool
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CountTodosByDate(ctx context.Context, from, to string) ([]core.DateCount, error) {
	rows, err := r.db.QueryContext(ctx, CountByDateQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("count todos by date: %w", err)
	}
	defer rows.Close()

	var out []core.DateCount
	for rows.Next() {
		var dc core.DateCount
		if err := rows.Scan(&dc.Date, &dc.TodosCount); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date counts: %w", err)
	}
	return out, nil
}
