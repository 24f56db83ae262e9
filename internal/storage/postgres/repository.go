// Package postgres is the gateway backed by PostgreSQL through gorm.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"debloom/internal/core"
	"debloom/internal/gateway"
	applog "debloom/internal/log"
	"debloom/internal/storage"
)

type category struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	CreatedAt string
}

func (category) TableName() string { return "categories" }

type todoGroup struct {
	ID         int64 `gorm:"primaryKey"`
	CategoryID int64
	TodoDate   string
}

func (todoGroup) TableName() string { return "todo_groups" }

type todo struct {
	ID          int64 `gorm:"primaryKey"`
	GroupID     int64
	Content     string
	IsCompleted bool
}

func (todo) TableName() string { return "todos" }

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ gateway.Gateway = (*Repository)(nil)

// NewRepository connects to dsn, applies migrations and returns a gateway.
func NewRepository(dsn string) (*Repository, error) {
	if err := RunMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &Repository{
		db:     db,
		logger: slog.Default().With(applog.FieldComponent, applog.ComponentStorage),
	}, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	var m category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Category{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("find category %q: %w", name, err)
	}
	return core.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

func (r *Repository) InsertCategory(ctx context.Context, name, createdAt string) (core.Category, error) {
	m := category{Name: name, CreatedAt: createdAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("insert category %q: %w", name, gateway.ErrUniqueViolation)
		}
		return core.Category{}, fmt.Errorf("insert category %q: %w", name, err)
	}
	r.logger.DebugContext(ctx, "Category saved to Postgres", "id", m.ID, applog.FieldCategoryName, name)
	return core.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

func (r *Repository) FindGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	var m todoGroup
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND todo_date = ?", categoryID, todoDate).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.TodoGroup{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.TodoGroup{}, fmt.Errorf("find group (%d, %s): %w", categoryID, todoDate, err)
	}
	return core.TodoGroup{ID: m.ID, CategoryID: m.CategoryID, TodoDate: m.TodoDate}, nil
}

func (r *Repository) InsertGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	m := todoGroup{CategoryID: categoryID, TodoDate: todoDate}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return core.TodoGroup{}, fmt.Errorf("insert group (%d, %s): %w", categoryID, todoDate, gateway.ErrUniqueViolation)
		}
		return core.TodoGroup{}, fmt.Errorf("insert group (%d, %s): %w", categoryID, todoDate, err)
	}
	r.logger.DebugContext(ctx, "Group saved to Postgres", applog.FieldGroupID, m.ID, applog.FieldTodoDate, todoDate)
	return core.TodoGroup{ID: m.ID, CategoryID: m.CategoryID, TodoDate: m.TodoDate}, nil
}

func (r *Repository) GetGroup(ctx context.Context, id int64) (core.GroupResolution, error) {
	var g core.GroupResolution
	row := r.db.WithContext(ctx).Raw(storage.GetGroupQuery, id).Row()
	err := row.Scan(&g.GroupID, &g.CategoryID, &g.CategoryName, &g.CategoryCreatedAt, &g.TodoDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GroupResolution{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.GroupResolution{}, fmt.Errorf("get group %d: %w", id, err)
	}
	return g, nil
}

func (r *Repository) InsertTodo(ctx context.Context, groupID int64, content string) (core.Todo, error) {
	m := todo{GroupID: groupID, Content: content}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return core.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	r.logger.DebugContext(ctx, "Todo saved to Postgres", applog.FieldTodosID, m.ID, applog.FieldGroupID, groupID)
	return core.Todo{ID: m.ID, GroupID: m.GroupID, Content: m.Content}, nil
}

func (r *Repository) GetTodo(ctx context.Context, id int64) (core.Todo, error) {
	var m todo
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Todo{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return core.Todo{ID: m.ID, GroupID: m.GroupID, Content: m.Content, IsCompleted: m.IsCompleted}, nil
}

func (r *Repository) UpdateTodo(ctx context.Context, id int64, patch core.TodoPatch) error {
	updates := map[string]any{}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.IsCompleted != nil {
		updates["is_completed"] = *patch.IsCompleted
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&todo{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update todo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

func (r *Repository) ListTodoRows(ctx context.Context, q gateway.RowQuery) ([]core.TodoRow, error) {
	query, args := storage.ListRowsQuery(q)
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("list todo rows: %w", err)
	}
	defer rows.Close()

	var out []core.TodoRow
	for rows.Next() {
		var (
			row       core.TodoRow
			todoID    *int64
			content   *string
			completed *bool
		)
		if err := rows.Scan(&row.GroupID, &row.CategoryID, &row.TodoDate, &row.Name,
			&row.CategoryCreatedAt, &todoID, &content, &completed); err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		if todoID != nil {
			row.TodoID = todoID
			row.Content = *content
			row.IsCompleted = *completed
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo rows: %w", err)
	}
	return out, nil
}

func (r *Repository) CountTodosByDate(ctx context.Context, from, to string) ([]core.DateCount, error) {
	var out []core.DateCount
	rows, err := r.db.WithContext(ctx).Raw(storage.CountByDateQuery, from, to).Rows()
	if err != nil {
		return nil, fmt.Errorf("count todos by date: %w", err)
	}
	defer rows.Close()

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
