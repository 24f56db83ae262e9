package core

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxCategoryNameLength = 100
	MaxContentLength      = 500
)

type (
	// Category is a named bucket of todos. CreatedAt holds the todo date
	// that first introduced the name, in YYYY-MM-DD form.
	Category struct {
		ID        int64
		Name      string
		CreatedAt string
	}

	// TodoGroup ties a category to a calendar day. At most one exists per
	// (CategoryID, TodoDate).
	TodoGroup struct {
		ID         int64
		CategoryID int64
		TodoDate   string
	}

	Todo struct {
		ID          int64
		GroupID     int64
		Content     string
		IsCompleted bool
	}

	// TodoPatch carries the fields of a partial update. Nil means untouched.
	TodoPatch struct {
		Content     *string
		IsCompleted *bool
	}

	// TodoRow is one (group, category, todo) tuple as returned by a gateway
	// listing. TodoID is nil when the group has no todos.
	TodoRow struct {
		GroupID           int64
		CategoryID        int64
		TodoDate          string
		Name              string
		CategoryCreatedAt string
		TodoID            *int64
		Content           string
		IsCompleted       bool
	}
)

var (
	ErrEmptyCategoryName   = errors.New("categoryName is required")
	ErrCategoryNameTooLong = errors.New("categoryName is too long")
	ErrEmptyContent        = errors.New("content is required")
	ErrContentTooLong      = errors.New("content is too long")
	ErrEmptyPatch          = errors.New("at least one of content or isCompleted is required")
)

// IsEmpty reports whether the patch would change nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Content == nil && p.IsCompleted == nil
}

// Validate trims a present content field in place and rejects blank or
// oversized values.
func (p *TodoPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Content != nil {
		c, err := NormalizeContent(*p.Content)
		if err != nil {
			return err
		}
		p.Content = &c
	}
	return nil
}

// NormalizeCategoryName trims the name and checks its length.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyCategoryName
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", ErrCategoryNameTooLong
	}
	return name, nil
}

// NormalizeContent trims todo text and checks its length.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// View projects a todo to its API shape.
func (t Todo) View() TodoView {
	return TodoView{TodosID: t.ID, Content: t.Content, IsCompleted: t.IsCompleted}
}
