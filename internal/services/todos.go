package services

import (
	"context"
	"errors"
	"fmt"

	"debloom/internal/core"
	"debloom/internal/gateway"
	applog "debloom/internal/log"
)

// CreateTodoInput is the body of a todo creation request.
type CreateTodoInput struct {
	CategoryName string
	TodoDate     string
	Content      string
}

// CreateTodo files a new, incomplete todo under the group for its category
// and date, creating both on first use.
func (s *TodoService) CreateTodo(ctx context.Context, in CreateTodoInput) (core.CreatedTodo, error) {
	const op = "createTodo"
	if in.CategoryName == "" || in.TodoDate == "" || in.Content == "" {
		return core.CreatedTodo{}, core.Validation(op, "categoryName, todoDate and content are required")
	}
	name, date, err := validateGroupInput(op, in.CategoryName, in.TodoDate)
	if err != nil {
		return core.CreatedTodo{}, err
	}
	content, err := core.NormalizeContent(in.Content)
	if err != nil {
		return core.CreatedTodo{}, core.Validation(op, err.Error())
	}

	res, err := s.resolveGroup(ctx, op, name, date)
	if err != nil {
		return core.CreatedTodo{}, err
	}

	todo, err := s.gw.InsertTodo(ctx, res.GroupID, content)
	if err != nil {
		return core.CreatedTodo{}, core.Internal(op, fmt.Errorf("insert todo: %w", err))
	}

	logFor(ctx).InfoContext(ctx, "Todo created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldTodosID, todo.ID,
		applog.FieldGroupID, res.GroupID,
		applog.FieldTodoDate, date)

	s.publish(ctx, core.TodoEvent{
		Type:         core.EventTodoCreated,
		TodosID:      todo.ID,
		GroupID:      res.GroupID,
		CategoryID:   res.CategoryID,
		CategoryName: res.CategoryName,
		TodoDate:     date,
		Content:      todo.Content,
		IsCompleted:  todo.IsCompleted,
	})

	return core.CreatedTodo{
		TodosID:           todo.ID,
		Content:           todo.Content,
		IsCompleted:       todo.IsCompleted,
		CategoryID:        res.CategoryID,
		CategoryName:      res.CategoryName,
		CategoryCreatedAt: res.CategoryCreatedAt,
		TodoDate:          date,
	}, nil
}

// UpdateTodo applies the present fields of patch to one todo and returns
// the stored result. An empty patch is rejected before the gateway is
// touched.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch core.TodoPatch) (core.TodoView, error) {
	const op = "updateTodo"
	if id < 1 {
		return core.TodoView{}, core.Validation(op, "id must be a positive integer")
	}
	if err := patch.Validate(); err != nil {
		if errors.Is(err, core.ErrEmptyPatch) {
			return core.TodoView{}, core.Validation(op, "At least one of content or isCompleted is required")
		}
		return core.TodoView{}, core.Validation(op, err.Error())
	}

	if _, err := s.gw.GetTodo(ctx, id); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return core.TodoView{}, core.NotFound(op, "Todo not found")
		}
		return core.TodoView{}, core.Internal(op, fmt.Errorf("get todo: %w", err))
	}

	if err := s.gw.UpdateTodo(ctx, id, patch); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return core.TodoView{}, core.NotFound(op, "Todo not found")
		}
		return core.TodoView{}, core.Internal(op, fmt.Errorf("update todo: %w", err))
	}

	updated, err := s.gw.GetTodo(ctx, id)
	if err != nil {
		return core.TodoView{}, core.Internal(op, fmt.Errorf("re-read todo: %w", err))
	}

	logFor(ctx).InfoContext(ctx, "Todo updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldTodosID, id,
		"content_changed", patch.Content != nil,
		"completion_changed", patch.IsCompleted != nil)

	if s.pub != nil {
		ev := core.TodoEvent{
			Type:        core.EventTodoUpdated,
			TodosID:     updated.ID,
			GroupID:     updated.GroupID,
			Content:     updated.Content,
			IsCompleted: updated.IsCompleted,
		}
		// the update is committed; a failed lookup only thins the event
		if g, err := s.gw.GetGroup(ctx, updated.GroupID); err == nil {
			ev.CategoryID = g.CategoryID
			ev.CategoryName = g.CategoryName
			ev.TodoDate = g.TodoDate
		} else {
			logFor(ctx).WarnContext(ctx, "Failed to load group for todo event",
				applog.FieldGroupID, updated.GroupID,
				applog.FieldError, err)
		}
		s.publish(ctx, ev)
	}

	return updated.View(), nil
}
