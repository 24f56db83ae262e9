package services

import (
	"context"
	"errors"
	"fmt"

	"debloom/internal/core"
	"debloom/internal/gateway"
	applog "debloom/internal/log"
)

// CreateTodoGroup finds or creates the group for (categoryName, todoDate).
// Calling it again with the same input returns the same group id.
func (s *TodoService) CreateTodoGroup(ctx context.Context, categoryName, todoDate string) (core.GroupResolution, error) {
	const op = "createTodoGroup"
	if categoryName == "" || todoDate == "" {
		return core.GroupResolution{}, core.Validation(op, "categoryName and todoDate are required")
	}
	name, date, err := validateGroupInput(op, categoryName, todoDate)
	if err != nil {
		return core.GroupResolution{}, err
	}
	return s.resolveGroup(ctx, op, name, date)
}

func validateGroupInput(op, categoryName, todoDate string) (string, string, error) {
	name, err := core.NormalizeCategoryName(categoryName)
	if err != nil {
		return "", "", core.Validation(op, err.Error())
	}
	if _, err := core.ParseDate(todoDate); err != nil {
		return "", "", core.Validation(op, "todoDate must be YYYY-MM-DD")
	}
	return name, todoDate, nil
}

// resolveGroup relies on the store's uniqueness constraints: a losing
// concurrent insert surfaces as ErrUniqueViolation and is answered by
// re-reading the winner's row.
func (s *TodoService) resolveGroup(ctx context.Context, op, name, date string) (core.GroupResolution, error) {
	cat, err := s.findOrCreateCategory(ctx, op, name, date)
	if err != nil {
		return core.GroupResolution{}, err
	}

	res := core.GroupResolution{
		CategoryID:        cat.ID,
		CategoryName:      cat.Name,
		CategoryCreatedAt: cat.CreatedAt,
		TodoDate:          date,
	}

	g, err := s.gw.FindGroup(ctx, cat.ID, date)
	if err == nil {
		res.GroupID = g.ID
		return res, nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return core.GroupResolution{}, core.Internal(op, fmt.Errorf("find group: %w", err))
	}

	g, err = s.gw.InsertGroup(ctx, cat.ID, date)
	switch {
	case err == nil:
		res.GroupID = g.ID
		res.Created = true
		logFor(ctx).InfoContext(ctx, "Todo group created",
			applog.FieldGroupID, g.ID,
			applog.FieldCategoryID, cat.ID,
			applog.FieldTodoDate, date)
		s.publish(ctx, core.TodoEvent{
			Type:         core.EventGroupCreated,
			GroupID:      g.ID,
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			TodoDate:     date,
		})
		return res, nil
	case errors.Is(err, gateway.ErrUniqueViolation):
		logFor(ctx).InfoContext(ctx, "Todo group created concurrently, re-reading",
			applog.FieldCategoryID, cat.ID,
			applog.FieldTodoDate, date)
		g, err = s.gw.FindGroup(ctx, cat.ID, date)
		if err != nil {
			return core.GroupResolution{}, core.Internal(op, fmt.Errorf("re-read group after conflict: %w", err))
		}
		res.GroupID = g.ID
		return res, nil
	default:
		return core.GroupResolution{}, core.Internal(op, fmt.Errorf("insert group: %w", err))
	}
}

func (s *TodoService) findOrCreateCategory(ctx context.Context, op, name, createdAt string) (core.Category, error) {
	cat, err := s.gw.FindCategoryByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, gateway.ErrNotFound) {
		return core.Category{}, core.Internal(op, fmt.Errorf("find category: %w", err))
	}

	cat, err = s.gw.InsertCategory(ctx, name, createdAt)
	switch {
	case err == nil:
		logFor(ctx).InfoContext(ctx, "Category created",
			applog.FieldCategoryID, cat.ID,
			applog.FieldCategoryName, cat.Name)
		return cat, nil
	case errors.Is(err, gateway.ErrUniqueViolation):
		cat, err = s.gw.FindCategoryByName(ctx, name)
		if err != nil {
			return core.Category{}, core.Internal(op, fmt.Errorf("re-read category after conflict: %w", err))
		}
		return cat, nil
	default:
		return core.Category{}, core.Internal(op, fmt.Errorf("insert category: %w", err))
	}
}
