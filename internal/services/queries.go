package services

import (
	"context"
	"fmt"

	"debloom/internal/core"
	"debloom/internal/gateway"
)

// ListTodos returns the date hierarchy for every date, or only for date
// when it is non-empty.
func (s *TodoService) ListTodos(ctx context.Context, date string) ([]core.DateGroup, error) {
	const op = "listTodos"
	if date != "" {
		if _, err := core.ParseDate(date); err != nil {
			return nil, core.Validation(op, err.Error())
		}
	}

	rows, err := s.gw.ListTodoRows(ctx, gateway.RowQuery{Date: date, Shape: s.shape})
	if err != nil {
		return nil, core.Internal(op, fmt.Errorf("list todo rows: %w", err))
	}
	return AggregateRows(rows), nil
}

// MonthlyCounts returns one entry per calendar day of month (YYYY-MM),
// zero-filled where no todos exist.
func (s *TodoService) MonthlyCounts(ctx context.Context, month string) ([]core.DateCount, error) {
	const op = "getMonthlyTodos"
	if month == "" {
		return nil, core.Validation(op, "month is required")
	}
	first, err := core.ParseMonth(month)
	if err != nil {
		return nil, core.Validation(op, err.Error())
	}

	from, to := core.MonthBounds(first)
	counts, err := s.gw.CountTodosByDate(ctx, core.FormatDate(from), core.FormatDate(to))
	if err != nil {
		return nil, core.Internal(op, fmt.Errorf("count todos by date: %w", err))
	}

	sparse := make(map[string]int, len(counts))
	for _, c := range counts {
		sparse[c.Date] += c.TodosCount
	}

	days := core.MonthDays(first)
	out := make([]core.DateCount, len(days))
	for i, d := range days {
		out[i] = core.DateCount{Date: d, TodosCount: sparse[d]}
	}
	return out, nil
}
