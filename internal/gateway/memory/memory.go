// Package memory is an in-process gateway that enforces the same uniqueness
// rules as the SQL backends. It backs the "memory" data backend and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"debloom/internal/core"
	"debloom/internal/gateway"
)

type groupKey struct {
	categoryID int64
	todoDate   string
}

type Store struct {
	mu         sync.Mutex
	categories []core.Category
	groups     []core.TodoGroup
	todos      []core.Todo
	byName     map[string]int64
	byGroup    map[groupKey]int64
}

var _ gateway.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{
		byName:  make(map[string]int64),
		byGroup: make(map[groupKey]int64),
	}
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) FindCategoryByName(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[name]
	if !ok {
		return core.Category{}, gateway.ErrNotFound
	}
	return s.categories[id-1], nil
}

func (s *Store) InsertCategory(_ context.Context, name, createdAt string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; ok {
		return core.Category{}, fmt.Errorf("insert category %q: %w", name, gateway.ErrUniqueViolation)
	}
	c := core.Category{ID: int64(len(s.categories) + 1), Name: name, CreatedAt: createdAt}
	s.categories = append(s.categories, c)
	s.byName[name] = c.ID
	return c, nil
}

func (s *Store) FindGroup(_ context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byGroup[groupKey{categoryID, todoDate}]
	if !ok {
		return core.TodoGroup{}, gateway.ErrNotFound
	}
	return s.groups[id-1], nil
}

func (s *Store) InsertGroup(_ context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if categoryID < 1 || categoryID > int64(len(s.categories)) {
		return core.TodoGroup{}, fmt.Errorf("insert group: unknown category %d", categoryID)
	}
	key := groupKey{categoryID, todoDate}
	if _, ok := s.byGroup[key]; ok {
		return core.TodoGroup{}, fmt.Errorf("insert group (%d, %s): %w", categoryID, todoDate, gateway.ErrUniqueViolation)
	}
	g := core.TodoGroup{ID: int64(len(s.groups) + 1), CategoryID: categoryID, TodoDate: todoDate}
	s.groups = append(s.groups, g)
	s.byGroup[key] = g.ID
	return g, nil
}

func (s *Store) GetGroup(_ context.Context, id int64) (core.GroupResolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.groups)) {
		return core.GroupResolution{}, gateway.ErrNotFound
	}
	g := s.groups[id-1]
	c := s.categories[g.CategoryID-1]
	return core.GroupResolution{
		GroupID:           g.ID,
		CategoryID:        c.ID,
		CategoryName:      c.Name,
		CategoryCreatedAt: c.CreatedAt,
		TodoDate:          g.TodoDate,
	}, nil
}

func (s *Store) InsertTodo(_ context.Context, groupID int64, content string) (core.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if groupID < 1 || groupID > int64(len(s.groups)) {
		return core.Todo{}, fmt.Errorf("insert todo: unknown group %d", groupID)
	}
	t := core.Todo{ID: int64(len(s.todos) + 1), GroupID: groupID, Content: content}
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *Store) GetTodo(_ context.Context, id int64) (core.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.todos)) {
		return core.Todo{}, gateway.ErrNotFound
	}
	return s.todos[id-1], nil
}

func (s *Store) UpdateTodo(_ context.Context, id int64, patch core.TodoPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.todos)) {
		return gateway.ErrNotFound
	}
	t := &s.todos[id-1]
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	return nil
}

func (s *Store) ListTodoRows(_ context.Context, q gateway.RowQuery) ([]core.TodoRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]core.TodoGroup, 0, len(s.groups))
	for _, g := range s.groups {
		if q.Date == "" || g.TodoDate == q.Date {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TodoDate != groups[j].TodoDate {
			return groups[i].TodoDate < groups[j].TodoDate
		}
		return groups[i].CategoryID < groups[j].CategoryID
	})

	// todos are stored in id order, so per-group slices stay ascending
	byGroup := make(map[int64][]core.Todo)
	for _, t := range s.todos {
		byGroup[t.GroupID] = append(byGroup[t.GroupID], t)
	}

	var rows []core.TodoRow
	for _, g := range groups {
		c := s.categories[g.CategoryID-1]
		base := core.TodoRow{
			GroupID:           g.ID,
			CategoryID:        c.ID,
			TodoDate:          g.TodoDate,
			Name:              c.Name,
			CategoryCreatedAt: c.CreatedAt,
		}
		todos := byGroup[g.ID]
		if len(todos) == 0 {
			if q.Shape == gateway.ShapeGrouped {
				rows = append(rows, base)
			}
			continue
		}
		for _, t := range todos {
			row := base
			id := t.ID
			row.TodoID = &id
			row.Content = t.Content
			row.IsCompleted = t.IsCompleted
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Store) CountTodosByDate(_ context.Context, from, to string) ([]core.DateCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, t := range s.todos {
		date := s.groups[t.GroupID-1].TodoDate
		if date >= from && date <= to {
			counts[date]++
		}
	}
	out := make([]core.DateCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, core.DateCount{Date: date, TodosCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Counts reports how many categories, groups and todos are stored.
func (s *Store) Counts() (categories, groups, todos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories), len(s.groups), len(s.todos)
}
