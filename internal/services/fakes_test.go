package services

import (
	"context"
	"sync"

	"debloom/internal/core"
	"debloom/internal/gateway"
	"debloom/internal/gateway/memory"
)

// spyGateway records every call and lets tests inject behaviour before
// inserts reach the underlying store.
type spyGateway struct {
	*memory.Store

	mu    sync.Mutex
	calls []string

	beforeInsertCategory func(name, createdAt string)
	beforeInsertGroup    func(categoryID int64, todoDate string)
	listErr              error
}

func newSpy() *spyGateway {
	return &spyGateway{Store: memory.New()}
}

func (g *spyGateway) record(name string) {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	g.mu.Unlock()
}

func (g *spyGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *spyGateway) count(name string) int {
	n := 0
	for _, c := range g.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (g *spyGateway) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	g.record("FindCategoryByName")
	return g.Store.FindCategoryByName(ctx, name)
}

func (g *spyGateway) InsertCategory(ctx context.Context, name, createdAt string) (core.Category, error) {
	g.record("InsertCategory")
	if g.beforeInsertCategory != nil {
		g.beforeInsertCategory(name, createdAt)
	}
	return g.Store.InsertCategory(ctx, name, createdAt)
}

func (g *spyGateway) FindGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	g.record("FindGroup")
	return g.Store.FindGroup(ctx, categoryID, todoDate)
}

func (g *spyGateway) InsertGroup(ctx context.Context, categoryID int64, todoDate string) (core.TodoGroup, error) {
	g.record("InsertGroup")
	if g.beforeInsertGroup != nil {
		g.beforeInsertGroup(categoryID, todoDate)
	}
	return g.Store.InsertGroup(ctx, categoryID, todoDate)
}

func (g *spyGateway) GetGroup(ctx context.Context, id int64) (core.GroupResolution, error) {
	g.record("GetGroup")
	return g.Store.GetGroup(ctx, id)
}

func (g *spyGateway) InsertTodo(ctx context.Context, groupID int64, content string) (core.Todo, error) {
	g.record("InsertTodo")
	return g.Store.InsertTodo(ctx, groupID, content)
}

func (g *spyGateway) GetTodo(ctx context.Context, id int64) (core.Todo, error) {
	g.record("GetTodo")
	return g.Store.GetTodo(ctx, id)
}

func (g *spyGateway) UpdateTodo(ctx context.Context, id int64, patch core.TodoPatch) error {
	g.record("UpdateTodo")
	return g.Store.UpdateTodo(ctx, id, patch)
}

func (g *spyGateway) ListTodoRows(ctx context.Context, q gateway.RowQuery) ([]core.TodoRow, error) {
	g.record("ListTodoRows")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.Store.ListTodoRows(ctx, q)
}

func (g *spyGateway) CountTodosByDate(ctx context.Context, from, to string) ([]core.DateCount, error) {
	g.record("CountTodosByDate")
	return g.Store.CountTodosByDate(ctx, from, to)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.TodoEvent
	err    error
}

func (p *recordingPublisher) PublishTodoEvent(_ context.Context, ev core.TodoEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []core.TodoEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.TodoEvent(nil), p.events...)
}
