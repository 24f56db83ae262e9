package services

import (
	"context"
	"time"

	"debloom/internal/core"
	"debloom/internal/gateway"
	applog "debloom/internal/log"
)

// Publisher delivers write events downstream. Delivery is best effort.
type Publisher interface {
	PublishTodoEvent(ctx context.Context, ev core.TodoEvent) error
}

// TodoService implements the todo operations on top of a gateway.
type TodoService struct {
	gw    gateway.Gateway
	pub   Publisher
	shape gateway.QueryShape
	now   func() time.Time
}

// NewTodoService wires a service. pub may be nil; an invalid shape falls
// back to grouped.
func NewTodoService(gw gateway.Gateway, pub Publisher, shape gateway.QueryShape) *TodoService {
	if !shape.Valid() {
		shape = gateway.ShapeGrouped
	}
	return &TodoService{
		gw:    gw,
		pub:   pub,
		shape: shape,
		now:   time.Now,
	}
}

// Shape reports the row shape used for listings.
func (s *TodoService) Shape() gateway.QueryShape { return s.shape }

// Ping checks that the gateway is reachable.
func (s *TodoService) Ping(ctx context.Context) error {
	return s.gw.Ping(ctx)
}

// logFor returns the request-scoped logger from ctx, tagged as the todo
// component.
func logFor(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentTodo)
}

func (s *TodoService) publish(ctx context.Context, ev core.TodoEvent) {
	if s.pub == nil {
		return
	}
	ev.Timestamp = s.now().UTC()
	if err := s.pub.PublishTodoEvent(ctx, ev); err != nil {
		// the write is already committed
		logFor(ctx).ErrorContext(ctx, "Failed to publish todo event",
			applog.FieldEventType, ev.Type,
			applog.FieldTodosID, ev.TodosID,
			applog.FieldGroupID, ev.GroupID,
			applog.FieldError, err)
	}
}
