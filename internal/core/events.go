package core

import "time"

type EventType string

const (
	EventTodoCreated  EventType = "todo.created"
	EventTodoUpdated  EventType = "todo.updated"
	EventGroupCreated EventType = "group.created"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTodoCreated, EventTodoUpdated, EventGroupCreated:
		return true
	}
	return false
}

// TodoEvent describes a completed write. Fields that do not apply to the
// event type are left zero.
type TodoEvent struct {
	Type         EventType `json:"type"`
	TodosID      int64     `json:"todosId,omitempty"`
	GroupID      int64     `json:"groupId,omitempty"`
	CategoryID   int64     `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName,omitempty"`
	TodoDate     string    `json:"todoDate,omitempty"`
	Content      string    `json:"content,omitempty"`
	IsCompleted  bool      `json:"isCompleted"`
	Timestamp    time.Time `json:"timestamp"`
}
