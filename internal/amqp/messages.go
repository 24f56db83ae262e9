package amqp

import (
	"encoding/json"
	"fmt"

	"debloom/internal/core"
)

// EncodeEvent serialises a todo event for publishing.
func EncodeEvent(ev core.TodoEvent) ([]byte, error) {
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return json.Marshal(ev)
}

// DecodeEvent parses a delivery body and rejects unknown event types.
func DecodeEvent(data []byte) (core.TodoEvent, error) {
	var ev core.TodoEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return core.TodoEvent{}, err
	}
	if !ev.Type.Valid() {
		return core.TodoEvent{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return ev, nil
}
