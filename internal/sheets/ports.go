// Package sheets defines the journal that todo events are exported to.
package sheets

import (
	"context"
	"strconv"
	"time"

	"debloom/internal/core"
)

// Ports for outbound adapters.
type (
	// JournalWriter appends one row per todo event.
	JournalWriter interface {
		Append(ctx context.Context, ev core.TodoEvent) (rowRef string, err error)
	}

	// HeaderEnsurer is implemented by journals that need a header row
	// written before the first append.
	HeaderEnsurer interface {
		EnsureHeader(ctx context.Context) error
	}
)

// JournalHeader names the journal columns in order.
var JournalHeader = []string{"Timestamp", "Event", "Todo ID", "Todo Date", "Category", "Content", "Completed"}

// JournalRow flattens an event into the journal's column order. Ids that do
// not apply to the event are left blank.
func JournalRow(ev core.TodoEvent) []any {
	todoID := ""
	if ev.TodosID != 0 {
		todoID = strconv.FormatInt(ev.TodosID, 10)
	}
	completed := ""
	if ev.Type != core.EventGroupCreated {
		completed = strconv.FormatBool(ev.IsCompleted)
	}
	return []any{
		ev.Timestamp.UTC().Format(time.RFC3339),
		string(ev.Type),
		todoID,
		ev.TodoDate,
		ev.CategoryName,
		ev.Content,
		completed,
	}
}
