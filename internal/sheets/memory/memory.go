// Package memory keeps the journal in process. The worker falls back to it
// when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"debloom/internal/core"
	"debloom/internal/sheets"
)

type Journal struct {
	mu   sync.Mutex
	rows [][]any
}

var _ sheets.JournalWriter = (*Journal)(nil)

func New() *Journal {
	return &Journal{}
}

// Append stores the row and returns a synthetic row reference.
func (j *Journal) Append(_ context.Context, ev core.TodoEvent) (string, error) {
	if !ev.Type.Valid() {
		return "", fmt.Errorf("unknown event type %q", ev.Type)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rows = append(j.rows, sheets.JournalRow(ev))
	return fmt.Sprintf("mem!%d", len(j.rows)), nil
}

// Rows returns a copy of the stored rows in append order.
func (j *Journal) Rows() [][]any {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([][]any, len(j.rows))
	copy(out, j.rows)
	return out
}
