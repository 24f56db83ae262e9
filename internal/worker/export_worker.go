// Package worker exports todo events from the broker to the journal.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"debloom/internal/amqp"
	"debloom/internal/core"
	applog "debloom/internal/log"
	"debloom/internal/sheets"
)

// Consumer delivers events until ctx ends. *amqp.Client implements it.
type Consumer interface {
	ConsumeTodoEvents(ctx context.Context, handler amqp.EventHandler) error
}

// Stats counts handled events since start.
type Stats struct {
	Exported int64
	Failed   int64
}

// ExportWorker appends every consumed event to the journal.
type ExportWorker struct {
	journal  sheets.JournalWriter
	logger   *slog.Logger
	exported atomic.Int64
	failed   atomic.Int64
}

func NewExportWorker(journal sheets.JournalWriter, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{
		journal: journal,
		logger:  logger.With(applog.FieldComponent, applog.ComponentWorker),
	}
}

// HandleEvent writes one event. A returned error makes the broker redeliver.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev core.TodoEvent) error {
	ref, err := w.journal.Append(ctx, ev)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("append %s to journal: %w", ev.Type, err)
	}
	w.exported.Add(1)

	w.logger.InfoContext(ctx, "Exported todo event",
		applog.FieldOperation, applog.OpAppend,
		applog.FieldEventType, ev.Type,
		applog.FieldTodosID, ev.TodosID,
		applog.FieldGroupID, ev.GroupID,
		"row_ref", ref)
	return nil
}

// Run prepares the journal and consumes until ctx is cancelled. A clean
// shutdown returns nil.
func (w *ExportWorker) Run(ctx context.Context, consumer Consumer) error {
	if h, ok := w.journal.(sheets.HeaderEnsurer); ok {
		if err := h.EnsureHeader(ctx); err != nil {
			return fmt.Errorf("prepare journal: %w", err)
		}
	}

	w.logger.InfoContext(ctx, "Export worker started", applog.FieldOperation, applog.OpConsume)
	err := consumer.ConsumeTodoEvents(ctx, w.HandleEvent)
	stats := w.Stats()
	w.logger.InfoContext(ctx, "Export worker stopped",
		"exported", stats.Exported,
		"failed", stats.Failed)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *ExportWorker) Stats() Stats {
	return Stats{Exported: w.exported.Load(), Failed: w.failed.Load()}
}
