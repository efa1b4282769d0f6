// Package events handles event emission for dataset lifecycle changes.
package events

import (
	"context"

	"github.com/Ramsey-B/yarrow/pkg/kafka"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/tracing"
)

// Publisher is the producer surface the emitter needs. Satisfied by
// *kafka.Producer; tests substitute a recorder.
type Publisher interface {
	PublishDatasetEvent(ctx context.Context, event *kafka.DatasetEvent) error
}

// Emitter emits dataset lifecycle events. A nil publisher disables emission,
// so callers never branch on whether kafka is configured.
type Emitter struct {
	publisher Publisher
	logger    logging.Logger
}

func NewEmitter(publisher Publisher, logger logging.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitDatasetReplaced emits a dataset.replaced event after a successful
// load. Emission failures are logged and swallowed; the load already
// committed and must not be reported as failed.
func (e *Emitter) EmitDatasetReplaced(ctx context.Context, dataset, runID string, count int, methodCounts map[string]int, resolvedFraction float64) {
	if e.publisher == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDatasetReplaced")
	defer span.End()

	event := &kafka.DatasetEvent{
		EventType:        "dataset.replaced",
		Dataset:          dataset,
		RunID:            runID,
		EventCount:       count,
		MethodCounts:     methodCounts,
		ResolvedFraction: resolvedFraction,
	}

	if err := e.publisher.PublishDatasetEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit dataset.replaced event")
	}
}
