package feed

import (
	"context"
	"log/slog"

	"github.com/polyquant/snipebot/internal/domain"
)

// EventProcessor consumes one market-data event at a time.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, ev domain.StreamEvent) error
}

// Feeder drains an event channel into a processor. Events are delivered one
// at a time in channel order, so the processor sees a single serialized
// stream. A failed event is logged and processing continues with the next.
type Feeder struct {
	processor EventProcessor
	logger    *slog.Logger

	// OnEvent, when set, runs after each event regardless of outcome. The
	// demo mode uses it for periodic stats reporting.
	OnEvent func(processed int)
}

// NewFeeder creates a Feeder delivering to processor.
func NewFeeder(processor EventProcessor, logger *slog.Logger) *Feeder {
	return &Feeder{
		processor: processor,
		logger:    logger.With(slog.String("component", "feeder")),
	}
}

// Run consumes events from in until it closes or ctx is cancelled.
func (f *Feeder) Run(ctx context.Context, in <-chan domain.StreamEvent) error {
	processed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-in:
			if !ok {
				f.logger.Info("event stream closed", slog.Int("processed", processed))
				return nil
			}
			if err := f.processor.ProcessEvent(ctx, ev); err != nil {
				f.logger.Error("event processing failed",
					slog.String("event_type", string(ev.Type)),
					slog.String("error", err.Error()),
				)
			}
			processed++
			if f.OnEvent != nil {
				f.OnEvent(processed)
			}
		}
	}
}
