package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"
)

// SlowUseCase is the duration above which a finished use case is logged at
// warn level. Timeline commits are expected to land well within it.
const SlowUseCase = 500 * time.Millisecond

// UseCaseEvent describes one finished service call: a load, a date commit,
// a create or a delete. Fields carries the ids involved.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Failed reports whether the call returned an error.
func (e UseCaseEvent) Failed() bool { return e.Err != nil }

// UseCaseObserver receives an event after every observed service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver drops every event.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
	slow   time.Duration
}

// NewLogUseCaseObserver logs one text line per event to w. A nil writer
// disables logging.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &logUseCaseObserver{
		logger: slog.New(h).With("component", "schedule"),
		slow:   SlowUseCase,
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	// Fields are emitted in key order so log lines diff cleanly.
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, 4+len(keys))
	attrs = append(attrs,
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", !event.Failed()),
	)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	switch {
	case event.Failed():
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	case event.Duration > o.slow:
		level = slog.LevelWarn
	}
	o.logger.LogAttrs(ctx, level, "use case", attrs...)
}

// useCaseObserverOrNoop picks the first non-nil observer passed to a
// service constructor.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
