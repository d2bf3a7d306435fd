package llm

import (
	"context"
	"io"
	"log/slog"
)

// LLMCallEvent summarizes one Generate call, retries included.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	Attempts  int
	LatencyMs int64
	Success   bool
	// ErrorCode is one of TIMEOUT, UNAVAILABLE, INVALID_OUTPUT or UNKNOWN.
	ErrorCode string
}

type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver logs one line per call. Prompts and replies are never logged;
// they can carry client names and site addresses.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil)).With("component", "assistant")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("model", event.Model),
		slog.Int("attempts", event.Attempts),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if !event.Success {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error_code", event.ErrorCode))
	}
	o.logger.LogAttrs(context.Background(), level, "llm_call", attrs...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
