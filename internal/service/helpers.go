package service

import (
	"context"
	"strings"
	"time"
)

// observe reports a finished use case. Call it from a deferred closure so the
// named error result is final.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}

// normalizeName folds case and collapses runs of whitespace so that
// "Gros  Oeuvre " and "gros oeuvre" compare equal.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
