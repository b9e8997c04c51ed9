package engine

import (
	"context"
	"log/slog"
)

// Tier is one step of a fallback cascade.
type Tier[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// FirstNonEmpty runs tiers in order and returns the first result that is not
// empty, with the name of the tier that produced it. A failing tier counts as
// empty. Later tiers are never started once one succeeds. Returns the zero
// value and "" when every tier comes up empty or ctx is done.
func FirstNonEmpty[T any](ctx context.Context, empty func(T) bool, tiers ...Tier[T]) (T, string) {
	var zero T
	for _, tier := range tiers {
		if ctx.Err() != nil {
			slog.Debug("cascade: context done", slog.String("tier", tier.Name))
			break
		}
		v, err := tier.Run(ctx)
		if err != nil {
			slog.Debug("cascade: tier failed",
				slog.String("tier", tier.Name),
				slog.String("kind", KindOf(err).String()),
				slog.Any("error", err))
			continue
		}
		if empty(v) {
			slog.Debug("cascade: tier empty", slog.String("tier", tier.Name))
			continue
		}
		return v, tier.Name
	}
	return zero, ""
}
