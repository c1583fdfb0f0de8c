package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/voxgen/pkg/generator"
)

// AuditHooks logs every run transition at info level.
func AuditHooks(logger *slog.Logger) generator.Hooks {
	return generator.Hooks{
		OnStateChange: func(ctx context.Context, e *generator.StateEvent) {
			logger.InfoContext(ctx, "run_transition",
				"run_id", e.RunID,
				"script", e.Script,
				"from", e.From,
				"to", e.To,
			)
		},
		OnRunFinish: func(ctx context.Context, r *generator.Result) {
			attrs := []any{"run_id", r.RunID, "script", r.Script, "state", r.State, "duration", r.Duration}
			if r.Err != nil {
				attrs = append(attrs, "err", r.Err)
			}
			logger.InfoContext(ctx, "run_finish", attrs...)
		},
	}
}
