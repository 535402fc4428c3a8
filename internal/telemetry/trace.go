package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/kaalam/arcsynth/internal/harness")

// StartProblemSearch starts one span covering an entire problem search, from
// just before internal/mcts.RunSearch is called to just after it returns.
// Callers must end the returned span themselves (typically via defer).
func StartProblemSearch(ctx context.Context, problemID string, numExamples int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "mcts.search",
		trace.WithAttributes(
			attribute.String("problem_id", problemID),
			attribute.Int("num_examples", numExamples),
		),
	)
}

// AnnotateResult records a finished search's outcome on span.
func AnnotateResult(span trace.Span, stoppedOn string, totWalks int) {
	span.SetAttributes(
		attribute.String("stopped_on", stoppedOn),
		attribute.Int("tot_walks", totWalks),
	)
}
