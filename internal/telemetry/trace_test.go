package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartProblemSearchReturnsUsableSpan(t *testing.T) {
	ctx, span := StartProblemSearch(context.Background(), "007bbfb7", 3)
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	AnnotateResult(span, "found", 12)
	span.End()
}
