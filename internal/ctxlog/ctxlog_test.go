package ctxlog_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/strschema/internal/ctxlog"
)

func TestFromContext(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	require.Same(t, logger, ctxlog.FromContext(ctx))
}

func TestFromContext_MissingPanics(t *testing.T) {
	require.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		ctxlog.FromContext(context.Background())
	})
}
