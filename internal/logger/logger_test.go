package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		l := zap.New(core).Sugar()
		ctx := NewContext(context.Background(), l)

		FromContext(ctx).Infow("rebalanced", "numLong", 3)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		require.Equal(t, "rebalanced", entry.Message)
		require.Equal(t, int64(3), entry.ContextMap()["numLong"])
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
