package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bizops/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewForEnvironment(t *testing.T) {
	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, dev)

	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prod)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	t.Run("missing logger yields nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(ctx))
	})

	t.Run("round trip", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(ctx, l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("request and tenant ids", func(t *testing.T) {
		l := zap.NewNop()
		ctx, _ := WithRequestID(ctx, l, "req-1")
		ctx, _ = WithTenantID(ctx, l, "tenant-1")
		ctx, _ = WithActorID(ctx, l, "actor-1")

		assert.Equal(t, "req-1", GetRequestID(ctx))
		assert.Equal(t, "tenant-1", GetTenantID(ctx))
		assert.Equal(t, "actor-1", GetActorID(ctx))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
	silenced := gl.LogMode(gormlogger.Silent)
	assert.NotSame(t, gl, silenced)
}
