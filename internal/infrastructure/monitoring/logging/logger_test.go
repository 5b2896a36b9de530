package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDefaultLogger_NotNil(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg", Err(errors.New("x")))
		l.Fatal("msg")
	})
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestZapLogger_LevelsWrite(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		assert.Contains(t, out, `"level":"`+lvl+`"`)
		assert.Contains(t, out, lvl+" msg")
	}
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("msg",
		String("court", "TJSP"),
		Strings("rules", []string{"a", "b"}),
		Int("days", 15),
		Int64("n", 7),
		Float64("f", 1.5),
		Bool("low_confidence", true),
		Duration("took", time.Second),
		Err(errors.New("boom")),
		Any("meta", map[string]int{"x": 1}),
	)
	out := buf.String()
	assert.Contains(t, out, `"court":"TJSP"`)
	assert.Contains(t, out, `"rules":["a","b"]`)
	assert.Contains(t, out, `"days":15`)
	assert.Contains(t, out, `"low_confidence":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("engine").With(String("request_id", "r-1"))
	l.Info("computed")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "engine", entry.LoggerName)
	assert.Equal(t, "r-1", entry.ContextMap()["request_id"])
}

func TestSetLevel_RuntimeChange(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	zl := l.(*zapLogger)
	assert.False(t, zl.z.Core().Enabled(zapcore.DebugLevel))

	assert.True(t, SetLevel(l, LevelDebug))
	assert.True(t, zl.z.Core().Enabled(zapcore.DebugLevel))

	child := l.Named("child").(*zapLogger)
	assert.True(t, child.z.Core().Enabled(zapcore.DebugLevel))

	assert.False(t, SetLevel(NewNopLogger(), LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestLogOperationDuration(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	LogOperationDuration(l, "compute", time.Now())
	LogOperationDuration(l, "compute", time.Now().Add(-time.Second))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, "compute", logs.All()[1].ContextMap()["operation"])
}

func TestContextPropagation(t *testing.T) {
	l, _ := newTestLogger(t)
	ctx := WithLogger(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))
	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
