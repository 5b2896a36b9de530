package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/testutil"
)

func TestRecordingLogger(t *testing.T) {
	logger := testutil.NewRecordingLogger()

	logger.Info("snapshot loaded", logging.String("court", "TJSP"))

	messages := logger.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "snapshot loaded", messages[0].Message)
	v, ok := messages[0].Field("court")
	assert.True(t, ok)
	assert.Equal(t, "TJSP", v)

	logger.Clear()
	assert.Empty(t, logger.Messages())

	logger.Error("store unreachable")
	assert.True(t, logger.HasMessage("error", "store unreachable"))
	assert.False(t, logger.HasMessage("info", "store unreachable"))
}

func TestRecordingLogger_ChildrenShareSink(t *testing.T) {
	root := testutil.NewRecordingLogger()
	child := root.Named("engine").With(logging.String("request_id", "r-1")).Named("walk")

	child.Warn("lookahead exhausted", logging.Int("days", 400))

	got := root.Find("warn", "lookahead")
	require.Len(t, got, 1)
	assert.Equal(t, "engine.walk", got[0].Logger)
	id, ok := got[0].Field("request_id")
	assert.True(t, ok)
	assert.Equal(t, "r-1", id)
	_, ok = got[0].Field("missing")
	assert.False(t, ok)
}

//Personal.AI order the ending
