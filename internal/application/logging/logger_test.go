package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDiscard(t *testing.T) {
	logger := FromContext(context.Background())

	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("movie created", MovieID(3), Error(errors.New("boom")))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "movie created", record["msg"])
	assert.Equal(t, float64(3), record["movie_id"])
	assert.Equal(t, "boom", record["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestError_NilIsEmpty(t *testing.T) {
	assert.True(t, Error(nil).Equal(slog.Attr{}))
}
