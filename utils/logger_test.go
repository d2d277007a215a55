package utils

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultArgs(t *testing.T) {
	var buf bytes.Buffer
	log := NewTextLogger(&buf, slog.LevelInfo)
	ctx := WithDefaultArgs(context.Background(), "session", "s1")
	ctx = WithDefaultArgs(ctx, "peer", "p2")

	log.InfoCtx(ctx, "frame stored", "chunks", 3)
	out := buf.String()
	assert.Contains(t, out, "[ron] frame stored")
	assert.Contains(t, out, "chunks=3")
	assert.Contains(t, out, "session=s1")
	assert.Contains(t, out, "peer=p2")

	buf.Reset()
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	assert.Nil(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
	lvl, err = ParseLevel("")
	assert.Nil(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
