package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*ZerologLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewZerolog(Options{Level: "debug", Output: &buf}), &buf
}

func TestZerolog_LevelsWriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		key   string
		val   float64
	}{
		{"debug", "dbg", "a", 1},
		{"info", "inf", "b", 2},
		{"warn", "wrn", "c", 3},
		{"error", "err", "d", 4},
	}

	for i, tc := range tests {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &rec))
		require.Equal(t, tc.level, rec["level"])
		require.Equal(t, tc.msg, rec["message"])
		require.Equal(t, tc.val, rec[tc.key])
	}
}

func TestZerolog_WithAddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log2 := log.With("req_id", "123", "user", "alice")
	log2.Info(context.Background(), "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, "123", rec["req_id"])
	require.Equal(t, "alice", rec["user"])
	require.Equal(t, "v", rec["k"])
}

func TestZerolog_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(Options{Level: "warn", Output: &buf})

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "dropped too")
	log.Warn(context.Background(), "kept")

	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
	require.Contains(t, buf.String(), "kept")
}
