package log_test

import (
	"context"
	"io"
	glog "log"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/util/log"
)

func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	glog.SetOutput(w)
	defer glog.SetOutput(os.Stderr)
	f()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestAddTags(t *testing.T) {
	ctx := context.Background()
	t.Run("tags are appended", func(t *testing.T) {
		ctx := log.AddTags(ctx, "report", "du.txt")
		output := captureOutput(t, func() {
			log.Infof(ctx, "loaded %d records", 3)
		})
		require.Contains(t, output, "INFO loaded 3 records report=du.txt")
	})
	t.Run("tags accumulate", func(t *testing.T) {
		ctx := log.AddTags(ctx, "report", "du.txt")
		ctx = log.AddTags(ctx, "request_id", "abc")
		output := captureOutput(t, func() {
			log.Infow(ctx, "view", "path", "/usr")
		})
		require.Contains(t, output, "INFO view path=/usr report=du.txt request_id=abc")
	})
	t.Run("parent context is unchanged", func(t *testing.T) {
		parent := log.AddTags(ctx, "a", 1)
		_ = log.AddTags(parent, "b", 2)
		output := captureOutput(t, func() {
			log.Infow(parent, "hello")
		})
		require.Contains(t, output, "a=1")
		require.NotContains(t, output, "b=2")
	})
	t.Run("odd arguments panic", func(t *testing.T) {
		require.Panics(t, func() {
			log.AddTags(ctx, "lonely")
		})
	})
}

func TestLogLevels(t *testing.T) {
	old := slog.SetLogLoggerLevel(slog.LevelDebug)
	defer slog.SetLogLoggerLevel(old)
	cases := []struct {
		assertion string
		logf      func(context.Context, string, ...any)
		logw      func(context.Context, string, ...any)
		level     string
	}{
		{"info", log.Infof, log.Infow, "INFO"},
		{"warn", log.Warnf, log.Warnw, "WARN"},
		{"error", log.Errorf, log.Errorw, "ERROR"},
		{"debug", log.Debugf, log.Debugw, "DEBUG"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			ctx := context.Background()
			output := captureOutput(t, func() {
				c.logf(ctx, "hello %s", "world")
				c.logw(ctx, "hello", "world", "earth")
			})
			require.Contains(t, output, c.level+" hello world")
			require.Contains(t, output, c.level+" hello world=earth")
		})
	}
}

func TestLogLeveling(t *testing.T) {
	old := slog.SetLogLoggerLevel(slog.LevelInfo)
	defer slog.SetLogLoggerLevel(old)
	s := captureOutput(t, func() {
		log.Debugf(context.Background(), "foo")
		log.Debugw(context.Background(), "bar")
	})
	require.Equal(t, "", s)
}
