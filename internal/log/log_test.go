package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})

		logger.Info("hello", "key", "value")

		out := buf.String()
		if !strings.Contains(out, "hello") {
			t.Errorf("expected message in output, got %q", out)
		}
		if !strings.Contains(out, "key=value") {
			t.Errorf("expected attribute in output, got %q", out)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{JSON: true})

		logger.Info("hello")

		if !strings.Contains(buf.String(), `"msg":"hello"`) {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})

		logger.Info("suppressed")
		logger.Warn("visible")

		out := buf.String()
		if strings.Contains(out, "suppressed") {
			t.Errorf("info message should be filtered, got %q", out)
		}
		if !strings.Contains(out, "visible") {
			t.Errorf("warn message should pass, got %q", out)
		}
	})
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic.
	logger.Info("discarded")
	logger.Error("discarded")
}
