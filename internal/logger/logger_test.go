package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewIsNop(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected a logger")
	}
	l.Log.Info("discarded")
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.log")
	l := New()
	if err := l.Init("info", path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	l.Log.Info("task added", zap.String("user", "alice"))
	l.Log.Debug("hidden")
	_ = l.Log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"task added"`) || !strings.Contains(out, `"user":"alice"`) {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	if err := New().Init("loud", ""); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
