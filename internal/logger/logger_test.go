package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogFilePathDefaultsToWorkdirLogs(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	got, err := logFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	if want := filepath.Join(wd, defaultLogDirName, defaultLogFilename); got != want {
		t.Fatalf("log path want %s got %s", want, got)
	}
	if info, err := os.Stat(filepath.Dir(got)); err != nil || !info.IsDir() {
		t.Fatalf("log dir should be created: %v", err)
	}
}

func TestNewReleaseFallsBackToStdoutWhenDirUnusable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker failed: %v", err)
	}
	log := New("release", Options{Dir: blocker})
	if log == nil {
		t.Fatalf("logger should fall back to stdout")
	}
	log.Info("fallback-log-test")
}

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "release.log",
	}
	log := New("release", cfg)
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	}
	log := New("debug", cfg)
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestNewReleaseAddsServiceField(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "svc.log", Service: "storefront-api"})
	log.Info("service-field-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "svc.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if !strings.Contains(string(content), `"service":"storefront-api"`) {
		t.Fatalf("expected service field, got=%s", string(content))
	}
}
