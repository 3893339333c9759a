package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetupConsole(t *testing.T) {
	logger, closeFn, err := Setup(ModeConsole, "debug", "")
	if err != nil {
		t.Fatalf("Setup(ModeConsole) returned error: %v", err)
	}
	defer closeFn()

	if logger == nil {
		t.Fatal("Setup(ModeConsole) returned nil logger")
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level not enabled despite level=debug")
	}
}

func TestSetupFileWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeFn, err := Setup(ModeFile, "info", path)
	if err != nil {
		t.Fatalf("Setup(ModeFile) returned error: %v", err)
	}

	logger.Info("bundle written", zap.String("dir", "/tmp/out"))
	logger.Debug("ignored at info level")
	closeFn()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("log file is empty")
	}
	line := scanner.Text()

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	if entry["msg"] != "bundle written" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "bundle written")
	}
	if entry["dir"] != "/tmp/out" {
		t.Fatalf("dir field = %v, want %q", entry["dir"], "/tmp/out")
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("log line %q missing timestamp", line)
	}

	if scanner.Scan() {
		t.Fatalf("debug entry leaked into info-level log: %q", scanner.Text())
	}
}

func TestSetupFileRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeFn, err := Setup(ModeFile, "error", path)
	if err != nil {
		t.Fatalf("Setup(ModeFile) returned error: %v", err)
	}
	logger.Info("quiet")
	logger.Error("loud")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Fatalf("info entry written at error level: %s", data)
	}
	if !strings.Contains(string(data), "loud") {
		t.Fatalf("error entry missing: %s", data)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, _, err := Setup(ModeConsole, "loud", ""); err == nil {
		t.Fatal("Setup accepted level loud")
	}
}

func TestDefaultLogPath(t *testing.T) {
	path, err := defaultLogPath()
	if err != nil {
		t.Fatalf("defaultLogPath() returned error: %v", err)
	}
	if filepath.Base(path) != "nestegg.log" {
		t.Fatalf("log file name = %q, want %q", filepath.Base(path), "nestegg.log")
	}
	if filepath.Base(filepath.Dir(path)) != "nestegg" {
		t.Fatalf("log directory = %q, want %q", filepath.Base(filepath.Dir(path)), "nestegg")
	}
}
