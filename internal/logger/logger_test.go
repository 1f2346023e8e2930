package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()
	defer Nop()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{`"ERROR"`},
			excluded: []string{`"WARN"`, `"INFO"`, `"DEBUG"`},
		},
		{
			level:    "warn",
			expected: []string{`"ERROR"`, `"WARN"`},
			excluded: []string{`"INFO"`, `"DEBUG"`},
		},
		{
			level:    "info",
			expected: []string{`"ERROR"`, `"WARN"`, `"INFO"`},
			excluded: []string{`"DEBUG"`},
		},
		{
			level:    "debug",
			expected: []string{`"ERROR"`, `"WARN"`, `"INFO"`, `"DEBUG"`},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			cfg := FileConfig{
				Path:       logFile,
				MaxSizeMB:  10,
				MaxBackups: 1,
				MaxAgeDays: 1,
				Compress:   false,
			}

			if err := InitWithFileConfig(tt.level, cfg, nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	defer Nop()

	var buf bytes.Buffer
	if err := InitWithFileConfig("info", FileConfig{}, &buf); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("exporting mesh")
	Debug("hidden")
	Sync()

	out := buf.String()
	if !strings.Contains(out, "exporting mesh") {
		t.Errorf("expected message in console output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at info level: %q", out)
	}
}

func TestWithRun(t *testing.T) {
	defer Nop()

	logFile := filepath.Join(t.TempDir(), "run.log")
	if err := InitWithFileConfig("debug", FileConfig{Path: logFile, MaxSizeMB: 1}, nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	WithRun("run-42").Info("started")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"run":"run-42"`) {
		t.Errorf("expected run field in %s", content)
	}
}

func TestCallerReported(t *testing.T) {
	defer Nop()

	logFile := filepath.Join(t.TempDir(), "caller.log")
	if err := InitWithFileConfig("debug", FileConfig{Path: logFile, MaxSizeMB: 1}, nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("from wrapper")
	Sugar.Infof("from %s", "sugar")
	WithRun("run-7").Info("from run")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %s", len(lines), content)
	}
	for _, line := range lines {
		if !strings.Contains(line, `"caller":"logger/logger_test.go:`) {
			t.Errorf("caller should be the test file: %s", line)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	Nop()
	// Must not panic without Init.
	Info("nothing")
	Sync()
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 30 {
		t.Errorf("expected MaxAgeDays 30, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
