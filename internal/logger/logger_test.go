package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			opts := Options{Level: tt.level, File: logFile, MaxSizeMB: 1, MaxBackups: 1}
			if err := Init(opts); err != nil {
				t.Fatalf("init failed: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output at level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "out.log")
	if err := Init(Options{Level: "verbose", File: logFile, MaxSizeMB: 1}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	Debug("hidden")
	Info("shown")
	Sync()

	content, _ := os.ReadFile(logFile)
	if strings.Contains(string(content), "hidden") {
		t.Error("debug output should be filtered at default level")
	}
	if !strings.Contains(string(content), "shown") {
		t.Error("info output missing at default level")
	}
}
