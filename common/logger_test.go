package common

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAppLogger_SetLevel(t *testing.T) {
	logger := &AppLogger{
		level: LevelInfo,
	}

	logger.SetLevel(LevelDebug)
	if logger.level != LevelDebug {
		t.Errorf("SetLevel did not update level, got %v, want %v", logger.level, LevelDebug)
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{level: LevelWarn}
	logger.SetOutput(&buf)

	// Debug and Info should be filtered
	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	// Warn and Error should pass
	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer

	logger := &AppLogger{level: LevelDebug}
	logger.SetOutput(&buf)

	logger.Info("Test message with %s", "formatting")

	output := buf.String()

	// Check timestamp format (YYYY/MM/DD)
	if !strings.Contains(output, time.Now().Format("2006/01/02")) {
		t.Error("Log should contain date in YYYY/MM/DD format")
	}

	if !strings.Contains(output, "[INFO]") {
		t.Error("Log should contain level indicator")
	}

	if !strings.Contains(output, "logger_test.go:") {
		t.Errorf("Log should contain caller location, got %q", output)
	}

	if !strings.Contains(output, "Test message with formatting") {
		t.Error("Log should contain formatted message")
	}

	if !strings.HasSuffix(output, "\n") {
		t.Error("Log line should be newline terminated")
	}
}

func TestLogHelpers_CallerLocation(t *testing.T) {
	var buf bytes.Buffer
	logger := GetLogger()
	logger.SetOutput(&buf)
	logger.SetLevel(LevelDebug)
	t.Cleanup(func() {
		logger.SetOutput(os.Stdout)
		logger.SetLevel(LevelInfo)
	})

	helpers := []struct {
		name string
		log  func(string, ...interface{})
	}{
		{"LogDebug", LogDebug},
		{"LogInfo", LogInfo},
		{"LogWarn", LogWarn},
		{"LogError", LogError},
	}

	for _, h := range helpers {
		buf.Reset()
		_, _, line, _ := runtime.Caller(0)
		h.log("from %s", h.name)
		want := fmt.Sprintf("logger_test.go:%d: from %s", line+1, h.name)
		if got := buf.String(); !strings.Contains(got, want) {
			t.Errorf("%s output = %q, want it to contain %q", h.name, got, want)
		}
	}
}

func TestDefaultLogConfig(t *testing.T) {
	if defaultMaxFileSize != 5*1024*1024 {
		t.Errorf("defaultMaxFileSize = %v, want 5MB", defaultMaxFileSize)
	}

	if defaultMaxBackups != 5 {
		t.Errorf("defaultMaxBackups = %v, want 5", defaultMaxBackups)
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists() should return true for existing file")
	}

	if FileExists("/nonexistent/path/to/file") {
		t.Error("FileExists() should return false for non-existing file")
	}
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/etc/wireguard/configs/wg0.conf", "wg0"},
		{"office.conf", "office"},
		{"/tmp/noext", "noext"},
		{"/tmp/a.b.conf", "a.b"},
	}

	for _, tt := range tests {
		if got := FileStem(tt.path); got != tt.want {
			t.Errorf("FileStem(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStringInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}

	if !StringInSlice("b", slice) {
		t.Error("StringInSlice should return true for existing element")
	}

	if StringInSlice("d", slice) {
		t.Error("StringInSlice should return false for non-existing element")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if filepath.Base(dir) != ConfigDirName {
		t.Errorf("ConfigDir() = %v, want it to end in %v", dir, ConfigDirName)
	}
	if FileExists(dir) {
		t.Error("ConfigDir() should not create the directory")
	}
	if got := GetLogDir(); got != filepath.Join(dir, "logs") {
		t.Errorf("GetLogDir() = %v, want %v", got, filepath.Join(dir, "logs"))
	}
}

func TestWrapError(t *testing.T) {
	originalErr := ErrTunnelNotFound
	wrapped := WrapError(originalErr, "additional context")

	if wrapped == nil {
		t.Fatal("WrapError should return non-nil error")
	}

	if !strings.Contains(wrapped.Error(), "additional context") {
		t.Error("WrapError should include additional context")
	}

	if !errors.Is(wrapped, ErrTunnelNotFound) {
		t.Error("WrapError should keep the original error in the chain")
	}

	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}

func TestFormatError(t *testing.T) {
	err := error(&FormatError{Line: 3, Text: "Bogus = 1", Reason: "unknown key"})

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("FormatError should match ErrInvalidConfig")
	}
	for _, want := range []string{"line 3", "unknown key", "Bogus = 1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("FormatError.Error() = %q, missing %q", err.Error(), want)
		}
	}

	noLine := &FormatError{Reason: "empty config"}
	if noLine.Error() != "empty config" {
		t.Errorf("FormatError.Error() = %q, want %q", noLine.Error(), "empty config")
	}
}

func TestActivationError(t *testing.T) {
	err := &ActivationError{Tunnel: "wg0", Reason: "up failed", Output: "RTNETLINK answers: File exists", Err: ErrTunnelActive}

	if !strings.Contains(err.Error(), "RTNETLINK") {
		t.Errorf("ActivationError.Error() = %q, should carry tool output", err.Error())
	}
	if !errors.Is(err, ErrTunnelActive) {
		t.Error("ActivationError should unwrap to its cause")
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		name        string
		result      Result
		wantSuccess bool
		wantOutput  string
	}{
		{"clean exit", Result{Code: 0, Stdout: "ok\n"}, true, "ok"},
		{"non-zero", Result{Code: 1, Stderr: "boom"}, false, "boom"},
		{"killed", Result{Code: -1, TimedOut: true}, false, ""},
		{"both streams", Result{Code: 0, Stdout: "out", Stderr: "err"}, true, "out\nerr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Success(); got != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", got, tt.wantSuccess)
			}
			if got := tt.result.Combined(); got != tt.wantOutput {
				t.Errorf("Combined() = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	cmd := Command{Name: "wg-quick", Args: []string{"up", "/etc/wireguard/configs/wg0.conf"}}
	if got, want := cmd.String(), "wg-quick up /etc/wireguard/configs/wg0.conf"; got != want {
		t.Errorf("Command.String() = %v, want %v", got, want)
	}
	if got := (Command{Name: "wg"}).String(); got != "wg" {
		t.Errorf("Command.String() = %v, want wg", got)
	}
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	// Create a log file larger than threshold
	largeContent := strings.Repeat("x", 1024*1024) // 1MB
	if err := os.WriteFile(logFile, []byte(largeContent), 0600); err != nil {
		t.Fatal(err)
	}

	logger := &AppLogger{
		level:       LevelInfo,
		maxFileSize: 512 * 1024, // 512KB threshold
		maxBackups:  2,
	}

	// Should trigger rotation
	logger.rotateIfNeeded(logFile)

	info, err := os.Stat(logFile)
	if err == nil && info.Size() > 0 {
		t.Error("Original log file should be removed or empty after rotation")
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "test.log.*"))
	if len(matches) == 0 {
		t.Error("Backup file should be created after rotation")
	}
}
