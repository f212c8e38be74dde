package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func newTestLogger() (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewDefaultLoggerWithWriters(&stdout, &stderr, false), &stdout, &stderr
}

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	logger, stdout, stderr := newTestLogger()
	logger.SetLevel(DebugLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error(errors.New("boom"), "error message")

	if !strings.Contains(stdout.String(), "[DEBUG] debug message") {
		t.Errorf("stdout missing debug line: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "[INFO] info message") {
		t.Errorf("stdout missing info line: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "[WARN] warn message") {
		t.Errorf("stderr missing warn line: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "[ERROR] error message: boom") {
		t.Errorf("stderr missing error line: %q", stderr.String())
	}
}

func TestDefaultLoggerFiltersBelowLevel(t *testing.T) {
	logger, stdout, _ := newTestLogger()
	logger.SetLevel(WarnLevel)

	logger.Info("hidden")
	if stdout.Len() != 0 {
		t.Errorf("expected no output below level, got %q", stdout.String())
	}
}

func TestWithFieldsSharesLevelAndSortsKeys(t *testing.T) {
	logger, stdout, _ := newTestLogger()
	child := logger.WithFields(Fields{"component": "fft", "n": 8})

	logger.SetLevel(DebugLevel)
	child.Debug("computed", Fields{"bins": 5})

	line := stdout.String()
	if !strings.Contains(line, "bins=5 component=fft n=8") {
		t.Errorf("unexpected field rendering: %q", line)
	}
}

func TestWithContextPicksUpFields(t *testing.T) {
	logger, stdout, _ := newTestLogger()
	ctx := ContextWithFields(context.Background(), Fields{"request": "abc"})

	logger.WithContext(ctx).Info("hello")
	if !strings.Contains(stdout.String(), "request=abc") {
		t.Errorf("context fields missing: %q", stdout.String())
	}
}

func TestFatalCallsExit(t *testing.T) {
	logger, _, stderr := newTestLogger()
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal(errors.New("bad"), "giving up")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "[FATAL] giving up: bad") {
		t.Errorf("stderr missing fatal line: %q", stderr.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetGlobalLoggerNilInstallsNoOp(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Fatalf("expected NoOpLogger, got %T", GetGlobalLogger())
	}
}

func TestSetLevelWhileChildrenLog(t *testing.T) {
	logger := NewDefaultLoggerWithWriters(io.Discard, io.Discard, false)

	var wg sync.WaitGroup
	for i := range 4 {
		child := logger.WithFields(Fields{"worker": i})
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				child.Debug("frame done")
			}
		}()
	}
	for range 200 {
		logger.SetLevel(DebugLevel)
		logger.SetLevel(WarnLevel)
	}
	wg.Wait()

	var stdout bytes.Buffer
	quiet := NewDefaultLoggerWithWriters(&stdout, io.Discard, false)
	child := quiet.WithFields(Fields{"component": "stft"})
	quiet.SetLevel(ErrorLevel)
	child.Info("hidden")
	if stdout.Len() != 0 {
		t.Errorf("child ignored the shared level: %q", stdout.String())
	}
}
