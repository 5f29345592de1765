package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(log.New(&buf, "", 0), level), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarning)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below level leaked: %q", out)
	}
	if !strings.Contains(out, "WARN: warn 3") {
		t.Errorf("missing warning: %q", out)
	}
	if !strings.Contains(out, "ERROR: error 4") {
		t.Errorf("missing error: %q", out)
	}
}

func TestWithTag(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	tagged := l.WithTag("console")

	tagged.Infof("mode %s", "MENU")
	tagged.Debugf("tick")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "console: mode MENU" {
		t.Errorf("got %q, want %q", lines[0], "console: mode MENU")
	}
	if lines[1] != "console: DEBUG: tick" {
		t.Errorf("got %q, want %q", lines[1], "console: DEBUG: tick")
	}
	if tagged.Level() != LogLevelDebug {
		t.Errorf("tagged logger level: got %d", tagged.Level())
	}
}

func TestPrintfIsInfo(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.Printf("hello %s", "world")
	if strings.TrimSpace(buf.String()) != "hello world" {
		t.Errorf("got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Errorf("nothing to see")
	if l.Level() != LogLevelNone {
		t.Errorf("expected LogLevelNone, got %d", l.Level())
	}
}
