package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)

	l.Info("skipped")
	l.Warn("kept", "station", "A1")

	out := buf.String()
	if strings.Contains(out, "skipped") {
		t.Errorf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, "[WARN] kept | station=A1") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLogger_ErrorAppendsErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf)

	l.Error("save failed", errors.New("timeout"), "count", 3)

	if !strings.Contains(buf.String(), "count=3 error=timeout") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLogger_Hook(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)

	var gotLevel, gotMsg string
	var gotFields map[string]interface{}
	l.SetHook(func(level, msg string, fields map[string]interface{}) {
		gotLevel, gotMsg, gotFields = level, msg, fields
	})

	l.Debug("filtered")
	if gotMsg != "" {
		t.Fatalf("hook called for filtered message")
	}

	l.Info("recorded", "count", 12)
	if gotLevel != "INFO" || gotMsg != "recorded" || gotFields["count"] != 12 {
		t.Errorf("unexpected hook call: %s %s %v", gotLevel, gotMsg, gotFields)
	}
}
