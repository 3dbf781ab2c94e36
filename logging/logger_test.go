package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewFromConfigWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromConfig(Config{Service: "svc", Module: "learner", Level: "info", Output: &buf})

	l.InfoContext(context.Background(), "trained", "examples", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["service"] != "svc" || rec["module"] != "learner" {
		t.Errorf("missing service/module attrs: %v", rec)
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Errorf("time key should be renamed to timestamp: %v", rec)
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromConfig(Config{Service: "svc", Level: "info", Output: &buf})

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record should be filtered at info level")
	}

	SetLevel("debug")
	defer SetLevel("info")
	l.Named("predict").Debug("visible")
	if !strings.Contains(buf.String(), `"component":"predict"`) {
		t.Errorf("expected debug record with component, got %s", buf.String())
	}
}

func TestFileOutputWritesBothSinks(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l := NewFromConfig(Config{Service: "svc", Level: "info", File: file, MaxSize: 1, Output: &buf})

	l.Info("both", "examples", 3)
	l.Debug("filtered")
	if !strings.Contains(buf.String(), "both") {
		t.Errorf("stdout sink missed the record")
	}
	if _, ok := l.Handler().(*TraceHandler); !ok {
		t.Errorf("handler should stay wrapped by TraceHandler, got %T", l.Handler())
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file is not a single JSON record: %v (%s)", err, data)
	}
	if rec["msg"] != "both" || rec["service"] != "svc" || rec["examples"] != float64(3) {
		t.Errorf("file record = %v", rec)
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func (h failingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return failingHandler{h.Handler.WithAttrs(attrs)}
}

func (h failingHandler) WithGroup(name string) slog.Handler {
	return failingHandler{h.Handler.WithGroup(name)}
}

func TestFanoutHandlerKeepsWritingAfterSinkError(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	h := newFanoutHandler(
		sink{name: "broken", handler: failingHandler{slog.NewJSONHandler(io.Discard, opts)}},
		sink{name: "buffer", handler: slog.NewJSONHandler(&buf, opts)},
	)

	err := slog.New(h).WithGroup("req").With("id", 7).Handler().Handle(context.Background(),
		slog.NewRecord(time.Now(), slog.LevelInfo, "fanout", 0))
	if err == nil || !strings.Contains(err.Error(), "log sink broken: disk full") {
		t.Errorf("Handle error = %v", err)
	}
	if !strings.Contains(buf.String(), `"req":{"id":7}`) {
		t.Errorf("healthy sink missed the record or its group: %s", buf.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("debug should be disabled on every sink")
	}
}
