package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteReservedKeysWin(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Warn("ranking.failed", map[string]any{
		"msg":   "overridden",
		"error": errors.New("status 500"),
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["msg"] != "ranking.failed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["error"] != "status 500" {
		t.Fatalf("expected error rendered as string, got %v", payload["error"])
	}
}
