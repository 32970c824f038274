package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(2)

	sink.Emit(context.Background(), Event{AuditID: "1", Action: "Login"})
	sink.Emit(context.Background(), Event{AuditID: "2", Action: "Update"})

	first := <-sink.Events()
	if first.AuditID != "1" {
		t.Fatalf("first event id = %q, want 1", first.AuditID)
	}
	second := <-sink.Events()
	if second.Action != "Update" {
		t.Fatalf("second event action = %q, want Update", second.Action)
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), Event{AuditID: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Buffer is full and the context is done; Emit must return, not block.
	sink.Emit(ctx, Event{AuditID: "2"})
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	ts := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sink.Emit(context.Background(), Event{
		AuditID:   "a-1",
		Timestamp: ts,
		Actor:     "alice",
		Action:    "Login",
		Details:   "login succeeded",
	})

	var decoded Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not one JSON object per line: %v", err)
	}
	if decoded.AuditID != "a-1" || decoded.Actor != "alice" || !decoded.Timestamp.Equal(ts) {
		t.Fatalf("decoded event = %+v", decoded)
	}
}

func TestNoOpSink(t *testing.T) {
	NoOpSink{}.Emit(context.Background(), Event{AuditID: "ignored"})
}
