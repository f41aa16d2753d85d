package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"chatlist/internal/logger"
	"github.com/sirupsen/logrus"
)

func TestEventQueueBroadcastsToAllSubscribers(t *testing.T) {
	q := NewEventQueue(4)
	a := q.Subscribe()
	b := q.Subscribe()
	if q.SubscriberCount() != 2 {
		t.Fatalf("SubscriberCount = %d", q.SubscriberCount())
	}

	ev := Event{Type: EventMessageAppended, MessageID: "m1"}
	if err := q.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, ch := range []<-chan Event{a, b} {
		got := <-ch
		if got.Type != EventMessageAppended || got.MessageID != "m1" {
			t.Fatalf("got %+v", got)
		}
		if got.Timestamp.IsZero() {
			t.Fatalf("timestamp not filled in")
		}
	}
}

func TestEventQueueReportsDrops(t *testing.T) {
	q := NewEventQueue(1)
	_ = q.Subscribe()
	ctx := context.Background()
	if err := q.Publish(ctx, Event{Type: EventMessageDeleted}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := q.Publish(ctx, Event{Type: EventMessageDeleted}); !errors.Is(err, ErrEventDropped) {
		t.Fatalf("second publish err = %v, want ErrEventDropped", err)
	}
}

func TestEventQueueClose(t *testing.T) {
	q := NewEventQueue(1)
	ch := q.Subscribe()
	q.Close()
	q.Close()

	if _, ok := <-ch; ok {
		t.Fatalf("subscription channel still open")
	}
	if err := q.Publish(context.Background(), Event{}); !errors.Is(err, ErrEventQueueClosed) {
		t.Fatalf("publish after close = %v", err)
	}
	if _, ok := <-q.Subscribe(); ok {
		t.Fatalf("subscribe after close returned open channel")
	}
}

func TestEventQueueLogsJSONPayload(t *testing.T) {
	buf := &bytes.Buffer{}
	q := NewEventQueue(1)
	q.SetLogger(newBufferLogger(buf))

	ev := Event{
		Type:    EventPageLoaded,
		Payload: PageLoaded{Count: 20, LastPage: true},
	}
	if err := q.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "payload=") {
		t.Fatalf("expected payload field in log, got %q", out)
	}
	// 缩进 JSON 会带换行，直接检查关键字段存在即可。
	if !strings.Contains(out, "\"LastPage\"") {
		t.Fatalf("expected json payload in log, got %q", out)
	}
}

func TestEncodePayload_StringIsRaw(t *testing.T) {
	if got := encodePayload("m1"); got != "m1" {
		t.Fatalf("expected raw string payload, got %q", got)
	}
	if got := encodePayload(nil); got != "" {
		t.Fatalf("expected empty payload for nil, got %q", got)
	}
}

func TestEncodePayload_ObjectIsPrettyJSON(t *testing.T) {
	got := encodePayload(map[string]any{"a": 1, "b": map[string]any{"c": 2}})
	if !json.Valid([]byte(got)) {
		t.Fatalf("expected valid json, got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected indented json, got %q", got)
	}
}

func newBufferLogger(buf *bytes.Buffer) *logger.LogEntry {
	l := logrus.New()
	l.SetFormatter(logger.PlainFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l)
}
