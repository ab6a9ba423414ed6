package kafkax

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractEventMetaFallsBack(t *testing.T) {
	meta := ExtractEventMeta(kafka.Message{Topic: "court.reservation.submitted.v1", Key: []byte("k1")})
	if meta.EventID != "k1" || meta.EventType != "court.reservation.submitted.v1" {
		t.Fatalf("unexpected meta %+v", meta)
	}

	msg := kafka.Message{Headers: EventMeta{EventID: "e1", EventType: "t1"}.Headers()}
	meta = ExtractEventMeta(msg)
	if meta.EventID != "e1" || meta.EventType != "t1" {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestTraceHeadersRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectTraceHeaders(ctx, EventMeta{EventID: "e1", EventType: "t1"}.Headers())
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatalf("expected traceparent header, got %+v", headers)
	}

	extracted := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), kafka.Message{Headers: headers}))
	if extracted.TraceID() != traceID {
		t.Fatalf("expected trace id %s, got %s", traceID, extracted.TraceID())
	}
}

func TestReadyCheckWithoutBrokers(t *testing.T) {
	if err := ReadyCheck(" , ")(context.Background()); err == nil {
		t.Fatal("expected an error when no brokers are configured")
	}
}

func TestReadyCheckReportsEveryBroker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := ReadyCheck("127.0.0.1:1,127.0.0.1:2")(ctx)
	if err == nil {
		t.Fatal("expected an error for unreachable brokers")
	}
	for _, addr := range []string{"127.0.0.1:1", "127.0.0.1:2"} {
		if !strings.Contains(err.Error(), addr) {
			t.Fatalf("expected %s in %q", addr, err)
		}
	}
}
