package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/schedule/slots":
			if r.URL.Query().Get("duration") != "4" {
				http.Error(w, "invalid duration", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"date":"2024-06-01","dateLabel":"Today","durationLabel":"4 hours","slots":[
				{"start":"08:00","end":"12:00","range":"8:00 AM – 12:00 PM"},
				{"start":"18:00","end":"22:00","range":"6:00 PM – 10:00 PM"}]}`))
		case "/api/v1/bookings/validate":
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["timeSlot"] == "18:00" {
				_, _ = w.Write([]byte(`{"valid":true,"errors":{}}`))
				return
			}
			_, _ = w.Write([]byte(`{"valid":false,"errors":{"timeSlot":"bookings must start between 8:00 AM and 10:00 PM","courtNumber":"padel courts are numbered 1-2"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPrintsSheet(t *testing.T) {
	srv := newFakeGateway(t)
	var out bytes.Buffer
	code, err := run(context.Background(), srv.Client(), options{baseURL: srv.URL + "/", duration: "4"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	got := out.String()
	for _, want := range []string{"2024-06-01 (Today), 4 hours", "6:00 PM – 10:00 PM", "2 slots"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunChecksBooking(t *testing.T) {
	srv := newFakeGateway(t)

	var out bytes.Buffer
	code, err := run(context.Background(), srv.Client(), options{baseURL: srv.URL, duration: "4", courtType: "padel", courtNumber: 1, at: "18:00"}, &out)
	if err != nil || code != 0 {
		t.Fatalf("expected valid booking, got code=%d err=%v", code, err)
	}
	if !strings.Contains(out.String(), "at 18:00: ok") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	code, err = run(context.Background(), srv.Client(), options{baseURL: srv.URL, duration: "4", courtType: "padel", courtNumber: 3, at: "23:00"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit 1 for an invalid booking, got %d", code)
	}
	got := out.String()
	if strings.Index(got, "courtNumber:") > strings.Index(got, "timeSlot:") {
		t.Fatalf("violations should be listed by field:\n%s", got)
	}
}

func TestRunReportsGatewayErrors(t *testing.T) {
	srv := newFakeGateway(t)
	_, err := run(context.Background(), srv.Client(), options{baseURL: srv.URL, duration: "0"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status error, got %v", err)
	}
}
