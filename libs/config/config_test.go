package config

import (
	"reflect"
	"testing"
	"time"
)

func TestProcess(t *testing.T) {
	var cfg struct {
		BookingAPIURL string        `envconfig:"BOOKING_API_URL" default:"http://api:3000"`
		TTL           time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`
		Origins       []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	}
	t.Setenv("IDEMPOTENCY_TTL", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://courts.example.com")

	if err := Process("", &cfg); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if cfg.BookingAPIURL != "http://api:3000" {
		t.Fatalf("expected default url, got %q", cfg.BookingAPIURL)
	}
	if cfg.TTL != 90*time.Second {
		t.Fatalf("expected 90s, got %s", cfg.TTL)
	}
	want := []string{"http://localhost:5173", "https://courts.example.com"}
	if !reflect.DeepEqual(cfg.Origins, want) {
		t.Fatalf("expected %v, got %v", want, cfg.Origins)
	}
}

func TestListAndTruthy(t *testing.T) {
	if got := List(" a, ,b ,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected list %v", got)
	}
	if !IsTruthy("Yes") || IsTruthy("off") {
		t.Fatal("unexpected truthiness")
	}
}

func TestProcessRejectsMalformedValues(t *testing.T) {
	var cfg struct {
		TTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`
	}
	t.Setenv("IDEMPOTENCY_TTL", "soon")
	if err := Process("", &cfg); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}
