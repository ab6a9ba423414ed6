package bookingapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation(t *testing.T) {
	var got CreateReservationInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reservations", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "idem-1", r.Header.Get(IdempotencyKeyHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r-1","courtType":"padel","courtNumber":2,"date":"2024-06-01","timeSlot":"09:00","duration":1.5,"status":"confirmed","createdAt":"2024-05-30T10:00:00Z"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/", Options{Timeout: time.Second})
	require.NoError(t, err)

	res, err := client.CreateReservation(context.Background(), "tok-1", "idem-1", CreateReservationInput{
		CourtType:   "padel",
		CourtNumber: 2,
		Date:        "2024-06-01",
		TimeSlot:    "09:00",
		Duration:    1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", res.ID)
	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, 1.5, got.Duration)
	assert.Equal(t, "padel", got.CourtType)
}

func TestCreateReservationConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"court already booked for that time"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	_, err = client.CreateReservation(context.Background(), "tok", "", CreateReservationInput{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "court already booked for that time", apiErr.Message)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("booking-api:3000", Options{})
	require.Error(t, err)
}

func TestErrorMessageFallsBackToText(t *testing.T) {
	assert.Equal(t, "bad gateway", errorMessage([]byte(" bad gateway \n")))
	assert.Equal(t, "nope", errorMessage([]byte(`{"error":"nope"}`)))

	// 199 ASCII bytes followed by a two-byte rune straddling the limit.
	long := strings.Repeat("a", 199) + "é" + strings.Repeat("b", 50)
	got := errorMessage([]byte(long))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 199), got)
}
