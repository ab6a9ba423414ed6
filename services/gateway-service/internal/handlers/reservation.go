package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/md-rashed-zaman/courtbook/libs/httpx"
	otelx "github.com/md-rashed-zaman/courtbook/libs/otel"
	"github.com/md-rashed-zaman/courtbook/libs/runtime"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/bookingapi"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/events"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/idempotency"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/validation"
)

// UserIDHeader carries the authenticated subject, set by the gateway auth guard.
const UserIDHeader = "X-User-Id"

const replayHeader = "Idempotent-Replay"

var tracer = otelx.Tracer("github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/handlers")

// ReservationCreator is the part of the booking API the handler forwards to.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, token, idempotencyKey string, in bookingapi.CreateReservationInput) (*model.Reservation, error)
}

type ReservationHandler struct {
	api      ReservationCreator
	store    idempotency.Store
	events   events.Publisher
	logger   *slog.Logger
	spelling model.Spelling
	now      runtime.Clock
	loc      *time.Location
}

type ReservationOptions struct {
	Spelling model.Spelling
	Now      runtime.Clock
	Location *time.Location
}

func NewReservationHandler(api ReservationCreator, store idempotency.Store, publisher events.Publisher, logger *slog.Logger, opts ReservationOptions) *ReservationHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.Now == nil {
		opts.Now = runtime.SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Spelling == "" {
		opts.Spelling = model.SpellingPadel
	}
	return &ReservationHandler{
		api:      api,
		store:    store,
		events:   publisher,
		logger:   logger,
		spelling: opts.Spelling,
		now:      opts.Now,
		loc:      opts.Location,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type reservationEvent struct {
	UserID        string            `json:"user_id"`
	ReservationID string            `json:"reservation_id,omitempty"`
	CourtType     string            `json:"court_type"`
	CourtNumber   int               `json:"court_number"`
	Date          string            `json:"date"`
	TimeSlot      string            `json:"time_slot"`
	Duration      float64           `json:"duration"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// Create validates a booking form and, only when it is valid, forwards it to the booking
// API. A request carrying an Idempotency-Key that was already answered gets the stored
// answer back without reaching the API again.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	token, _ := httpx.BearerToken(r)
	span.SetAttributes(
		attribute.String("court.type", req.CourtType),
		attribute.Int("court.number", req.CourtNumber),
		attribute.String("booking.date", req.Date),
		attribute.String("booking.time_slot", req.TimeSlot),
		attribute.Float64("booking.duration", req.Duration),
	)

	res := validation.ValidateBooking(req, h.today())
	if !res.Valid {
		span.SetAttributes(attribute.Int("booking.violations", len(res.Errors)))
		h.publish(ctx, events.TypeReservationRejected, userID, reservationEvent{
			UserID:      userID,
			CourtType:   req.CourtType,
			CourtNumber: req.CourtNumber,
			Date:        req.Date,
			TimeSlot:    req.TimeSlot,
			Duration:    req.Duration,
			Errors:      res.Messages(),
		})
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, newValidationResponse(res))
		return
	}

	clientKey := strings.TrimSpace(r.Header.Get(bookingapi.IdempotencyKeyHeader))
	storeKey := ""
	if clientKey != "" && h.store != nil {
		storeKey = idempotency.Key(userID, clientKey)
		rec, ok, err := h.store.Get(ctx, storeKey)
		if err != nil {
			h.logger.Warn("idempotency lookup failed", "err", err, "request_id", httpx.RequestIDFromContext(ctx))
		} else if ok {
			span.SetAttributes(attribute.Bool("booking.replayed", true))
			w.Header().Set(replayHeader, "true")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}
	forwardKey := clientKey
	if forwardKey == "" {
		forwardKey = uuid.NewString()
	}

	// Validation succeeded, so the court type parses.
	courtType, _ := model.ParseCourtType(req.CourtType)
	in := bookingapi.CreateReservationInput{
		CourtType:   courtType.WireName(h.spelling),
		CourtNumber: req.CourtNumber,
		Date:        strings.TrimSpace(req.Date),
		TimeSlot:    strings.TrimSpace(req.TimeSlot),
		Duration:    req.Duration,
	}

	reservation, err := h.forward(ctx, token, forwardKey, in)
	if err != nil {
		var apiErr *bookingapi.APIError
		if !errors.As(err, &apiErr) {
			h.logger.Error("forward reservation failed", "err", err, "request_id", httpx.RequestIDFromContext(ctx))
			http.Error(w, "booking service unavailable", http.StatusBadGateway)
			return
		}
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		// 5xx answers may succeed on retry and are not remembered.
		h.respond(ctx, w, storeKey, apiErr.StatusCode, errorResponse{Error: msg}, apiErr.StatusCode < 500)
		return
	}

	span.SetAttributes(attribute.String("reservation.id", reservation.ID))
	h.publish(ctx, events.TypeReservationSubmitted, userID, reservationEvent{
		UserID:        userID,
		ReservationID: reservation.ID,
		CourtType:     string(courtType),
		CourtNumber:   req.CourtNumber,
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Duration:      req.Duration,
	})
	h.respond(ctx, w, storeKey, http.StatusCreated, reservation, true)
}

func (h *ReservationHandler) forward(ctx context.Context, token, key string, in bookingapi.CreateReservationInput) (*model.Reservation, error) {
	ctx, span := tracer.Start(ctx, "booking_api.create_reservation", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	reservation, err := h.api.CreateReservation(ctx, token, key, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create reservation failed")
		var apiErr *bookingapi.APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", apiErr.StatusCode))
		}
		return nil, err
	}
	return reservation, nil
}

func (h *ReservationHandler) respond(ctx context.Context, w http.ResponseWriter, storeKey string, status int, v any, remember bool) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	if remember && storeKey != "" {
		rec := idempotency.Record{StatusCode: status, Body: body, CreatedAt: h.now().UTC()}
		if err := h.store.Put(ctx, storeKey, rec); err != nil {
			h.logger.Warn("idempotency store failed", "err", err, "request_id", httpx.RequestIDFromContext(ctx))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// publish is best effort: a broker outage never changes the answer to the client.
func (h *ReservationHandler) publish(ctx context.Context, eventType, key string, payload reservationEvent) {
	err := h.events.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        key,
		Payload:    payload,
		OccurredAt: h.now().UTC(),
	})
	if err != nil {
		h.logger.Warn("event publish failed", "event_type", eventType, "err", err)
	}
}

func (h *ReservationHandler) today() availability.Date {
	return today(h.now, h.loc)
}
