package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtbook/libs/httpx"
	"github.com/md-rashed-zaman/courtbook/libs/runtime"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/display"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/validation"
)

// ScheduleHandler serves the read-only booking helpers the web client renders from.
// Nothing here looks at existing reservations.
type ScheduleHandler struct {
	now runtime.Clock
	loc *time.Location
}

func NewScheduleHandler(now runtime.Clock, loc *time.Location) *ScheduleHandler {
	if now == nil {
		now = runtime.SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{now: now, loc: loc}
}

func (h *ScheduleHandler) today() availability.Date {
	return today(h.now, h.loc)
}

func today(now runtime.Clock, loc *time.Location) availability.Date {
	return availability.DateOf(now().In(loc))
}

type courtRangeItem struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

type scheduleConfigResponse struct {
	Today              availability.Date         `json:"today"`
	Timezone           string                    `json:"timezone"`
	OpenTime           availability.TimeOfDay    `json:"openTime"`
	CloseTime          availability.TimeOfDay    `json:"closeTime"`
	SlotStepMinutes    int                       `json:"slotStepMinutes"`
	MinDuration        float64                   `json:"minDuration"`
	MaxDuration        float64                   `json:"maxDuration"`
	BookingHorizonDays int                       `json:"bookingHorizonDays"`
	LastBookableDate   availability.Date         `json:"lastBookableDate"`
	Courts             map[string]courtRangeItem `json:"courts"`
}

func (h *ScheduleHandler) Config(w http.ResponseWriter, _ *http.Request) {
	t := h.today()
	courts := make(map[string]courtRangeItem, len(model.CourtTypes))
	for _, ct := range model.CourtTypes {
		r := ct.Courts()
		courts[string(ct)] = courtRangeItem{Label: ct.Title(), Min: r.Min, Max: r.Max}
	}
	httpx.WriteJSON(w, http.StatusOK, scheduleConfigResponse{
		Today:              t,
		Timezone:           h.loc.String(),
		OpenTime:           availability.Window.Open,
		CloseTime:          availability.Window.Close,
		SlotStepMinutes:    int(availability.SlotStep / time.Minute),
		MinDuration:        float64(availability.MinDuration),
		MaxDuration:        float64(availability.MaxDuration),
		BookingHorizonDays: availability.BookingHorizonDays,
		LastBookableDate:   t.AddDays(availability.BookingHorizonDays),
		Courts:             courts,
	})
}

type slotItem struct {
	Start availability.TimeOfDay `json:"start"`
	End   availability.TimeOfDay `json:"end"`
	Label string                 `json:"label"`
	Range string                 `json:"range"`
}

type slotsResponse struct {
	Date          availability.Date `json:"date"`
	DateLabel     string            `json:"dateLabel"`
	Duration      float64           `json:"duration"`
	DurationLabel string            `json:"durationLabel"`
	Slots         []slotItem        `json:"slots"`
}

// Slots lists the start times for ?date=YYYY-MM-DD&duration=H. Both default: today and
// one hour.
func (h *ScheduleHandler) Slots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t := h.today()

	date := t
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		d, err := availability.ParseDate(raw)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = d
	}

	duration := availability.MinDuration
	if raw := strings.TrimSpace(q.Get("duration")); raw != "" {
		d, err := availability.ParseHours(raw)
		if err != nil {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}
		duration = d
	}

	seq, err := availability.GenerateSlots(date, duration)
	if err != nil {
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	}

	items := []slotItem{}
	for s := range seq {
		items = append(items, slotItem{
			Start: s.Start,
			End:   s.End,
			Label: s.Label,
			Range: s.Start.Label() + " – " + s.End.Label(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, slotsResponse{
		Date:          date,
		DateLabel:     display.RelativeLabel(date, t),
		Duration:      float64(duration),
		DurationLabel: display.FormatDuration(duration),
		Slots:         items,
	})
}

type overlapResponse struct {
	Overlaps bool `json:"overlaps"`
}

// Overlap answers whether [start1, start1+duration1) and [start2, start2+duration2)
// intersect on the same day.
func (h *ScheduleHandler) Overlap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start1, err1 := availability.ParseTimeOfDay(strings.TrimSpace(q.Get("start1")))
	start2, err2 := availability.ParseTimeOfDay(strings.TrimSpace(q.Get("start2")))
	if err1 != nil || err2 != nil {
		http.Error(w, "start1 and start2 must be HH:MM", http.StatusBadRequest)
		return
	}
	d1, err1 := availability.ParseHours(strings.TrimSpace(q.Get("duration1")))
	d2, err2 := availability.ParseHours(strings.TrimSpace(q.Get("duration2")))
	if err1 != nil || err2 != nil || d1 < 0 || d2 < 0 {
		http.Error(w, "duration1 and duration2 must be between 0 and 24 hours", http.StatusBadRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, overlapResponse{Overlaps: availability.Overlaps(start1, d1, start2, d2)})
}

type formatResponse struct {
	Time     string `json:"time,omitempty"`
	Date     string `json:"date,omitempty"`
	Relative string `json:"relative,omitempty"`
	Range    string `json:"range,omitempty"`
}

// Format renders ?time=HH:MM, ?date=YYYY-MM-DD (with ?layout=) and, given both plus
// ?duration=, the slot range. Unparseable values come back as the display sentinels.
func (h *ScheduleHandler) Format(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	layout, ok := display.ParseLayout(q.Get("layout"))
	if !ok {
		http.Error(w, "unknown layout", http.StatusBadRequest)
		return
	}

	var resp formatResponse
	if raw := q.Get("time"); raw != "" {
		resp.Time = display.FormatTime(raw)
		if d, err := availability.ParseHours(strings.TrimSpace(q.Get("duration"))); err == nil && d > 0 {
			resp.Range = display.FormatSlotRange(raw, d)
		}
	}
	if raw := q.Get("date"); raw != "" {
		resp.Date = display.FormatDate(raw, layout)
		resp.Relative = display.RelativeDateLabel(raw, h.today())
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type validationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func newValidationResponse(res validation.Result) validationResponse {
	return validationResponse{Valid: res.Valid, Errors: res.Messages()}
}

// Validate runs the booking checks without submitting anything. The answer is 200
// whether or not the request is valid.
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newValidationResponse(validation.ValidateBooking(req, h.today())))
}
