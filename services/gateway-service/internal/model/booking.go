package model

import "time"

// BookingRequest is the booking form as submitted by the web client. Fields keep the
// raw form values so every problem can be reported back per field; nothing downstream
// may use a request that has not passed validation.
type BookingRequest struct {
	CourtType   string  `json:"courtType"`
	CourtNumber int     `json:"courtNumber"`
	Date        string  `json:"date"`
	TimeSlot    string  `json:"timeSlot"`
	Duration    float64 `json:"duration"`
}

// Reservation is a booking as stored by the remote booking API.
type Reservation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	CourtType   string    `json:"courtType"`
	CourtNumber int       `json:"courtNumber"`
	Date        string    `json:"date"`
	TimeSlot    string    `json:"timeSlot"`
	Duration    float64   `json:"duration"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
