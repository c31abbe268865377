package models

import "time"

// ReservationStatus is the lifecycle state of a reservation record.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is the durable record committed when a dialogue completes or
// created directly through the REST surface. Code is the short alphanumeric
// confirmation read out to callers; ID is the internal document id.
type Reservation struct {
	ID           string            `json:"id" bson:"id"`
	Code         string            `json:"code" bson:"code"`
	CustomerName string            `json:"customerName" bson:"customerName"`
	Contact      string            `json:"contact,omitempty" bson:"contact,omitempty"`
	Date         string            `json:"date" bson:"date"` // YYYY-MM-DD
	Time         string            `json:"time" bson:"time"` // HH:MM, 24-hour
	PartySize    int               `json:"partySize" bson:"partySize"`
	Status       ReservationStatus `json:"status" bson:"status"`
	CreatedAt    time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// StartsAt combines Date and Time into a wall-clock instant in loc.
func (r Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}
