package riderevents

import (
	"time"
)

// Event is a single rider tracking event reported from the road.
type Event struct {
	DeliveryID string    `json:"delivery_id"`
	RiderID    string    `json:"rider_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
