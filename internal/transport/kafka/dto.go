package kafka

import (
	"strings"
	"time"

	"medtrack/internal/service/riderevents"
)

// EventDTO is a data transfer object for riderevents.Event
type EventDTO struct {
	DeliveryID string    `json:"delivery_id"`
	RiderID    string    `json:"rider_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to riderevents.Event
func ToDomain(dto EventDTO) riderevents.Event {
	return riderevents.Event{
		DeliveryID: strings.TrimSpace(dto.DeliveryID),
		RiderID:    strings.TrimSpace(dto.RiderID),
		Status:     strings.TrimSpace(dto.Status),
		Location:   strings.TrimSpace(dto.Location),
		OccurredAt: dto.OccurredAt,
	}
}
