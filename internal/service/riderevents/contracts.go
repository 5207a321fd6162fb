package riderevents

import (
	"context"

	"medtrack/internal/domain"
)

// DeliveryPort abstracts the subset of delivery lifecycle operations needed
// by the Processor when handling rider tracking events.
type DeliveryPort interface {
	Start(ctx context.Context, actor domain.Actor, id string) error
	Delivered(ctx context.Context, actor domain.Actor, id string) error
	Fail(ctx context.Context, actor domain.Actor, id string) error
}
