// Package riderevents applies rider tracking events from the event stream
// to the delivery lifecycle. Events carry statuses reported from the road;
// the processor maps them onto lifecycle transitions and decides which
// failures are worth a redelivery.
package riderevents

import (
	"context"
	"errors"

	"medtrack/internal/apperr"
	"medtrack/internal/domain"
	"medtrack/internal/logx"
)

// Processor processes rider tracking events.
type Processor struct {
	delivery DeliveryPort
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new riderevents.Processor.
func NewProcessor(deliverySvc DeliveryPort, logger logx.Logger) *Processor {
	p := &Processor{
		delivery: deliverySvc,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onPickedUp, p.onDelivered, p.onFailed)
	return p
}

// Handle processes a single tracking Event. A nil return acknowledges the
// event; an error asks the consumer to redeliver it.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if e.DeliveryID == "" {
		p.logger.Warn("tracking event without delivery id dropped",
			logx.String("status", e.Status),
		)
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.logger.Debug("tracking event status ignored",
			logx.String("delivery_id", e.DeliveryID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

// ackStale swallows outcomes that redelivery can never fix: the delivery is
// gone, the transition no longer applies, or the rider does not own it.
func (p *Processor) ackStale(e Event, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrUnauthorized) {
		p.logger.Warn("tracking event dropped",
			logx.String("delivery_id", e.DeliveryID),
			logx.String("status", e.Status),
			logx.Err(err),
		)
		return nil
	}
	return err
}

func (p *Processor) onPickedUp(ctx context.Context, e Event) error {
	actor := domain.Actor{ID: e.RiderID, Role: domain.RoleRider}
	return p.ackStale(e, p.delivery.Start(ctx, actor, e.DeliveryID))
}

func (p *Processor) onDelivered(ctx context.Context, e Event) error {
	actor := domain.Actor{ID: e.RiderID, Role: domain.RoleRider}
	return p.ackStale(e, p.delivery.Delivered(ctx, actor, e.DeliveryID))
}

// onFailed runs as admin: failure reports pass the ingestion layer already
// authenticated, and the lifecycle reserves the failed transition for
// operators.
func (p *Processor) onFailed(ctx context.Context, e Event) error {
	return p.ackStale(e, p.delivery.Fail(ctx, domain.Actor{Role: domain.RoleAdmin}, e.DeliveryID))
}
