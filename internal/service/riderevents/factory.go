package riderevents

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onPickedUp, onDelivered, onFailed actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"picked_up":     onPickedUp,
			"en_route":      onPickedUp,
			"delivered":     onDelivered,
			"failed":        onFailed,
			"undeliverable": onFailed,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
