package events

import (
	"context"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// Publisher delivers cart events to a downstream bus.
type Publisher interface {
	Publish(ctx context.Context, event models.CartEvent) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.CartEvent) error { return nil }
func (Nop) Close() error                                    { return nil }
