package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// fakeClock is a settable clock shared between a test and the services.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingPublisher keeps every event it was asked to publish.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.CartEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

func price(v float64) *float64 { return &v }
