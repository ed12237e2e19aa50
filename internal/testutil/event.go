package testutil

import (
	"context"
	"sync"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps every event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

// NewRecordingPublisher creates an empty recorder.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the events and returns the configured error.
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

// SetError sets the error returned from Publish.
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the recorded event types in publish order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// Count returns how many events of the given type were recorded.
func (p *RecordingPublisher) Count(eventType string) int {
	n := 0
	for _, t := range p.Types() {
		if t == eventType {
			n++
		}
	}
	return n
}
