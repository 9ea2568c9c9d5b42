package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

func NewEventRepository(events []event.Event) *EventRepository {
	byKey := make(map[string]event.Event, len(events))
	for _, item := range events {
		byKey[item.Key] = item
	}

	return &EventRepository{events: byKey}
}

func (r *EventRepository) GetByKey(_ context.Context, key string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.events[key]
	return item, ok, nil
}

func (r *EventRepository) ListUpdatedSince(_ context.Context, since time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.events))
	for _, item := range r.events {
		if item.LastUpdated.After(since) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *EventRepository) Insert(_ context.Context, e event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[e.Key]; ok {
		return fmt.Errorf("event %s already exists", e.Key)
	}
	r.events[e.Key] = e
	return nil
}

func (r *EventRepository) Update(_ context.Context, e event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[e.Key]; !ok {
		return fmt.Errorf("event %s not found", e.Key)
	}
	r.events[e.Key] = e
	return nil
}
