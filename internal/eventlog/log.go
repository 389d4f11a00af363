// server/internal/eventlog/log.go
package eventlog

import (
	"context"
	"sync"
	"time"

	"lmis-mock-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxEvents = 100
	DefaultLimit     = 50
)

// Sink receives every appended event. Publish errors are logged and never
// fail the append.
type Sink interface {
	Publish(ctx context.Context, event models.Event) error
}

// Log keeps the most recent events, newest first.
type Log struct {
	mu        sync.RWMutex
	events    []models.Event
	maxEvents int
	sinks     []Sink
	logger    *zap.Logger
	now       func() time.Time
}

func New(maxEvents int, logger *zap.Logger, sinks ...Sink) *Log {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		maxEvents: maxEvents,
		sinks:     sinks,
		logger:    logger,
		now:       time.Now,
	}
}

// Add records an event and fans it out to the sinks.
func (l *Log) Add(ctx context.Context, source, eventType string, payload map[string]any) models.Event {
	if payload == nil {
		payload = map[string]any{}
	}
	event := models.Event{
		ID:        uuid.New().String(),
		Source:    source,
		Type:      eventType,
		Timestamp: l.now().UTC(),
		Payload:   payload,
	}

	l.mu.Lock()
	l.events = append([]models.Event{event}, l.events...)
	if len(l.events) > l.maxEvents {
		l.events = l.events[:l.maxEvents]
	}
	l.mu.Unlock()

	for _, s := range l.sinks {
		if err := s.Publish(ctx, event); err != nil {
			l.logger.Warn("event sink publish failed",
				zap.String("eventId", event.ID), zap.Error(err))
		}
	}
	return event
}

// List filters by source and type (empty means any) and returns at most
// limit events along with the total number of matches.
func (l *Log) List(source, eventType string, limit int) ([]models.Event, int) {
	if limit < 0 {
		limit = 0
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := []models.Event{}
	for _, e := range l.events {
		if source != "" && e.Source != source {
			continue
		}
		if eventType != "" && e.Type != eventType {
			continue
		}
		matched = append(matched, e)
	}
	total := len(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
