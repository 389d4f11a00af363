// server/internal/database/archive.go
package database

import (
	"context"
	"fmt"

	"lmis-mock-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventArchive mirrors the event log into a collection. Unlike the
// in-memory log it is not bounded.
type EventArchive struct {
	Collection *mongo.Collection
}

func NewEventArchive(coll *mongo.Collection) *EventArchive {
	return &EventArchive{Collection: coll}
}

// Publish implements eventlog.Sink.
func (a *EventArchive) Publish(ctx context.Context, event models.Event) error {
	if _, err := a.Collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to archive event %s: %w", event.ID, err)
	}
	return nil
}

// Recent returns up to limit archived events for source, newest first.
// An empty source matches all.
func (a *EventArchive) Recent(ctx context.Context, source string, limit int64) ([]models.Event, error) {
	filter := bson.M{}
	if source != "" {
		filter["source"] = source
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := a.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode archived events: %w", err)
	}
	return events, nil
}
